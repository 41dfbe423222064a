package app

import (
	"context"

	"github.com/gumup/gumup/internal/flags"
	"github.com/gumup/gumup/internal/log"
	"github.com/gumup/gumup/internal/pubsub"
	"github.com/gumup/gumup/internal/watcher"
)

// Watch runs an initial build, then rebuilds whenever the sources change,
// until ctx is cancelled. A failed build logs the error and keeps watching.
func (a *App) Watch(ctx context.Context) error {
	w, err := watcher.New(watcher.Config{
		Dirs:        a.cfg.SourceDirs,
		Extensions:  a.cfg.Extensions,
		DebounceDur: a.cfg.Watch.Debounce,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	if _, err := a.Build(ctx); err != nil {
		log.ErrorErr(log.CatWatch, "initial build failed, watching for fixes", err)
	}

	log.Info(log.CatWatch, "watching for changes", "dirs", a.cfg.SourceDirs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case batch, ok := <-onChange:
			if !ok {
				return nil
			}
			log.Debug(log.CatWatch, "sources changed", "paths", batch)
			a.events.Publish(pubsub.SourceChangedEvent, BuildResult{Files: batch})

			if a.flags.Enabled(flags.FlagWatchFlushCache) {
				a.dirCache.Flush(ctx)
			} else {
				a.dirCache.Evict(ctx, batch...)
			}

			if _, err := a.Build(ctx); err != nil {
				log.ErrorErr(log.CatWatch, "rebuild failed", err)
			}
		}
	}
}
