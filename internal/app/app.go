// Package app wires configuration, the unit cache, the orderer, and the
// watcher into build runs.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gumup/gumup/internal/build"
	"github.com/gumup/gumup/internal/config"
	"github.com/gumup/gumup/internal/flags"
	"github.com/gumup/gumup/internal/log"
	"github.com/gumup/gumup/internal/pubsub"
	"github.com/gumup/gumup/internal/tracing"
)

// BuildResult describes one completed build run. Err carries the failure
// message on BuildFailedEvent payloads and is empty otherwise.
type BuildResult struct {
	RunID    string
	Files    []string
	Output   string
	Duration time.Duration
	Err      string
}

// App orchestrates build runs over the configured sources.
type App struct {
	cfg      config.Config
	flags    *flags.Registry
	provider *tracing.Provider
	dirCache *build.DirCache
	manifest *build.ManifestCache
	source   build.UnitCache
	events   *pubsub.Broker[BuildResult]
}

// New creates an App from validated configuration.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flagRegistry := flags.New(cfg.Flags)

	dirCache := build.NewDirCache(build.DirCacheConfig{
		Dirs:       cfg.SourceDirs,
		Extensions: cfg.Extensions,
		TTL:        cfg.Cache.TTL,
		Disabled:   cfg.Cache.Disabled,
		Strict:     flagRegistry.Enabled(flags.FlagStrictAnnotations),
	})

	var source build.UnitCache = dirCache
	var manifest *build.ManifestCache
	if cfg.Manifest != "" {
		m, err := build.LoadManifest(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		manifest = m
		source = build.NewMultiCache(dirCache, manifest)
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	return &App{
		cfg:      cfg,
		flags:    flagRegistry,
		provider: provider,
		dirCache: dirCache,
		manifest: manifest,
		source:   source,
		events:   pubsub.NewBroker[BuildResult](),
	}, nil
}

// Events exposes the build event broker.
func (a *App) Events() *pubsub.Broker[BuildResult] {
	return a.events
}

// Config returns the configuration the app was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// Close flushes tracing and releases resources.
func (a *App) Close(ctx context.Context) error {
	a.events.Close()
	return a.provider.Shutdown(ctx)
}

// Build scans the sources, resolves the concatenation order, and writes the
// bundle to the configured output path.
func (a *App) Build(ctx context.Context) (*BuildResult, error) {
	runID := uuid.NewString()
	started := time.Now()

	ctx, span := a.provider.Tracer().Start(ctx, tracing.SpanBuild,
		trace.WithAttributes(
			attribute.String(tracing.AttrBuildID, runID),
			attribute.String(tracing.AttrBuildOutput, a.cfg.Output),
		))
	defer span.End()

	log.Info(log.CatBuild, "build started", "runID", runID)
	a.events.Publish(pubsub.BuildStartedEvent, BuildResult{RunID: runID})

	files, err := a.order(ctx, runID)
	if err != nil {
		return nil, a.fail(span, runID, err)
	}

	_, bundleSpan := a.provider.Tracer().Start(ctx, tracing.SpanBundle,
		trace.WithAttributes(attribute.Int(tracing.AttrBuildUnits, len(files))))
	err = a.writeBundle(files)
	bundleSpan.End()
	if err != nil {
		return nil, a.fail(span, runID, err)
	}

	result := &BuildResult{
		RunID:    runID,
		Files:    files,
		Output:   a.cfg.Output,
		Duration: time.Since(started),
	}
	log.Info(log.CatBuild, "build finished",
		"runID", runID, "units", len(files), "output", a.cfg.Output, "took", result.Duration)
	a.events.Publish(pubsub.BuildFinishedEvent, *result)
	return result, nil
}

// Order scans the sources and returns the resolved concatenation order
// without writing the bundle.
func (a *App) Order(ctx context.Context) ([]string, error) {
	runID := uuid.NewString()

	ctx, span := a.provider.Tracer().Start(ctx, tracing.SpanBuild,
		trace.WithAttributes(attribute.String(tracing.AttrBuildID, runID)))
	defer span.End()

	files, err := a.order(ctx, runID)
	if err != nil {
		return nil, a.fail(span, runID, err)
	}
	return files, nil
}

// Units scans the sources and returns the discovered units in add order.
func (a *App) Units(ctx context.Context) ([]*build.Unit, error) {
	orderer, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}
	return orderer.Units(), nil
}

func (a *App) scan(ctx context.Context) (*build.Orderer, error) {
	ctx, span := a.provider.Tracer().Start(ctx, tracing.SpanScan)
	defer span.End()

	paths, err := a.dirCache.Rescan(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int(tracing.AttrScanFiles, len(paths)))

	orderer := build.NewOrderer(a.source)
	for _, path := range paths {
		if err := orderer.Add(ctx, path); err != nil {
			return nil, err
		}
	}
	if a.manifest != nil {
		for _, path := range a.manifest.Paths() {
			if err := orderer.Add(ctx, path); err != nil {
				return nil, err
			}
		}
	}
	return orderer, nil
}

func (a *App) order(ctx context.Context, runID string) ([]string, error) {
	orderer, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := a.provider.Tracer().Start(ctx, tracing.SpanResolve,
		trace.WithAttributes(attribute.Int(tracing.AttrBuildUnits, orderer.Len())))
	defer span.End()

	files, err := orderer.Resolve(ctx)
	if err != nil {
		log.ErrorErr(log.CatBuild, "resolve failed", err, "runID", runID)
		return nil, err
	}
	return files, nil
}

func (a *App) writeBundle(files []string) error {
	if dir := filepath.Dir(a.cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	out, err := os.Create(a.cfg.Output) //nolint:gosec // G304: user supplied output path
	if err != nil {
		return fmt.Errorf("creating bundle: %w", err)
	}
	if err := build.WriteBundle(out, files); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (a *App) fail(span trace.Span, runID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.ErrorErr(log.CatBuild, "build failed", err, "runID", runID)
	a.events.Publish(pubsub.BuildFailedEvent, BuildResult{RunID: runID, Err: err.Error()})
	return err
}
