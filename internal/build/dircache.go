package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gumup/gumup/internal/cachemanager"
	"github.com/gumup/gumup/internal/domain/unit"
	"github.com/gumup/gumup/internal/log"
)

// DirCacheConfig configures a DirCache.
type DirCacheConfig struct {
	// Dirs are the source directories to scan, including subdirectories.
	Dirs []string

	// Extensions limits the scan to files with these extensions (with dot).
	Extensions []string

	// TTL is how long parsed units stay cached.
	TTL time.Duration

	// Disabled bypasses the parse cache so every read hits the filesystem.
	Disabled bool

	// Strict fails the scan on malformed annotations instead of skipping
	// the file with a warning.
	Strict bool
}

// DirCache is a UnitCache over a set of source directories. Parsed units are
// served through a read-through TTL cache keyed by file path; a name index
// built by Rescan backs ReadUnit lookups.
type DirCache struct {
	cfg     DirCacheConfig
	manager *cachemanager.InMemoryCacheManager[string, *Unit]
	parsed  *cachemanager.ReadThroughCache[string, *Unit, string]

	mu    sync.Mutex
	index map[string]string // unit name -> file path
}

// NewDirCache creates a DirCache. Call Rescan before ReadUnit.
func NewDirCache(cfg DirCacheConfig) *DirCache {
	manager := cachemanager.NewInMemoryCacheManager[string, *Unit](
		"unit-files", cfg.TTL, cachemanager.DefaultCleanupInterval)

	return &DirCache{
		cfg:     cfg,
		manager: manager,
		parsed: cachemanager.NewReadThroughCache[string, *Unit, string](
			manager, loadUnit, cfg.Disabled),
	}
}

// loadUnit reads and parses the unit declared in the file at path.
func loadUnit(ctx context.Context, path string) (*Unit, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the configured source dirs
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSource(path, data)
}

// ReadFile returns the unit declared in the source file at path. Each read
// re-arms the entry's TTL, so units in active use stay parsed across watch
// rebuilds while idle ones age out.
func (c *DirCache) ReadFile(ctx context.Context, path string) (*Unit, error) {
	return c.parsed.GetWithRefresh(ctx, path, path, c.cfg.TTL)
}

// ReadUnit returns the unit with the given name, located via the scan index.
func (c *DirCache) ReadUnit(ctx context.Context, name string) (*Unit, error) {
	c.mu.Lock()
	path, ok := c.index[name]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w %q: not found in source dirs", unit.ErrUnknownDependency, name)
	}
	return c.ReadFile(ctx, path)
}

// Rescan walks the configured directories and rebuilds the name index.
// Returns the paths of all files declaring a unit, in walk order. Files
// without a unit annotation are skipped; malformed annotations are skipped
// with a warning, or fail the scan when Strict is set.
func (c *DirCache) Rescan(ctx context.Context) ([]string, error) {
	index := make(map[string]string)
	var paths []string

	for _, dir := range c.cfg.Dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !c.wantsExtension(path) {
				return nil
			}

			u, err := c.ReadFile(ctx, path)
			if errors.Is(err, ErrNoUnit) {
				return nil
			}
			if err != nil {
				if c.cfg.Strict {
					return err
				}
				log.Warn(log.CatUnit, "skipping malformed unit file", "path", path, "error", err)
				return nil
			}

			if existing, dup := index[u.Name]; dup {
				return fmt.Errorf("%w: %q declared in both %s and %s",
					unit.ErrDuplicateUnit, u.Name, existing, path)
			}
			index[u.Name] = path
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.index = index
	c.mu.Unlock()

	log.Debug(log.CatUnit, "source scan complete", "units", len(index), "dirs", len(c.cfg.Dirs))
	return paths, nil
}

// Evict drops the cached parse results for the given paths.
func (c *DirCache) Evict(ctx context.Context, paths ...string) {
	_ = c.manager.Delete(ctx, paths...)
}

// Flush drops every cached parse result.
func (c *DirCache) Flush(ctx context.Context) {
	_ = c.manager.Flush(ctx)
}

func (c *DirCache) wantsExtension(path string) bool {
	if len(c.cfg.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range c.cfg.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
