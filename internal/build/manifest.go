package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gumup/gumup/internal/domain/unit"
)

// ManifestEntry declares one unit in a manifest file, for sources that
// carry no annotations of their own.
type ManifestEntry struct {
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Require []string `yaml:"require"`
}

// Manifest is the units.yaml document.
type Manifest struct {
	Units []ManifestEntry `yaml:"units"`
}

// ManifestCache is a UnitCache backed by a manifest file instead of source
// annotations. File paths in the manifest are resolved relative to the
// manifest's directory.
type ManifestCache struct {
	byPath map[string]*Unit
	byName map[string]*Unit
	order  []string // paths in manifest order
}

// LoadManifest reads and validates a units.yaml manifest.
func LoadManifest(path string) (*ManifestCache, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied manifest path
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cache := &ManifestCache{
		byPath: make(map[string]*Unit, len(m.Units)),
		byName: make(map[string]*Unit, len(m.Units)),
	}

	for _, entry := range m.Units {
		if _, err := unit.ParseName(entry.Name); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
		if entry.File == "" {
			return nil, fmt.Errorf("%w: manifest unit %q has no file", unit.ErrDeclaration, entry.Name)
		}
		for _, raw := range entry.Require {
			if _, err := unit.ParseRequirement(raw); err != nil {
				return nil, fmt.Errorf("manifest %s: %w", path, err)
			}
		}
		if _, dup := cache.byName[entry.Name]; dup {
			return nil, fmt.Errorf("%w: %q listed twice in manifest", unit.ErrDuplicateUnit, entry.Name)
		}

		file := entry.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		u := &Unit{
			Name:         entry.Name,
			Dependencies: entry.Require,
			FileName:     file,
		}
		cache.byPath[file] = u
		cache.byName[entry.Name] = u
		cache.order = append(cache.order, file)
	}

	return cache, nil
}

// Paths returns the unit file paths in manifest order.
func (c *ManifestCache) Paths() []string {
	return append([]string(nil), c.order...)
}

// ReadFile returns the manifest unit declared for the file at path.
func (c *ManifestCache) ReadFile(ctx context.Context, path string) (*Unit, error) {
	u, ok := c.byPath[path]
	if !ok {
		return nil, fmt.Errorf("%w in %s: not listed in manifest", ErrNoUnit, path)
	}
	return u, nil
}

// ReadUnit returns the manifest unit with the given name.
func (c *ManifestCache) ReadUnit(ctx context.Context, name string) (*Unit, error) {
	u, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q: not listed in manifest", unit.ErrUnknownDependency, name)
	}
	return u, nil
}
