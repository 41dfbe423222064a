package build

import (
	"context"
	"errors"
	"fmt"

	"github.com/gumup/gumup/internal/domain/unit"
)

// MultiCache layers unit caches: each lookup tries the caches in order and
// returns the first hit. A scan cache layered over a manifest cache lets
// annotated sources and manifest-declared ones coexist in one build.
type MultiCache struct {
	caches []UnitCache
}

// NewMultiCache layers the given caches, earliest first.
func NewMultiCache(caches ...UnitCache) *MultiCache {
	return &MultiCache{caches: caches}
}

// ReadFile returns the unit for path from the first cache that knows it.
func (m *MultiCache) ReadFile(ctx context.Context, path string) (*Unit, error) {
	var lastErr error
	for _, c := range m.caches {
		u, err := c.ReadFile(ctx, path)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrNoUnit) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w in %s", ErrNoUnit, path)
}

// ReadUnit returns the named unit from the first cache that knows it.
func (m *MultiCache) ReadUnit(ctx context.Context, name string) (*Unit, error) {
	var lastErr error
	for _, c := range m.caches {
		u, err := c.ReadUnit(ctx, name)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, unit.ErrUnknownDependency) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w %q", unit.ErrUnknownDependency, name)
}
