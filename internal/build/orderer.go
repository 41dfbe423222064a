package build

import (
	"context"
	"fmt"
	"sort"

	"github.com/gumup/gumup/internal/domain/unit"
	"github.com/gumup/gumup/internal/log"
)

// Orderer accumulates units and resolves them into a concatenation order.
// Every added unit is an entry point; units referenced by exact name but
// never added are pulled in through the cache.
type Orderer struct {
	cache UnitCache
	units map[string]*Unit
	order []string // unit names in Add order, pulled-in units appended
}

// NewOrderer creates an orderer backed by the given unit cache.
func NewOrderer(cache UnitCache) *Orderer {
	return &Orderer{
		cache: cache,
		units: make(map[string]*Unit),
	}
}

// Add registers the unit declared in the source file at path.
func (o *Orderer) Add(ctx context.Context, path string) error {
	u, err := o.cache.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	return o.admit(u)
}

// AddUnit registers an already-parsed unit, bypassing the cache. Manifest
// entries come in this way.
func (o *Orderer) AddUnit(u *Unit) error {
	return o.admit(u)
}

func (o *Orderer) admit(u *Unit) error {
	if _, err := unit.ParseName(u.Name); err != nil {
		return err
	}
	if _, exists := o.units[u.Name]; exists {
		return fmt.Errorf("%w: %q", unit.ErrDuplicateUnit, u.Name)
	}
	for _, dep := range u.Dependencies {
		if _, err := unit.ParseRequirement(dep); err != nil {
			return err
		}
	}
	o.units[u.Name] = u
	o.order = append(o.order, u.Name)
	log.Debug(log.CatBuild, "unit added", "name", u.Name, "file", u.FileName)
	return nil
}

// Len returns the number of registered units, pulled-in units included.
func (o *Orderer) Len() int {
	return len(o.units)
}

// Units returns the registered units in Add order.
func (o *Orderer) Units() []*Unit {
	out := make([]*Unit, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.units[name])
	}
	return out
}

// Resolve computes the concatenation order. The returned file names are
// ordered so that every unit follows all units it depends on. Exact
// requirements on units not yet registered are fetched through the cache
// and included transitively; a failed lookup is an invalid dependency.
func (o *Orderer) Resolve(ctx context.Context) ([]string, error) {
	if err := o.pullIn(ctx); err != nil {
		return nil, err
	}

	// Snapshot the full name set once so wildcard expansion is a pure
	// function of it.
	names := make([]string, 0, len(o.units))
	for name := range o.units {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string][]string, len(o.units))
	for _, u := range o.units {
		var concrete []string
		for _, raw := range u.Dependencies {
			req, err := unit.ParseRequirement(raw)
			if err != nil {
				return nil, err
			}
			matched, err := req.Expand(names, u.Name)
			if err != nil {
				return nil, err
			}
			concrete = append(concrete, matched...)
		}
		deps[u.Name] = concrete
	}

	var (
		files  = make([]string, 0, len(o.units))
		done   = make(map[string]bool, len(o.units))
		onPath = make(map[string]bool)
		trail  []string
		visit  func(name string) error
	)
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if onPath[name] {
			return fmt.Errorf("%w: %s", unit.ErrRecursiveDependency, cycleTrail(trail, name))
		}
		onPath[name] = true
		trail = append(trail, name)
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		trail = trail[:len(trail)-1]
		onPath[name] = false
		done[name] = true
		files = append(files, o.units[name].FileName)
		return nil
	}

	for _, name := range o.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// pullIn fetches units referenced by exact requirement but never added.
// Wildcards only ever match registered units, so they take no part here.
func (o *Orderer) pullIn(ctx context.Context) error {
	queue := append([]string(nil), o.order...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, raw := range o.units[name].Dependencies {
			req, err := unit.ParseRequirement(raw)
			if err != nil {
				return err
			}
			if req.Wildcard() {
				continue
			}
			dep := req.String()
			if _, known := o.units[dep]; known {
				continue
			}
			u, err := o.cache.ReadUnit(ctx, dep)
			if err != nil {
				return fmt.Errorf("%w %q: %v", unit.ErrUnknownDependency, dep, err)
			}
			if err := o.admit(u); err != nil {
				return err
			}
			log.Debug(log.CatBuild, "unit pulled in", "name", dep, "requiredBy", name)
			queue = append(queue, dep)
		}
	}
	return nil
}

func cycleTrail(trail []string, name string) string {
	start := 0
	for i, n := range trail {
		if n == name {
			start = i
			break
		}
	}
	out := ""
	for _, n := range trail[start:] {
		out += n + " -> "
	}
	return out + name
}
