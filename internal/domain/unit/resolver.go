package unit

import (
	"fmt"
	"strings"
)

// resolution is the cached outcome of a resolve pass: each unit's concrete,
// wildcard-expanded dependency list plus the roots, the units nothing else in
// the registry requires. Roots are the traversal entry points; in an acyclic
// graph every unit is reachable from at least one root.
type resolution struct {
	deps  map[string][]string
	roots []string
}

// resolve expands every declared requirement against the frozen name
// snapshot and walks the graph depth-first with an on-path marker, failing on
// unknown exact dependencies and on any unit reachable from itself. Fully
// resolved units are memoized and never re-expanded.
func (r *Registry) resolve() (*resolution, error) {
	names := r.Names()
	res := &resolution{deps: make(map[string][]string, len(names))}

	dependedOn := make(map[string]bool)
	onPath := make(map[string]bool)
	var trail []string

	var visit func(name string) error
	visit = func(name string) error {
		if _, done := res.deps[name]; done {
			return nil
		}
		if onPath[name] {
			start := 0
			for trail[start] != name {
				start++
			}
			cycle := append(append([]string{}, trail[start:]...), name)
			return fmt.Errorf("%w: %s", ErrRecursiveDependency, strings.Join(cycle, " -> "))
		}
		onPath[name] = true
		trail = append(trail, name)

		var deps []string
		seen := make(map[string]bool)
		for _, q := range r.units[name].requirements {
			matches, err := q.Expand(names, name)
			if err != nil {
				return fmt.Errorf("unit %q: %w", name, err)
			}
			for _, m := range matches {
				if seen[m] {
					continue
				}
				seen[m] = true
				deps = append(deps, m)
			}
		}
		for _, dep := range deps {
			dependedOn[dep] = true
			if err := visit(dep); err != nil {
				return err
			}
		}

		onPath[name] = false
		trail = trail[:len(trail)-1]
		res.deps[name] = deps
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	for _, name := range names {
		if !dependedOn[name] {
			res.roots = append(res.roots, name)
		}
	}
	return res, nil
}
