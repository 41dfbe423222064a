package unit

import "fmt"

// Init freezes the registry, resolves the dependency graph, and invokes
// every unit's action exactly once, each strictly after all of its resolved
// dependencies. Produced values are assembled into the registry's namespace
// tree.
//
// Requirement order within a declaration determines visiting order, but the
// only invocation-order guarantee is the partial order "all dependencies
// before their dependent": siblings with no mutual dependency may run in
// either relative order.
//
// Any action error aborts the traversal immediately; there is no partial
// continuation and no retry. A second Init on the same registry fails with
// ErrAlreadyInitialized without re-invoking any action.
func (r *Registry) Init() error {
	if r.initialized {
		return fmt.Errorf("%w", ErrAlreadyInitialized)
	}
	r.frozen = true
	if r.err != nil {
		return r.err
	}
	res, err := r.resolve()
	if err != nil {
		return err
	}
	r.initialized = true
	r.space = NewSpace()

	processed := make(map[string]bool, len(r.units))
	var run func(name string) error
	run = func(name string) error {
		if processed[name] {
			return nil
		}
		for _, dep := range res.deps[name] {
			if err := run(dep); err != nil {
				return err
			}
		}
		d := r.units[name]
		out, err := d.action(r.space)
		if err != nil {
			return fmt.Errorf("unit %q: %w", name, err)
		}
		if err := r.space.set(d.name, out); err != nil {
			return err
		}
		processed[name] = true
		return nil
	}

	for _, root := range res.roots {
		if err := run(root); err != nil {
			return err
		}
	}
	return nil
}
