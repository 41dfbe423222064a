package unit

import (
	"fmt"
	"sort"
)

// Registry holds named unit declarations. Keys are unique and insertion
// order is irrelevant: resolution is computed against the full snapshot of
// declared names, never against declaration order.
//
// A Registry is single-threaded and not safe for concurrent use. Once Init
// begins, the registry is frozen: further declarations fail, which also
// guards against an action trying to declare new units mid-traversal.
type Registry struct {
	units       map[string]*Declaration
	frozen      bool
	initialized bool
	space       *Space
	err         error
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*Declaration)}
}

// Declare registers a unit under name. The returned handle accepts further
// requirements via Require until resolution begins. Initial requirements may
// be passed directly; an invalid one rejects the whole declaration.
func (r *Registry) Declare(name string, action Action, reqs ...string) (*Declaration, error) {
	if r.frozen {
		return nil, fmt.Errorf("%w: declare %q", ErrFrozen, name)
	}
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, fmt.Errorf("%w: %q", ErrNilAction, name)
	}
	if _, exists := r.units[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateUnit, name)
	}

	d := &Declaration{name: n, action: action, owner: r}
	for _, raw := range reqs {
		q, err := ParseRequirement(raw)
		if err != nil {
			return nil, fmt.Errorf("declare %q: %w", name, err)
		}
		d.requirements = append(d.requirements, q)
	}

	r.units[name] = d
	return d, nil
}

// Lookup returns the declaration for name.
func (r *Registry) Lookup(name string) (*Declaration, bool) {
	d, ok := r.units[name]
	return d, ok
}

// Names returns all declared unit names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.units))
	for n := range r.units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Space returns the namespace tree assembled by Init, or nil before
// initialization.
func (r *Registry) Space() *Space {
	return r.space
}

// Initialized reports whether Init has run to the point of invoking actions.
func (r *Registry) Initialized() bool {
	return r.initialized
}

func (r *Registry) recordErr(err error) {
	if r.err == nil {
		r.err = err
	}
}
