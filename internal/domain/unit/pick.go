package unit

import "fmt"

// PickSettings selects declarations to copy into a registry.
type PickSettings struct {
	// Units lists requirement strings expanded against Source. Every match
	// is copied together with its transitive dependency closure.
	Units []string

	// Source is the registry supplying declarations.
	Source *Registry

	// Dependencies are applied after Units, so an injected name overrides a
	// same-named unit pulled in transitively. A string Implementation names
	// a single Source declaration to copy (without its closure) under Name;
	// any other value becomes a zero-dependency unit producing exactly that
	// value.
	Dependencies []PickDependency
}

// PickDependency is one injected dependency in PickSettings.
type PickDependency struct {
	Name           string
	Implementation any
}

// Pick copies declarations into r per settings. Copies reuse the source
// declaration objects rather than deep-copying them. A failed pick leaves r
// untouched: everything is staged and committed only after all settings have
// been applied cleanly.
func (r *Registry) Pick(s PickSettings) error {
	if r.frozen {
		return fmt.Errorf("%w: pick", ErrFrozen)
	}
	if len(s.Units) == 0 && len(s.Dependencies) == 0 {
		return fmt.Errorf("%w: nothing to pick", ErrBadPickSettings)
	}
	if len(s.Units) > 0 && s.Source == nil {
		return fmt.Errorf("%w: units given without a source", ErrMissingSource)
	}

	staged := make(map[string]*Declaration)

	// Closure copy with its own cycle check: the target registry has not
	// been resolved yet, so the resolve-time check cannot cover this walk.
	onPath := make(map[string]bool)
	var copyClosure func(name string) error
	copyClosure = func(name string) error {
		if _, ok := r.units[name]; ok {
			return nil
		}
		if _, ok := staged[name]; ok {
			return nil
		}
		if onPath[name] {
			return fmt.Errorf("%w: %q", ErrRecursiveDependency, name)
		}
		d, ok := s.Source.units[name]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownDependency, name)
		}
		onPath[name] = true
		srcNames := s.Source.Names()
		for _, q := range d.requirements {
			matches, err := q.Expand(srcNames, name)
			if err != nil {
				return fmt.Errorf("unit %q: %w", name, err)
			}
			for _, m := range matches {
				if err := copyClosure(m); err != nil {
					return err
				}
			}
		}
		onPath[name] = false
		staged[name] = d
		return nil
	}

	for _, raw := range s.Units {
		q, err := ParseRequirement(raw)
		if err != nil {
			return fmt.Errorf("units entry %q: %w", raw, err)
		}
		matches, err := q.Expand(s.Source.Names(), "")
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownSourceUnit, raw)
		}
		for _, m := range matches {
			if err := copyClosure(m); err != nil {
				return err
			}
		}
	}

	type injection struct {
		name string
		decl *Declaration
	}
	var injections []injection
	for _, dep := range s.Dependencies {
		n, err := ParseName(dep.Name)
		if err != nil {
			return fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
		switch impl := dep.Implementation.(type) {
		case nil:
			return fmt.Errorf("%w: dependency %q has no implementation", ErrBadPickSettings, dep.Name)
		case string:
			if s.Source == nil {
				return fmt.Errorf("%w: dependency %q copies by name", ErrMissingSource, dep.Name)
			}
			src, ok := s.Source.units[impl]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownSourceUnit, impl)
			}
			injections = append(injections, injection{dep.Name, &Declaration{
				name:         n,
				requirements: src.requirements,
				action:       src.action,
				owner:        r,
			}})
		default:
			v := impl
			injections = append(injections, injection{dep.Name, &Declaration{
				name:   n,
				action: func(View) (Result, error) { return Value(v), nil },
				owner:  r,
			}})
		}
	}

	for name, d := range staged {
		r.units[name] = d
	}
	for _, inj := range injections {
		r.units[inj.name] = inj.decl
	}
	return nil
}
