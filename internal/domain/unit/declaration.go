package unit

import "fmt"

// Action is a unit's one-shot callable. It runs with a read view over the
// namespace tree built so far and reports its outcome as an explicit Result.
type Action func(units View) (Result, error)

// Declaration is the mutable handle returned by Registry.Declare.
// Requirements may be appended until resolution of the owning registry
// begins.
type Declaration struct {
	name         Name
	requirements []Requirement
	action       Action
	owner        *Registry
	err          error
}

// Name returns the declared unit name.
func (d *Declaration) Name() string {
	return string(d.name)
}

// Requirements returns the declared requirement strings in order.
func (d *Declaration) Requirements() []string {
	out := make([]string, len(d.requirements))
	for i, q := range d.requirements {
		out[i] = q.String()
	}
	return out
}

// Require appends dependency requirements and returns the handle for
// chaining. Appending after resolution has begun, or appending a requirement
// that fails the grammar, records a sticky error reported by Err and by the
// owning registry's next resolve.
func (d *Declaration) Require(reqs ...string) *Declaration {
	for _, raw := range reqs {
		if d.owner != nil && d.owner.frozen {
			d.fail(fmt.Errorf("%w: require %q on %q", ErrFrozen, raw, d.name))
			return d
		}
		q, err := ParseRequirement(raw)
		if err != nil {
			d.fail(fmt.Errorf("require %q on %q: %w", raw, d.name, err))
			continue
		}
		d.requirements = append(d.requirements, q)
	}
	return d
}

// Err reports the first misuse recorded on this handle.
func (d *Declaration) Err() error {
	return d.err
}

func (d *Declaration) fail(err error) {
	if d.err == nil {
		d.err = err
	}
	if d.owner != nil {
		d.owner.recordErr(err)
	}
}
