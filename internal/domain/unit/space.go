package unit

import (
	"fmt"
	"sort"
	"strings"
)

// View is the read surface an Action receives over the namespace tree built
// so far. Paths use the unit-name grammar, e.g. "app.util.array".
type View interface {
	// Get returns the value stored at path. Branch paths yield a *Space.
	Get(path string) (any, bool)
}

// Space is a branch of the namespace tree: each entry is either a nested
// *Space or the value produced by an already-initialized unit.
type Space struct {
	children map[string]any
}

// NewSpace returns an empty namespace branch.
func NewSpace() *Space {
	return &Space{children: make(map[string]any)}
}

// Get resolves a dot-separated path from this branch downward.
func (s *Space) Get(path string) (any, bool) {
	cur := any(s)
	for _, seg := range strings.Split(path, ".") {
		branch, ok := cur.(*Space)
		if !ok {
			return nil, false
		}
		cur, ok = branch.children[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Keys returns the immediate child names in lexicographic order.
func (s *Space) Keys() []string {
	keys := make([]string, 0, len(s.children))
	for k := range s.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// set stores the action outcome for name, creating intermediate placeholder
// branches as needed. A parent segment holding a non-branch value fails: a
// produced value cannot be nested under another unit's produced value.
func (s *Space) set(name Name, res Result) error {
	segs := name.Segments()
	cur := s
	for i, seg := range segs[:len(segs)-1] {
		child, ok := cur.children[seg]
		if !ok {
			child = NewSpace()
			cur.children[seg] = child
		}
		branch, ok := child.(*Space)
		if !ok {
			return fmt.Errorf("%w: %q is not a container (placing %q)",
				ErrPathOccupied, strings.Join(segs[:i+1], "."), name)
		}
		cur = branch
	}
	leaf := segs[len(segs)-1]
	if res.produced {
		cur.children[leaf] = res.value
		return nil
	}
	if _, ok := cur.children[leaf]; !ok {
		cur.children[leaf] = NewSpace()
	}
	return nil
}
