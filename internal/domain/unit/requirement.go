package unit

import (
	"fmt"
	"strings"
)

type reqKind int

const (
	reqExact reqKind = iota
	reqPrefix
	reqGlobal
)

// Requirement is a single dependency declaration: an exact unit name, a
// prefix wildcard ("app.util.*"), or the global wildcard ("*").
type Requirement struct {
	raw    string
	prefix string // set for prefix wildcards, without the trailing ".*"
	kind   reqKind
}

// ParseRequirement validates s against the requirement grammar.
func ParseRequirement(s string) (Requirement, error) {
	if s == "*" {
		return Requirement{raw: s, kind: reqGlobal}, nil
	}
	if p, ok := strings.CutSuffix(s, ".*"); ok {
		if _, err := ParseName(p); err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidName, s)
		}
		return Requirement{raw: s, prefix: p, kind: reqPrefix}, nil
	}
	if _, err := ParseName(s); err != nil {
		return Requirement{}, err
	}
	return Requirement{raw: s, kind: reqExact}, nil
}

func (q Requirement) String() string {
	return q.raw
}

// Wildcard reports whether q matches by prefix rather than exact name.
func (q Requirement) Wildcard() bool {
	return q.kind != reqExact
}

// Expand resolves q against a snapshot of declared names. The snapshot must
// be in lexicographic order; wildcard matches preserve that order so a
// resolve pass is deterministic regardless of declaration order.
//
// self, when non-empty, is the requiring unit: wildcards never match it, and
// a prefix wildcard never matches the prefix unit itself. An exact
// requirement must name a declared unit; a wildcard matching nothing is a
// legitimate empty result.
func (q Requirement) Expand(names []string, self string) ([]string, error) {
	switch q.kind {
	case reqGlobal:
		out := make([]string, 0, len(names))
		for _, n := range names {
			if n != self {
				out = append(out, n)
			}
		}
		return out, nil
	case reqPrefix:
		var out []string
		for _, n := range names {
			if n != self && strings.HasPrefix(n, q.prefix+".") {
				out = append(out, n)
			}
		}
		return out, nil
	default:
		for _, n := range names {
			if n == q.raw {
				return []string{q.raw}, nil
			}
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownDependency, q.raw)
	}
}
