package unit

import (
	"fmt"
	"regexp"
	"strings"
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Name is a dot-separated identifier path, e.g. "app.util.array".
// Each segment names a level in the hierarchical namespace: "app.util" is an
// implicit ancestor container of "app.util.array".
type Name string

// ParseName validates s against the unit-name grammar.
func ParseName(s string) (Name, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for _, seg := range strings.Split(s, ".") {
		if !segmentPattern.MatchString(seg) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
		}
	}
	return Name(s), nil
}

func (n Name) String() string {
	return string(n)
}

// Segments returns the path segments of the name.
func (n Name) Segments() []string {
	return strings.Split(string(n), ".")
}
