package build

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gumup/gumup/internal/domain/unit"
)

// ErrNoUnit marks a source file carrying no unit annotation. Such files are
// not units and are skipped by the directory scan.
var ErrNoUnit = errors.New("no unit annotation")

var (
	unitPattern    = regexp.MustCompile(`@unit\s+(\S+)`)
	requirePattern = regexp.MustCompile(`@require\s+(\S+)`)
)

// ParseSource extracts the unit declared in a source file's content.
//
// A file declares its unit with comment annotations:
//
//	// @unit app.util.array
//	// @require app.config
//	// @require app.util.*
//
// Exactly one @unit annotation is expected; @require lines keep their order
// in the file. Returns ErrNoUnit when the file has no @unit annotation.
func ParseSource(path string, content []byte) (*Unit, error) {
	names := unitPattern.FindAllSubmatch(content, -1)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoUnit, path)
	}
	if len(names) > 1 {
		return nil, fmt.Errorf("%w: multiple @unit annotations in %s", unit.ErrDeclaration, path)
	}

	name := string(names[0][1])
	if _, err := unit.ParseName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var deps []string
	for _, m := range requirePattern.FindAllSubmatch(content, -1) {
		raw := string(m[1])
		if _, err := unit.ParseRequirement(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		deps = append(deps, raw)
	}

	return &Unit{
		Name:         name,
		Dependencies: deps,
		FileName:     path,
	}, nil
}
