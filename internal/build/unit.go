// Package build orders source-file units for concatenation. Each file
// declares a unit name and its requirements; the orderer produces a file
// list where every unit follows all units it depends on.
package build

import "context"

// Unit is a source-file unit: a named artifact with raw requirement strings
// and the file that holds it.
type Unit struct {
	Name         string
	Dependencies []string
	FileName     string
}

// UnitCache supplies units to the orderer. ReadFile parses the unit declared
// in a source file; ReadUnit looks a unit up by name so requirements on
// units that were never explicitly added can be pulled in.
type UnitCache interface {
	ReadFile(ctx context.Context, path string) (*Unit, error)
	ReadUnit(ctx context.Context, name string) (*Unit, error)
}
