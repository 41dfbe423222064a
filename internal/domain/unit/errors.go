package unit

import (
	"errors"
	"fmt"
)

// Broad error kinds. Every failure raised by this package wraps exactly one
// of these, so errors.Is works at the kind level as well as the condition
// level.
var (
	ErrDeclaration = errors.New("unit declaration")
	ErrResolution  = errors.New("unit resolution")
	ErrOptions     = errors.New("pick settings")
)

// Declaration errors.
var (
	ErrInvalidName   = fmt.Errorf("%w: invalid unit name", ErrDeclaration)
	ErrDuplicateUnit = fmt.Errorf("%w: unit already declared", ErrDeclaration)
	ErrNilAction     = fmt.Errorf("%w: nil action", ErrDeclaration)
	ErrFrozen        = fmt.Errorf("%w: registry is frozen", ErrDeclaration)
)

// Resolution errors.
var (
	ErrUnknownDependency   = fmt.Errorf("%w: invalid dependency", ErrResolution)
	ErrRecursiveDependency = fmt.Errorf("%w: recursive dependency", ErrResolution)
	ErrAlreadyInitialized  = fmt.Errorf("%w: registry has already been initialized", ErrResolution)
	ErrPathOccupied        = fmt.Errorf("%w: namespace path occupied", ErrResolution)
)

// Pick errors.
var (
	ErrBadPickSettings   = fmt.Errorf("%w: malformed settings", ErrOptions)
	ErrMissingSource     = fmt.Errorf("%w: source registry required", ErrOptions)
	ErrUnknownSourceUnit = fmt.Errorf("%w: unknown source unit", ErrOptions)
)
