package plutus

import "errors"

var (
	// ErrFormat indicates encoded data does not match any known shape.
	// Format mismatches are never silently defaulted.
	ErrFormat = errors.New("plutus: malformed data")

	// ErrRange indicates an integer field does not fit its target type.
	ErrRange = errors.New("plutus: integer out of range")
)
