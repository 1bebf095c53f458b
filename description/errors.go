package description

import "errors"

var (
	// ErrDuplicateKey is returned by BuildTable when two rows share a (category, label) key.
	ErrDuplicateKey = errors.New("duplicate description key")
	// ErrUnknownPolicy is returned by ParsePolicy for an unrecognised name.
	ErrUnknownPolicy = errors.New("unknown merge policy")
)
