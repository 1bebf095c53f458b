package generator

import "errors"

// Registration errors abort startup; the others are per request.
var (
	ErrDuplicateLabel       = errors.New("label already registered in category")
	ErrMissingCategory      = errors.New("no category for label")
	ErrInvalidLabels        = errors.New("invalid label specification")
	ErrAmbiguousDescription = errors.New("a single description string needs exactly one label")
	ErrInvalidGenerator     = errors.New("invalid generator")
	ErrFrozen               = errors.New("generator registry is frozen")

	ErrNotFound        = errors.New("plot type not found")
	ErrInvalidTag      = errors.New("invalid plot tag")
	ErrNoCurrentTag    = errors.New("current plot tag not set")
	ErrGeneratorFailed = errors.New("generator failed")

	// ErrNoData is returned by generators when the query matched nothing.
	ErrNoData = errors.New("unable to find requested data")
)
