package detect

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrInvalidSample marks a non-finite timestamp or value. The sample
	// is rejected without mutating detector state.
	ErrInvalidSample = errors.New("invalid sample")
)
