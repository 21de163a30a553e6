package sensor

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrNotFound means no ambient-light sensor could be discovered.
	// Fatal at startup.
	ErrNotFound = errors.New("no ambient light sensor found")

	// ErrRead marks a failed read from an already discovered sensor.
	// Fatal during the sampling loop.
	ErrRead = errors.New("sensor read failed")
)
