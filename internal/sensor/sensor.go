// Package sensor provides ambient-light sensor discovery and reading.
// It combines iio-sensor-proxy (D-Bus), raw IIO sysfs channels, and a
// deterministic simulator to produce a single usable lux source.
package sensor

import (
	"context"
	"fmt"
)

// Sensor is a synchronous source of illuminance readings.
type Sensor interface {
	// Name identifies the sensor for diagnostics, e.g. "iio:device0 (als)".
	Name() string
	// ReadLux returns the current illuminance in lux.
	ReadLux() (float64, error)
}

// Discover returns a usable sensor for the requested source, or ErrNotFound.
// Source "auto" prefers iio-sensor-proxy and falls back to raw IIO sysfs.
// The simulator is never picked automatically.
func Discover(ctx context.Context, source string) (Sensor, error) {
	switch source {
	case "proxy":
		return NewProxySensor(ctx)
	case "iio":
		return NewIIOSensor()
	case "sim":
		return NewSimSensor(), nil
	case "", "auto":
		if s, err := NewProxySensor(ctx); err == nil {
			return s, nil
		}
		if s, err := NewIIOSensor(); err == nil {
			return s, nil
		}
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrNotFound, source)
	}
}
