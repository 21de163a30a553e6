package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultIIOBase = "/sys/bus/iio/devices"

// Channel files checked per device, in preference order. The _input
// variants are already scaled to lux by the kernel; the _raw variants
// need offset and scale applied.
var illuminanceChannels = []struct {
	file string
	raw  bool
}{
	{"in_illuminance_input", false},
	{"in_illuminance0_input", false},
	{"in_illuminance_raw", true},
	{"in_illuminance0_raw", true},
}

// IIOSensor reads illuminance from a raw IIO sysfs device.
type IIOSensor struct {
	name      string
	device    string
	valuePath string
	raw       bool
	offset    float64
	scale     float64
}

// NewIIOSensor scans /sys/bus/iio/devices for a light sensor.
func NewIIOSensor() (*IIOSensor, error) {
	return newIIOSensorAt(defaultIIOBase)
}

func newIIOSensorAt(base string) (*IIOSensor, error) {
	matches, _ := filepath.Glob(filepath.Join(base, "iio:device*", "name"))

	for _, namePath := range matches {
		dir := filepath.Dir(namePath)
		nameBytes, err := os.ReadFile(namePath)
		if err != nil {
			continue
		}
		name := strings.TrimSpace(string(nameBytes))

		for _, ch := range illuminanceChannels {
			valuePath := filepath.Join(dir, ch.file)
			if _, err := os.Stat(valuePath); err != nil {
				continue
			}

			s := &IIOSensor{
				name:      name,
				device:    filepath.Base(dir),
				valuePath: valuePath,
				raw:       ch.raw,
				scale:     1.0,
			}
			if ch.raw {
				s.offset = readSysfsFloat(filepath.Join(dir, "in_illuminance_offset"), 0)
				s.scale = readSysfsFloat(filepath.Join(dir, "in_illuminance_scale"), 1.0)
			}
			return s, nil
		}
	}

	return nil, ErrNotFound
}

// Name identifies the device, e.g. "iio:device0 (als)".
func (s *IIOSensor) Name() string {
	return fmt.Sprintf("%s (%s)", s.device, s.name)
}

// ReadLux reads the current illuminance from sysfs.
func (s *IIOSensor) ReadLux() (float64, error) {
	data, err := os.ReadFile(s.valuePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrRead, s.valuePath, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrRead, s.valuePath, err)
	}
	if s.raw {
		v = (v + s.offset) * s.scale
	}
	return v, nil
}

func readSysfsFloat(path string, fallback float64) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return fallback
	}
	return v
}
