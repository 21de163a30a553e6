package sensor

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeIIODevice(t *testing.T, base, device, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(base, device)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files["name"] = name + "\n"
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
}

func TestIIOScaledInput(t *testing.T) {
	base := t.TempDir()
	writeIIODevice(t, base, "iio:device0", "als", map[string]string{
		"in_illuminance_input": "432.5\n",
	})

	s, err := newIIOSensorAt(base)
	if err != nil {
		t.Fatalf("newIIOSensorAt: %v", err)
	}

	if s.Name() != "iio:device0 (als)" {
		t.Errorf("Name: got %q", s.Name())
	}

	lux, err := s.ReadLux()
	if err != nil {
		t.Fatalf("ReadLux: %v", err)
	}
	if lux != 432.5 {
		t.Errorf("ReadLux: got %f, want 432.5", lux)
	}
}

func TestIIORawWithOffsetAndScale(t *testing.T) {
	base := t.TempDir()
	writeIIODevice(t, base, "iio:device2", "apds9960", map[string]string{
		"in_illuminance_raw":    "1000\n",
		"in_illuminance_offset": "24\n",
		"in_illuminance_scale":  "0.25\n",
	})

	s, err := newIIOSensorAt(base)
	if err != nil {
		t.Fatalf("newIIOSensorAt: %v", err)
	}

	lux, err := s.ReadLux()
	if err != nil {
		t.Fatalf("ReadLux: %v", err)
	}
	want := (1000.0 + 24.0) * 0.25
	if math.Abs(lux-want) > 1e-9 {
		t.Errorf("ReadLux: got %f, want %f", lux, want)
	}
}

func TestIIODeviceWithoutLightChannel(t *testing.T) {
	base := t.TempDir()
	// An accelerometer only; no illuminance channel.
	writeIIODevice(t, base, "iio:device1", "accel_3d", map[string]string{
		"in_accel_x_raw": "12\n",
	})

	if _, err := newIIOSensorAt(base); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIIOReadFailureAfterDiscovery(t *testing.T) {
	base := t.TempDir()
	writeIIODevice(t, base, "iio:device0", "als", map[string]string{
		"in_illuminance_input": "100\n",
	})

	s, err := newIIOSensorAt(base)
	if err != nil {
		t.Fatalf("newIIOSensorAt: %v", err)
	}

	if err := os.Remove(s.valuePath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.ReadLux(); !errors.Is(err, ErrRead) {
		t.Errorf("expected ErrRead, got %v", err)
	}
}

func TestSimSensorIsQuietByDefault(t *testing.T) {
	s := NewSimSensor(WithBaseline(500), WithWobble(0.3))

	prev, err := s.ReadLux()
	if err != nil {
		t.Fatalf("ReadLux: %v", err)
	}
	for i := 0; i < 200; i++ {
		lux, err := s.ReadLux()
		if err != nil {
			t.Fatalf("ReadLux: %v", err)
		}
		if math.Abs(lux-prev) >= 1.0 {
			t.Fatalf("step %d: |%f - %f| exceeds the default noise floor", i, lux, prev)
		}
		prev = lux
	}
	if s.Reads() != 201 {
		t.Errorf("Reads: got %d, want 201", s.Reads())
	}
}

func TestSimSensorScriptedDrop(t *testing.T) {
	s := NewSimSensor(WithBaseline(500), WithDrop(10, 5, 20))

	var values []float64
	for i := 0; i < 20; i++ {
		lux, err := s.ReadLux()
		if err != nil {
			t.Fatalf("ReadLux: %v", err)
		}
		values = append(values, lux)
	}

	for i, lux := range values {
		inDrop := i >= 10 && i < 15
		if inDrop && lux != 20 {
			t.Errorf("sample %d: got %f, want 20 during drop", i, lux)
		}
		if !inDrop && lux < 400 {
			t.Errorf("sample %d: got %f, want near baseline", i, lux)
		}
	}
}

func TestDiscoverUnknownSource(t *testing.T) {
	if _, err := Discover(context.Background(), "sonar"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscoverSim(t *testing.T) {
	s, err := Discover(context.Background(), "sim")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, ok := s.(*SimSensor); !ok {
		t.Errorf("expected *SimSensor, got %T", s)
	}
}
