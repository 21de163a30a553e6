package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ds, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ds.Close()

	base := time.Date(2026, 8, 30, 14, 30, 0, 0, time.Local)
	events := []Event{
		{Time: base, Lux: 20.0, Rate: -1250.0},
		{Time: base.Add(40 * time.Millisecond), Lux: 19.5, Rate: -1100.5},
	}

	for _, ev := range events {
		if err := ds.Write(ev); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	ds.Close()

	loaded, err := LoadFile(filepath.Join(dir, "2026-08-30.csv"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 events, got %d", len(loaded))
	}

	if loaded[0].Lux != 20.0 || loaded[0].Rate != -1250.0 {
		t.Errorf("first event: got %+v", loaded[0])
	}
	if loaded[1].Lux != 19.5 || loaded[1].Rate != -1100.5 {
		t.Errorf("second event: got %+v", loaded[1])
	}
}

func TestDiskStoreRotation(t *testing.T) {
	dir := t.TempDir()

	ds, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ds.Close()

	day1 := time.Date(2026, 8, 29, 23, 59, 59, 0, time.Local)
	day2 := time.Date(2026, 8, 30, 0, 0, 1, 0, time.Local)

	if err := ds.Write(Event{Time: day1, Lux: 100, Rate: -5}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := ds.Write(Event{Time: day2, Lux: 90, Rate: -4}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ds.Close()

	days, err := ListDays(dir)
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %v", days)
	}
	if days[0] != "2026-08-30" || days[1] != "2026-08-29" {
		t.Errorf("expected newest first, got %v", days)
	}
}
