package history

import (
	"testing"
	"time"
)

func TestHistory(t *testing.T) {
	h := NewBuffer(5)

	now := time.Now()
	for i := 0; i < 7; i++ {
		h.Push(Point{Lux: float64(300 + i), Time: now.Add(time.Duration(i) * time.Second)})
	}

	if len(h.Points) != 5 {
		t.Errorf("expected 5 points, got %d", len(h.Points))
	}

	last, ok := h.Last()
	if !ok || last.Lux != 306.0 {
		t.Errorf("Last(): got %v %v, want 306.0", last.Lux, ok)
	}

	if h.Min != 300.0 {
		t.Errorf("Min: got %f, want 300.0", h.Min)
	}

	if h.Peak != 306.0 {
		t.Errorf("Peak: got %f, want 306.0", h.Peak)
	}

	pts := h.LastNPoints(3)
	if len(pts) != 3 {
		t.Errorf("LastNPoints(3): got %d points, want 3", len(pts))
	}
}

func TestJumpCounting(t *testing.T) {
	h := NewBuffer(3)

	now := time.Now()
	h.Push(Point{Lux: 500, Time: now})
	h.Push(Point{Lux: 20, Jump: true, Rate: -1200, Time: now.Add(40 * time.Millisecond)})
	h.Push(Point{Lux: 20, Time: now.Add(80 * time.Millisecond)})
	h.Push(Point{Lux: 480, Jump: true, Rate: 1150, Time: now.Add(120 * time.Millisecond)})

	// The first jump point has been evicted, the counter survives.
	if h.Jumps != 2 {
		t.Errorf("Jumps: got %d, want 2", h.Jumps)
	}
	if len(h.Points) != 3 {
		t.Errorf("expected 3 points, got %d", len(h.Points))
	}
}

func TestAgeTrim(t *testing.T) {
	h := NewWindowBuffer(1000, 10*time.Second)
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)

	for i := 0; i < 30; i++ {
		h.Push(Point{Lux: 100, Time: base.Add(time.Duration(i) * time.Second)})
	}

	// Points older than 10s behind the latest (t=29s) must be gone.
	if len(h.Points) == 0 {
		t.Fatal("buffer empty after trim")
	}
	oldest := h.Points[0].Time
	if base.Add(29 * time.Second).Sub(oldest) > 10*time.Second {
		t.Errorf("oldest point too old: %v", oldest)
	}
	if len(h.Points) != 11 {
		t.Errorf("expected 11 points in the 10s window, got %d", len(h.Points))
	}
}

func TestLastNPoints(t *testing.T) {
	h := NewBuffer(100)
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)

	for i := 0; i < 120; i++ {
		h.Push(Point{Lux: float64(300 + i%10), Time: base.Add(time.Duration(i) * time.Second)})
	}

	pts := h.LastNPoints(5)
	if len(pts) != 5 {
		t.Fatalf("LastNPoints(5): got %d, want 5", len(pts))
	}

	for _, p := range pts {
		if p.Time.IsZero() {
			t.Error("expected non-zero timestamp")
		}
	}

	last := pts[len(pts)-1]
	if last.Time != base.Add(119*time.Second) {
		t.Errorf("last point time: got %v, want %v", last.Time, base.Add(119*time.Second))
	}
}
