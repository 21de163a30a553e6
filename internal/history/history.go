// Package history provides a ring-buffer based illuminance history
// tracker with min/peak/avg statistics and jump-flagged points.
package history

import (
	"math"
	"time"
)

// Point is a single data point in the illuminance history.
type Point struct {
	Lux  float64
	Rate float64 // smoothed rate at this point, lux/s
	Jump bool
	Time time.Time
}

// Buffer stores a ring buffer of recent readings. Besides the capacity
// bound it can trim by age, so a monitor shows at most MaxAge of signal.
type Buffer struct {
	Points []Point
	Max    int           // capacity
	MaxAge time.Duration // 0 = no age trim
	Min    float64
	Peak   float64
	Jumps  int // jumps recorded over the buffer's lifetime
}

// NewBuffer creates a history ring buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		Points: make([]Point, 0, capacity),
		Max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

// NewWindowBuffer creates a buffer that also trims points older than maxAge.
func NewWindowBuffer(capacity int, maxAge time.Duration) *Buffer {
	b := NewBuffer(capacity)
	b.MaxAge = maxAge
	return b
}

// Push adds a reading to the history.
func (b *Buffer) Push(p Point) {
	if len(b.Points) >= b.Max {
		copy(b.Points, b.Points[1:])
		b.Points[len(b.Points)-1] = p
	} else {
		b.Points = append(b.Points, p)
	}

	if b.MaxAge > 0 {
		cutoff := p.Time.Add(-b.MaxAge)
		trim := 0
		for trim < len(b.Points)-1 && b.Points[trim].Time.Before(cutoff) {
			trim++
		}
		if trim > 0 {
			b.Points = append(b.Points[:0], b.Points[trim:]...)
		}
	}

	if p.Lux < b.Min {
		b.Min = p.Lux
	}
	if p.Lux > b.Peak {
		b.Peak = p.Lux
	}
	if p.Jump {
		b.Jumps++
	}
}

// Last returns the most recent point and whether one exists.
func (b *Buffer) Last() (Point, bool) {
	if len(b.Points) == 0 {
		return Point{}, false
	}
	return b.Points[len(b.Points)-1], true
}

// Avg returns the average illuminance across all stored points.
func (b *Buffer) Avg() float64 {
	if len(b.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.Points {
		sum += p.Lux
	}
	return sum / float64(len(b.Points))
}

// LastNPoints returns up to the last n points (with timestamps and flags).
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || len(b.Points) == 0 {
		return nil
	}
	start := len(b.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(b.Points[start:]))
	copy(out, b.Points[start:])
	return out
}
