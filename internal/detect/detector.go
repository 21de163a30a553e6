// Package detect implements jump detection over a stream of illuminance
// samples using a smoothed-derivative threshold test.
//
// The detector is pure and single-writer: it performs no I/O, keeps no
// timing state beyond the last sample, and holds at most one window of
// instantaneous derivatives. Feeding it from more than one goroutine is a
// caller bug.
package detect

import (
	"fmt"
	"math"
)

// Default tuning. The values mirror the tool-wide defaults in config.
const (
	DefaultEps         = 1.0 // lux
	DefaultJumpRate    = 1.0 // lux/s
	DefaultDerivWindow = 6

	// minDT guards the derivative against zero or backward timestamps.
	minDT = 1e-6
)

// Verdict is the outcome of one detector update.
type Verdict struct {
	Jump    bool
	Rate    float64 // mean of the derivative window, lux/s
	HasRate bool    // false until the first qualifying sample
}

// Detector consumes (timestamp, lux) samples one at a time and reports
// whether the current sample constitutes a jump.
//
// A per-step change below the noise floor never enters the derivative
// window. A consequence worth knowing: a slow drift made of many sub-floor
// same-direction steps never accumulates into a jump, however large the
// total change. That matches the tool's intent (suppress drift) and is
// kept deliberately.
type Detector struct {
	eps      float64
	jumpRate float64

	window *derivWindow

	lastT    float64
	lastY    float64
	primed   bool
	lastRate float64
	hasRate  bool
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithEps sets the per-step noise floor in lux.
func WithEps(eps float64) Option {
	return func(d *Detector) {
		if eps >= 0 {
			d.eps = eps
		}
	}
}

// WithJumpRate sets the jump threshold in lux/s.
func WithJumpRate(rate float64) Option {
	return func(d *Detector) {
		if rate > 0 {
			d.jumpRate = rate
		}
	}
}

// WithWindowSize sets the derivative window capacity (minimum 2).
func WithWindowSize(n int) Option {
	return func(d *Detector) {
		if n >= 2 {
			d.window = newDerivWindow(n)
		}
	}
}

// New creates a Detector with default tuning, adjusted by options.
func New(opts ...Option) *Detector {
	d := &Detector{
		eps:      DefaultEps,
		jumpRate: DefaultJumpRate,
		window:   newDerivWindow(DefaultDerivWindow),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Update feeds one sample into the detector. t is a monotonic clock reading
// in seconds, y the illuminance in lux. Timestamps must be non-decreasing;
// a violation is not fatal but yields a clamped, meaningless dt.
//
// Non-finite input leaves the detector untouched and returns ErrInvalidSample.
func (d *Detector) Update(t, y float64) (Verdict, error) {
	if !isFinite(t) || !isFinite(y) {
		return Verdict{}, fmt.Errorf("%w: t=%v y=%v", ErrInvalidSample, t, y)
	}

	if !d.primed {
		d.lastT, d.lastY = t, y
		d.primed = true
		return Verdict{}, nil
	}

	dt := math.Max(minDT, t-d.lastT)
	dy := y - d.lastY
	d.lastT, d.lastY = t, y

	if math.Abs(dy) < d.eps {
		// Below the noise floor: the step is jitter and stays out of the
		// window. The previous rate is reported for diagnostics only.
		return Verdict{Rate: d.lastRate, HasRate: d.hasRate}, nil
	}

	d.window.push(dy / dt)
	rate := d.window.mean()
	d.lastRate = rate
	d.hasRate = true

	return Verdict{
		Jump:    math.Abs(rate) >= d.jumpRate,
		Rate:    rate,
		HasRate: true,
	}, nil
}

// WindowLen reports how many derivatives the window currently holds.
func (d *Detector) WindowLen() int { return len(d.window.vals) }

// Reset discards all state, returning the detector to its initial condition.
func (d *Detector) Reset() {
	d.window.vals = d.window.vals[:0]
	d.primed = false
	d.lastRate = 0
	d.hasRate = false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// derivWindow is a bounded FIFO of instantaneous derivatives.
type derivWindow struct {
	vals []float64
	max  int
}

func newDerivWindow(capacity int) *derivWindow {
	return &derivWindow{
		vals: make([]float64, 0, capacity),
		max:  capacity,
	}
}

func (w *derivWindow) push(v float64) {
	if len(w.vals) >= w.max {
		copy(w.vals, w.vals[1:])
		w.vals[len(w.vals)-1] = v
	} else {
		w.vals = append(w.vals, v)
	}
}

func (w *derivWindow) mean() float64 {
	if len(w.vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.vals {
		sum += v
	}
	return sum / float64(len(w.vals))
}
