package sensor

import "math"

// SimSensor produces a deterministic synthetic signal: a steady baseline
// with a sub-noise-floor wobble, and an optional scripted drop to exercise
// the jump path without hardware. Reads never fail.
//
// Like the hardware sensors it is meant to be read by a single loop.
type SimSensor struct {
	baseline float64
	wobble   float64
	dropAt   int     // sample index of the scripted drop, 0 = disabled
	dropFor  int     // how many samples the drop lasts
	dropTo   float64 // lux during the drop
	reads    int
}

// SimOption applies a configuration option to the SimSensor.
type SimOption func(*SimSensor)

// WithBaseline sets the steady illuminance level in lux.
func WithBaseline(lux float64) SimOption {
	return func(s *SimSensor) {
		if lux >= 0 {
			s.baseline = lux
		}
	}
}

// WithWobble sets the amplitude of the baseline wobble. Keep it below the
// detector's noise floor for a quiet signal.
func WithWobble(amplitude float64) SimOption {
	return func(s *SimSensor) {
		if amplitude >= 0 {
			s.wobble = amplitude
		}
	}
}

// WithDrop schedules a drop to the given level starting at sample index at,
// lasting for the given number of samples.
func WithDrop(at, forSamples int, toLux float64) SimOption {
	return func(s *SimSensor) {
		if at > 0 && forSamples > 0 {
			s.dropAt = at
			s.dropFor = forSamples
			s.dropTo = toLux
		}
	}
}

// NewSimSensor creates a simulator with a 500 lux baseline and a 0.3 lux
// wobble, adjusted by options.
func NewSimSensor(opts ...SimOption) *SimSensor {
	s := &SimSensor{
		baseline: 500.0,
		wobble:   0.3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the simulator.
func (s *SimSensor) Name() string { return "simulated ambient light" }

// ReadLux returns the next synthetic reading.
func (s *SimSensor) ReadLux() (float64, error) {
	i := s.reads
	s.reads++

	if s.dropAt > 0 && i >= s.dropAt && i < s.dropAt+s.dropFor {
		return s.dropTo, nil
	}
	return s.baseline + s.wobble*math.Sin(float64(i)/7.0), nil
}

// Reads reports how many samples have been taken.
func (s *SimSensor) Reads() int { return s.reads }
