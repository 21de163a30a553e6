package sampler

import (
	"time"

	"github.com/luki/lightlock/internal/detect"
	"github.com/luki/lightlock/internal/trigger"
	"github.com/luki/lightlock/pkg/logger"
)

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithRate sets the target sampling frequency in Hz.
func WithRate(hz float64) Option {
	return func(s *Sampler) {
		if hz > 0 {
			s.interval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// WithDetector replaces the default detector.
func WithDetector(d *detect.Detector) Option {
	return func(s *Sampler) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithTrigger sets the action fired on a jump. A nil action means jumps
// are only reported, never acted on, and the loop keeps running.
func WithTrigger(a trigger.Action) Option {
	return func(s *Sampler) {
		s.action = a
	}
}

// WithEvents sets the event sink. The channel should be buffered; a full
// sink drops events rather than delaying ticks.
func WithEvents(ch chan<- Event) Option {
	return func(s *Sampler) {
		s.events = ch
	}
}

// WithLogger sets a custom logger for the sampler.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}
