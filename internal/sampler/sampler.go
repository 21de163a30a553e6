// Package sampler drives the jump detector at a fixed cadence, reading
// from a sensor and dispatching side effects on each verdict.
package sampler

import (
	"context"
	"time"

	"github.com/luki/lightlock/internal/detect"
	"github.com/luki/lightlock/internal/sensor"
	"github.com/luki/lightlock/internal/trigger"
	"github.com/luki/lightlock/pkg/logger"
	"github.com/luki/lightlock/pkg/metrics"
)

// DefaultRateHz is the default sampling frequency.
const DefaultRateHz = 25.0

// State describes where the sampling loop ended up.
type State int

const (
	// Idle means the loop has not started.
	Idle State = iota
	// Running means the loop is ticking.
	Running
	// Stopped means cancellation was requested. Terminal.
	Stopped
	// Triggered means a jump fired the trigger action. Terminal.
	Triggered
	// Failed means a sensor read failed. Terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Triggered:
		return "triggered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one tick's observable outcome. Every tick publishes one, jump
// or not, so a monitor can draw the whole signal.
type Event struct {
	Time    time.Time // wall clock, for display
	Elapsed float64   // monotonic seconds since the loop started
	Lux     float64
	Jump    bool
	Rate    float64 // smoothed rate, lux/s
	HasRate bool
}

// Sampler owns the sequential sampling loop. One goroutine runs it; the
// detector is never shared.
type Sampler struct {
	sensor   sensor.Sensor
	detector *detect.Detector
	interval time.Duration
	action   trigger.Action
	events   chan<- Event
	log      logger.Logger

	state State
}

// New constructs a Sampler for the given sensor, adjusted by options.
func New(s sensor.Sensor, opts ...Option) *Sampler {
	sm := &Sampler{
		sensor:   s,
		detector: detect.New(),
		interval: time.Duration(float64(time.Second) / DefaultRateHz),
		log:      logger.Discard(),
		state:    Idle,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// State reports the loop's current state.
func (s *Sampler) State() State { return s.state }

// Run executes the sampling loop until a terminal state is reached.
// The returned error is non-nil only for Failed.
//
// The sleep after each tick is a plain fixed delay: the true cadence is
// period plus tick cost. This tool watches a hand passing over a sensor,
// not a control loop, so the drift is accepted.
func (s *Sampler) Run(ctx context.Context) (State, error) {
	epoch := time.Now()

	for {
		// Cancellation is observed at the top of every iteration, before
		// the next sensor read.
		select {
		case <-ctx.Done():
			s.state = Stopped
			return Stopped, nil
		default:
		}

		tickStart := time.Now()

		lux, err := s.sensor.ReadLux()
		if err != nil {
			metrics.RecordSensorReadError()
			s.state = Failed
			return Failed, err
		}
		if s.state == Idle {
			s.state = Running
		}
		elapsed := time.Since(epoch).Seconds()

		verdict, err := s.detector.Update(elapsed, lux)
		if err != nil {
			// Bad sample from the sensor; the detector kept its state, so
			// warn and take the next tick.
			s.log.Warn(ctx, "sample rejected", logger.Error(err), logger.Float64("lux", lux))
		} else {
			metrics.RecordSample(lux)
			if verdict.HasRate {
				metrics.UpdateSmoothedRate(verdict.Rate)
			}

			s.publish(Event{
				Time:    tickStart,
				Elapsed: elapsed,
				Lux:     lux,
				Jump:    verdict.Jump,
				Rate:    verdict.Rate,
				HasRate: verdict.HasRate,
			})

			if verdict.Jump {
				metrics.RecordJump()
				s.log.Info(ctx, "jump detected",
					logger.Float64("t", elapsed),
					logger.Float64("lux", lux),
					logger.Float64("rate", verdict.Rate),
				)

				if s.action != nil {
					if err := s.action.Fire(ctx); err != nil {
						// The jump already happened; a failed action does
						// not keep the loop alive.
						metrics.RecordTriggerError()
						s.log.Error(ctx, "trigger action failed",
							logger.String("action", s.action.Name()),
							logger.Error(err),
						)
					}
					s.state = Triggered
					return Triggered, nil
				}
			}
		}

		metrics.ObserveTickDuration(time.Since(tickStart).Seconds())

		select {
		case <-ctx.Done():
			s.state = Stopped
			return Stopped, nil
		case <-time.After(s.interval):
		}
	}
}

// publish hands the event to the sink without ever delaying the tick.
// A full sink drops the event; the detector's verdict already happened.
func (s *Sampler) publish(ev Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}
