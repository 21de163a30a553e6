package sampler_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luki/lightlock/internal/detect"
	"github.com/luki/lightlock/internal/sampler"
	"github.com/luki/lightlock/internal/sensor"
	"github.com/luki/lightlock/internal/trigger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSensor yields scripted readings, then repeats the last one.
type fakeSensor struct {
	values []float64
	reads  int32
	err    error
	errAt  int // read index at which err fires, -1 = never
}

func newFakeSensor(values ...float64) *fakeSensor {
	return &fakeSensor{values: values, errAt: -1}
}

func (f *fakeSensor) Name() string { return "fake" }

func (f *fakeSensor) ReadLux() (float64, error) {
	i := int(atomic.AddInt32(&f.reads, 1)) - 1
	if f.err != nil && i >= f.errAt {
		return 0, f.err
	}
	if i >= len(f.values) {
		i = len(f.values) - 1
	}
	return f.values[i], nil
}

// fakeAction counts invocations.
type fakeAction struct {
	fired int32
	err   error
}

func (a *fakeAction) Name() string { return "fake action" }

func (a *fakeAction) Fire(context.Context) error {
	atomic.AddInt32(&a.fired, 1)
	return a.err
}

func TestSamplerCancellation(t *testing.T) {
	Convey("Given a sampler that was cancelled before starting", t, func() {
		events := make(chan sampler.Event, 16)
		s := sampler.New(newFakeSensor(100),
			sampler.WithRate(1000),
			sampler.WithEvents(events),
		)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When the loop runs", func() {
			state, err := s.Run(ctx)

			Convey("Then it stops before any sensor read", func() {
				So(err, ShouldBeNil)
				So(state, ShouldEqual, sampler.Stopped)
				So(s.State(), ShouldEqual, sampler.Stopped)
				So(len(events), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a running sampler on a quiet signal", t, func() {
		s := sampler.New(newFakeSensor(100),
			sampler.WithRate(1000),
		)

		ctx, cancel := context.WithCancel(context.Background())

		Convey("When cancelled mid-run", func() {
			done := make(chan sampler.State, 1)
			go func() {
				state, _ := s.Run(ctx)
				done <- state
			}()

			time.Sleep(20 * time.Millisecond)
			cancel()

			Convey("Then it reaches Stopped promptly", func() {
				select {
				case state := <-done:
					So(state, ShouldEqual, sampler.Stopped)
				case <-time.After(time.Second):
					t.Fatal("sampler did not stop after cancellation")
				}
			})
		})
	})
}

func TestSamplerSensorFailure(t *testing.T) {
	Convey("Given a sensor that fails on the third read", t, func() {
		fs := newFakeSensor(100, 100, 100)
		fs.err = fmt.Errorf("%w: bus gone", sensor.ErrRead)
		fs.errAt = 2

		s := sampler.New(fs, sampler.WithRate(1000))

		Convey("When the loop runs", func() {
			state, err := s.Run(context.Background())

			Convey("Then it fails and surfaces the read error", func() {
				So(state, ShouldEqual, sampler.Failed)
				So(errors.Is(err, sensor.ErrRead), ShouldBeTrue)
			})
		})
	})
}

func TestSamplerTrigger(t *testing.T) {
	Convey("Given a signal with an abrupt drop and a trigger action", t, func() {
		// 500 lux, then lights out. The second sample's derivative is huge.
		fs := newFakeSensor(500, 20)
		action := &fakeAction{}

		s := sampler.New(fs,
			sampler.WithRate(1000),
			sampler.WithTrigger(action),
		)

		Convey("When the loop runs", func() {
			state, err := s.Run(context.Background())

			Convey("Then it triggers once and terminates", func() {
				So(err, ShouldBeNil)
				So(state, ShouldEqual, sampler.Triggered)
				So(atomic.LoadInt32(&action.fired), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a trigger action that fails", t, func() {
		fs := newFakeSensor(500, 20)
		action := &fakeAction{err: fmt.Errorf("%w: no session", trigger.ErrTrigger)}

		s := sampler.New(fs,
			sampler.WithRate(1000),
			sampler.WithTrigger(action),
		)

		Convey("When the loop runs", func() {
			state, err := s.Run(context.Background())

			Convey("Then the loop still terminates as Triggered", func() {
				So(err, ShouldBeNil)
				So(state, ShouldEqual, sampler.Triggered)
				So(atomic.LoadInt32(&action.fired), ShouldEqual, 1)
			})
		})
	})
}

func TestSamplerEventStream(t *testing.T) {
	Convey("Given a sampler publishing events without a trigger", t, func() {
		fs := newFakeSensor(500, 20, 20, 20)
		events := make(chan sampler.Event, 64)

		s := sampler.New(fs,
			sampler.WithRate(1000),
			sampler.WithEvents(events),
			sampler.WithDetector(detect.New()),
		)

		ctx, cancel := context.WithCancel(context.Background())

		Convey("When the loop runs for a while", func() {
			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = s.Run(ctx)
			}()

			time.Sleep(30 * time.Millisecond)
			cancel()
			<-done

			Convey("Then every tick produced an event, in order, with the jump flagged", func() {
				close(events)

				var collected []sampler.Event
				for ev := range events {
					collected = append(collected, ev)
				}

				So(len(collected), ShouldBeGreaterThan, 2)

				prev := -1.0
				jumps := 0
				for _, ev := range collected {
					So(ev.Elapsed, ShouldBeGreaterThanOrEqualTo, prev)
					prev = ev.Elapsed
					if ev.Jump {
						jumps++
					}
				}
				// No hysteresis: the drop keeps the smoothed rate above
				// threshold only while dt stays small, but at least the
				// drop tick itself must have fired.
				So(jumps, ShouldBeGreaterThanOrEqualTo, 1)
				So(collected[1].Jump, ShouldBeTrue)
				So(collected[1].Lux, ShouldEqual, 20.0)
			})
		})
	})
}
