// Command lightlock samples an ambient-light sensor and detects abrupt
// changes in illuminance, optionally locking the screen when one occurs.
//
// Modes:
//
//	lightlock            run the headless sampling loop
//	lightlock monitor    run the loop under a live TUI
//	lightlock replay     print a recorded day's jump log
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/lightlock/internal/config"
	"github.com/luki/lightlock/internal/detect"
	"github.com/luki/lightlock/internal/monitor"
	"github.com/luki/lightlock/internal/sampler"
	"github.com/luki/lightlock/internal/sensor"
	"github.com/luki/lightlock/internal/store"
	"github.com/luki/lightlock/internal/trigger"
	"github.com/luki/lightlock/pkg/logger"
	"github.com/luki/lightlock/pkg/metrics"
)

// Exit codes.
const (
	exitOK     = 0 // graceful stop or successful trigger dispatch
	exitFailed = 1 // sensor read failure mid-loop
	exitUsage  = 2 // no sensor, bad config, bad arguments
)

const (
	metricsReadHeaderTimeout = 5 * time.Second
	eventBufferSize          = 256
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return exitUsage
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return exitUsage
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "run":
		return runHeadless(ctx, cfg, log)
	case "monitor":
		return runMonitor(ctx, cfg)
	case "replay":
		return runReplay(os.Args[2:], cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\nusage: lightlock [monitor|replay [day]]\n", mode)
		return exitUsage
	}
}

// setup discovers the sensor and assembles the sampling loop. The returned
// store is nil unless recording is enabled.
func setup(ctx context.Context, cfg *config.Config, log logger.Logger, events chan<- sampler.Event) (*sampler.Sampler, sensor.Sensor, *store.DiskStore, error) {
	src, err := sensor.Discover(ctx, cfg.Sensor)
	if err != nil {
		return nil, nil, nil, err
	}

	var action trigger.Action
	if cfg.TriggerOnJump {
		if cmd := trigger.NewCommand(cfg.LockCommand); cmd != nil {
			action = cmd
		} else {
			action = trigger.NewScreenLock()
		}
	}

	var ds *store.DiskStore
	if cfg.Record {
		ds, err = store.New(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	det := detect.New(
		detect.WithEps(cfg.EpsLux),
		detect.WithJumpRate(cfg.JumpRate),
		detect.WithWindowSize(cfg.DerivWindow),
	)

	opts := []sampler.Option{
		sampler.WithRate(cfg.RateHz),
		sampler.WithDetector(det),
		sampler.WithLogger(log.Named("sampler")),
	}
	if action != nil {
		opts = append(opts, sampler.WithTrigger(action))
	}
	if events != nil {
		opts = append(opts, sampler.WithEvents(events))
	}

	return sampler.New(src, opts...), src, ds, nil
}

func startMetrics(ctx context.Context, cfg *config.Config, log logger.Logger) func() {
	if cfg.MetricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Default().Handler())

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()

	return func() { _ = srv.Close() }
}

// recordJumps drains the event stream, appending jump events to the store.
// It runs until the stream closes; with a nil store it just drains.
func recordJumps(ctx context.Context, events <-chan sampler.Event, ds *store.DiskStore, log logger.Logger) {
	for ev := range events {
		if !ev.Jump || ds == nil {
			continue
		}
		if err := ds.Write(store.Event{Time: ev.Time, Lux: ev.Lux, Rate: ev.Rate}); err != nil {
			log.Warn(ctx, "jump log write failed", logger.Error(err))
		}
	}
}

func exitCode(state sampler.State, err error, log logger.Logger) int {
	ctx := context.Background()
	switch state {
	case sampler.Stopped:
		log.Info(ctx, "sampling stopped")
		return exitOK
	case sampler.Triggered:
		log.Info(ctx, "jump trigger dispatched, exiting")
		return exitOK
	case sampler.Failed:
		log.Error(ctx, "sampling failed", logger.Error(err))
		return exitFailed
	default:
		log.Error(ctx, "sampling ended in unexpected state", logger.String("state", state.String()))
		return exitFailed
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, log logger.Logger) int {
	var events chan sampler.Event
	if cfg.Record {
		events = make(chan sampler.Event, eventBufferSize)
	}

	smp, src, ds, err := setup(ctx, cfg, log, events)
	if err != nil {
		log.Error(ctx, "no usable ambient light sensor", logger.Error(err))
		return exitUsage
	}
	log.Info(ctx, "sensor ready",
		logger.String("sensor", src.Name()),
		logger.Float64("rate_hz", cfg.RateHz),
		logger.Bool("trigger_on_jump", cfg.TriggerOnJump),
	)

	stopMetrics := startMetrics(ctx, cfg, log)
	defer stopMetrics()

	done := make(chan struct{})
	if events != nil {
		go func() {
			defer close(done)
			recordJumps(ctx, events, ds, log)
		}()
	} else {
		close(done)
	}

	state, err := smp.Run(ctx)

	if events != nil {
		close(events)
	}
	<-done
	if ds != nil {
		ds.Close()
	}

	return exitCode(state, err, log)
}

func runMonitor(ctx context.Context, cfg *config.Config) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan sampler.Event, eventBufferSize)

	type result struct {
		state sampler.State
		err   error
	}
	results := make(chan result, 1)

	// The sampler logs through the discard logger here: stderr lines would
	// tear the alternate screen. The outcome is reported after the TUI exits.
	quiet := logger.Discard()

	smp, src, ds, err := setup(ctx, cfg, quiet, events)
	if err != nil {
		logger.Get().Error(ctx, "no usable ambient light sensor", logger.Error(err))
		return exitUsage
	}

	stopMetrics := startMetrics(ctx, cfg, quiet)
	defer stopMetrics()

	go func() {
		state, err := smp.Run(ctx)
		results <- result{state: state, err: err}
		close(events)
	}()

	dataDir := ""
	if ds != nil {
		dataDir = ds.Dir()
	}
	model := monitor.New(monitor.Config{
		SensorName: src.Name(),
		RateHz:     cfg.RateHz,
		JumpRate:   cfg.JumpRate,
		MaxSeconds: cfg.MaxSeconds,
		DataDir:    dataDir,
	}, teeJumps(ctx, events, ds))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Get().Error(ctx, "monitor failed", logger.Error(err))
		return exitFailed
	}

	// The user quit the TUI, or the loop ended underneath it. Either way
	// stop the sampler and collect its terminal state.
	cancel()
	res := <-results
	if ds != nil {
		ds.Close()
	}
	return exitCode(res.state, res.err, logger.Get())
}

// teeJumps forwards the event stream to the monitor while appending jump
// events to the store along the way.
func teeJumps(ctx context.Context, in <-chan sampler.Event, ds *store.DiskStore) <-chan sampler.Event {
	if ds == nil {
		return in
	}
	out := make(chan sampler.Event, eventBufferSize)
	go func() {
		defer close(out)
		for ev := range in {
			if ev.Jump {
				if err := ds.Write(store.Event{Time: ev.Time, Lux: ev.Lux, Rate: ev.Rate}); err != nil {
					logger.Get().Warn(ctx, "jump log write failed", logger.Error(err))
				}
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()
	return out
}

func runReplay(args []string, cfg *config.Config) int {
	dir := store.DefaultDir(cfg.DataDir)

	var day string
	if len(args) > 0 {
		day = args[0]
	} else {
		days, err := store.ListDays(dir)
		if err != nil || len(days) == 0 {
			fmt.Fprintln(os.Stderr, "no recorded jump logs found in", dir)
			return exitUsage
		}
		day = days[0]
	}

	events, err := store.LoadFile(filepath.Join(dir, day+".csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load %s: %v\n", day, err)
		return exitUsage
	}

	fmt.Printf("%s: %d jump(s)\n", day, len(events))
	for _, ev := range events {
		fmt.Printf("  %s  %8.1f lx  %9.2f lx/s\n", ev.Time.Format("15:04:05.000"), ev.Lux, ev.Rate)
	}
	return exitOK
}
