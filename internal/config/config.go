// Package config defines process configuration and its loading.
//
// Conventions follow the rest of the project: defaults live in New, Load
// layers an optional YAML file and LIGHTLOCK_-prefixed environment
// variables on top, and validation failures wrap this package's sentinel
// errors.
package config

// Config contains all startup tunables. Read-only after Load.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RateHz is the target sampling frequency.
	RateHz float64 `koanf:"rate_hz"`

	// EpsLux is the noise floor: per-step changes below it never enter
	// the derivative window.
	EpsLux float64 `koanf:"eps_lux"`

	// JumpRate is the jump threshold in lux/s, compared against the mean
	// of the derivative window.
	JumpRate float64 `koanf:"jump_rate"`

	// DerivWindow is the capacity of the derivative window.
	DerivWindow int `koanf:"deriv_window"`

	// TriggerOnJump enables the trigger action when a jump is detected.
	TriggerOnJump bool `koanf:"trigger_on_jump"`

	// MaxSeconds bounds the rolling signal history shown by the monitor.
	MaxSeconds float64 `koanf:"max_seconds"`

	// Sensor selects the sensor source: auto, proxy, iio or sim.
	Sensor string `koanf:"sensor"`

	// LockCommand, when non-empty, replaces the D-Bus screen lock with an
	// external command (split on whitespace).
	LockCommand string `koanf:"lock_command"`

	// Record enables the CSV jump log.
	Record bool `koanf:"record"`

	// DataDir overrides the jump log directory (default ~/.lightlock).
	DataDir string `koanf:"data_dir"`

	// MetricsAddr enables the Prometheus endpoint when set, e.g. ":9109".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns a Config populated with defaults. The numeric defaults match
// the tool's original tuning: 25 Hz sampling, 1 lux noise floor, 1 lux/s
// jump threshold, a 6-entry derivative window and a 120 s display window.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		RateHz:      25.0,
		EpsLux:      1.0,
		JumpRate:    1.0,
		DerivWindow: 6,
		MaxSeconds:  120.0,
		Sensor:      "auto",
	}
}
