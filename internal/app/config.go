package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CircuitPath string // hcl circuit files
	CalibPath   string // yaml calibration table, optional
	Schedule    string // "asap" or "alap"

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config and returns it, or an error describing the
// first invalid field.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CircuitPath == "" {
		return nil, errors.New("CircuitPath is a required configuration field and cannot be empty")
	}
	if cfg.Schedule != "asap" && cfg.Schedule != "alap" {
		return nil, errors.New("Schedule must be 'asap' or 'alap'")
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
