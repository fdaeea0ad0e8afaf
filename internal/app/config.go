package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath    string // source file or directory of *.nxs.hcl files
	OverridePath string // optional override document

	StartGroupID int
	Workers      int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	ViewerURL       string
	ViewerNamespace string

	ConfigFile string
}

// Defaults used by the CLI when neither a flag nor the config file sets a value.
const (
	DefaultStartGroupID = 1
	DefaultWorkers      = 4
	DefaultLogFormat    = "json"
	DefaultLogLevel     = "info"
)

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.StartGroupID < 0 {
		return nil, fmt.Errorf("start group id must not be negative, got %d", cfg.StartGroupID)
	}
	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("healthcheck port must not be negative, got %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
