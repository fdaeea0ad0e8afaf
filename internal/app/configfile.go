package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of Config. Unset keys leave the CLI defaults
// alone.
type FileConfig struct {
	Input           *string `yaml:"input"`
	Override        *string `yaml:"override"`
	StartID         *int    `yaml:"start_id"`
	Workers         *int    `yaml:"workers"`
	LogFormat       *string `yaml:"log_format"`
	LogLevel        *string `yaml:"log_level"`
	HealthcheckPort *int    `yaml:"healthcheck_port"`
	ViewerURL       *string `yaml:"viewer_url"`
	ViewerNamespace *string `yaml:"viewer_namespace"`
}

// LoadConfigFile reads a YAML config file. Unknown keys are an error.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// An empty file decodes to io.EOF and sets nothing.
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return &fc, nil
}

// ApplyTo copies the values set in the file onto cfg, skipping every key for
// which explicit reports true. Keys are the CLI flag names.
func (fc *FileConfig) ApplyTo(cfg *Config, explicit func(flag string) bool) {
	if fc == nil {
		return
	}
	setString := func(flag string, src *string, dst *string) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setInt := func(flag string, src *int, dst *int) {
		if src != nil && !explicit(flag) {
			*dst = *src
		}
	}
	setString("input", fc.Input, &cfg.InputPath)
	setString("override", fc.Override, &cfg.OverridePath)
	setInt("start-id", fc.StartID, &cfg.StartGroupID)
	setInt("workers", fc.Workers, &cfg.Workers)
	setString("log-format", fc.LogFormat, &cfg.LogFormat)
	setString("log-level", fc.LogLevel, &cfg.LogLevel)
	setInt("healthcheck-port", fc.HealthcheckPort, &cfg.HealthcheckPort)
	setString("viewer-url", fc.ViewerURL, &cfg.ViewerURL)
	setString("viewer-namespace", fc.ViewerNamespace, &cfg.ViewerNamespace)
}
