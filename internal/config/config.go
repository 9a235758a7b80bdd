// Package config loads the optional .pet.yml project configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".pet.yml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds run settings. Command-line flags override these values.
type Config struct {
	// Paths are scenario files or directories searched for *.pet files.
	Paths []string `yaml:"paths"`
	// Concurrency is how many scenarios may run at once.
	Concurrency int `yaml:"concurrency"`
	// FailFast stops starting scenarios after the first failure.
	FailFast bool `yaml:"fail_fast"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
	// StepTimeout bounds each step's context, e.g. "5s". Zero disables it.
	StepTimeout time.Duration `yaml:"step_timeout"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
	// Quiet suppresses the per-step echo.
	Quiet bool `yaml:"quiet"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Paths:       []string{"."},
		Concurrency: 1,
		Color:       ColorAuto,
	}
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields Default() and no error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.StepTimeout < 0 {
		return fmt.Errorf("step_timeout must not be negative, got %s", c.StepTimeout)
	}
	if len(c.Paths) == 0 {
		return errors.New("paths must not be empty")
	}
	return nil
}
