// Package config holds the settings of a benchmark run and loads them from
// .env files and HEATBENCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/heatbench/stencil"
)

// EnvPrefix is the prefix shared by all the environment variables that
// configure a run.
const EnvPrefix = "HEATBENCH_"

// ErrInvalidValue is returned when a setting cannot be parsed.
var ErrInvalidValue = errors.New("config: invalid value")

// Config is everything needed to carry out one benchmark run.
type Config struct {
	Stage       string
	Size        int
	Timesteps   int
	Alpha       float64
	Dx          float64
	OutputDir   string
	Workers     int
	Monitor     bool
	MonitorPort int
	OpenBrowser bool
	RecordPath  string
	Trace       bool
	LogEvery    int
}

// Default returns the configuration of the reference run.
func Default() Config {
	return Config{
		Stage:     stencil.StageBaseline,
		Size:      100,
		Timesteps: 200,
		Alpha:     0.2,
		Dx:        0.01,
		OutputDir: ".",
	}
}

// Params returns the physical and numerical parameters of the run.
func (c Config) Params() stencil.Params {
	return stencil.Params{
		Size:      c.Size,
		Timesteps: c.Timesteps,
		Alpha:     c.Alpha,
		Dx:        c.Dx,
	}
}

// Options returns the solver options of the run.
func (c Config) Options() stencil.Options {
	return stencil.Options{Workers: c.Workers}
}

// Validate checks the configuration without touching the filesystem.
func (c Config) Validate() error {
	err := c.Params().Validate()
	if err != nil {
		return err
	}

	if _, ok := stencil.Lookup(c.Stage); !ok {
		return fmt.Errorf("%w: %q", stencil.ErrUnknownStage, c.Stage)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", stencil.ErrInvalidParameter,
			c.Workers)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("%w: empty output directory", ErrInvalidValue)
	}

	if c.LogEvery < 0 {
		return fmt.Errorf("%w: log interval %d", ErrInvalidValue, c.LogEvery)
	}

	if c.Trace && c.RecordPath == "" {
		return fmt.Errorf("%w: tracing requires a record path",
			ErrInvalidValue)
	}

	return nil
}

// LoadEnv starts from base, applies the variables found in the given .env
// files, and finally the variables of the process environment. Files that do
// not exist are skipped.
func LoadEnv(base Config, files ...string) (Config, error) {
	vars := map[string]string{}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		fileVars, err := godotenv.Read(f)
		if err != nil {
			return base, fmt.Errorf("reading %s: %w", f, err)
		}

		for k, v := range fileVars {
			vars[k] = v
		}
	}

	for _, s := range settings {
		if v, ok := os.LookupEnv(EnvPrefix + s.name); ok {
			vars[EnvPrefix+s.name] = v
		}
	}

	c := base
	for _, s := range settings {
		v, ok := vars[EnvPrefix+s.name]
		if !ok {
			continue
		}

		err := s.apply(&c, v)
		if err != nil {
			return base, fmt.Errorf("%w: %s%s=%q",
				ErrInvalidValue, EnvPrefix, s.name, v)
		}
	}

	return c, nil
}

type setting struct {
	name  string
	apply func(c *Config, v string) error
}

var settings = []setting{
	{"STAGE", stringSetting(func(c *Config) *string { return &c.Stage })},
	{"SIZE", intSetting(func(c *Config) *int { return &c.Size })},
	{"TIMESTEPS", intSetting(func(c *Config) *int { return &c.Timesteps })},
	{"ALPHA", floatSetting(func(c *Config) *float64 { return &c.Alpha })},
	{"DX", floatSetting(func(c *Config) *float64 { return &c.Dx })},
	{"OUTPUT_DIR", stringSetting(func(c *Config) *string { return &c.OutputDir })},
	{"WORKERS", intSetting(func(c *Config) *int { return &c.Workers })},
	{"MONITOR", boolSetting(func(c *Config) *bool { return &c.Monitor })},
	{"MONITOR_PORT", intSetting(func(c *Config) *int { return &c.MonitorPort })},
	{"OPEN_BROWSER", boolSetting(func(c *Config) *bool { return &c.OpenBrowser })},
	{"RECORD", stringSetting(func(c *Config) *string { return &c.RecordPath })},
	{"TRACE", boolSetting(func(c *Config) *bool { return &c.Trace })},
	{"LOG_EVERY", intSetting(func(c *Config) *int { return &c.LogEvery })},
}

func stringSetting(field func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func intSetting(field func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		*field(c) = n

		return nil
	}
}

func floatSetting(field func(c *Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}

		*field(c) = f

		return nil
	}
}

func boolSetting(field func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		*field(c) = b

		return nil
	}
}
