// Package config holds the explicit run configuration. Nothing in it is
// global: the app builds one Config per run and passes it down.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"rase/internal/window"
)

// Output formats accepted by Validate.
var formats = map[string]bool{"tsv": true, "json": true, "jsonl": true}

// Config is the full set of run settings. Paths given on the command line
// are not part of it.
type Config struct {
	Interval       int64  `yaml:"interval"`         // window width Δ, seconds
	FirstReadDelay int64  `yaml:"first_read_delay"` // t0 = first read time minus this
	Prefix         string `yaml:"prefix"`           // directory for per-window files
	Template       string `yaml:"template"`         // per-window path; overrides Prefix
	Format         string `yaml:"format"`           // tsv | json | jsonl
	Threads        int    `yaml:"threads"`          // 0 = all CPUs
	InFlight       int    `yaml:"in_flight"`        // 0 = 4 per thread
	LogFormat      string `yaml:"log_format"`       // console | json
	Quiet          bool   `yaml:"quiet"`
	Debug          bool   `yaml:"debug"`
	MetricsAddr    string `yaml:"metrics_addr"` // "" disables the metrics server
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		Interval:       window.DefaultInterval,
		FirstReadDelay: window.DefaultFirstReadDelay,
		Format:         "tsv",
		LogFormat:      "console",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Interval <= 0:
		return fmt.Errorf("interval must be > 0, got %d", c.Interval)
	case c.FirstReadDelay < 0:
		return fmt.Errorf("first_read_delay must be ≥ 0, got %d", c.FirstReadDelay)
	case !formats[c.Format]:
		return fmt.Errorf("unknown format %q (want tsv, json or jsonl)", c.Format)
	case c.Threads < 0:
		return errors.New("threads must be ≥ 0")
	case c.InFlight < 0:
		return errors.New("in_flight must be ≥ 0")
	case c.LogFormat != "console" && c.LogFormat != "json":
		return fmt.Errorf("unknown log format %q (want console or json)", c.LogFormat)
	}
	return nil
}

// Window returns the scheduler geometry.
func (c Config) Window() window.Config {
	return window.Config{Interval: c.Interval, FirstReadDelay: c.FirstReadDelay}
}
