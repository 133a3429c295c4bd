package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, int64(300), c.Interval)
	assert.Equal(t, int64(60), c.FirstReadDelay)
	assert.Equal(t, "tsv", c.Format)
}

func TestDecode_OverridesDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader("interval: 120\nformat: json\nthreads: 4\ndebug: true\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(120), c.Interval)
	assert.Equal(t, int64(60), c.FirstReadDelay, "untouched keys keep defaults")
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, 4, c.Threads)
	assert.True(t, c.Debug)
}

func TestDecode_EmptyIsDefault(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("intervall: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intervall")
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rase.yaml")
	require.NoError(t, os.WriteFile(p, []byte("first_read_delay: 0\nlog_format: json\n"), 0o644))
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.FirstReadDelay)
	assert.Equal(t, "json", c.LogFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"interval":  func(c *Config) { c.Interval = 0 },
		"delay":     func(c *Config) { c.FirstReadDelay = -1 },
		"format":    func(c *Config) { c.Format = "csv" },
		"threads":   func(c *Config) { c.Threads = -1 },
		"in_flight": func(c *Config) { c.InFlight = -3 },
		"log":       func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mut(&c)
			assert.Error(t, c.Validate())
		})
	}
}
