package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS() *pflag.FlagSet { return NewFlagSet("test") }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	require.NoError(t, err)
	return opts
}

func TestPositionalsAndDefaults(t *testing.T) {
	o := mustParse(t, "tree.nw", "reads.bam", "stats.tsv")
	assert.Equal(t, "tree.nw", o.TreePath)
	assert.Equal(t, "reads.bam", o.AlignPath)
	assert.Equal(t, "stats.tsv", o.StatsPath)
	assert.Equal(t, int64(300), o.Config.Interval)
	assert.Equal(t, int64(60), o.Config.FirstReadDelay)
	assert.Equal(t, "tsv", o.Config.Format)
	assert.Empty(t, o.Config.Template, "no prefix, no per-window files")
}

func TestShortFlags(t *testing.T) {
	o := mustParse(t, "-p", "snaps", "-i", "120", "-f", "0", "-o", "json", "-t", "4", "-q",
		"tree.nw", "-", "-")
	assert.Equal(t, int64(120), o.Config.Interval)
	assert.Equal(t, int64(0), o.Config.FirstReadDelay)
	assert.Equal(t, 4, o.Config.Threads)
	assert.True(t, o.Config.Quiet)
	assert.Equal(t, filepath.Join("snaps", "{end}.json"), o.Config.Template)
}

func TestDebugFlag(t *testing.T) {
	o := mustParse(t, "--debug", "tree.nw", "-", "-")
	assert.True(t, o.Config.Debug)
	assert.False(t, mustParse(t, "tree.nw", "-", "-").Config.Debug)
}

func TestExplicitTemplateWins(t *testing.T) {
	o := mustParse(t, "-p", "snaps", "--template", "x/{elapsed}.tsv.gz", "t", "a", "s")
	assert.Equal(t, "x/{elapsed}.tsv.gz", o.Config.Template)
}

func TestVersionNeedsNoArgs(t *testing.T) {
	o := mustParse(t, "-v")
	assert.True(t, o.Version)
}

func TestErrors(t *testing.T) {
	cases := map[string][]string{
		"too few args":         {"tree.nw", "reads.bam"},
		"too many args":        {"a", "b", "c", "d"},
		"tree on stdin":        {"-", "reads.bam", "stats.tsv"},
		"bad interval":         {"-i", "0", "t", "a", "s"},
		"negative delay":       {"-f", "-5", "t", "a", "s"},
		"bad format":           {"-o", "csv", "t", "a", "s"},
		"negative threads":     {"-t", "-1", "t", "a", "s"},
		"fixed template":       {"--template", "same.tsv", "t", "a", "s"},
		"jsonl with prefix":    {"-o", "jsonl", "-p", "x", "t", "a", "s"},
		"bad log format":       {"--log-format", "xml", "t", "a", "s"},
		"unknown flag":         {"--nope", "t", "a", "s"},
		"missing config file":  {"--config", "/definitely/missing.yaml", "t", "a", "s"},
		"interval not numeric": {"-i", "five", "t", "a", "s"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArgs(newFS(), argv)
			assert.Error(t, err)
		})
	}
}

func TestHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rase.yaml")
	require.NoError(t, os.WriteFile(p, []byte("interval: 600\nthreads: 8\nprefix: fromfile\n"), 0o644))

	o := mustParse(t, "--config", p, "-t", "2", "t", "a", "s")
	assert.Equal(t, int64(600), o.Config.Interval, "file value")
	assert.Equal(t, 2, o.Config.Threads, "explicit flag wins")
	assert.Equal(t, filepath.Join("fromfile", "{end}.tsv"), o.Config.Template)
}
