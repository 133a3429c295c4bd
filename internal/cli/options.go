// Package cli registers and validates the rase-quantify command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"rase/internal/config"
	"rase/internal/runutil"
)

// Usage is the positional argument synopsis.
const Usage = "<tree.nw> <assignments.bam> <stats.tsv>"

// Options holds the parsed command line.
type Options struct {
	TreePath   string
	AlignPath  string // SAM/BAM, optionally .gz/.zst; "-" for stdin
	StatsPath  string // final snapshot; "-" for stdout
	ConfigPath string
	Config     config.Config
	Version    bool
}

// NewFlagSet returns a clean FlagSet with ContinueOnError.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}

// Register binds every flag to o, with defaults from config.Default.
func Register(fs *pflag.FlagSet, o *Options) {
	o.Config = config.Default()
	c := &o.Config

	fs.StringVarP(&c.Prefix, "prefix", "p", c.Prefix, "directory for per-window snapshot files")
	fs.Int64VarP(&c.Interval, "interval", "i", c.Interval, "window width in seconds")
	fs.Int64VarP(&c.FirstReadDelay, "first-read-delay", "f", c.FirstReadDelay, "first window opens this many seconds before the first read")
	fs.StringVar(&c.Template, "template", c.Template, "per-window path with {end}, {start} or {elapsed} (default <prefix>/{end}.<format>)")
	fs.StringVarP(&c.Format, "format", "o", c.Format, "snapshot format: tsv | json | jsonl")
	fs.IntVarP(&c.Threads, "threads", "t", c.Threads, "propagation workers (0 = all CPUs, 1 = sequential)")
	fs.IntVar(&c.InFlight, "in-flight", c.InFlight, "max reads between reader and aggregator (0 = 4 per thread)")
	fs.StringVar(&o.ConfigPath, "config", "", "YAML config file; flags given explicitly win")
	fs.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "log warnings and errors only")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log per-run settings and pipeline details")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log encoding: console | json")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve /metrics and /healthz on this address during the run")
	fs.BoolVarP(&o.Version, "version", "v", false, "print version and exit")
}

// overrides copies a flag's value from the parsed command line into the
// file-loaded config.
var overrides = map[string]func(dst *config.Config, flags config.Config){
	"prefix":           func(d *config.Config, f config.Config) { d.Prefix = f.Prefix },
	"interval":         func(d *config.Config, f config.Config) { d.Interval = f.Interval },
	"first-read-delay": func(d *config.Config, f config.Config) { d.FirstReadDelay = f.FirstReadDelay },
	"template":         func(d *config.Config, f config.Config) { d.Template = f.Template },
	"format":           func(d *config.Config, f config.Config) { d.Format = f.Format },
	"threads":          func(d *config.Config, f config.Config) { d.Threads = f.Threads },
	"in-flight":        func(d *config.Config, f config.Config) { d.InFlight = f.InFlight },
	"quiet":            func(d *config.Config, f config.Config) { d.Quiet = f.Quiet },
	"debug":            func(d *config.Config, f config.Config) { d.Debug = f.Debug },
	"log-format":       func(d *config.Config, f config.Config) { d.LogFormat = f.LogFormat },
	"metrics-addr":     func(d *config.Config, f config.Config) { d.MetricsAddr = f.MetricsAddr },
}

// ParseArgs registers, parses and finishes in one call.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	var o Options
	Register(fs, &o)
	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	err := Finish(fs, fs.Args(), &o)
	return o, err
}

// Finish applies the config file, the positional arguments and the
// derived defaults, then validates. fs must already be parsed.
func Finish(fs *pflag.FlagSet, args []string, o *Options) error {
	if o.Version {
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("expected %s, got %d argument(s)", Usage, len(args))
	}
	o.TreePath, o.AlignPath, o.StatsPath = args[0], args[1], args[2]
	if o.TreePath == "-" {
		return errors.New("the tree must be a file, not stdin")
	}

	if o.ConfigPath != "" {
		fileCfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		fs.Visit(func(f *pflag.Flag) {
			if apply, ok := overrides[f.Name]; ok {
				apply(&fileCfg, o.Config)
			}
		})
		o.Config = fileCfg
	}

	c := &o.Config
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Format == "jsonl" {
		if c.Template != "" || c.Prefix != "" {
			return errors.New("jsonl writes every snapshot to the stats path; drop --prefix/--template")
		}
		return nil
	}
	if c.Template == "" && c.Prefix != "" {
		c.Template = runutil.DefaultTemplate(c.Prefix, runutil.FormatExt(c.Format))
	}
	if c.Template != "" && !runutil.HasWindowPlaceholder(c.Template) {
		return fmt.Errorf("--template %q needs {end}, {start} or {elapsed}", c.Template)
	}
	return nil
}
