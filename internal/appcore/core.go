// Package appcore runs one quantification: tree, alignment stream,
// propagation, windows and snapshot output.
package appcore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"rase/internal/alignment"
	"rase/internal/block"
	"rase/internal/config"
	"rase/internal/diag"
	"rase/internal/logging"
	"rase/internal/metrics"
	"rase/internal/phylo"
	"rase/internal/pipeline"
	"rase/internal/propagate"
	"rase/internal/runutil"
	"rase/internal/stats"
	"rase/internal/window"
	"rase/internal/writers"
)

// Options are the inputs of one run.
type Options struct {
	TreePath  string
	AlignPath string
	StatsPath string
	Config    config.Config
}

// Run executes the run and returns the process exit code. stdout receives
// the final snapshot when StatsPath is "-"; stderr receives the log.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	cfg := o.Config
	log := logging.New(stderr, logging.Options{Format: cfg.LogFormat, Quiet: cfg.Quiet, Debug: cfg.Debug}).
		With("run_id", uuid.NewString())
	defer log.Sync()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		addr, stop, err := m.Serve(ctx, cfg.MetricsAddr)
		if err != nil {
			log.Error("metrics endpoint failed", "addr", cfg.MetricsAddr, "error", err)
			return 3
		}
		defer stop()
		log.Info("serving metrics", "addr", addr)
	}

	err := quantify(ctx, stdout, log, m, o)
	code := diag.Classify(err)
	switch {
	case err == nil:
	case code == diag.CodeCancel:
		log.Warn("run cancelled")
	default:
		m.ObserveError(code)
		log.Error("run failed", "code", code, "error", err)
	}
	return diag.ExitCode(err)
}

func quantify(ctx context.Context, stdout io.Writer, log *logging.Logger, m *metrics.Metrics, o Options) error {
	cfg := o.Config
	began := time.Now()

	tree, err := phylo.LoadFile(o.TreePath)
	if err != nil {
		return err
	}
	log.Info("tree loaded", "path", o.TreePath, "root", tree.Root(), "nodes", tree.Len(), "isolates", tree.NumIsolates())

	rd, err := alignment.Open(o.AlignPath)
	if err != nil {
		return err
	}
	defer rd.Close()

	em, closeOut, err := startEmitter(stdout, o)
	if err != nil {
		return err
	}

	agg := stats.New(tree.Isolates())
	snaps := 0
	sched, err := window.New(cfg.Window(), agg, func(s window.Snapshot) error {
		snaps++
		m.ObserveSnapshot(s)
		if s.Kind == window.KindWindow {
			c := s.Table.Counters
			log.Info(fmt.Sprintf("Time t=%s: %d reads and %d non-propagated (%d propagated) assignments processed",
				alignment.FormatElapsed(s.Elapsed()), c.AssignedReads, c.Alignments, c.Assignments),
				"window_end", s.End)
		}
		return em.Emit(s)
	})
	if err != nil {
		_ = em.Close()
		_ = closeOut()
		return err
	}

	threads := runutil.EffectiveThreads(cfg.Threads)
	log.Debug("pipeline", "threads", threads, "interval", cfg.Interval, "first_read_delay", cfg.FirstReadDelay)
	_, err = pipeline.Run(ctx,
		pipeline.Config{Threads: threads, InFlight: cfg.InFlight},
		block.NewGrouper(rd),
		propagate.New(tree),
		observedSink{Scheduler: sched, m: m},
	)

	werr := em.Close()
	if cerr := closeOut(); werr == nil {
		werr = cerr
	}
	if err != nil {
		return err
	}
	if werr != nil && !writers.IsBrokenPipe(werr) {
		return werr
	}

	c := agg.Counters()
	log.Info("run complete",
		"reads", c.Reads(),
		"assigned", c.AssignedReads,
		"unassigned", c.UnassignedReads,
		"alignments", c.Alignments,
		"assignments", c.Assignments,
		"snapshots", snaps,
		"wall", time.Since(began).Round(time.Millisecond).String(),
	)
	return nil
}

// startEmitter picks the writer for the configured format. closeOut
// releases anything opened here beyond the writer goroutine.
func startEmitter(stdout io.Writer, o Options) (*writers.Emitter, func() error, error) {
	cfg := o.Config
	if cfg.Format == "jsonl" {
		out, err := writers.Create(o.StatsPath, stdout)
		if err != nil {
			return nil, nil, err
		}
		return writers.NewEmitter(writers.StartSnapshotJSONLWriter(out, 4)), out.Close, nil
	}
	em := writers.NewEmitter(writers.StartSnapshotWriter(writers.Options{
		Format:    cfg.Format,
		Template:  cfg.Template,
		StatsPath: o.StatsPath,
		Stdout:    stdout,
	}))
	return em, func() error { return nil }, nil
}

// observedSink counts every read the scheduler accepts.
type observedSink struct {
	*window.Scheduler
	m *metrics.Metrics
}

func (s observedSink) Feed(e propagate.Expansion) error {
	if err := s.Scheduler.Feed(e); err != nil {
		return err
	}
	s.m.ObserveExpansion(e)
	return nil
}

var _ pipeline.Sink = observedSink{}
