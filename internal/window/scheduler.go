// Package window drives snapshot emission from read acquisition times.
//
// Windows are half-open intervals [start, end) of fixed width. The first
// window opens FirstReadDelay before the first read. A read at or past the
// current end closes that window and every further boundary it skipped, one
// snapshot per boundary, before the read is counted.
package window

import (
	"errors"
	"fmt"

	"rase/internal/propagate"
	"rase/internal/stats"
)

// Defaults, in seconds.
const (
	DefaultInterval       = 300
	DefaultFirstReadDelay = 60
)

// ErrSchedulerClosed is returned for any call after Drain.
var ErrSchedulerClosed = errors.New("window scheduler is drained")

// State of the scheduler.
type State int

const (
	BeforeFirstRead State = iota
	Accumulating
	Drained
)

func (s State) String() string {
	switch s {
	case BeforeFirstRead:
		return "before-first-read"
	case Accumulating:
		return "accumulating"
	case Drained:
		return "drained"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Kind tells window snapshots from the end-of-run summary.
type Kind string

const (
	KindWindow Kind = "window"
	KindFinal  Kind = "final"
)

// Snapshot is a cumulative table labelled with the window it closes.
type Snapshot struct {
	Kind   Kind
	Origin int64 // t0: first read time minus the first-read delay
	Start  int64
	End    int64
	Table  stats.Table
}

// Elapsed is the run time covered by the snapshot, measured from t0.
func (s Snapshot) Elapsed() int64 { return s.End - s.Origin }

// Config holds the window geometry.
type Config struct {
	Interval       int64
	FirstReadDelay int64
}

// DefaultConfig returns the stock 300s windows opened 60s before the first read.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval, FirstReadDelay: DefaultFirstReadDelay}
}

// EmitFunc receives snapshots in order. An error stops the run.
type EmitFunc func(Snapshot) error

// Scheduler owns the current window. It is driven by a single goroutine.
type Scheduler struct {
	cfg  Config
	agg  *stats.Aggregator
	emit EmitFunc

	state  State
	origin int64
	start  int64
	end    int64
}

// New creates a scheduler feeding agg.
func New(cfg Config, agg *stats.Aggregator, emit EmitFunc) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("window interval must be > 0, got %d", cfg.Interval)
	}
	if agg == nil || emit == nil {
		return nil, errors.New("window scheduler needs an aggregator and an emit func")
	}
	return &Scheduler{cfg: cfg, agg: agg, emit: emit}, nil
}

// Feed counts one expanded read, first closing any windows its timestamp
// has passed.
func (s *Scheduler) Feed(e propagate.Expansion) error {
	switch s.state {
	case Drained:
		return ErrSchedulerClosed
	case BeforeFirstRead:
		s.origin = e.Timestamp - s.cfg.FirstReadDelay
		s.start = s.origin
		s.end = s.origin + s.cfg.Interval
		s.state = Accumulating
	}

	if e.Timestamp >= s.end {
		tbl := s.agg.Snapshot()
		for e.Timestamp >= s.end {
			if err := s.emit(s.snapshot(KindWindow, tbl)); err != nil {
				return err
			}
			s.start += s.cfg.Interval
			s.end += s.cfg.Interval
		}
	}
	return s.agg.Update(e)
}

// Drain closes the open window and emits the final snapshot. With no reads
// at all only the final snapshot is emitted.
func (s *Scheduler) Drain() error {
	if s.state == Drained {
		return ErrSchedulerClosed
	}
	prev := s.state
	s.state = Drained

	tbl := s.agg.Snapshot()
	if prev == Accumulating {
		if err := s.emit(s.snapshot(KindWindow, tbl)); err != nil {
			return err
		}
	}
	return s.emit(s.snapshot(KindFinal, tbl))
}

// State reports the current state.
func (s *Scheduler) State() State { return s.state }

// Window returns the current window bounds; zero before the first read.
func (s *Scheduler) Window() (start, end int64) { return s.start, s.end }

// Origin returns t0; zero before the first read.
func (s *Scheduler) Origin() int64 { return s.origin }

func (s *Scheduler) snapshot(kind Kind, tbl stats.Table) Snapshot {
	return Snapshot{Kind: kind, Origin: s.origin, Start: s.start, End: s.end, Table: tbl}
}
