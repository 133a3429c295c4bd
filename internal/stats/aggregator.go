// Package stats accumulates cumulative per-isolate evidence from expanded
// reads and hands out point-in-time copies of it.
package stats

import (
	"fmt"

	"rase/internal/propagate"
)

// Counters are the run-level read and alignment tallies.
type Counters struct {
	AssignedReads   int // blocks with at least one mapped alignment
	UnassignedReads int
	Alignments      int // alignments of assigned reads, before propagation
	Assignments     int // leaf assignments of assigned reads, after propagation
}

// Reads is the number of blocks seen.
func (c Counters) Reads() int { return c.AssignedReads + c.UnassignedReads }

// Aggregator owns the only mutable state of a run. It is not safe for
// concurrent use; callers serialize Update and Snapshot.
type Aggregator struct {
	names  []string // isolates in lexical order, then the unassigned row
	index  map[string]int
	rows   []accum
	global accum // assigned evidence only; the normalization denominators
	counts Counters
}

// New creates an aggregator with one row per isolate plus the unassigned row.
func New(isolates []string) *Aggregator {
	a := &Aggregator{index: make(map[string]int, len(isolates)+1)}
	for _, iso := range isolates {
		if _, dup := a.index[iso]; dup || iso == propagate.Unassigned {
			continue
		}
		a.index[iso] = len(a.names)
		a.names = append(a.names, iso)
	}
	a.index[propagate.Unassigned] = len(a.names)
	a.names = append(a.names, propagate.Unassigned)
	a.rows = make([]accum, len(a.names))
	return a
}

// Update applies one read. The expansion is validated before any sum moves,
// so a rejected read leaves the state untouched.
func (a *Aggregator) Update(e propagate.Expansion) error {
	rows := make([]int, len(e.Contributions))
	for i, c := range e.Contributions {
		idx, ok := a.index[c.Isolate]
		if !ok {
			return fmt.Errorf("read %q: isolate %q is not in the tree", e.ReadID, c.Isolate)
		}
		if e.Assigned == (idx == len(a.rows)-1) {
			return &propagate.InconsistentBlockError{ReadID: e.ReadID, Reason: "assignment status does not match target"}
		}
		rows[i] = idx
	}

	for i, c := range e.Contributions {
		a.rows[rows[i]].add(c.Weight, c.Length, c.H1, c.C1)
		if e.Assigned {
			a.global.add(c.Weight, c.Length, c.H1, c.C1)
		}
	}
	if e.Assigned {
		a.counts.AssignedReads++
		a.counts.Alignments += e.Alignments
		a.counts.Assignments += e.Leaves
	} else {
		a.counts.UnassignedReads++
	}
	return nil
}

// Counters returns the current tallies.
func (a *Aggregator) Counters() Counters { return a.counts }

// Snapshot copies the current sums. Nothing is reset: every table is
// cumulative since the start of the run.
func (a *Aggregator) Snapshot() Table {
	t := Table{
		Entries:  make([]Entry, len(a.names)),
		Totals:   a.global.entry(""),
		Counters: a.counts,
	}
	for i, name := range a.names {
		t.Entries[i] = a.rows[i].entry(name)
	}
	return t
}

func (a accum) entry(name string) Entry {
	return Entry{
		Isolate: name,
		Count:   a.count.value(),
		Length:  a.length.value(),
		H1:      a.h1.value(),
		C1:      a.c1.value(),
	}
}
