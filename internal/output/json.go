package output

import (
	"io"

	"rase/internal/alignment"
	"rase/internal/jsonutil"
	"rase/internal/window"
	"rase/pkg/api"
)

// ToAPISnapshot converts a snapshot to the stable wire schema (v1).
func ToAPISnapshot(s window.Snapshot) api.SnapshotV1 {
	c := s.Table.Counters
	v := api.SnapshotV1{
		Kind:            string(s.Kind),
		Origin:          s.Origin,
		WindowStart:     s.Start,
		WindowEnd:       s.End,
		Elapsed:         s.Elapsed(),
		ElapsedHM:       alignment.FormatElapsed(s.Elapsed()),
		Reads:           c.Reads(),
		AssignedReads:   c.AssignedReads,
		UnassignedReads: c.UnassignedReads,
		Alignments:      c.Alignments,
		Assignments:     c.Assignments,
	}
	rows := SortedRows(s.Table)
	v.Rows = make([]api.IsolateRowV1, 0, len(rows))
	for _, r := range rows {
		v.Rows = append(v.Rows, api.IsolateRowV1{
			Taxid:     r.Isolate,
			Count:     r.Count,
			CountNorm: r.CountNorm,
			Ln:        r.Length,
			LnNorm:    r.LengthNorm,
			H1:        r.H1,
			H1Norm:    r.H1Norm,
			C1:        r.C1,
			C1Norm:    r.C1Norm,
		})
	}
	return v
}

// WriteJSON writes one snapshot as a pretty-indented JSON object.
func WriteJSON(w io.Writer, s window.Snapshot) error {
	return jsonutil.EncodePretty(w, ToAPISnapshot(s))
}
