package common

import (
	"testing"

	"rase/internal/stats"
)

func TestSortRowsByH1(t *testing.T) {
	rows := []stats.Row{
		{Isolate: "b", H1: 1},
		{Isolate: "c", H1: 7},
		{Isolate: "a", H1: 1}, // tie on h1 → name order fallback
		{Isolate: "_unassigned_"},
	}
	SortRows(rows)
	want := []string{"c", "a", "b", "_unassigned_"}
	for i, w := range want {
		if rows[i].Isolate != w {
			t.Fatalf("row %d: got %q want %q (all: %+v)", i, rows[i].Isolate, w, rows)
		}
	}
}
