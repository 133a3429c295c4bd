package common

import (
	"sort"

	"rase/internal/stats"
)

// LessRow defines the output order of snapshot rows: weighted h1
// descending, then isolate name ascending.
func LessRow(a, b stats.Row) bool {
	if a.H1 != b.H1 {
		return a.H1 > b.H1
	}
	return a.Isolate < b.Isolate
}

func SortRows(rows []stats.Row) {
	sort.SliceStable(rows, func(i, j int) bool { return LessRow(rows[i], rows[j]) })
}
