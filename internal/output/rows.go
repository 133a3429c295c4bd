package output

import (
	"strconv"
	"strings"

	"rase/internal/common"
	"rase/internal/stats"
)

// Float renders v in its shortest round-trip decimal form, never in
// exponent notation, so identical sums always print identically.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SortedRows normalizes a table and orders it for output.
func SortedRows(t stats.Table) []stats.Row {
	rows := t.Rows()
	common.SortRows(rows)
	return rows
}

// FormatRowTSV returns the nine columns of one row (no trailing newline).
func FormatRowTSV(r stats.Row) string {
	var b strings.Builder
	b.WriteString(r.Isolate)
	for _, v := range [...]float64{r.Count, r.CountNorm, r.Length, r.LengthNorm, r.H1, r.H1Norm, r.C1, r.C1Norm} {
		b.WriteByte('\t')
		b.WriteString(Float(v))
	}
	return b.String()
}
