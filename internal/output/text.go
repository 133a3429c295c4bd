package output

import (
	"bufio"
	"io"

	"rase/internal/stats"
)

// WriteTSV prints the header and one line per isolate, sorted for output.
func WriteTSV(w io.Writer, t stats.Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(TSVHeader + "\n"); err != nil {
		return err
	}
	for _, r := range SortedRows(t) {
		if _, err := bw.WriteString(FormatRowTSV(r) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
