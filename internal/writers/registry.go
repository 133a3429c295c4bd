package writers

import (
	"fmt"
	"io"

	"rase/internal/output"
	"rase/internal/window"
)

// TableWriters maps a format to the function rendering one snapshot file.
var TableWriters = map[string]func(w io.Writer, s window.Snapshot) error{}

// RegisterTable adds or replaces a format (last wins).
func RegisterTable(format string, fn func(io.Writer, window.Snapshot) error) {
	TableWriters[format] = fn
}

func init() {
	RegisterTable(output.FormatTSV, func(w io.Writer, s window.Snapshot) error {
		return output.WriteTSV(w, s.Table)
	})
	RegisterTable(output.FormatJSON, output.WriteJSON)
}

// WriteTable renders s in the named format.
func WriteTable(format string, w io.Writer, s window.Snapshot) error {
	fn, ok := TableWriters[format]
	if !ok {
		return fmt.Errorf("unknown snapshot format %q (no writer registered)", format)
	}
	return fn(w, s)
}
