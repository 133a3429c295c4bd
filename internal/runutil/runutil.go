package runutil

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// EffectiveThreads returns n, or the CPU count when n <= 0.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Template placeholders for per-window snapshot paths.
const (
	PlaceholderEnd     = "{end}"
	PlaceholderStart   = "{start}"
	PlaceholderElapsed = "{elapsed}"
)

// DefaultTemplate names window files by window end under prefix.
func DefaultTemplate(prefix, ext string) string {
	if prefix == "" {
		prefix = "."
	}
	return filepath.Join(prefix, PlaceholderEnd+"."+ext)
}

// ExpandTemplate substitutes window bounds (seconds) into tmpl.
func ExpandTemplate(tmpl string, start, end, elapsed int64) string {
	return strings.NewReplacer(
		PlaceholderEnd, strconv.FormatInt(end, 10),
		PlaceholderStart, strconv.FormatInt(start, 10),
		PlaceholderElapsed, strconv.FormatInt(elapsed, 10),
	).Replace(tmpl)
}

// HasWindowPlaceholder reports whether tmpl varies per window. A template
// without one would overwrite the same file at every boundary.
func HasWindowPlaceholder(tmpl string) bool {
	return strings.Contains(tmpl, PlaceholderEnd) ||
		strings.Contains(tmpl, PlaceholderStart) ||
		strings.Contains(tmpl, PlaceholderElapsed)
}

// FormatExt is the file extension used for a snapshot format.
func FormatExt(format string) string {
	if format == "" {
		return "tsv"
	}
	return format
}
