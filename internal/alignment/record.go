// Package alignment turns a SAM/BAM stream of read-to-tree-node alignments
// into normalized assignment records.
package alignment

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one alignment of one read.
type Record struct {
	ReadID    string
	Node      string // reference node name; empty when unmapped
	Mapped    bool
	Length    int // inferred read length, shared by every alignment of the read
	H1        float64
	C1        float64
	Timestamp int64 // acquisition time encoded in ReadID
}

// CorruptStreamError reports an alignment that could not be decoded.
type CorruptStreamError struct {
	Index  int // 0-based position of the alignment in the stream
	ReadID string
	Err    error
}

func (e *CorruptStreamError) Error() string {
	if e.ReadID != "" {
		return fmt.Sprintf("corrupt alignment stream at record %d (read %q): %v", e.Index, e.ReadID, e.Err)
	}
	return fmt.Sprintf("corrupt alignment stream at record %d: %v", e.Index, e.Err)
}

func (e *CorruptStreamError) Unwrap() error { return e.Err }

// ParseTimestamp extracts the numeric prefix before the first '_' of a read
// name (the whole name when there is no '_').
func ParseTimestamp(readID string) (int64, error) {
	prefix, _, _ := strings.Cut(readID, "_")
	ts, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("read name %q has no numeric timestamp prefix", readID)
	}
	return ts, nil
}

// FormatElapsed renders seconds as "XhYm".
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		return "-" + FormatElapsed(-seconds)
	}
	minutes := seconds / 60
	hours := minutes / 60
	minutes -= 60 * hours
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
