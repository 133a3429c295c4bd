package output

// TSVHeader is the canonical header row for snapshot tables.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "taxid\tcount\tcount_norm\tln\tln_norm\th1\th1_norm\tc1\tc1_norm"

// Supported snapshot formats.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
)
