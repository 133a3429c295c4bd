// Package api holds the stable wire schema of emitted snapshots.
package api

// SnapshotV1 is the stable JSON schema for one emitted snapshot.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SnapshotV1 struct {
	Kind            string         `json:"kind"` // "window" | "final"
	Origin          int64          `json:"origin"`
	WindowStart     int64          `json:"window_start"`
	WindowEnd       int64          `json:"window_end"`
	Elapsed         int64          `json:"elapsed"` // seconds since origin
	ElapsedHM       string         `json:"elapsed_hm"`
	Reads           int            `json:"reads"`
	AssignedReads   int            `json:"assigned_reads"`
	UnassignedReads int            `json:"unassigned_reads"`
	Alignments      int            `json:"alignments"`
	Assignments     int            `json:"assignments"`
	Rows            []IsolateRowV1 `json:"rows"`
}

// IsolateRowV1 mirrors one TSV row.
type IsolateRowV1 struct {
	Taxid     string  `json:"taxid"`
	Count     float64 `json:"count"`
	CountNorm float64 `json:"count_norm"`
	Ln        float64 `json:"ln"`
	LnNorm    float64 `json:"ln_norm"`
	H1        float64 `json:"h1"`
	H1Norm    float64 `json:"h1_norm"`
	C1        float64 `json:"c1"`
	C1Norm    float64 `json:"c1_norm"`
}
