package stats

// Entry is one isolate's cumulative sums.
type Entry struct {
	Isolate string
	Count   float64
	Length  float64
	H1      float64
	C1      float64
}

// Table is an immutable copy of the aggregator state. Entries lists the
// isolates in lexical order followed by the unassigned row.
type Table struct {
	Entries  []Entry
	Totals   Entry // global cumulants over assigned reads
	Counters Counters
}

// Row is an entry with its normalized shares.
type Row struct {
	Isolate    string
	Count      float64
	CountNorm  float64 // Count / assigned reads
	Length     float64
	LengthNorm float64 // Length / cumulative length
	H1         float64
	H1Norm     float64
	C1         float64
	C1Norm     float64
}

// Rows normalizes every entry, in table order. A zero denominator yields a
// zero share ("no data yet" early in a run).
func (t Table) Rows() []Row {
	assigned := float64(t.Counters.AssignedReads)
	out := make([]Row, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = Row{
			Isolate:    e.Isolate,
			Count:      e.Count,
			CountNorm:  ratio(e.Count, assigned),
			Length:     e.Length,
			LengthNorm: ratio(e.Length, t.Totals.Length),
			H1:         e.H1,
			H1Norm:     ratio(e.H1, t.Totals.H1),
			C1:         e.C1,
			C1Norm:     ratio(e.C1, t.Totals.C1),
		}
	}
	return out
}

// Lookup finds an isolate's entry.
func (t Table) Lookup(isolate string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Isolate == isolate {
			return e, true
		}
	}
	return Entry{}, false
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
