// Package propagate spreads a read's node-level assignments over the leaf
// isolates below those nodes.
package propagate

import (
	"fmt"

	"rase/internal/block"
	"rase/internal/phylo"
)

// Unassigned is the pseudo-isolate that collects reads with no alignment.
const Unassigned = phylo.ReservedName

// Contribution is one leaf's share of a read. Length, H1 and C1 are already
// multiplied by Weight.
type Contribution struct {
	Isolate string
	Weight  float64
	Length  float64
	H1      float64
	C1      float64
}

// Expansion is the leaf-level view of one block. For an assigned block the
// contribution weights sum to one read.
type Expansion struct {
	ReadID        string
	Timestamp     int64
	Assigned      bool
	Alignments    int // records in the block
	Leaves        int // L: sum of descendant-set sizes over the records
	Contributions []Contribution
}

// InconsistentBlockError reports a read that is neither wholly assigned nor
// a single unassigned record.
type InconsistentBlockError struct {
	ReadID string
	Reason string
}

func (e *InconsistentBlockError) Error() string {
	return fmt.Sprintf("inconsistent assignments for read %q: %s", e.ReadID, e.Reason)
}

// Propagator is stateless apart from the shared read-only tree, so one value
// may be used from several goroutines.
type Propagator struct {
	tree *phylo.Index
}

// New binds a propagator to tree.
func New(tree *phylo.Index) *Propagator {
	return &Propagator{tree: tree}
}

// Expand converts b into leaf contributions.
func (p *Propagator) Expand(b block.Block) (Expansion, error) {
	e := Expansion{ReadID: b.ReadID, Timestamp: b.Timestamp, Alignments: len(b.Records)}
	if len(b.Records) == 0 {
		return e, &InconsistentBlockError{ReadID: b.ReadID, Reason: "empty block"}
	}

	mapped := 0
	for _, r := range b.Records {
		if r.Mapped {
			mapped++
		}
	}
	switch {
	case mapped == 0:
		if len(b.Records) != 1 {
			return e, &InconsistentBlockError{ReadID: b.ReadID, Reason: fmt.Sprintf("reported unassigned %d times", len(b.Records))}
		}
		e.Leaves = 1
		e.Contributions = []Contribution{{
			Isolate: Unassigned,
			Weight:  1,
			Length:  float64(b.Records[0].Length),
		}}
		return e, nil
	case mapped != len(b.Records):
		return e, &InconsistentBlockError{ReadID: b.ReadID, Reason: fmt.Sprintf("%d of %d alignments are unmapped", len(b.Records)-mapped, len(b.Records))}
	}

	e.Assigned = true
	leaves := make([][]string, len(b.Records))
	for i, r := range b.Records {
		set, err := p.tree.DescendantLeaves(r.Node)
		if err != nil {
			return Expansion{}, fmt.Errorf("read %q: %w", b.ReadID, err)
		}
		leaves[i] = set
		e.Leaves += len(set)
	}

	l := float64(e.Leaves)
	e.Contributions = make([]Contribution, 0, e.Leaves)
	for i, r := range b.Records {
		c := Contribution{
			Weight: 1 / l,
			Length: float64(r.Length) / l,
			H1:     r.H1 / l,
			C1:     r.C1 / l,
		}
		for _, iso := range leaves[i] {
			c.Isolate = iso
			e.Contributions = append(e.Contributions, c)
		}
	}
	return e, nil
}
