// Package block groups an alignment stream that is sorted by read into one
// block per read.
package block

import (
	"errors"
	"io"

	"rase/internal/alignment"
)

// Source yields alignment records; *alignment.Reader satisfies it.
type Source interface {
	Next() (alignment.Record, error)
}

// Block is every alignment reported for one read. It owns its Records slice.
type Block struct {
	ReadID    string
	Timestamp int64
	Records   []alignment.Record
}

// Assigned reports whether the block's first record is mapped. Mixed blocks
// are rejected downstream.
func (b Block) Assigned() bool { return len(b.Records) > 0 && b.Records[0].Mapped }

// Len is the number of alignments in the block.
func (b Block) Len() int { return len(b.Records) }

// Grouper emits consecutive records sharing a read id as one Block. It never
// re-sorts: a read id that reappears after a different one starts a new block.
type Grouper struct {
	src Source

	pending alignment.Record
	have    bool
	err     error
}

// NewGrouper wraps src.
func NewGrouper(src Source) *Grouper {
	return &Grouper{src: src}
}

// Next returns the next block, or io.EOF once the source is exhausted.
// A source error is returned once, after the block it interrupted is
// discarded, and then repeated on every later call.
func (g *Grouper) Next() (Block, error) {
	if g.err != nil {
		return Block{}, g.err
	}
	if !g.have {
		rec, err := g.src.Next()
		if err != nil {
			g.err = err
			return Block{}, err
		}
		g.pending, g.have = rec, true
	}

	first := g.pending
	b := Block{ReadID: first.ReadID, Timestamp: first.Timestamp, Records: []alignment.Record{first}}
	g.have = false

	for {
		rec, err := g.src.Next()
		if err != nil {
			g.err = err
			if errors.Is(err, io.EOF) {
				return b, nil
			}
			return Block{}, err
		}
		if rec.ReadID != b.ReadID {
			g.pending, g.have = rec, true
			return b, nil
		}
		b.Records = append(b.Records, rec)
	}
}
