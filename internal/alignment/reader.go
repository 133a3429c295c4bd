package alignment

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/biogo/hts/sam"
)

// RecordSource is satisfied by both *sam.Reader and *bam.Reader.
type RecordSource interface {
	Read() (*sam.Record, error)
}

var (
	tagLn = []byte("ln")
	tagH1 = []byte("h1")
	tagC1 = []byte("c1")
)

// Reader is a single-pass iterator over normalized alignment records.
//
// The read length and timestamp are resolved on the first alignment of each
// read and reused for the following alignments with the same name, which
// lets secondary alignments omit their sequence.
type Reader struct {
	src    RecordSource
	closer io.Closer

	n        int
	lastName string
	started  bool
	length   int
	ts       int64
	done     bool
}

// NewReader wraps an already opened record source.
func NewReader(src RecordSource) *Reader {
	return &Reader{src: src}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}
	rec, err := r.src.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			return Record{}, io.EOF
		}
		return Record{}, &CorruptStreamError{Index: r.n, Err: err}
	}
	idx := r.n
	r.n++

	if !r.started || rec.Name != r.lastName {
		ts, err := ParseTimestamp(rec.Name)
		if err != nil {
			return Record{}, &CorruptStreamError{Index: idx, ReadID: rec.Name, Err: err}
		}
		r.started = true
		r.lastName = rec.Name
		r.length = inferLength(rec)
		r.ts = ts
	}

	out := Record{ReadID: rec.Name, Length: r.length, Timestamp: r.ts}
	if rec.Flags&sam.Unmapped != 0 {
		return out, nil
	}
	if rec.Ref == nil {
		return Record{}, &CorruptStreamError{Index: idx, ReadID: rec.Name, Err: errors.New("mapped alignment without a reference")}
	}
	out.Mapped = true
	out.Node = rec.Ref.Name()
	if out.H1, err = auxFloat(rec, tagH1); err != nil {
		return Record{}, &CorruptStreamError{Index: idx, ReadID: rec.Name, Err: err}
	}
	if out.C1, err = auxFloat(rec, tagC1); err != nil {
		return Record{}, &CorruptStreamError{Index: idx, ReadID: rec.Name, Err: err}
	}
	return out, nil
}

// Count is the number of alignments consumed so far.
func (r *Reader) Count() int { return r.n }

// Close releases the underlying file when the reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

// inferLength: ln tag, then sequence length, then CIGAR.
func inferLength(rec *sam.Record) int {
	if aux, ok := rec.Tag(tagLn); ok {
		if v, err := numeric(aux.Value()); err == nil && v >= 0 {
			return int(v)
		}
	}
	if rec.Seq.Length > 0 {
		return rec.Seq.Length
	}
	return cigarReadLength(rec.Cigar)
}

// cigarReadLength counts query-consuming operations plus hard clips.
func cigarReadLength(c sam.Cigar) int {
	n := 0
	for _, op := range c {
		t := op.Type()
		if t.Consumes().Query != 0 || t == sam.CigarHardClipped {
			n += op.Len()
		}
	}
	return n
}

// auxFloat reads a numeric tag; an absent tag reads as 0.
func auxFloat(rec *sam.Record, tag []byte) (float64, error) {
	aux, ok := rec.Tag(tag)
	if !ok {
		return 0, nil
	}
	v, err := numeric(aux.Value())
	if err != nil {
		return 0, fmt.Errorf("tag %s: %w", tag, err)
	}
	return v, nil
}

func numeric(v interface{}) (float64, error) {
	switch x := v.(type) {
	case int8:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("non-numeric value %v (%T)", v, v)
	}
}
