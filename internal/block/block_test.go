package block

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rase/internal/alignment"
)

type sliceSource struct {
	recs []alignment.Record
	err  error // returned after recs are exhausted (io.EOF when nil)
	i    int
}

func (s *sliceSource) Next() (alignment.Record, error) {
	if s.i >= len(s.recs) {
		if s.err != nil {
			return alignment.Record{}, s.err
		}
		return alignment.Record{}, io.EOF
	}
	r := s.recs[s.i]
	s.i++
	return r, nil
}

func rec(id string, node string) alignment.Record {
	return alignment.Record{ReadID: id, Node: node, Mapped: node != ""}
}

func collect(t *testing.T, g *Grouper) []Block {
	t.Helper()
	var out []Block
	for {
		b, err := g.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, b)
	}
}

func ids(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, b.ReadID)
	}
	return out
}

func TestGrouper_GroupsAdjacent(t *testing.T) {
	src := &sliceSource{recs: []alignment.Record{
		rec("1_a", "X"), rec("1_a", "Y"), rec("1_a", "P"),
		rec("2_b", ""),
		rec("3_c", "X"),
	}}
	blocks := collect(t, NewGrouper(src))
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"1_a", "2_b", "3_c"}, ids(blocks))
	assert.Equal(t, 3, blocks[0].Len())
	assert.True(t, blocks[0].Assigned())
	assert.False(t, blocks[1].Assigned())
	assert.Equal(t, 1, blocks[2].Len())
}

func TestGrouper_NeverMergesNonAdjacent(t *testing.T) {
	src := &sliceSource{recs: []alignment.Record{
		rec("1_a", "X"), rec("2_b", "Y"), rec("1_a", "Z"),
	}}
	blocks := collect(t, NewGrouper(src))
	assert.Equal(t, []string{"1_a", "2_b", "1_a"}, ids(blocks))
}

func TestGrouper_Empty(t *testing.T) {
	g := NewGrouper(&sliceSource{})
	_, err := g.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = g.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGrouper_BlocksDoNotAlias(t *testing.T) {
	src := &sliceSource{recs: []alignment.Record{
		rec("1_a", "X"), rec("1_a", "Y"), rec("2_b", "Z"), rec("2_b", "W"),
	}}
	g := NewGrouper(src)
	first, err := g.Next()
	require.NoError(t, err)
	second, err := g.Next()
	require.NoError(t, err)

	second.Records[0].Node = "mutated"
	assert.Equal(t, "X", first.Records[0].Node)
	assert.Equal(t, "Y", first.Records[1].Node)
}

func TestGrouper_SourceErrorDropsPartialBlock(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{
		recs: []alignment.Record{rec("1_a", "X"), rec("2_b", "Y"), rec("2_b", "Z")},
		err:  boom,
	}
	g := NewGrouper(src)
	b, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, "1_a", b.ReadID)

	_, err = g.Next()
	assert.ErrorIs(t, err, boom)
	_, err = g.Next()
	assert.ErrorIs(t, err, boom)
}
