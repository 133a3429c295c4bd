package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rase/internal/propagate"
	"rase/internal/stats"
)

func sampleTable(t *testing.T) stats.Table {
	t.Helper()
	agg := stats.New([]string{"X", "Y", "Z"})
	require.NoError(t, agg.Update(propagate.Expansion{
		ReadID: "100_a", Assigned: true, Alignments: 1, Leaves: 2,
		Contributions: []propagate.Contribution{
			{Isolate: "X", Weight: 0.5, Length: 50, H1: 5, C1: 2.5},
			{Isolate: "Y", Weight: 0.5, Length: 50, H1: 5, C1: 2.5},
		},
	}))
	require.NoError(t, agg.Update(propagate.Expansion{
		ReadID: "120_b", Assigned: true, Alignments: 1, Leaves: 1,
		Contributions: []propagate.Contribution{
			{Isolate: "Z", Weight: 1, Length: 200, H1: 30, C1: 1},
		},
	}))
	require.NoError(t, agg.Update(propagate.Expansion{
		ReadID: "130_c", Leaves: 1,
		Contributions: []propagate.Contribution{{Isolate: propagate.Unassigned, Weight: 1, Length: 80}},
	}))
	return agg.Snapshot()
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, sampleTable(t)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, TSVHeader, lines[0])
	// h1 descending, then name ascending; the unassigned row has h1=0
	assert.Equal(t, "Z\t1\t0.5\t200\t0.6666666666666666\t30\t0.75\t1\t0.16666666666666666", lines[1])
	assert.Equal(t, "X\t0.5\t0.25\t50\t0.16666666666666666\t5\t0.125\t2.5\t0.4166666666666667", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Y\t0.5\t"))
	assert.Equal(t, "_unassigned_\t1\t0.5\t80\t0.26666666666666666\t0\t0\t0\t0", lines[4])
}

func TestWriteTSV_EmptyTableHasZeroShares(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, stats.New([]string{"b", "a"}).Snapshot()))
	assert.Equal(t, TSVHeader+"\n"+
		"_unassigned_\t0\t0\t0\t0\t0\t0\t0\t0\n"+
		"a\t0\t0\t0\t0\t0\t0\t0\t0\n"+
		"b\t0\t0\t0\t0\t0\t0\t0\t0\n", buf.String())
}

func TestFloat_NoExponent(t *testing.T) {
	assert.Equal(t, "0.00001", Float(1e-5))
	assert.Equal(t, "1234567", Float(1234567))
	assert.Equal(t, "0", Float(0))
}
