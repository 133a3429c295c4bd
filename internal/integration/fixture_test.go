package integration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

const tree = "((X,Y)P,Z)root;\n"

func samLine(fields ...string) string { return strings.Join(fields, "\t") + "\n" }

const samHeader = "@HD\tVN:1.6\tSO:unsorted\n" +
	"@SQ\tSN:P\tLN:1000\n@SQ\tSN:X\tLN:1000\n@SQ\tSN:Y\tLN:1000\n@SQ\tSN:Z\tLN:1000\n@SQ\tSN:root\tLN:1000\n"

// windowedSAM has reads at 100, 250, 260 and 700 seconds.
func windowedSAM() string {
	return samHeader +
		samLine("100_r1", "0", "P", "1", "60", "100M", "*", "0", "0", "*", "*", "ln:i:100", "h1:i:10", "c1:f:5") +
		samLine("250_r2", "0", "X", "1", "60", "40M", "*", "0", "0", strings.Repeat("A", 40), "*", "h1:i:4", "c1:i:1") +
		samLine("250_r2", "256", "Z", "1", "60", "10M30H", "*", "0", "0", "*", "*", "h1:i:2", "c1:i:1") +
		samLine("260_r3", "4", "*", "0", "0", "*", "*", "0", "0", strings.Repeat("C", 30), "*") +
		samLine("700_r4", "0", "Z", "1", "60", "20M5S", "*", "0", "0", "*", "*", "h1:i:6", "c1:i:2")
}

// bigSAM spreads n reads over many windows, with multi-target reads.
func bigSAM(n int) string {
	var b strings.Builder
	b.WriteString(samHeader)
	nodes := []string{"P", "X", "Y", "Z", "root"}
	ts := 1_000
	for i := 0; i < n; i++ {
		ts += (i * 7919) % 97
		id := fmt.Sprintf("%d_read%05d", ts, i)
		if i%11 == 0 {
			b.WriteString(samLine(id, "4", "*", "0", "0", "*", "*", "0", "0", "ACGTACGT", "*"))
			continue
		}
		k := 1 + i%3
		for j := 0; j < k; j++ {
			flag := "0"
			seq := strings.Repeat("G", 50+i%200)
			if j > 0 {
				flag, seq = "256", "*"
			}
			b.WriteString(samLine(id, flag, nodes[(i+j)%len(nodes)], "1", "60", fmt.Sprintf("%dM", 50+i%200),
				"*", "0", "0", seq, "*", fmt.Sprintf("h1:i:%d", 1+(i*j)%37), fmt.Sprintf("c1:f:%d.25", i%5)))
		}
	}
	return b.String()
}

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

// toBAM re-encodes a SAM fixture as BAM.
func toBAM(t *testing.T, dir, name, text string) string {
	t.Helper()
	sr, err := sam.NewReader(strings.NewReader(text))
	require.NoError(t, err)

	fn := filepath.Join(dir, name)
	f, err := os.Create(fn)
	require.NoError(t, err)
	defer f.Close()
	bw, err := bam.NewWriter(f, sr.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := sr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.NoError(t, bw.Write(rec))
	}
	require.NoError(t, bw.Close())
	return fn
}
