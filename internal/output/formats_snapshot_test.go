package output

import "testing"

func TestFormats_Stable(t *testing.T) {
	if FormatTSV != "tsv" || FormatJSON != "json" {
		t.Fatalf("output format constants changed")
	}
}
