package diag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"rase/internal/alignment"
	"rase/internal/phylo"
	"rase/internal/propagate"
	"rase/internal/window"
)

func TestClassify(t *testing.T) {
	_, ioErr := os.Open("/definitely/not/here")
	cases := []struct {
		err  error
		code string
		exit int
	}{
		{nil, CodeNone, 0},
		{context.Canceled, CodeCancel, 130},
		{fmt.Errorf("run: %w", context.Canceled), CodeCancel, 130},
		{&phylo.MalformedTreeError{Offset: 3, Reason: "x"}, CodeTree, 3},
		{fmt.Errorf("read %q: %w", "1_a", &phylo.UnknownNodeError{Name: "n9"}), CodeIntegrity, 3},
		{&alignment.CorruptStreamError{Index: 1, Err: errors.New("bad")}, CodeStream, 3},
		{&propagate.InconsistentBlockError{ReadID: "1_a", Reason: "mixed"}, CodeIntegrity, 3},
		{window.ErrSchedulerClosed, CodeIntegrity, 3},
		{ioErr, CodeIO, 3},
		{errors.New("boom"), CodeUnknown, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, Classify(c.err), "%v", c.err)
		assert.Equal(t, c.exit, ExitCode(c.err), "%v", c.err)
	}
}
