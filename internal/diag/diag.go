// Package diag maps run errors to short, stable codes used in logs,
// metric labels and exit statuses.
package diag

import (
	"context"
	"errors"
	"io/fs"

	"rase/internal/alignment"
	"rase/internal/phylo"
	"rase/internal/propagate"
	"rase/internal/window"
)

// Error codes.
const (
	CodeNone      = ""
	CodeTree      = "tree"
	CodeStream    = "stream"
	CodeIntegrity = "integrity"
	CodeCancel    = "cancel"
	CodeIO        = "io"
	CodeUnknown   = "unknown"
)

// Classify returns the code for err. Unknown alignment targets are a data
// integrity fault: the stream names a node the tree does not have.
func Classify(err error) string {
	var (
		mt *phylo.MalformedTreeError
		un *phylo.UnknownNodeError
		cs *alignment.CorruptStreamError
		ib *propagate.InconsistentBlockError
		pe *fs.PathError
	)
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.As(err, &mt):
		return CodeTree
	case errors.As(err, &cs):
		return CodeStream
	case errors.As(err, &ib), errors.As(err, &un), errors.Is(err, window.ErrSchedulerClosed):
		return CodeIntegrity
	case errors.As(err, &pe):
		return CodeIO
	}
	return CodeUnknown
}

// ExitCode maps an error to the process exit status: 0 on success, 130 on
// cancellation, 3 for every runtime failure.
func ExitCode(err error) int {
	switch Classify(err) {
	case CodeNone:
		return 0
	case CodeCancel:
		return 130
	}
	return 3
}
