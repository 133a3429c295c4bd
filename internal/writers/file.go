package writers

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// encodedFile closes the compressor before the file underneath it.
type encodedFile struct {
	io.WriteCloser
	f *os.File
}

func (e *encodedFile) Close() error {
	err := e.WriteCloser.Close()
	if cerr := e.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Create opens path for writing, creating parent directories. "-" means
// stdout, which is never closed. A ".gz" suffix gzips the output and
// ".zst" zstd-compresses it.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		return &encodedFile{WriteCloser: gzip.NewWriter(f), f: f}, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &encodedFile{WriteCloser: zw, f: f}, nil
	}
	return f, nil
}
