package alignment

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// multiCloser closes every closer, innermost first, and keeps the first error.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var err error
	for _, c := range m {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

var (
	_ RecordSource = (*sam.Reader)(nil)
	_ RecordSource = (*bam.Reader)(nil)
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// isBGZF checks for the gzip FEXTRA flag carrying the "BC" subfield that
// BGZF (and therefore BAM) blocks start with.
func isBGZF(head []byte) bool {
	return len(head) >= 14 && bytes.HasPrefix(head, gzipMagic) &&
		head[3]&0x04 != 0 && head[12] == 'B' && head[13] == 'C'
}

// Open opens a SAM or BAM file ("-" for stdin). BGZF input is decoded as BAM;
// plain gzip and zstd inputs are decoded as SAM text.
func Open(path string) (*Reader, error) {
	var raw io.ReadCloser
	if path == "-" {
		raw = io.NopCloser(os.Stdin)
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		raw = fh
	}
	src, closer, err := openSource(raw)
	if err != nil {
		_ = raw.Close()
		return nil, &CorruptStreamError{Index: 0, Err: err}
	}
	r := NewReader(src)
	r.closer = closer
	return r, nil
}

func openSource(raw io.ReadCloser) (RecordSource, io.Closer, error) {
	br := bufio.NewReaderSize(raw, 1<<16)
	head, _ := br.Peek(18)

	switch {
	case isBGZF(head):
		bamr, err := bam.NewReader(br, 1)
		if err != nil {
			return nil, nil, err
		}
		return bamr, multiCloser{bamr, raw}, nil

	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		sr, err := sam.NewReader(gz)
		if err != nil {
			_ = gz.Close()
			return nil, nil, err
		}
		return sr, multiCloser{gz, raw}, nil

	case bytes.HasPrefix(head, zstdMagic):
		zd, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		sr, err := sam.NewReader(zd)
		if err != nil {
			zd.Close()
			return nil, nil, err
		}
		return sr, multiCloser{closerFunc(func() error { zd.Close(); return nil }), raw}, nil

	default:
		sr, err := sam.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return sr, raw, nil
	}
}
