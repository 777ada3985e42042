// Package encoding resolves transparent (de)compression and text
// encoding for tabular input files.
//
// Compression is keyed purely by filename suffix from the closed set
// {.gz, .bz2, .xz}; any other suffix is treated as uncompressed. Text
// encoding is detected in two tiers: a fast MIME-based sniff restricted
// to a known-safe allow-list, then a statistical byte-frequency
// detector.
package encoding

import (
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/tabulario/tabular/pkg/errors"
)

// Compression suffixes recognized by the resolver.
const (
	ExtGzip  = ".gz"
	ExtBzip2 = ".bz2"
	ExtXZ    = ".xz"
)

// CompressionExts lists every recognized compression suffix.
var CompressionExts = []string{ExtGzip, ExtBzip2, ExtXZ}

// IsCompressed reports whether filename carries a recognized
// compression suffix.
func IsCompressed(filename string) bool {
	for _, ext := range CompressionExts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// chainReadCloser closes the decompressor wrapper (when it needs
// closing) and then the underlying file.
type chainReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainReadCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// chainWriteCloser flushes/closes the compressor before the file.
type chainWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (c *chainWriteCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// OpenCompressed opens filename for reading, transparently decompressing
// according to its suffix. The returned ReadCloser closes the whole
// chain.
func OpenCompressed(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot open "+filename)
	}

	rc, err := WrapReader(f, filename)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// WrapReader wraps an already-open reader with the decompressor selected
// by the suffix of filename. f is closed through the returned
// ReadCloser.
func WrapReader(f io.ReadCloser, filename string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(filename, ExtGzip):
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "bad gzip stream in "+filename)
		}
		return &chainReadCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil

	case strings.HasSuffix(filename, ExtBzip2):
		br, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "bad bzip2 stream in "+filename)
		}
		return &chainReadCloser{Reader: br, closers: []io.Closer{br, f}}, nil

	case strings.HasSuffix(filename, ExtXZ):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "bad xz stream in "+filename)
		}
		return &chainReadCloser{Reader: xr, closers: []io.Closer{f}}, nil
	}

	return f, nil
}

// CreateCompressed creates filename for writing, transparently
// compressing according to its suffix. The returned WriteCloser flushes
// and closes the whole chain.
func CreateCompressed(filename string) (io.WriteCloser, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot create "+filename)
	}

	switch {
	case strings.HasSuffix(filename, ExtGzip):
		zw := gzip.NewWriter(f)
		return &chainWriteCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil

	case strings.HasSuffix(filename, ExtBzip2):
		bw, err := bzip2.NewWriter(f, nil)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot compress "+filename)
		}
		return &chainWriteCloser{Writer: bw, closers: []io.Closer{bw, f}}, nil

	case strings.HasSuffix(filename, ExtXZ):
		xw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot compress "+filename)
		}
		return &chainWriteCloser{Writer: xw, closers: []io.Closer{xw, f}}, nil
	}

	return f, nil
}
