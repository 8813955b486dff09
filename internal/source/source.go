// Package source opens byte sources for the tokenizer: files or stdin,
// optionally decompressed and decoded to UTF-8.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Compression selects how input bytes are decompressed.
type Compression string

const (
	CompressionAuto Compression = "auto"
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Compressions lists the accepted Compression values.
var Compressions = []string{
	string(CompressionAuto),
	string(CompressionNone),
	string(CompressionGzip),
	string(CompressionZstd),
}

// Stdin is the path that selects standard input.
const Stdin = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ErrUnsupportedEncoding reports a charset name that cannot be decoded.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Config describes how raw input is turned into tokenizer input.
type Config struct {
	Compression Compression
	// Encoding is an IANA charset name. Empty, "utf-8" and "us-ascii" pass
	// bytes through unchanged.
	Encoding string
}

// Open opens path (or stdin for "-") and applies cfg.
func Open(path string, cfg Config) (io.ReadCloser, error) {
	if path == Stdin {
		return Wrap(io.NopCloser(os.Stdin), cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	rc, err := Wrap(f, cfg)
	if err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("%s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// Wrap applies decompression and charset decoding to rc. Closing the
// returned reader closes rc. On error rc is left open.
func Wrap(rc io.ReadCloser, cfg Config) (io.ReadCloser, error) {
	compression := cfg.Compression
	if compression == "" {
		compression = CompressionAuto
	}
	var (
		r       io.Reader = rc
		closers           = []io.Closer{rc}
	)
	if compression == CompressionAuto {
		br := bufio.NewReader(rc)
		compression = sniff(br)
		r = br
	}
	switch compression {
	case CompressionNone:
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		closers = append(closers, zr)
		r = zr
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rcz := zr.IOReadCloser()
		closers = append(closers, rcz)
		r = rcz
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}

	decoded, err := decode(r, cfg.Encoding)
	if err != nil {
		// rc stays open; the caller owns it until Wrap succeeds.
		if closeErr := closeLayers(closers[1:]); closeErr != nil {
			return nil, fmt.Errorf("%w (close failed: %w)", err, closeErr)
		}
		return nil, err
	}
	return &readCloser{Reader: decoded, closers: closers}, nil
}

func sniff(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

func decode(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "us-ascii":
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnsupportedEncoding, name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedEncoding, name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

// Close closes the layers innermost first and joins their errors.
func (rc *readCloser) Close() error {
	return closeLayers(rc.closers)
}

func closeLayers(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
