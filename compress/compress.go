// Package compress implements the PNA payload compression layer (spec
// §4.3): pluggable adapters over a byte-level Writer/Reader contract, so
// the cipher layer above can wrap whichever one the entry's FHED header
// selected. Compression always runs on plaintext; encryption wraps its
// output.
package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Algorithm identifies a compression method. The numeric values match the
// FHED compression byte (spec §3.3).
type Algorithm byte

const (
	Store   Algorithm = 0
	Deflate Algorithm = 1
	Zstd    Algorithm = 2
	Xz      Algorithm = 3
)

func (a Algorithm) String() string {
	switch a {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	case Zstd:
		return "zstd"
	case Xz:
		return "xz"
	default:
		return fmt.Sprintf("compress.Algorithm(%d)", byte(a))
	}
}

// Writer is a compressor: Write accepts plaintext, and Close flushes any
// trailer the format requires (e.g. a DEFLATE final block, a zstd or xz
// frame footer). Closing the Writer does not close the underlying sink.
type Writer interface {
	io.WriteCloser
}

// Reader is a decompressor. Reading past the end of the compressed stream
// returns io.EOF. An underlying source that ends before the format's own
// trailer is reached surfaces whatever error the specific codec returns;
// this package does not wrap it in pna.ErrUnexpectedEOF.
type Reader interface {
	io.ReadCloser
}

// NewWriter returns a Writer for algo, compressing into w at the given
// level. The level's valid range depends on algo; out-of-range values are
// clamped by the specific adapter rather than rejected.
func NewWriter(algo Algorithm, level int, w io.Writer) (Writer, error) {
	switch algo {
	case Store:
		return newStoreWriter(w), nil
	case Deflate:
		return newDeflateWriter(w, level)
	case Zstd:
		return newZstdWriter(w, level)
	case Xz:
		return newXzWriter(w, level)
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %v", algo)
	}
}

// NewReader returns a Reader for algo, decompressing from r.
func NewReader(algo Algorithm, r io.Reader) (Reader, error) {
	switch algo {
	case Store:
		return newStoreReader(r), nil
	case Deflate:
		return newDeflateReader(r), nil
	case Zstd:
		return newZstdReader(r)
	case Xz:
		return newXzReader(r)
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %v", algo)
	}
}

// compile-time interface checks for the underlying library types this
// package adapts.
var (
	_ = (*flate.Writer)(nil)
	_ = (*zstd.Encoder)(nil)
	_ = (*xz.Writer)(nil)
)
