package compress

import (
	"io"

	"github.com/klauspost/compress/flate"
	"golang.org/x/xerrors"
)

// Deflate is raw RFC 1951 (no zlib wrapper): the chunk's CRC-32 already
// covers integrity, so a zlib Adler-32 trailer would be redundant, and raw
// mode is what klauspost/compress/flate natively produces. Levels 1-9
// follow compress/flate's BestSpeed..BestCompression convention; a level
// outside that range is clamped to the nearer end of it.
func newDeflateWriter(w io.Writer, level int) (Writer, error) {
	if level < flate.BestSpeed {
		level = flate.BestSpeed
	} else if level > flate.BestCompression {
		level = flate.BestCompression
	}
	fw, err := flate.NewWriter(w, level)
	if err != nil {
		return nil, xerrors.Errorf("compress: deflate writer: %w", err)
	}
	return &deflateWriter{fw: fw}, nil
}

type deflateWriter struct {
	fw *flate.Writer
}

func (d *deflateWriter) Write(p []byte) (int, error) { return d.fw.Write(p) }

// Close flushes the final DEFLATE block. It does not close the underlying
// writer.
func (d *deflateWriter) Close() error { return d.fw.Close() }

func newDeflateReader(r io.Reader) Reader {
	return flate.NewReader(r)
}
