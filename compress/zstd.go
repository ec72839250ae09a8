package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/xerrors"
)

func newZstdWriter(w io.Writer, level int) (Writer, error) {
	el := zstd.EncoderLevelFromZstd(level)
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(el))
	if err != nil {
		return nil, xerrors.Errorf("compress: zstd writer: %w", err)
	}
	return &zstdWriter{enc: enc}, nil
}

type zstdWriter struct {
	enc *zstd.Encoder
}

func (z *zstdWriter) Write(p []byte) (int, error) { return z.enc.Write(p) }

// Close flushes the zstd frame footer. It does not close the underlying
// writer.
func (z *zstdWriter) Close() error { return z.enc.Close() }

func newZstdReader(r io.Reader) (Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, xerrors.Errorf("compress: zstd reader: %w", err)
	}
	return &zstdReader{dec: dec}, nil
}

type zstdReader struct {
	dec *zstd.Decoder
}

func (z *zstdReader) Read(p []byte) (int, error) { return z.dec.Read(p) }

// Close releases the decoder's background goroutines; the zstd.Decoder
// API has no error to report here.
func (z *zstdReader) Close() error {
	z.dec.Close()
	return nil
}
