package compress

import (
	"io"

	"github.com/ulikunitz/xz"
	"golang.org/x/xerrors"
)

// xz has no single numeric "level" knob in the ulikunitz/xz API the way
// gzip or zstd do; instead the compression ratio is governed mostly by the
// LZMA2 dictionary size. dictCapFor approximates the upstream xz CLI's
// -0..-9 presets so that PNA's 0-9 level byte still means something
// familiar to anyone who has used the xz command.
func dictCapFor(level int) int {
	switch {
	case level <= 0:
		return 1 << 18 // 256 KiB
	case level == 1:
		return 1 << 20 // 1 MiB
	case level == 2:
		return 1 << 21 // 2 MiB
	case level == 3, level == 4:
		return 1 << 22 // 4 MiB
	case level == 5, level == 6:
		return 1 << 23 // 8 MiB
	case level == 7:
		return 1 << 24 // 16 MiB
	case level == 8:
		return 1 << 25 // 32 MiB
	default:
		return 1 << 26 // 64 MiB
	}
}

func newXzWriter(w io.Writer, level int) (Writer, error) {
	cfg := xz.WriterConfig{DictCap: dictCapFor(level)}
	xw, err := cfg.NewWriter(w)
	if err != nil {
		return nil, xerrors.Errorf("compress: xz writer: %w", err)
	}
	return &xzWriter{w: xw}, nil
}

type xzWriter struct {
	w *xz.Writer
}

func (x *xzWriter) Write(p []byte) (int, error) { return x.w.Write(p) }

// Close flushes the xz stream footer. It does not close the underlying
// writer.
func (x *xzWriter) Close() error { return x.w.Close() }

func newXzReader(r io.Reader) (Reader, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, xerrors.Errorf("compress: xz reader: %w", err)
	}
	return &xzReader{r: xr}, nil
}

type xzReader struct {
	r *xz.Reader
}

func (x *xzReader) Read(p []byte) (int, error) { return x.r.Read(p) }
func (x *xzReader) Close() error               { return nil }
