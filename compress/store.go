package compress

import "io"

// storeWriter is the identity compressor: bytes pass through untouched.
type storeWriter struct {
	w io.Writer
}

func newStoreWriter(w io.Writer) Writer { return &storeWriter{w: w} }

func (s *storeWriter) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *storeWriter) Close() error                { return nil }

// storeReader is the identity decompressor.
type storeReader struct {
	r io.Reader
}

func newStoreReader(r io.Reader) Reader { return &storeReader{r: r} }

func (s *storeReader) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *storeReader) Close() error               { return nil }
