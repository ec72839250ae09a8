package cipher

import (
	gocipher "crypto/cipher"
	"io"

	"golang.org/x/xerrors"
)

// CTR streaming is grounded on bpfs-defs/crypto/ctr: a crypto/cipher.Stream
// XORs the keystream over plaintext/ciphertext directly, needs no padding,
// and is naturally incremental, so the adaptation here is thinner than
// CBC's — just enough buffering to satisfy io.Writer/io.Reader.

type ctrWriter struct {
	stream gocipher.Stream
	w      io.Writer
}

func newCTRWriter(block gocipher.Block, iv []byte, w io.Writer) Writer {
	return &ctrWriter{stream: gocipher.NewCTR(block, iv), w: w}
}

func (c *ctrWriter) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	c.stream.XORKeyStream(out, p)
	n, err := c.w.Write(out)
	if err != nil {
		return n, xerrors.Errorf("cipher: ctr write: %w", err)
	}
	return len(p), nil
}

// Close is a no-op: CTR mode needs no finalization or padding.
func (c *ctrWriter) Close() error { return nil }

type ctrReader struct {
	stream gocipher.Stream
	r      io.Reader
}

func newCTRReader(block gocipher.Block, iv []byte, r io.Reader) Reader {
	return &ctrReader{stream: gocipher.NewCTR(block, iv), r: r}
}

func (c *ctrReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.stream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}
