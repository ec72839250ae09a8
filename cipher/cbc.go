package cipher

import (
	gocipher "crypto/cipher"
	"io"

	"github.com/pnaio/pna"
	"golang.org/x/xerrors"
)

// CBC streaming is grounded on bpfs-defs/crypto/cbc.Encrypt/Decrypt, which
// operate on whole in-memory byte slices; here the same PKCS#7-padded
// block-mode logic is adapted to an incremental io.Writer/io.Reader so an
// entry's payload never needs to be buffered twice.

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, xerrors.Errorf("cipher: cbc ciphertext length %d is not a multiple of block size %d", len(data), blockSize)
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, xerrors.Errorf("cipher: cbc padding byte %d out of range: %w", padding, pna.ErrBadKey)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, xerrors.Errorf("cipher: cbc padding malformed: %w", pna.ErrBadKey)
		}
	}
	return data[:len(data)-padding], nil
}

type cbcWriter struct {
	mode      gocipher.BlockMode
	blockSize int
	buf       []byte
	w         io.Writer
}

func newCBCWriter(block gocipher.Block, iv []byte, w io.Writer) Writer {
	return &cbcWriter{
		mode:      gocipher.NewCBCEncrypter(block, iv),
		blockSize: block.BlockSize(),
		w:         w,
	}
}

func (c *cbcWriter) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	n := (len(c.buf) / c.blockSize) * c.blockSize
	if n > 0 {
		encrypted := make([]byte, n)
		c.mode.CryptBlocks(encrypted, c.buf[:n])
		if _, err := c.w.Write(encrypted); err != nil {
			return 0, xerrors.Errorf("cipher: cbc write: %w", err)
		}
		remaining := len(c.buf) - n
		copy(c.buf, c.buf[n:])
		c.buf = c.buf[:remaining]
	}
	return len(p), nil
}

// Close pads the final partial block (always adding a full block of pure
// padding if the input happened to be block-aligned) and flushes it.
func (c *cbcWriter) Close() error {
	padded := pkcs7Pad(c.buf, c.blockSize)
	encrypted := make([]byte, len(padded))
	c.mode.CryptBlocks(encrypted, padded)
	if _, err := c.w.Write(encrypted); err != nil {
		return xerrors.Errorf("cipher: cbc close: %w", err)
	}
	return nil
}

// cbcReader withholds the most recently decrypted block until it either
// sees another block (proving the withheld one was not final) or reaches
// EOF (at which point the withheld block's PKCS#7 padding is stripped).
type cbcReader struct {
	mode      gocipher.BlockMode
	blockSize int
	r         io.Reader
	pending   []byte // decrypted, held back because it might be the final block
	ready     []byte // decrypted bytes available to hand to the caller
	eof       bool
}

func newCBCReader(block gocipher.Block, iv []byte, r io.Reader) Reader {
	return &cbcReader{
		mode:      gocipher.NewCBCDecrypter(block, iv),
		blockSize: block.BlockSize(),
		r:         r,
	}
}

func (c *cbcReader) Read(p []byte) (int, error) {
	for len(c.ready) == 0 {
		if c.eof {
			return 0, io.EOF
		}
		buf := make([]byte, c.blockSize)
		n, err := io.ReadFull(c.r, buf)
		switch {
		case err == nil:
			decrypted := make([]byte, c.blockSize)
			c.mode.CryptBlocks(decrypted, buf)
			if c.pending != nil {
				c.ready = append(c.ready, c.pending...)
			}
			c.pending = decrypted
		case err == io.EOF && n == 0:
			if c.pending == nil {
				return 0, xerrors.Errorf("cipher: cbc stream empty: %w", pna.ErrUnexpectedEOF)
			}
			unpadded, uerr := pkcs7Unpad(c.pending, c.blockSize)
			if uerr != nil {
				return 0, uerr
			}
			c.ready = append(c.ready, unpadded...)
			c.pending = nil
			c.eof = true
		default:
			return 0, xerrors.Errorf("cipher: cbc read: %w", pna.ErrUnexpectedEOF)
		}
	}
	n := copy(p, c.ready)
	c.ready = c.ready[n:]
	return n, nil
}
