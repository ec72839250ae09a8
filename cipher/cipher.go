// Package cipher implements the PNA payload encryption layer (spec §4.4):
// pluggable AES/Camellia block ciphers in CBC or CTR mode, keyed by a
// password-derived key, wrapping the compressor's output before it is
// framed into FDAT/SDAT chunks.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/aead/camellia"
	"golang.org/x/xerrors"
)

// Algorithm identifies a block cipher. Values match the FHED encryption
// byte (spec §3.3).
type Algorithm byte

const (
	None     Algorithm = 0
	AES      Algorithm = 1
	Camellia Algorithm = 2
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case AES:
		return "aes"
	case Camellia:
		return "camellia"
	default:
		return fmt.Sprintf("cipher.Algorithm(%d)", byte(a))
	}
}

// Mode identifies a block cipher mode of operation. Values match the FHED
// cipher-mode byte (spec §3.3); meaningless when Algorithm is None.
type Mode byte

const (
	CBC Mode = 0
	CTR Mode = 1
)

func (m Mode) String() string {
	switch m {
	case CBC:
		return "cbc"
	case CTR:
		return "ctr"
	default:
		return fmt.Sprintf("cipher.Mode(%d)", byte(m))
	}
}

// KeySize is the derived key length: 32 bytes, for AES-256 or
// Camellia-256 (spec §4.4).
const KeySize = 32

// IVSize is the initialization vector length for both supported ciphers
// (spec §4.4).
const IVSize = 16

func newBlock(algo Algorithm, key []byte) (gocipher.Block, error) {
	if len(key) != KeySize {
		return nil, xerrors.Errorf("cipher: key must be %d bytes, got %d", KeySize, len(key))
	}
	switch algo {
	case AES:
		b, err := aes.NewCipher(key)
		if err != nil {
			return nil, xerrors.Errorf("cipher: aes: %w", err)
		}
		return b, nil
	case Camellia:
		b, err := camellia.New(key)
		if err != nil {
			return nil, xerrors.Errorf("cipher: camellia: %w", err)
		}
		return b, nil
	default:
		return nil, xerrors.Errorf("cipher: unknown algorithm %v", algo)
	}
}

// Writer is an encryptor: Write accepts plaintext (compressed bytes) and
// Close flushes any block-mode finalization (CBC padding; CTR needs none).
// Closing the Writer does not close the underlying sink.
type Writer interface {
	io.WriteCloser
}

// Reader is a decryptor.
type Reader interface {
	io.Reader
}

// NewWriter returns a Writer for algo/mode using key, plus the random IV
// it generated. The caller is responsible for prepending iv to the first
// FDAT/SDAT chunk, as spec §4.4 requires.
func NewWriter(algo Algorithm, mode Mode, key []byte, w io.Writer) (Writer, []byte, error) {
	if algo == None {
		return nopCloser{w}, nil, nil
	}
	block, err := newBlock(algo, key)
	if err != nil {
		return nil, nil, err
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, xerrors.Errorf("cipher: generating iv: %w", err)
	}
	switch mode {
	case CBC:
		return newCBCWriter(block, iv, w), iv, nil
	case CTR:
		return newCTRWriter(block, iv, w), iv, nil
	default:
		return nil, nil, xerrors.Errorf("cipher: unknown mode %v", mode)
	}
}

// NewReader returns a Reader for algo/mode using key and the iv recovered
// from the start of the ciphertext stream.
func NewReader(algo Algorithm, mode Mode, key []byte, iv []byte, r io.Reader) (Reader, error) {
	if algo == None {
		return r, nil
	}
	block, err := newBlock(algo, key)
	if err != nil {
		return nil, err
	}
	if len(iv) != IVSize {
		return nil, xerrors.Errorf("cipher: iv must be %d bytes, got %d", IVSize, len(iv))
	}
	switch mode {
	case CBC:
		return newCBCReader(block, iv, r), nil
	case CTR:
		return newCTRReader(block, iv, r), nil
	default:
		return nil, xerrors.Errorf("cipher: unknown mode %v", mode)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
