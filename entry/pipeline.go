package entry

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/cipher"
	"github.com/pnaio/pna/compress"
)

// openPipeline reverses the write-side pipeline (spec §4.4): peel the IV
// off the front of data if encrypted, decrypt, then decompress.
func openPipeline(encAlgo cipher.Algorithm, mode cipher.Mode, compAlgo compress.Algorithm, phc string, password []byte, data []byte) (io.Reader, error) {
	var src io.Reader = bytes.NewReader(data)
	if encAlgo != cipher.None {
		iv := make([]byte, cipher.IVSize)
		if _, err := io.ReadFull(src, iv); err != nil {
			return nil, fmt.Errorf("entry: reading iv: %w", pna.ErrUnexpectedEOF)
		}
		key, err := cipher.DeriveKeyFromPHC(phc, password)
		if err != nil {
			return nil, err
		}
		cipherR, err := cipher.NewReader(encAlgo, mode, key, iv, src)
		if err != nil {
			return nil, err
		}
		src = cipherR
	}
	compR, err := compress.NewReader(compAlgo, src)
	if err != nil {
		return nil, err
	}
	return compR, nil
}

func errUnexpectedChunkInSolid(typ string) error {
	return fmt.Errorf("entry: expected FHED inside solid block, found %q: %w", typ, pna.ErrMalformedStream)
}
