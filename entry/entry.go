package entry

import (
	"io"
	"time"

	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/sparse"
)

// Entry is a parsed regular entry (FHED…FEND group): its header, whatever
// metadata side-chunks were present, and enough information to open its
// logical payload.
type Entry struct {
	Header Header

	Created, Modified, Accessed *time.Time
	Permission                  *Permission
	ExtendedAttributes          []ExtendedAttribute
	PHC                         string
	RawSize                     uint64
	SparseMap                   *sparse.Map

	// Extras holds ancillary chunks this reader did not recognize,
	// preserved verbatim in encounter order (spec §4.9).
	Extras []chunk.Chunk

	data []byte // concatenated FDAT payload bytes (ciphertext, or plaintext if unencrypted)
}

// Name returns the entry's canonical name.
func (e *Entry) Name() string { return e.Header.Name }

// Kind returns what the entry's payload represents.
func (e *Entry) Kind() DataKind { return e.Header.DataKind }

// Open returns a reader over the entry's logical payload: ciphertext is
// decrypted, then decompressed, then (if a sparse map is present)
// expanded back to its logical size with holes filled by zero.
func (e *Entry) Open(password []byte) (io.ReadCloser, error) {
	r, err := openPipeline(e.Header.Encryption, e.Header.CipherMode, e.Header.Compression, e.PHC, password, e.data)
	if err != nil {
		return nil, err
	}
	if e.SparseMap != nil {
		return io.NopCloser(sparse.NewReader(*e.SparseMap, r)), nil
	}
	return io.NopCloser(r), nil
}

// SolidEntry is a parsed solid block (SHED…SEND group). Its payload,
// once decrypted and decompressed, is itself a concatenation of regular
// entry groups (spec §3.4).
type SolidEntry struct {
	Header Header
	PHC    string
	Extras []chunk.Chunk

	data []byte
}

// Open returns a reader over the decrypted, decompressed inner stream of
// concatenated FHED…FEND groups.
func (s *SolidEntry) Open(password []byte) (io.Reader, error) {
	return openPipeline(s.Header.Encryption, s.Header.CipherMode, s.Header.Compression, s.PHC, password, s.data)
}

// Entries parses the solid block's inner stream into its constituent
// regular entries.
func (s *SolidEntry) Entries(password []byte) ([]*Entry, error) {
	r, err := s.Open(password)
	if err != nil {
		return nil, err
	}
	var entries []*Entry
	for {
		c, err := chunk.ReadFrom(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if c.Type != chunk.FHED {
			return nil, errUnexpectedChunkInSolid(c.Type.String())
		}
		next := func() (chunk.Chunk, error) { return chunk.ReadFrom(r) }
		entry, err := readRegularBody(c, next)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
