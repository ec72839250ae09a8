package entry

import (
	"io"

	"github.com/orcaman/writerseeker"
	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/cipher"
	"github.com/pnaio/pna/compress"
)

// SolidBuilder packs several already-built regular entries into one
// compressed/encrypted stream (spec §4.6), trading random access for a
// better compression ratio across small, similar files.
type SolidBuilder struct {
	header  Header
	opts    WriteOptions
	sink    *writerseeker.WriterSeeker
	pipe    io.Writer
	closers []io.Closer
	phc     string
	built   bool
}

// NewSolidBuilder starts a solid block with the given compression and
// encryption settings (the data-kind and name fields SHED omits are not
// part of WriteOptions).
func NewSolidBuilder(opts ...Option) (*SolidBuilder, error) {
	var o WriteOptions
	for _, opt := range opts {
		opt(&o)
	}
	b := &SolidBuilder{
		header: Header{
			Version:     pna.CurrentVersion,
			Compression: o.Compression,
			Encryption:  o.Encryption,
			CipherMode:  o.CipherMode,
		},
		opts: o,
		sink: &writerseeker.WriterSeeker{},
	}

	var pipe io.Writer = b.sink
	if o.Encryption != cipher.None {
		key, phc, err := cipher.DeriveNewKey(o.HashAlgorithm, o.Password)
		if err != nil {
			return nil, err
		}
		b.phc = phc
		cipherW, iv, err := cipher.NewWriter(o.Encryption, o.CipherMode, key, b.sink)
		if err != nil {
			return nil, err
		}
		if _, err := b.sink.Write(iv); err != nil {
			return nil, err
		}
		b.closers = append(b.closers, cipherW)
		pipe = cipherW
	}
	compW, err := compress.NewWriter(o.Compression, o.CompressionLevel, pipe)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, compW)
	b.pipe = compW
	return b, nil
}

// AddEntry serializes a regular entry's own chunk sequence (as returned
// by Builder.Build) into the solid block's inner stream.
func (b *SolidBuilder) AddEntry(entryChunks []chunk.Chunk) error {
	for _, c := range entryChunks {
		if _, err := chunk.WriteTo(b.pipe, c); err != nil {
			return err
		}
	}
	return nil
}

// Build closes the pipeline and returns the finished SHED…SDAT*…SEND
// chunk sequence.
func (b *SolidBuilder) Build() ([]chunk.Chunk, error) {
	if b.built {
		return nil, pna.ErrMalformedStream
	}
	b.built = true
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			return nil, err
		}
	}
	payload, err := io.ReadAll(b.sink.BytesReader())
	if err != nil {
		return nil, err
	}

	var chunks []chunk.Chunk
	chunks = append(chunks, chunk.Chunk{Type: chunk.SHED, Data: EncodeSHED(b.header)})
	if b.phc != "" {
		chunks = append(chunks, chunk.Chunk{Type: chunk.PHSF, Data: []byte(b.phc)})
	}
	chunks = append(chunks, chunk.Chunk{Type: chunk.SDAT, Data: payload})
	chunks = append(chunks, chunk.Chunk{Type: chunk.SEND})
	return chunks, nil
}
