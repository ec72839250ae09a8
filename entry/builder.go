package entry

import (
	"io"
	"time"

	"github.com/orcaman/writerseeker"
	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/cipher"
	"github.com/pnaio/pna/compress"
	"github.com/pnaio/pna/sparse"
)

// WriteOptions configures how a Builder compresses and encrypts an
// entry's payload (spec §4.5, §6.4).
type WriteOptions struct {
	Compression      compress.Algorithm
	CompressionLevel int
	Encryption       cipher.Algorithm
	CipherMode       cipher.Mode
	HashAlgorithm    cipher.HashAlgorithm
	Password         []byte
}

// Option mutates a WriteOptions.
type Option func(*WriteOptions)

func WithCompression(algo compress.Algorithm, level int) Option {
	return func(o *WriteOptions) { o.Compression = algo; o.CompressionLevel = level }
}

func WithEncryption(algo cipher.Algorithm, mode cipher.Mode) Option {
	return func(o *WriteOptions) { o.Encryption = algo; o.CipherMode = mode }
}

func WithPassword(password []byte) Option {
	return func(o *WriteOptions) { o.Password = password }
}

func WithHashAlgorithm(h cipher.HashAlgorithm) Option {
	return func(o *WriteOptions) { o.HashAlgorithm = h }
}

// Builder assembles one regular entry: it accepts payload bytes through
// Write, pushing them through the compressor and encryptor onto a flat
// in-memory sink, and produces the finished FHED…FEND chunk sequence on
// Build (spec §4.5).
type Builder struct {
	header  Header
	opts    WriteOptions
	sink    *writerseeker.WriterSeeker
	pipe    io.Writer
	closers []io.Closer
	phc     string
	rawSize uint64

	created, modified, accessed *time.Time
	permission                  *Permission
	xattrs                      []ExtendedAttribute
	extras                      []chunk.Chunk
	built                       bool
}

// NewBuilder starts building an entry named name (already canonicalized
// by the caller via CanonicalizeName) of the given kind.
func NewBuilder(name string, kind DataKind, opts ...Option) (*Builder, error) {
	var o WriteOptions
	for _, opt := range opts {
		opt(&o)
	}
	b := &Builder{
		header: Header{
			Version:     pna.CurrentVersion,
			Compression: o.Compression,
			Encryption:  o.Encryption,
			CipherMode:  o.CipherMode,
			DataKind:    kind,
			Name:        name,
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

// Write feeds raw payload bytes through the compressor/encryptor. It
// updates the raw (pre-pipeline) size counter reported in fSIZ.
func (b *Builder) Write(p []byte) (int, error) {
	n, err := b.pipe.Write(p)
	b.rawSize += uint64(n)
	return n, err
}

func (b *Builder) Created(t time.Time) *Builder  { b.created = &t; return b }
func (b *Builder) Modified(t time.Time) *Builder { b.modified = &t; return b }
func (b *Builder) Accessed(t time.Time) *Builder { b.accessed = &t; return b }

func (b *Builder) Permission(p Permission) *Builder {
	b.permission = &p
	return b
}

func (b *Builder) AddExtendedAttribute(a ExtendedAttribute) *Builder {
	b.xattrs = append(b.xattrs, a)
	return b
}

// AddExtraChunk attaches an opaque chunk (e.g. a private ACL or
// file-flag record) to be carried verbatim inside the entry group.
func (b *Builder) AddExtraChunk(c chunk.Chunk) *Builder {
	b.extras = append(b.extras, c)
	return b
}

// Build closes the compressor/encryptor pipeline (flushing any trailer
// and cipher padding) and returns the finished entry's chunk sequence,
// in the order recommended by spec §9: FHED, extras, PHSF, FDAT, SPAR,
// fSIZ, timestamps, fPRM, xATR*, FEND.
func (b *Builder) Build() ([]chunk.Chunk, error) {
	return b.build(nil)
}

// BuildSparse is like Build but records sparseMap in a SPAR chunk; the
// bytes already written via Write must be exactly the concatenated data
// regions the map describes (spec §3.5, §4.8).
func (b *Builder) BuildSparse(sparseMap sparse.Map) ([]chunk.Chunk, error) {
	return b.build(&sparseMap)
}

func (b *Builder) build(sparseMap *sparse.Map) ([]chunk.Chunk, error) {
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
	chunks = append(chunks, chunk.Chunk{Type: chunk.FHED, Data: EncodeFHED(b.header)})
	chunks = append(chunks, b.extras...)
	if b.phc != "" {
		chunks = append(chunks, chunk.Chunk{Type: chunk.PHSF, Data: []byte(b.phc)})
	}
	if len(payload) > 0 {
		chunks = append(chunks, chunk.Chunk{Type: chunk.FDAT, Data: payload})
	}
	if sparseMap != nil {
		chunks = append(chunks, chunk.Chunk{Type: chunk.SPAR, Data: sparse.Encode(*sparseMap)})
	}
	if b.rawSize > 0 {
		chunks = append(chunks, chunk.Chunk{Type: chunk.FSIZ, Data: encodeSize(b.rawSize)})
	}
	if b.created != nil {
		chunks = append(chunks, chunk.Chunk{Type: chunk.CTIM, Data: encodeTimestamp(*b.created)})
	}
	if b.modified != nil {
		chunks = append(chunks, chunk.Chunk{Type: chunk.MTIM, Data: encodeTimestamp(*b.modified)})
	}
	if b.accessed != nil {
		chunks = append(chunks, chunk.Chunk{Type: chunk.ATIM, Data: encodeTimestamp(*b.accessed)})
	}
	if b.permission != nil {
		chunks = append(chunks, chunk.Chunk{Type: chunk.FPRM, Data: b.permission.Encode()})
	}
	for _, x := range b.xattrs {
		chunks = append(chunks, chunk.Chunk{Type: chunk.XATR, Data: x.Encode()})
	}
	chunks = append(chunks, chunk.Chunk{Type: chunk.FEND})
	return chunks, nil
}
