package archive

import (
	"fmt"
	"io"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/entry"
)

// Item is one entry-group yielded by Reader.Next: exactly one of Regular
// or Solid is set.
type Item struct {
	Regular *entry.Entry
	Solid   *entry.SolidEntry
}

// nextChunkFunc supplies the next raw chunk from whatever stream is
// currently backing a Reader. A bare single-part Reader reads directly
// off its io.Reader; a multipart reader's source transparently crosses
// ANXT part boundaries instead of ever yielding ANXT itself (see
// partChunkSource in multipart.go).
type nextChunkFunc func() (chunk.Chunk, error)

// Reader walks one archive's chunk stream, implementing the state
// machine of spec §4.9: ReadMagic -> ReadAhed -> ReadEntryOrTerminator,
// dispatching into entry/solid parsing and looping over unknown
// ancillary chunks.
type Reader struct {
	next      nextChunkFunc
	version   pna.FormatVersion
	ancillary []chunk.Chunk
	hasNext   bool
	done      bool
}

// readHeader reads and validates the magic and AHED chunk from r,
// returning the version it declares.
func readHeader(r io.Reader) (pna.FormatVersion, error) {
	if err := readMagic(r); err != nil {
		return pna.FormatVersion{}, err
	}
	c, err := chunk.ReadFrom(r)
	if err != nil {
		if err == io.EOF {
			return pna.FormatVersion{}, fmt.Errorf("archive: missing AHED: %w", pna.ErrUnexpectedEOF)
		}
		return pna.FormatVersion{}, err
	}
	if c.Type != chunk.AHED {
		return pna.FormatVersion{}, fmt.Errorf("archive: first chunk is %q, not AHED: %w", c.Type, pna.ErrMalformedStream)
	}
	version, err := decodeAHED(c.Data)
	if err != nil {
		return pna.FormatVersion{}, err
	}
	if version.Major != pna.CurrentVersion.Major {
		return pna.FormatVersion{}, fmt.Errorf("archive: version %d.%d: %w", version.Major, version.Minor, pna.ErrUnsupportedVersion)
	}
	return version, nil
}

// NewReader reads the magic and AHED header from r and returns a Reader
// positioned to yield entries via Next.
func NewReader(r io.Reader) (*Reader, error) {
	version, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return newReader(func() (chunk.Chunk, error) { return chunk.ReadFrom(r) }, version), nil
}

func newReader(next nextChunkFunc, version pna.FormatVersion) *Reader {
	return &Reader{next: next, version: version}
}

// Version returns the version this part's AHED declared.
func (a *Reader) Version() pna.FormatVersion { return a.version }

// Ancillary returns archive-level chunks of unrecognized type encountered
// between entries, preserved in encounter order (spec §4.9).
func (a *Reader) Ancillary() []chunk.Chunk { return a.ancillary }

// HasNext reports whether the part ended with ANXT, meaning a successor
// part is expected.
func (a *Reader) HasNext() bool { return a.hasNext }

// Next returns the next entry or solid block. It returns io.EOF once
// AEND or ANXT is reached; callers should check HasNext to distinguish
// a genuinely finished archive from one that continues in another part.
func (a *Reader) Next() (*Item, error) {
	if a.done || a.hasNext {
		return nil, io.EOF
	}
	for {
		c, err := a.next()
		if err == io.EOF {
			return nil, fmt.Errorf("archive: stream ended before AEND: %w", pna.ErrMalformedStream)
		}
		if err != nil {
			return nil, err
		}
		switch c.Type {
		case chunk.AEND:
			a.done = true
			return nil, io.EOF
		case chunk.ANXT:
			a.hasNext = true
			return nil, io.EOF
		case chunk.FHED:
			e, err := entry.ReadRegular(c, a.next)
			if err != nil {
				return nil, err
			}
			return &Item{Regular: e}, nil
		case chunk.SHED:
			s, err := entry.ReadSolid(c, a.next)
			if err != nil {
				return nil, err
			}
			return &Item{Solid: s}, nil
		default:
			if c.Type.IsCritical() && !chunk.IsKnown(c.Type) {
				return nil, fmt.Errorf("archive: unknown critical chunk %q: %w", c.Type, pna.ErrUnknownCritical)
			}
			a.ancillary = append(a.ancillary, c)
		}
	}
}

// Continue opens the successor part r, verifying its magic, AHED and
// version match this part's before handing back a Reader for it (spec
// §4.9 BadContinuation). Call only after Next returned io.EOF with
// HasNext true.
func (a *Reader) Continue(r io.Reader) (*Reader, error) {
	if !a.hasNext {
		return nil, fmt.Errorf("archive: no continuation was signalled: %w", pna.ErrMalformedStream)
	}
	next, err := NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("archive: opening continuation: %w: %w", err, pna.ErrBadContinuation)
	}
	if next.version.Major != a.version.Major {
		return nil, fmt.Errorf("archive: continuation version %d.%d != %d.%d: %w",
			next.version.Major, next.version.Minor, a.version.Major, a.version.Minor, pna.ErrBadContinuation)
	}
	return next, nil
}
