package entry

import (
	"fmt"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/sparse"
)

// NextChunk reads the next chunk of an entry's group from some
// underlying source (an archive reader, or a solid block's inner
// stream).
type NextChunk func() (chunk.Chunk, error)

// ReadRegular parses a regular entry group. fhed is the already-read
// FHED chunk that triggered entry-start detection; next yields the
// remaining chunks up to and including FEND.
func ReadRegular(fhed chunk.Chunk, next NextChunk) (*Entry, error) {
	return readRegularBody(fhed, next)
}

func readRegularBody(fhed chunk.Chunk, next NextChunk) (*Entry, error) {
	header, err := DecodeFHED(fhed.Data)
	if err != nil {
		return nil, err
	}
	e := &Entry{Header: header}
	for {
		c, err := next()
		if err != nil {
			return nil, fmt.Errorf("entry: reading %s body: %w", header.Name, err)
		}
		switch c.Type {
		case chunk.FEND:
			return e, nil
		case chunk.FDAT:
			e.data = append(e.data, c.Data...)
		case chunk.PHSF:
			e.PHC = string(c.Data)
		case chunk.FSIZ:
			n, err := decodeSize(c.Data)
			if err != nil {
				return nil, err
			}
			e.RawSize = n
		case chunk.CTIM:
			t, err := decodeTimestamp(c.Data)
			if err != nil {
				return nil, err
			}
			e.Created = &t
		case chunk.MTIM:
			t, err := decodeTimestamp(c.Data)
			if err != nil {
				return nil, err
			}
			e.Modified = &t
		case chunk.ATIM:
			t, err := decodeTimestamp(c.Data)
			if err != nil {
				return nil, err
			}
			e.Accessed = &t
		case chunk.FPRM:
			p, err := DecodePermission(c.Data)
			if err != nil {
				return nil, err
			}
			e.Permission = &p
		case chunk.XATR:
			a, err := DecodeExtendedAttribute(c.Data)
			if err != nil {
				return nil, err
			}
			e.ExtendedAttributes = append(e.ExtendedAttributes, a)
		case chunk.SPAR:
			m, err := sparse.Decode(c.Data)
			if err != nil {
				return nil, err
			}
			e.SparseMap = &m
		case chunk.ANXT, chunk.AEND:
			return nil, fmt.Errorf("entry: %q mid-entry in %s: %w", c.Type, header.Name, pna.ErrMalformedStream)
		default:
			if c.Type.IsCritical() && !chunk.IsKnown(c.Type) {
				return nil, fmt.Errorf("entry: unknown critical chunk %q in %s: %w", c.Type, header.Name, pna.ErrUnknownCritical)
			}
			e.Extras = append(e.Extras, c)
		}
	}
}

// ReadSolid parses a solid block group. shed is the already-read SHED
// chunk; next yields the remaining chunks up to and including SEND.
func ReadSolid(shed chunk.Chunk, next NextChunk) (*SolidEntry, error) {
	header, err := DecodeSHED(shed.Data)
	if err != nil {
		return nil, err
	}
	s := &SolidEntry{Header: header}
	for {
		c, err := next()
		if err != nil {
			return nil, fmt.Errorf("entry: reading solid block body: %w", err)
		}
		switch c.Type {
		case chunk.SEND:
			return s, nil
		case chunk.SDAT:
			s.data = append(s.data, c.Data...)
		case chunk.PHSF:
			s.PHC = string(c.Data)
		case chunk.ANXT, chunk.AEND:
			return nil, fmt.Errorf("entry: %q mid-solid-block: %w", c.Type, pna.ErrMalformedStream)
		default:
			if c.Type.IsCritical() && !chunk.IsKnown(c.Type) {
				return nil, fmt.Errorf("entry: unknown critical chunk %q in solid block: %w", c.Type, pna.ErrUnknownCritical)
			}
			s.Extras = append(s.Extras, c)
		}
	}
}
