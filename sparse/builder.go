package sparse

import (
	"bytes"

	"golang.org/x/xerrors"
)

// Builder accumulates (offset, data) writes in ascending, non-overlapping
// order and produces a validated Map plus the concatenated data stream
// ready to feed into an entry's compression pipeline.
//
// This is not named in spec.md directly, but the original implementation's
// SparseMap::new takes an already-built region list; real producers (e.g. a
// filesystem walker finding holes via SEEK_DATA/SEEK_HOLE) build that list
// incrementally, so a Builder is the natural counterpart to sparse.Reader.
type Builder struct {
	logicalSize uint64
	regions     []Region
	data        bytes.Buffer
}

// NewBuilder starts a sparse map builder for a file of the given logical
// size.
func NewBuilder(logicalSize uint64) *Builder {
	return &Builder{logicalSize: logicalSize}
}

// WriteRegion appends a data region at offset. offset must be greater than
// or equal to the end of the previously written region, and offset+len(p)
// must not exceed the builder's logical size.
func (b *Builder) WriteRegion(offset uint64, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	end := offset + uint64(len(p))
	if end < offset {
		return xerrors.Errorf("sparse: region offset %d size %d overflows", offset, len(p))
	}
	if n := len(b.regions); n > 0 && offset < b.regions[n-1].End() {
		return xerrors.Errorf("sparse: region at %d precedes or overlaps previous region ending at %d", offset, b.regions[n-1].End())
	}
	if end > b.logicalSize {
		return xerrors.Errorf("sparse: region ending at %d exceeds logical size %d", end, b.logicalSize)
	}
	b.regions = append(b.regions, Region{Offset: offset, Size: uint64(len(p))})
	b.data.Write(p)
	return nil
}

// Build finalizes the map and returns it along with the concatenated
// region data (the bytes that should be compressed/encrypted into FDAT).
func (b *Builder) Build() (Map, []byte, error) {
	m, err := New(b.logicalSize, b.regions)
	if err != nil {
		return Map{}, nil, err
	}
	return m, b.data.Bytes(), nil
}
