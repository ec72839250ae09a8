// Package sparse implements the SPAR chunk codec (spec §3.5): a logical
// file size plus an ascending, non-overlapping list of data regions. Gaps
// between regions are holes that read back as zeros; only the regions
// themselves are stored in an entry's FDAT stream.
package sparse

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pnaio/pna"
	"golang.org/x/xerrors"
)

// Region is one contiguous span of real data within a sparse file's
// logical byte range.
type Region struct {
	Offset uint64
	Size   uint64
}

// End returns the exclusive end offset of the region.
func (r Region) End() uint64 { return r.Offset + r.Size }

// Map is a validated sparse file map: the full logical size plus the
// regions holding actual data, in ascending, non-overlapping order.
type Map struct {
	LogicalSize uint64
	Regions     []Region
}

// New validates regions and returns a Map, or pna.ErrInvalidSparseMap if
// regions are unsorted, overlapping, or exceed logicalSize.
func New(logicalSize uint64, regions []Region) (Map, error) {
	if err := validate(logicalSize, regions); err != nil {
		return Map{}, err
	}
	return Map{LogicalSize: logicalSize, Regions: regions}, nil
}

func validate(logicalSize uint64, regions []Region) error {
	for i := 1; i < len(regions); i++ {
		if regions[i-1].Offset >= regions[i].Offset {
			return xerrors.Errorf("sparse: region %d offset %d not strictly after region %d offset %d: %w",
				i, regions[i].Offset, i-1, regions[i-1].Offset, pna.ErrInvalidSparseMap)
		}
		if regions[i-1].End() > regions[i].Offset {
			return xerrors.Errorf("sparse: region %d (ends %d) overlaps region %d (starts %d): %w",
				i-1, regions[i-1].End(), i, regions[i].Offset, pna.ErrInvalidSparseMap)
		}
	}
	if n := len(regions); n > 0 {
		if regions[n-1].End() > logicalSize {
			return xerrors.Errorf("sparse: region ends at %d, beyond logical size %d: %w",
				regions[n-1].End(), logicalSize, pna.ErrInvalidSparseMap)
		}
	}
	return nil
}

// DataSize returns the total number of actual (non-hole) bytes, i.e. the
// number of bytes the corresponding FDAT stream should carry.
func (m Map) DataSize() uint64 {
	var total uint64
	for _, r := range m.Regions {
		total += r.Size
	}
	return total
}

// IsAllHole reports whether the entire logical file is a hole (no data
// regions at all).
func (m Map) IsAllHole() bool { return len(m.Regions) == 0 }

// Encode serializes m into a SPAR chunk payload: an 8-byte big-endian
// logical size followed by 16-byte (offset, size) records.
func Encode(m Map) []byte {
	buf := make([]byte, 8+16*len(m.Regions))
	binary.BigEndian.PutUint64(buf[0:8], m.LogicalSize)
	for i, r := range m.Regions {
		off := 8 + i*16
		binary.BigEndian.PutUint64(buf[off:off+8], r.Offset)
		binary.BigEndian.PutUint64(buf[off+8:off+16], r.Size)
	}
	return buf
}

// Decode parses a SPAR chunk payload and validates its invariants.
func Decode(data []byte) (Map, error) {
	if len(data) < 8 {
		return Map{}, xerrors.Errorf("sparse: SPAR chunk too short (%d bytes): %w", len(data), pna.ErrInvalidSparseMap)
	}
	logicalSize := binary.BigEndian.Uint64(data[0:8])
	rest := data[8:]
	if len(rest)%16 != 0 {
		return Map{}, xerrors.Errorf("sparse: SPAR region data length %d not a multiple of 16: %w", len(rest), pna.ErrInvalidSparseMap)
	}
	n := len(rest) / 16
	regions := make([]Region, n)
	for i := 0; i < n; i++ {
		off := i * 16
		regions[i] = Region{
			Offset: binary.BigEndian.Uint64(rest[off : off+8]),
			Size:   binary.BigEndian.Uint64(rest[off+8 : off+16]),
		}
	}
	return New(logicalSize, regions)
}

// Reader reconstructs the logical, hole-filled byte stream from a Map and
// an io.Reader positioned at the start of the concatenated data regions
// (i.e. the decoded FDAT payload).
type Reader struct {
	m        Map
	data     io.Reader
	pos      uint64 // logical position
	regionAt int     // index of the next region not yet fully emitted
	inRegion uint64  // bytes already emitted from the current region
}

// NewReader returns a Reader that yields m.LogicalSize bytes total,
// reading actual data from data exactly m.DataSize() bytes and
// synthesizing zeros for the gaps.
func NewReader(m Map, data io.Reader) *Reader {
	return &Reader{m: m, data: data}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= r.m.LogicalSize {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Skip to the next region if we've exhausted the current one, or fill
	// zeros up to the start of the next region if we're in a hole.
	if r.regionAt < len(r.m.Regions) {
		reg := r.m.Regions[r.regionAt]
		if r.pos < reg.Offset {
			n := reg.Offset - r.pos
			if uint64(len(p)) < n {
				n = uint64(len(p))
			}
			for i := uint64(0); i < n; i++ {
				p[i] = 0
			}
			r.pos += n
			return int(n), nil
		}
		remaining := reg.Size - r.inRegion
		if remaining == 0 {
			r.regionAt++
			r.inRegion = 0
			return r.Read(p)
		}
		want := uint64(len(p))
		if want > remaining {
			want = remaining
		}
		n, err := r.data.Read(p[:want])
		r.pos += uint64(n)
		r.inRegion += uint64(n)
		if n == 0 && err == nil {
			return 0, fmt.Errorf("sparse: data source made no progress")
		}
		if err == io.EOF && uint64(n) < want {
			return n, xerrors.Errorf("sparse: data source ended mid-region: %w", pna.ErrUnexpectedEOF)
		}
		if err != nil && err != io.EOF {
			return n, err
		}
		return n, nil
	}

	// Past the last region: the remainder of the logical file is a hole.
	n := r.m.LogicalSize - r.pos
	if uint64(len(p)) < n {
		n = uint64(len(p))
	}
	for i := uint64(0); i < n; i++ {
		p[i] = 0
	}
	r.pos += n
	return int(n), nil
}
