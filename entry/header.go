package entry

import (
	"fmt"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/cipher"
	"github.com/pnaio/pna/compress"
)

// DataKind identifies what an entry's payload represents (FHED offset 5).
type DataKind byte

const (
	KindFile DataKind = iota
	KindDirectory
	KindSymlink
	KindHardlink
)

func (k DataKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindHardlink:
		return "hardlink"
	default:
		return fmt.Sprintf("entry.DataKind(%d)", byte(k))
	}
}

// Header is the fixed-layout record carried by FHED (full form, with data
// kind and name) or SHED (the same first five bytes only; spec §3.4).
type Header struct {
	Version     pna.FormatVersion
	Compression compress.Algorithm
	Encryption  cipher.Algorithm
	CipherMode  cipher.Mode
	DataKind    DataKind
	Name        string
}

// EncodeFHED renders h as an FHED chunk payload.
func EncodeFHED(h Header) []byte {
	out := make([]byte, 6+len(h.Name))
	out[0] = h.Version.Major
	out[1] = h.Version.Minor
	out[2] = byte(h.Compression)
	out[3] = byte(h.Encryption)
	out[4] = byte(h.CipherMode)
	out[5] = byte(h.DataKind)
	copy(out[6:], h.Name)
	return out
}

// DecodeFHED parses an FHED chunk payload.
func DecodeFHED(data []byte) (Header, error) {
	if len(data) < 6 {
		return Header{}, fmt.Errorf("entry: FHED payload too short (%d bytes): %w", len(data), pna.ErrMalformedStream)
	}
	return Header{
		Version:     pna.FormatVersion{Major: data[0], Minor: data[1]},
		Compression: compress.Algorithm(data[2]),
		Encryption:  cipher.Algorithm(data[3]),
		CipherMode:  cipher.Mode(data[4]),
		DataKind:    DataKind(data[5]),
		Name:        string(data[6:]),
	}, nil
}

// EncodeSHED renders h as an SHED chunk payload: the same first five bytes
// as FHED, omitting data kind and name (spec §3.4).
func EncodeSHED(h Header) []byte {
	return []byte{h.Version.Major, h.Version.Minor, byte(h.Compression), byte(h.Encryption), byte(h.CipherMode)}
}

// DecodeSHED parses an SHED chunk payload.
func DecodeSHED(data []byte) (Header, error) {
	if len(data) != 5 {
		return Header{}, fmt.Errorf("entry: SHED payload must be 5 bytes, got %d: %w", len(data), pna.ErrMalformedStream)
	}
	return Header{
		Version:     pna.FormatVersion{Major: data[0], Minor: data[1]},
		Compression: compress.Algorithm(data[2]),
		Encryption:  cipher.Algorithm(data[3]),
		CipherMode:  cipher.Mode(data[4]),
	}, nil
}
