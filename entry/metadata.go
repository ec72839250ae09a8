package entry

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pnaio/pna"
)

// encodeSize renders n as a big-endian variable-length unsigned integer
// with leading zero bytes stripped, per fSIZ's wire form (spec §3.3). A
// zero value is encoded as a single zero byte.
func encodeSize(n uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return append([]byte(nil), buf[i:]...)
}

// decodeSize parses the fSIZ wire form back into a uint64.
func decodeSize(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, fmt.Errorf("entry: fSIZ payload too long (%d bytes): %w", len(data), pna.ErrMalformedStream)
	}
	var buf [8]byte
	copy(buf[8-len(data):], data)
	return binary.BigEndian.Uint64(buf[:]), nil
}

// encodeTimestamp renders t as 8 big-endian bytes of Unix seconds, as
// cTIM/mTIM/aTIM require.
func encodeTimestamp(t time.Time) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t.Unix()))
	return buf[:]
}

func decodeTimestamp(data []byte) (time.Time, error) {
	if len(data) != 8 {
		return time.Time{}, fmt.Errorf("entry: timestamp chunk must be 8 bytes, got %d: %w", len(data), pna.ErrMalformedStream)
	}
	return time.Unix(int64(binary.BigEndian.Uint64(data)), 0).UTC(), nil
}

// Permission is the fPRM record: owning uid/gid, their symbolic names
// (which may be empty when unknown), and the POSIX mode bits.
type Permission struct {
	UID   uint64
	UName string
	GID   uint64
	GName string
	Mode  uint16
}

func encodeString(s string) []byte {
	b := []byte(s)
	out := make([]byte, 2+len(b))
	binary.BigEndian.PutUint16(out, uint16(len(b)))
	copy(out[2:], b)
	return out
}

func readString(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, fmt.Errorf("entry: truncated length-prefixed string: %w", pna.ErrUnexpectedEOF)
	}
	n := int(binary.BigEndian.Uint16(data))
	if len(data) < 2+n {
		return "", nil, fmt.Errorf("entry: truncated length-prefixed string: %w", pna.ErrUnexpectedEOF)
	}
	return string(data[2 : 2+n]), data[2+n:], nil
}

// Encode renders p as an fPRM chunk payload.
func (p Permission) Encode() []byte {
	var out []byte
	var uid [8]byte
	binary.BigEndian.PutUint64(uid[:], p.UID)
	out = append(out, uid[:]...)
	out = append(out, encodeString(p.UName)...)
	var gid [8]byte
	binary.BigEndian.PutUint64(gid[:], p.GID)
	out = append(out, gid[:]...)
	out = append(out, encodeString(p.GName)...)
	var mode [2]byte
	binary.BigEndian.PutUint16(mode[:], p.Mode)
	out = append(out, mode[:]...)
	return out
}

// DecodePermission parses an fPRM chunk payload.
func DecodePermission(data []byte) (Permission, error) {
	if len(data) < 8 {
		return Permission{}, fmt.Errorf("entry: fPRM truncated uid: %w", pna.ErrUnexpectedEOF)
	}
	uid := binary.BigEndian.Uint64(data)
	rest := data[8:]
	uname, rest, err := readString(rest)
	if err != nil {
		return Permission{}, err
	}
	if len(rest) < 8 {
		return Permission{}, fmt.Errorf("entry: fPRM truncated gid: %w", pna.ErrUnexpectedEOF)
	}
	gid := binary.BigEndian.Uint64(rest)
	rest = rest[8:]
	gname, rest, err := readString(rest)
	if err != nil {
		return Permission{}, err
	}
	if len(rest) != 2 {
		return Permission{}, fmt.Errorf("entry: fPRM trailing bytes after mode: %w", pna.ErrMalformedStream)
	}
	mode := binary.BigEndian.Uint16(rest)
	return Permission{UID: uid, UName: uname, GID: gid, GName: gname, Mode: mode}, nil
}

// ExtendedAttribute is one xATR record: a key plus its opaque value.
type ExtendedAttribute struct {
	Name  string
	Value []byte
}

// Encode renders a as an xATR chunk payload.
func (a ExtendedAttribute) Encode() []byte {
	out := encodeString(a.Name)
	return append(out, a.Value...)
}

// DecodeExtendedAttribute parses an xATR chunk payload.
func DecodeExtendedAttribute(data []byte) (ExtendedAttribute, error) {
	name, rest, err := readString(data)
	if err != nil {
		return ExtendedAttribute{}, err
	}
	return ExtendedAttribute{Name: name, Value: append([]byte(nil), rest...)}, nil
}
