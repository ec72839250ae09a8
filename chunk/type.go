// Package chunk implements the PNA wire-level chunk frame: a 4-byte
// big-endian length, a 4-byte ASCII type, the length-prefixed data, and a
// trailing CRC-32 over type+data. The case of each type byte encodes a flag
// bit, following the same convention PNG chunk types use.
package chunk

import (
	"fmt"

	"github.com/pnaio/pna"
)

// Type is a 4-byte ASCII chunk type identifier. The case of each byte
// carries flag bits: byte 0 critical/ancillary, byte 1 public/private,
// byte 2 reserved (must be uppercase), byte 3 safe-to-copy/unsafe-to-copy.
type Type [4]byte

// NewType validates s as a chunk type identifier: exactly 4 ASCII letters
// with the reserved bit (byte index 2) clear, i.e. uppercase.
func NewType(s string) (Type, error) {
	var t Type
	if len(s) != 4 {
		return t, fmt.Errorf("%w: %q is not 4 bytes", pna.ErrInvalidChunkType, s)
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !isASCIILetter(c) {
			return t, fmt.Errorf("%w: %q has non-letter byte %d", pna.ErrInvalidChunkType, s, i)
		}
		t[i] = c
	}
	if !isUpper(t[2]) {
		return t, fmt.Errorf("%w: %q has reserved bit set (byte 2 must be uppercase)", pna.ErrInvalidChunkType, s)
	}
	return t, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// String returns the 4-character representation of the type.
func (t Type) String() string { return string(t[:]) }

// IsCritical reports whether a reader that does not recognize this type
// must treat it as a fatal error (byte 0 uppercase).
func (t Type) IsCritical() bool { return isUpper(t[0]) }

// IsPublic reports whether this type is part of the registered, public
// vocabulary (byte 1 uppercase) as opposed to a private extension.
func (t Type) IsPublic() bool { return isUpper(t[1]) }

// IsReserved reports the reserved bit (byte 2). A Type constructed through
// NewType always has this clear; it is exposed for completeness when a
// Type is decoded directly off the wire without validation.
func (t Type) IsReserved() bool { return !isUpper(t[2]) }

// IsSafeToCopy reports whether an archive rewriter that does not
// understand this chunk may copy it to the output unmodified (byte 3
// lowercase).
func (t Type) IsSafeToCopy() bool { return !isUpper(t[3]) }

// Bytes returns the 4 raw bytes of the type.
func (t Type) Bytes() []byte { return t[:] }

// mustType builds a Type from a string known at compile time to be valid;
// it panics otherwise, which can only happen if this package's own
// constants below are wrong.
func mustType(s string) Type {
	t, err := NewType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Standard chunk types (spec §6.1).
var (
	AHED = mustType("AHED") // Archive header (version)
	ANXT = mustType("ANXT") // Archive continues in next part
	AEND = mustType("AEND") // Archive terminator

	FHED = mustType("FHED") // File entry header
	FDAT = mustType("FDAT") // File data (stream)
	FEND = mustType("FEND") // File entry terminator

	SHED = mustType("SHED") // Solid entry header
	SDAT = mustType("SDAT") // Solid entry data (stream)
	SEND = mustType("SEND") // Solid entry terminator

	FSIZ = mustType("fSIZ") // Raw payload size
	FPRM = mustType("fPRM") // Permission
	CTIM = mustType("cTIM") // Created timestamp
	MTIM = mustType("mTIM") // Modified timestamp
	ATIM = mustType("aTIM") // Accessed timestamp
	XATR = mustType("xATR") // One extended attribute
	PHSF = mustType("PHSF") // Password hashing string (PHC)
	SPAR = mustType("SPAR") // Sparse map
)

// known is the closed set of standard types this package recognizes.
var known = map[Type]struct{}{
	AHED: {}, ANXT: {}, AEND: {},
	FHED: {}, FDAT: {}, FEND: {},
	SHED: {}, SDAT: {}, SEND: {},
	FSIZ: {}, FPRM: {}, CTIM: {}, MTIM: {}, ATIM: {}, XATR: {}, PHSF: {}, SPAR: {},
}

// IsKnown reports whether t is one of the predefined standard types.
func IsKnown(t Type) bool {
	_, ok := known[t]
	return ok
}

// IsStreamType reports whether a chunk of this type may be split at an
// arbitrary byte offset when an entry is divided across archive parts
// (spec §4.1, §4.7). Only FDAT and SDAT are stream chunks.
func IsStreamType(t Type) bool {
	return t == FDAT || t == SDAT
}
