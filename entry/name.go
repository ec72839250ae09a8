// Package entry composes FHED/FDAT*/FEND and SHED/SDAT*/SEND chunk groups
// into logical archive entries: files, directories, symlinks, hardlinks,
// and solid blocks that nest other entries. It sits above chunk, sparse,
// compress, and cipher, and owns entry-name canonicalization and metadata
// side-chunk codecs.
package entry

import (
	"fmt"
	"strings"

	"github.com/pnaio/pna"
)

var errNulByte = fmt.Errorf("entry: name contains a NUL byte: %w", pna.ErrMalformedStream)

// CanonicalizeName normalizes a raw entry name into the form stored in an
// FHED/SHED record (spec §6.3): strip a leading separator, resolve "."
// and ".." segments lexically, convert backslashes to forward slashes,
// drop a Windows drive-letter prefix such as "C:", and reject embedded
// NUL bytes.
func CanonicalizeName(raw string) (string, error) {
	if strings.IndexByte(raw, 0) >= 0 {
		return "", errNulByte
	}
	s := strings.ReplaceAll(raw, "\\", "/")
	if len(s) >= 2 && s[1] == ':' && isASCIILetter(s[0]) {
		s = s[2:]
	}
	segments := strings.Split(s, "/")
	var out []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			// a ".." with nothing to pop is dropped: canonical names never
			// escape above their own root.
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/"), nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
