// Package archive drives the top-level PNA container: the magic header,
// the AHED/ANXT/AEND framing state machine, the entry-splitting budget
// writer, and multipart part transitions. It composes chunk (wire
// framing) and entry (FHED/SHED groups) into the single-owner,
// single-threaded reader/writer contract spec §5 describes.
package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
)

// Magic is the 8-byte PNA signature every archive part begins with
// (spec §6.1).
var Magic = [8]byte{0x89, 'P', 'N', 'A', 0x0D, 0x0A, 0x1A, 0x0A}

func writeMagic(w io.Writer) error {
	_, err := w.Write(Magic[:])
	return err
}

func readMagic(r io.Reader) error {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("archive: reading magic: %w", pna.ErrUnexpectedEOF)
		}
		return err
	}
	if !bytes.Equal(buf[:], Magic[:]) {
		return fmt.Errorf("archive: got %x: %w", buf, pna.ErrBadMagic)
	}
	return nil
}

// ahedBodyLen is AHED's fixed payload size: 1 byte major, 1 byte minor,
// and 6 reserved bytes written as zero. This fixed width is what makes
// pna.MinPartSize's "8-byte AHED body" term exact.
const ahedBodyLen = 8

func encodeAHED(v pna.FormatVersion) []byte {
	body := make([]byte, ahedBodyLen)
	body[0] = v.Major
	body[1] = v.Minor
	return body
}

func decodeAHED(data []byte) (pna.FormatVersion, error) {
	if len(data) != ahedBodyLen {
		return pna.FormatVersion{}, fmt.Errorf("archive: AHED payload must be %d bytes, got %d: %w", ahedBodyLen, len(data), pna.ErrMalformedStream)
	}
	return pna.FormatVersion{Major: data[0], Minor: data[1]}, nil
}

// entryName extracts the name logged for a written entry group, or ""
// for a solid block (SHED carries no name).
func entryName(chunks []chunk.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	if chunks[0].Type != chunk.FHED {
		return ""
	}
	name := chunks[0].Data
	if len(name) < 6 {
		return ""
	}
	return string(name[6:])
}
