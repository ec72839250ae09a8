package chunk

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"

	"github.com/pnaio/pna"
	"golang.org/x/xerrors"
)

// maxDataLength is the largest a chunk's data field may be: the limit of
// the u32 length field. WriteTo refuses anything longer; the smaller PNG
// bound of a signed 32-bit length is not checked on read or on write.
const maxDataLength = math.MaxUint32

// Chunk is one decoded chunk: its type and its data payload. The CRC is not
// retained after a successful read since it has already been validated
// against Type+Data; WriteTo recomputes it. A chunk with no data is read
// back with a nil Data slice.
type Chunk struct {
	Type Type
	Data []byte
}

// crcTable is the IEEE (CRC-32/ISO-HDLC) polynomial table, the same one
// PNG uses over its chunk type+data (see google-wuffs's uncompng package
// doc comments for the reference algorithm description). The standard
// library's hash/crc32 already implements this exactly; there is no
// third-party replacement that does anything but wrap the same table.
var crcTable = crc32.IEEETable

func checksum(typ Type, data []byte) uint32 {
	h := crc32.New(crcTable)
	h.Write(typ.Bytes())
	h.Write(data)
	return h.Sum32()
}

// ReadFrom reads one chunk from r.
//
// If r returns io.EOF before any byte of the 8-byte length+type header is
// read, that io.EOF is returned unchanged: it is the legitimate
// end-of-stream signal the caller (the archive reader) uses to know there
// is nothing left to read. Any other short read, including EOF in the
// middle of the header, the data, or the CRC, is reported as
// pna.ErrUnexpectedEOF.
func ReadFrom(r io.Reader) (Chunk, error) {
	var header [8]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return Chunk{}, io.EOF
		}
		return Chunk{}, xerrors.Errorf("chunk: reading header: %w", pna.ErrUnexpectedEOF)
	}

	length := binary.BigEndian.Uint32(header[0:4])
	var typ Type
	copy(typ[:], header[4:8])
	if !isASCIILetter(typ[0]) || !isASCIILetter(typ[1]) || !isASCIILetter(typ[2]) || !isASCIILetter(typ[3]) {
		return Chunk{}, xerrors.Errorf("chunk: %w", pna.ErrInvalidChunkType)
	}
	if !isUpper(typ[2]) {
		return Chunk{}, xerrors.Errorf("chunk: reserved bit set on %q: %w", typ, pna.ErrInvalidChunkType)
	}

	var data []byte
	if length > 0 {
		data = make([]byte, length)
	}
	if _, err := io.ReadFull(r, data); err != nil {
		return Chunk{}, xerrors.Errorf("chunk: reading %d data bytes: %w", length, pna.ErrUnexpectedEOF)
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return Chunk{}, xerrors.Errorf("chunk: reading crc: %w", pna.ErrUnexpectedEOF)
	}
	expected := binary.BigEndian.Uint32(crcBuf[:])
	actual := checksum(typ, data)
	if expected != actual {
		return Chunk{}, &pna.CrcMismatchError{Type: typ.String(), Expected: expected, Actual: actual}
	}

	return Chunk{Type: typ, Data: data}, nil
}

// WriteTo writes c to w and returns the number of bytes written.
func WriteTo(w io.Writer, c Chunk) (int, error) {
	if len(c.Data) > maxDataLength {
		return 0, xerrors.Errorf("chunk: data length %d exceeds maximum %d", len(c.Data), maxDataLength)
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(c.Data)))
	copy(header[4:8], c.Type.Bytes())

	written := 0
	n, err := w.Write(header[:])
	written += n
	if err != nil {
		return written, xerrors.Errorf("chunk: writing header: %w", err)
	}

	if len(c.Data) > 0 {
		n, err = w.Write(c.Data)
		written += n
		if err != nil {
			return written, xerrors.Errorf("chunk: writing data: %w", err)
		}
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], checksum(c.Type, c.Data))
	n, err = w.Write(crcBuf[:])
	written += n
	if err != nil {
		return written, xerrors.Errorf("chunk: writing crc: %w", err)
	}

	return written, nil
}

// EncodedLen returns the total on-wire size of a chunk carrying n bytes of
// data: 4 (length) + 4 (type) + n + 4 (crc).
func EncodedLen(n int) int { return 12 + n }
