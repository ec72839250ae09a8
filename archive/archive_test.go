package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
	"github.com/pnaio/pna/entry"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}

	b, err := entry.NewBuilder("hello.txt", entry.KindFile)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write([]byte("hello, archive")); err != nil {
		t.Fatal(err)
	}
	chunks, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEntry(chunks); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	item, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if item.Regular == nil || item.Regular.Name() != "hello.txt" {
		t.Fatalf("unexpected item: %+v", item)
	}
	payload, err := item.Regular.Open(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello, archive" {
		t.Fatalf("got %q", got)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after the only entry, got %v", err)
	}
	if r.HasNext() {
		t.Fatal("did not expect a continuation")
	}
}

func TestReaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not a pna archive at all")
	if _, err := NewReader(buf); err == nil {
		t.Fatal("expected bad magic error")
	}
}

// closableBuffer adapts bytes.Buffer to io.WriteCloser for SinkFactory.
type closableBuffer struct{ bytes.Buffer }

func (c *closableBuffer) Close() error { return nil }

func TestSplitWriterAcrossThreeParts(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, 10*1024)
	b, err := entry.NewBuilder("big.bin", entry.KindFile)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write(payload); err != nil {
		t.Fatal(err)
	}
	chunks, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	var parts []*closableBuffer
	factory := func(n int) (io.WriteCloser, error) {
		cb := &closableBuffer{}
		parts = append(parts, cb)
		return cb, nil
	}
	sw, err := NewSplitWriter(factory, 4096)
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.WriteEntry(chunks); err != nil {
		t.Fatal(err)
	}
	if err := sw.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	opener := func(n int) (io.Reader, error) {
		return bytes.NewReader(parts[n].Bytes()), nil
	}
	mr, err := NewMultipartReader(opener)
	if err != nil {
		t.Fatal(err)
	}
	item, err := mr.Next()
	if err != nil {
		t.Fatal(err)
	}
	r, err := item.Regular.Open(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("reassembled payload does not match original across 3 parts")
	}
	if _, err := mr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of multipart archive, got %v", err)
	}
}

func TestSplitWriterRejectsTooSmallBudget(t *testing.T) {
	factory := func(n int) (io.WriteCloser, error) { return &closableBuffer{}, nil }
	_, err := NewSplitWriter(factory, pna.MinPartSize-1)
	if err == nil {
		t.Fatal("expected ErrSplitTooSmall")
	}
}

func TestSplitWriterRejectsChunkLargerThanAnyPart(t *testing.T) {
	b, err := entry.NewBuilder("f", entry.KindFile)
	if err != nil {
		t.Fatal(err)
	}
	b.Permission(entry.Permission{UID: 1, GID: 1, Mode: 0o644})
	chunks, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	// Replace the real fPRM chunk with an oversized one that can never fit
	// in any part, even an entirely empty one.
	for i, c := range chunks {
		if c.Type.String() == "fPRM" {
			chunks[i] = chunk.Chunk{Type: c.Type, Data: make([]byte, 10000)}
		}
	}

	factory := func(n int) (io.WriteCloser, error) { return &closableBuffer{}, nil }
	sw, err := NewSplitWriter(factory, pna.MinPartSize+64)
	if err != nil {
		t.Fatal(err)
	}
	err = sw.WriteEntry(chunks)
	if !errors.Is(err, pna.ErrSplitTooSmall) {
		t.Fatalf("got %v, want ErrSplitTooSmall", err)
	}
}

func TestCrcTamperIsFatal(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b, err := entry.NewBuilder("f", entry.KindFile)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write([]byte("payload bytes")); err != nil {
		t.Fatal(err)
	}
	chunks, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEntry(chunks); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	// Flip a byte inside the FDAT chunk's data section rather than its
	// length/type header. The entry is stored uncompressed, so the payload
	// appears verbatim in the stream.
	tampered := append([]byte(nil), raw...)
	tampered[bytes.Index(raw, []byte("payload bytes"))] ^= 0xFF

	r, err := NewReader(bytes.NewReader(tampered))
	if err != nil {
		return // corruption landed in the header itself: also correctly rejected
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("expected a CRC mismatch or similar decode failure on tampered input")
	}
}
