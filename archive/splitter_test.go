package archive

import (
	"bytes"
	"testing"

	"github.com/pnaio/pna/chunk"
)

func TestSplitEverythingFits(t *testing.T) {
	chunks := []chunk.Chunk{
		{Type: chunk.FHED, Data: []byte{0, 0, 0, 0, 0, 0}},
		{Type: chunk.FDAT, Data: []byte("hello")},
		{Type: chunk.FEND},
	}
	prefix, suffix, ok := Split(chunks, 10000)
	if !ok || suffix != nil {
		t.Fatalf("expected everything to fit, got prefix=%v suffix=%v ok=%v", prefix, suffix, ok)
	}
	if len(prefix) != len(chunks) {
		t.Fatalf("prefix length = %d, want %d", len(prefix), len(chunks))
	}
}

func TestSplitAtStreamChunk(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 100)
	chunks := []chunk.Chunk{
		{Type: chunk.FHED, Data: []byte{0, 0, 0, 0, 0, 0}},
		{Type: chunk.FDAT, Data: data},
		{Type: chunk.FEND},
	}
	fhedLen := chunk.EncodedLen(6)
	budget := fhedLen + minChunkOverhead + 20 // room for FHED plus a 20-byte slice of FDAT
	prefix, suffix, ok := Split(chunks, budget)
	if !ok {
		t.Fatal("expected a split to succeed")
	}
	if len(prefix) != 2 || prefix[1].Type != chunk.FDAT || len(prefix[1].Data) != 20 {
		t.Fatalf("unexpected prefix: %+v", prefix)
	}
	if len(suffix) != 2 || suffix[0].Type != chunk.FDAT || len(suffix[0].Data) != 80 {
		t.Fatalf("unexpected suffix: %+v", suffix)
	}
	// Concatenating the two FDAT halves reproduces the original data.
	got := append(append([]byte{}, prefix[1].Data...), suffix[0].Data...)
	if !bytes.Equal(got, data) {
		t.Fatal("split halves do not reassemble to the original data")
	}
}

func TestSplitAtomicNonStreamChunk(t *testing.T) {
	chunks := []chunk.Chunk{
		{Type: chunk.FHED, Data: []byte{0, 0, 0, 0, 0, 0}},
		{Type: chunk.FPRM, Data: bytes.Repeat([]byte{1}, 50)},
		{Type: chunk.FEND},
	}
	budget := chunk.EncodedLen(6) + 5 // not enough room for FPRM, which is not a stream chunk
	prefix, suffix, ok := Split(chunks, budget)
	if !ok {
		t.Fatal("expected the split to fall before the atomic chunk")
	}
	if len(prefix) != 1 || prefix[0].Type != chunk.FHED {
		t.Fatalf("unexpected prefix: %+v", prefix)
	}
	if len(suffix) != 2 || suffix[0].Type != chunk.FPRM {
		t.Fatalf("unexpected suffix: %+v", suffix)
	}
}

func TestSplitNothingFits(t *testing.T) {
	chunks := []chunk.Chunk{{Type: chunk.FHED, Data: bytes.Repeat([]byte{0}, 100)}}
	_, _, ok := Split(chunks, 5)
	if ok {
		t.Fatal("expected nothing to fit in a 5-byte budget")
	}
}

func TestSplitExactFitIsNotSplit(t *testing.T) {
	chunks := []chunk.Chunk{{Type: chunk.FDAT, Data: bytes.Repeat([]byte{9}, 40)}}
	budget := chunk.EncodedLen(40)
	prefix, suffix, ok := Split(chunks, budget)
	if !ok || suffix != nil || len(prefix) != 1 || len(prefix[0].Data) != 40 {
		t.Fatalf("entry exactly filling the budget should not be split: prefix=%v suffix=%v ok=%v", prefix, suffix, ok)
	}
}
