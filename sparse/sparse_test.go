package sparse

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pnaio/pna"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m, err := New(1024, []Region{{Offset: 0, Size: 10}, {Offset: 100, Size: 20}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(Encode(m))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationRejectsOverlap(t *testing.T) {
	_, err := New(100, []Region{{Offset: 0, Size: 10}, {Offset: 5, Size: 10}})
	if !errors.Is(err, pna.ErrInvalidSparseMap) {
		t.Fatalf("got %v, want ErrInvalidSparseMap", err)
	}
}

func TestValidationRejectsOutOfBounds(t *testing.T) {
	_, err := New(10, []Region{{Offset: 0, Size: 20}})
	if !errors.Is(err, pna.ErrInvalidSparseMap) {
		t.Fatalf("got %v, want ErrInvalidSparseMap", err)
	}
}

func TestReaderFillsHoles(t *testing.T) {
	const logicalSize = 1 << 20
	const regionOffset = 524288
	const regionSize = 4096
	m, err := New(logicalSize, []Region{{Offset: regionOffset, Size: regionSize}})
	if err != nil {
		t.Fatal(err)
	}
	regionData := bytes.Repeat([]byte{0xBB}, regionSize)
	r := NewReader(m, bytes.NewReader(regionData))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != logicalSize {
		t.Fatalf("got %d bytes, want %d", len(got), logicalSize)
	}
	for i, b := range got {
		want := byte(0)
		if i >= regionOffset && i < regionOffset+regionSize {
			want = 0xBB
		}
		if b != want {
			t.Fatalf("byte %d = %x, want %x", i, b, want)
		}
	}
}

func TestReaderAllHole(t *testing.T) {
	m, err := New(100, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := NewReader(m, bytes.NewReader(nil))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Fatalf("got %d bytes, want 100", len(got))
	}
	for _, b := range got {
		if b != 0 {
			t.Fatal("expected all zero")
		}
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder(1000)
	if err := b.WriteRegion(0, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteRegion(500, []byte("world")); err != nil {
		t.Fatal(err)
	}
	m, data, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "helloworld" {
		t.Fatalf("got data %q", data)
	}
	r := NewReader(m, bytes.NewReader(data))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got[0:5]) != "hello" || string(got[500:505]) != "world" {
		t.Fatalf("got unexpected reconstruction")
	}
}

func TestBuilderRejectsOverlap(t *testing.T) {
	b := NewBuilder(100)
	if err := b.WriteRegion(10, []byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteRegion(15, []byte("x")); err == nil {
		t.Fatal("expected overlap error")
	}
}
