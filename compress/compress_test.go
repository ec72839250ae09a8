package compress

import (
	"bytes"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

	for _, algo := range []Algorithm{Store, Deflate, Zstd, Xz} {
		algo := algo
		t.Run(algo.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(algo, 3, &buf)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			r, err := NewReader(algo, &buf)
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
			}
		})
	}
}

func TestEmptyPayload(t *testing.T) {
	for _, algo := range []Algorithm{Store, Deflate, Zstd, Xz} {
		algo := algo
		t.Run(algo.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(algo, 0, &buf)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			r, err := NewReader(algo, &buf)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 0 {
				t.Fatalf("got %d bytes, want 0", len(got))
			}
		})
	}
}
