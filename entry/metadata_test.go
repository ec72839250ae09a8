package entry

import (
	"testing"
	"time"
)

func TestEncodeDecodeSize(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, 1 << 32, ^uint64(0)} {
		enc := encodeSize(n)
		got, err := decodeSize(enc)
		if err != nil {
			t.Fatalf("decodeSize(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip %d -> %x -> %d", n, enc, got)
		}
	}
	if len(encodeSize(0)) != 1 {
		t.Fatalf("encodeSize(0) should strip to a single zero byte, got %x", encodeSize(0))
	}
}

func TestEncodeDecodeTimestamp(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	got, err := decodeTimestamp(encodeTimestamp(now))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now) {
		t.Fatalf("got %v, want %v", got, now)
	}
}

func TestPermissionRoundTrip(t *testing.T) {
	p := Permission{UID: 42, UName: "root", GID: 42, GName: "wheel", Mode: 0o755}
	got, err := DecodePermission(p.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestExtendedAttributeRoundTrip(t *testing.T) {
	a := ExtendedAttribute{Name: "user.test", Value: []byte{1, 2, 3}}
	got, err := DecodeExtendedAttribute(a.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != a.Name || string(got.Value) != string(a.Value) {
		t.Fatalf("got %+v, want %+v", got, a)
	}
}
