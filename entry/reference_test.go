package entry

import "testing"

func TestNewReferencePreservesRootAndParent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"uer/bin", "uer/bin"},
		{"/user/bin", "/user/bin"},
		{"/user/bin/", "/user/bin"},
		{"../user/bin/", "../user/bin"},
		{"/", "/"},
		{"bar/../foo.txt", "bar/../foo.txt"},
	}
	for _, c := range cases {
		got, err := NewReference(c.in)
		if err != nil {
			t.Fatalf("NewReference(%q): %v", c.in, err)
		}
		if got.String() != c.want {
			t.Errorf("NewReference(%q) = %q, want %q", c.in, got.String(), c.want)
		}
	}
}

func TestReferenceIsAbsolute(t *testing.T) {
	r, err := NewReference("/etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsAbsolute() {
		t.Fatal("expected absolute reference")
	}
	r2, err := NewReference("relative/path")
	if err != nil {
		t.Fatal(err)
	}
	if r2.IsAbsolute() {
		t.Fatal("expected relative reference")
	}
}
