package entry

import "testing"

func TestCanonicalizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/test.txt", "test.txt"},
		{"/test/test.txt", "test/test.txt"},
		{"test/", "test"},
		{"test/test/", "test/test"},
		{"./test.txt", "test.txt"},
		{"./test/test.txt", "test/test.txt"},
		{"../test.txt", "test.txt"},
		{"../test/test.txt", "test/test.txt"},
		{"test/../test.txt", "test.txt"},
		{"test//test.txt", "test/test.txt"},
		{"test///test.txt", "test/test.txt"},
		{"///test///test.txt", "test/test.txt"},
		{"C:\\test.txt", "test.txt"},
		{"C:\\test\\test.txt", "test/test.txt"},
		{"/", ""},
	}
	for _, c := range cases {
		got, err := CanonicalizeName(c.in)
		if err != nil {
			t.Fatalf("CanonicalizeName(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("CanonicalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalizeNameRejectsNUL(t *testing.T) {
	if _, err := CanonicalizeName("bad\x00name"); err == nil {
		t.Fatal("expected error for embedded NUL byte")
	}
}
