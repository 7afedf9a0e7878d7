package pathutil

import "testing"

func TestIsRelative(t *testing.T) {
	cases := map[string]bool{
		"./foo":   true,
		"../foo":  true,
		".":       true,
		"..":      true,
		"/a/b":    true,
		"lodash":  false,
		"\x00x":   false,
		"foo/bar": false,
	}
	for in, want := range cases {
		if got := IsRelative(in); got != want {
			t.Errorf("IsRelative(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	if got, want := Resolve("/a/b", "./c"), "/a/b/c"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if got, want := Resolve("/a/b", "../c"), "/a/c"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if got, want := Resolve("/a/b", "/x/y"), "/x/y"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}
