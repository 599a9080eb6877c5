package textsplit

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"caps blank lines", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"keeps single paragraph break", "one\n\ntwo", "one\n\ntwo"},
		{"normalizes crlf", "one\r\ntwo", "one\ntwo"},
		{"trims edges", "  \n hello \n ", "hello"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q): got %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
