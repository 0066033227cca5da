package httpapi

import "testing"

func TestMaskToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "********"},
		{"exactly8", "********"},
		{"secret-token-1234", "********1234"},
	}
	for _, c := range cases {
		if got := maskToken(c.in); got != c.want {
			t.Fatalf("maskToken(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
