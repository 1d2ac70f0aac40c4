package monitor

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"example.com", "example.com"},
		{"https://example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"https://example.com/path/to/page?q=1#frag", "example.com"},
		{"https://example.com:8443/path", "example.com"},
		{"Example.COM", "example.com"},
		{"example.com.", "example.com"},
		{"  example.com  ", "example.com"},
		{"sub.example.co.uk", "sub.example.co.uk"},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.input)
		if err != nil {
			t.Errorf("Normalize(%q) returned unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"https://a.com/p", "a.com", "A.com.", "https://sub.b.org:444/x"}
	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) errored: %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) errored: %v", in, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"exam ple.com",
		"example.com/path with space",
		"https://",
	}
	for _, c := range cases {
		if _, err := Normalize(c); !errors.Is(err, ErrInvalidHostname) {
			t.Errorf("Normalize(%q) = %v, want ErrInvalidHostname", c, err)
		}
	}
}
