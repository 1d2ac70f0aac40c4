package handlers

import (
	"reflect"
	"testing"
)

func TestValidateDomain_Valid(t *testing.T) {
	cases := []string{
		"example.com",
		"sub.example.com",
		"my-site.example.co.uk",
		"a1.io",
	}
	for _, c := range cases {
		if !validateDomain(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}
}

func TestValidateDomain_Invalid(t *testing.T) {
	cases := []string{
		"",
		"-example.com",
		"example-.com",
		"example",
		"example.c",
		"a.com",
		"https://example.com",
		"exam ple.com",
	}
	for _, c := range cases {
		if validateDomain(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestSplitDomains(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "a.com, b.com,c.com", []string{"a.com", "b.com", "c.com"}},
		{"line separated", "a.com\nb.com\n\nc.com\n", []string{"a.com", "b.com", "c.com"}},
		{"single", "a.com", []string{"a.com"}},
		{"empty", "  \n \n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitDomains(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("splitDomains(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
