package util

import "testing"

func TestMustParseUint(t *testing.T) {
	cases := []struct {
		in   string
		want uint
	}{
		{"42", 42},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-1", 0},
	}
	for _, c := range cases {
		if got := MustParseUint(c.in); got != c.want {
			t.Errorf("MustParseUint(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"2", "50", 2, 50},
		{"", "", 1, 20},
		{"0", "0", 1, 20},
		{"-3", "1000", 1, 20},
	}
	for _, c := range cases {
		p, l := ParsePage(c.page, c.limit)
		if p != c.wantPage || l != c.wantLimit {
			t.Errorf("ParsePage(%q, %q) = (%d, %d), want (%d, %d)", c.page, c.limit, p, l, c.wantPage, c.wantLimit)
		}
	}
}
