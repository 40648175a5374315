package stream

import (
	"testing"
	"time"
)

func TestParseDurationColon(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"3:20", 3*time.Minute + 20*time.Second},
		{"1:05:20", time.Hour + 5*time.Minute + 20*time.Second},
		{"0:59", 59 * time.Second},
		{"42", 0},
		{"", 0},
		{"1:2:3:4", 0},
		{"a:b", 0},
	}
	for _, c := range cases {
		if got := parseDurationColon(c.in); got != c.want {
			t.Errorf("parseDurationColon(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
