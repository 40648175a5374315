package voice

import (
	"encoding/binary"
	"math"
	"testing"
)

func pcmBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestDecodeAndScale(t *testing.T) {
	in := []int16{0, 100, -100, 20000, -20000}

	cases := []struct {
		name string
		vol  float64
		want []int16
	}{
		{"unity", 1.0, []int16{0, 100, -100, 20000, -20000}},
		{"half", 0.5, []int16{0, 50, -50, 10000, -10000}},
		{"muted", 0, []int16{0, 0, 0, 0, 0}},
		{"boost clips", 2.0, []int16{0, 200, -200, math.MaxInt16, math.MinInt16}}, // 40000 clips to the int16 range
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := make([]int16, len(in))
			decodeAndScale(pcmBytes(in), got, c.vol)
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("sample %d = %d, want %d", i, got[i], c.want[i])
				}
			}
		})
	}
}
