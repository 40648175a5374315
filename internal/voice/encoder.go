package voice

import (
	"fmt"

	"layeh.com/gopus"
)

const opusBitrate = 160000

type encoder struct {
	enc *gopus.Encoder
}

func newEncoder() (*encoder, error) {
	enc, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	enc.SetBitrate(opusBitrate)
	return &encoder{enc: enc}, nil
}

// Encode compresses one 20ms frame of interleaved stereo samples.
func (e *encoder) Encode(samples []int16) ([]byte, error) {
	return e.enc.Encode(samples, frameSize, 4000)
}
