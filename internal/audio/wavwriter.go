package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WriteWAV encodes a waveform as 16-bit PCM mono WAV.
func WriteWAV(w io.WriteSeeker, wf Waveform) error {
	if wf.SampleRate <= 0 {
		return fmt.Errorf("write wav: invalid sample rate %d", wf.SampleRate)
	}

	data := make([]int, len(wf.Samples))
	for i, s := range wf.Samples {
		data[i] = int(math.Round(float64(clamp(float64(s))) * math.MaxInt16))
	}

	enc := gowav.NewEncoder(w, wf.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  wf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
