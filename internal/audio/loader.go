package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

const streamBufferFrames = 4096

// Load decodes a blob into a mono waveform at TargetSampleRate.
//
// Channels are collapsed by averaging. beep always yields stereo frames and
// duplicates a mono source into both slots, so mono input passes through
// unchanged. Sources at another rate are resampled with beep's resampler.
func Load(blob Blob, limits Limits) (Waveform, error) {
	if limits.MaxBytes > 0 && int64(len(blob.Data)) > limits.MaxBytes {
		return Waveform{}, &LimitError{
			Name:   blob.Name,
			Limit:  fmt.Sprintf("%d bytes", limits.MaxBytes),
			Actual: fmt.Sprintf("%d bytes", len(blob.Data)),
		}
	}
	if len(blob.Data) == 0 {
		return Waveform{}, &UnsupportedFormatError{Name: blob.Name, Reason: "empty file"}
	}

	stream, format, err := decode(blob)
	if err != nil {
		return Waveform{}, &UnsupportedFormatError{Name: blob.Name, Reason: "decode " + string(blob.Format), Err: err}
	}
	defer stream.Close()

	if format.SampleRate <= 0 {
		return Waveform{}, &UnsupportedFormatError{Name: blob.Name, Reason: fmt.Sprintf("invalid sample rate %d", format.SampleRate)}
	}

	if limits.MaxDuration > 0 {
		duration := format.SampleRate.D(stream.Len())
		if duration > limits.MaxDuration {
			return Waveform{}, &LimitError{
				Name:   blob.Name,
				Limit:  limits.MaxDuration.String(),
				Actual: duration.Round(time.Second).String(),
			}
		}
	}

	var source beep.Streamer = stream
	if format.SampleRate != TargetSampleRate {
		quality := limits.ResampleQuality
		if quality < 1 || quality > 64 {
			quality = 4
		}
		source = beep.Resample(quality, format.SampleRate, beep.SampleRate(TargetSampleRate), stream)
	}

	samples, err := drain(source, stream.Len(), format.SampleRate)
	if err != nil {
		return Waveform{}, &UnsupportedFormatError{Name: blob.Name, Reason: "read samples", Err: err}
	}
	if len(samples) == 0 {
		return Waveform{}, &UnsupportedFormatError{Name: blob.Name, Reason: "no audio samples"}
	}

	return Waveform{Samples: samples, SampleRate: TargetSampleRate}, nil
}

func decode(blob Blob) (beep.StreamSeekCloser, beep.Format, error) {
	switch blob.Format {
	case FormatWAV:
		return wav.Decode(bytes.NewReader(blob.Data))
	case FormatMP3:
		return mp3.Decode(io.NopCloser(bytes.NewReader(blob.Data)))
	default:
		return nil, beep.Format{}, fmt.Errorf("no decoder for %q", blob.Format)
	}
}

// drain pulls every frame from s and averages the two channels.
func drain(s beep.Streamer, sourceFrames int, sourceRate beep.SampleRate) ([]float32, error) {
	capacity := sourceFrames
	if sourceRate > 0 && sourceFrames > 0 {
		capacity = int(int64(sourceFrames) * TargetSampleRate / int64(sourceRate))
	}
	out := make([]float32, 0, capacity+streamBufferFrames)

	buf := make([][2]float64, streamBufferFrames)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, clamp((buf[i][0]+buf[i][1])/2))
		}
		if !ok {
			break
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func clamp(v float64) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return float32(v)
}
