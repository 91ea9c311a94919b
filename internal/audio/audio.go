// Package audio turns uploaded lecture recordings into the mono 16 kHz
// waveform the speech model expects.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TargetSampleRate is the rate every Waveform is normalised to.
const TargetSampleRate = 16000

type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// Blob is an uploaded audio file. It is never modified after creation.
type Blob struct {
	Name   string
	Format Format
	Data   []byte
}

// Waveform is a single-channel sample buffer with values in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the playing time of the waveform.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// Limits bounds what Load accepts. Zero values disable a bound.
type Limits struct {
	MaxBytes        int64
	MaxDuration     time.Duration
	ResampleQuality int
}

var mimeFormats = map[string]Format{
	"audio/wav":   FormatWAV,
	"audio/x-wav": FormatWAV,
	"audio/wave":  FormatWAV,
	"audio/mpeg":  FormatMP3,
	"audio/mp3":   FormatMP3,
}

// DetectFormat resolves the declared format of an upload from its MIME type,
// falling back to the file extension.
func DetectFormat(name, mime string) (Format, error) {
	if mime != "" {
		if f, ok := mimeFormats[strings.ToLower(strings.TrimSpace(mime))]; ok {
			return f, nil
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	}

	return "", &UnsupportedFormatError{
		Name:   name,
		Reason: fmt.Sprintf("unsupported type (extension %q, mime %q); expected wav or mp3", filepath.Ext(name), mime),
	}
}

// IsSupported reports whether a path has an uploadable extension.
func IsSupported(path string) bool {
	_, err := DetectFormat(path, "")
	return err == nil
}

// BlobFromFile reads an upload from disk. The blob is named after the file's base name.
func BlobFromFile(path string) (Blob, error) {
	name := filepath.Base(path)
	format, err := DetectFormat(name, "")
	if err != nil {
		return Blob{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("read upload %s: %w", path, err)
	}

	return Blob{Name: name, Format: format, Data: data}, nil
}
