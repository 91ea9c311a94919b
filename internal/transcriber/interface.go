// Package transcriber converts normalised lecture audio into text.
package transcriber

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
)

// Transcriber converts a mono 16 kHz waveform to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, wf audio.Waveform) (string, error)
}

// ModelLoadError means the speech model could not be made ready. It is fatal
// for the process; the load is never retried.
type ModelLoadError struct {
	Backend string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load %s speech model: %v", e.Backend, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// TranscriptionError means inference failed for one waveform.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
