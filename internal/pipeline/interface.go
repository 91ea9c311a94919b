package pipeline

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/session"
)

var (
	// ErrNoNotes is returned by Ask and Export before any notes exist.
	ErrNoNotes = errors.New("no notes yet: upload a lecture first")
	// ErrBusy is returned when a generation is already running for the session.
	ErrBusy = errors.New("a generation is already in progress")
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Pipeline drives one lecture from upload to notes, then answers follow-up
// questions about it. Runs are serialised.
type Pipeline interface {
	// Process transcribes the blob and generates notes, streaming fragments
	// to onFragment. Re-uploading the current file reuses what is stored.
	Process(ctx context.Context, blob audio.Blob, onFragment func(string)) (Result, error)
	// ProcessFile is Process for a file on disk followed by exporting the
	// notes in every configured format. It is the watcher's event handler.
	ProcessFile(ctx context.Context, path string) error
	Ask(ctx context.Context, question string, onFragment func(string)) (string, error)
	// Export renders the current notes and writes them under dir.
	Export(ctx context.Context, format, dir string) (string, error)
	Clear()
	Session() *session.State
	Params() generator.Params
	SetParams(p generator.Params) error
}

// Result describes what a Process call produced.
type Result struct {
	Filename   string
	Transcript string
	Notes      string
	// Reused is true when the notes were already stored for this file and
	// nothing was regenerated.
	Reused bool
}
