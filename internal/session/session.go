// Package session holds the state of the single interactive session: the
// current upload, its transcript and notes, and the follow-up history.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Turn is one follow-up question and the answer it got.
type Turn struct {
	Question string
	Answer   string
}

// State is safe for concurrent use. At most one transcript and one notes
// value exist at a time, both belonging to the current filename.
type State struct {
	mu         sync.RWMutex
	filename   string
	uploadID   string
	transcript string
	notes      string
	inProgress bool
	turns      []Turn
}

func New() *State {
	return &State{}
}

// RecordUpload makes filename the current upload. A different filename
// discards the transcript, notes and turns of the previous one; the same
// filename keeps them.
func (s *State) RecordUpload(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filename == filename && s.uploadID != "" {
		return
	}
	s.reset()
	s.filename = filename
	s.uploadID = uuid.NewString()
}

// IsSameUpload reports whether filename is the current upload.
func (s *State) IsSameUpload(filename string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename != "" && s.filename == filename
}

func (s *State) SetTranscript(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = t
}

func (s *State) SetNotes(n string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = n
}

// Clear resets the whole session, including the current filename.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *State) reset() {
	s.filename = ""
	s.uploadID = ""
	s.transcript = ""
	s.notes = ""
	s.turns = nil
}

func (s *State) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// UploadID identifies the current upload in logs; empty when there is none.
func (s *State) UploadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploadID
}

func (s *State) Transcript() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript
}

func (s *State) Notes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes
}

func (s *State) HasNotes() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes != ""
}

// BeginGeneration marks a generation as running. It returns false if one
// already is, in which case the caller must not start another.
func (s *State) BeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress {
		return false
	}
	s.inProgress = true
	return true
}

func (s *State) EndGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
}

func (s *State) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

func (s *State) AddTurn(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Question: question, Answer: answer})
}

// Turns returns a copy of the follow-up history, oldest first.
func (s *State) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
