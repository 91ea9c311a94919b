package watcher

import "context"

// Watcher monitors the upload folder for new lecture recordings.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called with the path of each new audio file.
type EventHandler func(ctx context.Context, filePath string) error
