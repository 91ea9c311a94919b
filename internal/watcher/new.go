package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
)

// settleDelay gives the writer of a new file time to finish before it is read.
const settleDelay = 500 * time.Millisecond

// New creates a Watcher on inputDir. Files are handed to handler one at a
// time, in the order they appear.
func New(inputDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		settle:   settleDelay,
		queue:    make(chan string, 64),
	}, nil
}
