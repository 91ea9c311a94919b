package shell

import (
	"bufio"
	"io"
	"sync"
	"time"

	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/internal/pipeline"
)

const maxLineBytes = 1 << 20

// Options tune the shell. Zero values pick defaults.
type Options struct {
	// ExportDir is used by export when no directory is given.
	ExportDir string
	// FactInterval is how often a new fun fact is shown while a lecture is
	// being processed.
	FactInterval time.Duration
}

type implShell struct {
	pipeline pipeline.Pipeline
	scanner  *bufio.Scanner
	logger   logger.Logger
	opts     Options

	mu  sync.Mutex // guards out
	out io.Writer
}

func New(p pipeline.Pipeline, in io.Reader, out io.Writer, opts Options, log logger.Logger) Shell {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.FactInterval <= 0 {
		opts.FactInterval = 8 * time.Second
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &implShell{
		pipeline: p,
		scanner:  scanner,
		logger:   log,
		opts:     opts,
		out:      out,
	}
}
