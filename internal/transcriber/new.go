package transcriber

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/pkg/executor"
)

var (
	sharedOnce sync.Once
	shared     Transcriber
	sharedErr  error
)

// Shared returns the process-wide Transcriber, loading it on first use.
// The outcome of the first load, success or failure, is returned to every
// later caller; arguments of later calls are ignored.
func Shared(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = New(ctx, cfg, exec, log)
	})
	return shared, sharedErr
}

// New loads the backend selected by whisper.backend.
func New(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Whisper.Backend {
	case "whisper-cli", "":
		return newWhisperCLI(ctx, cfg, exec, log)
	case "openai":
		return newRemoteWhisper(ctx, cfg, log)
	default:
		return nil, &ModelLoadError{
			Backend: cfg.Whisper.Backend,
			Err:     fmt.Errorf("unknown backend (supported: whisper-cli, openai)"),
		}
	}
}
