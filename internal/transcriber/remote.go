package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

// remoteWhisper sends audio to an OpenAI-compatible transcription endpoint.
type remoteWhisper struct {
	client   *openai.Client
	model    string
	language string
	prompt   string
	tempDir  string
	logger   logger.Logger
}

func newRemoteWhisper(ctx context.Context, cfg *config.Config, log logger.Logger) (*remoteWhisper, error) {
	key := os.Getenv(cfg.Whisper.APIKeyEnv)
	if key == "" {
		return nil, &ModelLoadError{Backend: "openai", Err: fmt.Errorf("%s is not set", cfg.Whisper.APIKeyEnv)}
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.Whisper.BaseURL != "" {
		clientCfg.BaseURL = cfg.Whisper.BaseURL
	}

	log.Info(ctx, "Remote transcription ready: model %s at %s", cfg.Whisper.Model, clientCfg.BaseURL)

	return &remoteWhisper{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Whisper.Model,
		language: cfg.Whisper.Language,
		prompt:   cfg.Whisper.Prompt,
		tempDir:  cfg.Paths.Temp,
		logger:   log,
	}, nil
}

func (r *remoteWhisper) Transcribe(ctx context.Context, wf audio.Waveform) (string, error) {
	if len(wf.Samples) == 0 {
		return "", &TranscriptionError{Err: fmt.Errorf("empty waveform")}
	}

	workDir, err := os.MkdirTemp(r.tempDir, "transcribe-*")
	if err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "lecture.wav")
	if err := writeWAVFile(wavPath, wf); err != nil {
		return "", &TranscriptionError{Err: err}
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("open wav: %w", err)}
	}
	defer f.Close()

	r.logger.Info(ctx, "Uploading %s of audio for transcription", wf.Duration())

	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    r.model,
		FilePath: "lecture.wav",
		Reader:   f,
		Language: r.language,
		Prompt:   r.prompt,
	})
	if err != nil {
		return "", &TranscriptionError{Err: err}
	}

	text := normalizeTranscript(resp.Text)
	if text == "" {
		return "", &TranscriptionError{Err: fmt.Errorf("empty transcription result")}
	}
	return text, nil
}
