package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/pkg/executor"
)

// whisperCLI drives a whisper.cpp binary. Nothing stays resident: every
// Transcribe starts a new process that reads the model file again.
type whisperCLI struct {
	cfg      config.WhisperConfig
	tempDir  string
	binary   string
	executor executor.Executor
	logger   logger.Logger
}

func newWhisperCLI(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (*whisperCLI, error) {
	binary, err := exec.LookPath(cfg.Whisper.BinaryPath)
	if err != nil {
		return nil, &ModelLoadError{Backend: "whisper-cli", Err: err}
	}

	info, err := os.Stat(cfg.Whisper.ModelPath)
	if err != nil {
		return nil, &ModelLoadError{Backend: "whisper-cli", Err: fmt.Errorf("model file: %w", err)}
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, &ModelLoadError{Backend: "whisper-cli", Err: fmt.Errorf("model file %s is empty or a directory", cfg.Whisper.ModelPath)}
	}

	log.Info(ctx, "Whisper model found: %s (%d MB, %d threads)", cfg.Whisper.ModelPath, info.Size()>>20, cfg.Whisper.Threads)

	return &whisperCLI{
		cfg:      cfg.Whisper,
		tempDir:  cfg.Paths.Temp,
		binary:   binary,
		executor: exec,
		logger:   log,
	}, nil
}

// Transcribe writes the waveform to a scratch WAV and runs whisper on it.
func (w *whisperCLI) Transcribe(ctx context.Context, wf audio.Waveform) (string, error) {
	if len(wf.Samples) == 0 {
		return "", &TranscriptionError{Err: fmt.Errorf("empty waveform")}
	}

	if _, err := os.Stat(w.cfg.ModelPath); err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("model file: %w", err)}
	}

	workDir, err := os.MkdirTemp(w.tempDir, "transcribe-*")
	if err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "lecture.wav")
	if err := writeWAVFile(wavPath, wf); err != nil {
		return "", &TranscriptionError{Err: err}
	}

	// Whisper appends .txt to the output prefix
	outputPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	// -otxt: plain text output
	// -np: no progress prints on stdout
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-otxt",
		"-np",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	w.logger.Info(ctx, "Starting transcription of %s of audio with %d threads", wf.Duration(), w.cfg.Threads)

	if _, err := w.executor.Execute(ctx, w.binary, args...); err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("whisper: %w", err)}
	}

	raw, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", &TranscriptionError{Err: fmt.Errorf("read whisper output: %w", err)}
	}

	text := normalizeTranscript(string(raw))
	if text == "" {
		return "", &TranscriptionError{Err: fmt.Errorf("whisper produced no text")}
	}

	w.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return text, nil
}

func writeWAVFile(path string, wf audio.Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := audio.WriteWAV(f, wf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalizeTranscript joins whisper's per-segment lines into one paragraph.
func normalizeTranscript(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
