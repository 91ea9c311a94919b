package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
)

// fakeWhisper mimics whisper-cli: it writes <output-file>.txt.
type fakeWhisper struct {
	output string
	err    error
	calls  int
	args   []string
}

func (f *fakeWhisper) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls++
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".txt", []byte(f.output), 0644); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func (f *fakeWhisper) LookPath(name string) (string, error) {
	if name == "missing" {
		return "", fmt.Errorf("not found")
	}
	return "/usr/local/bin/" + name, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "ggml-base.bin")
	if err := os.WriteFile(model, []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Whisper: config.WhisperConfig{
			Backend:    "whisper-cli",
			ModelPath:  model,
			BinaryPath: "whisper-cli",
			Language:   "en",
			Threads:    2,
		},
		Paths: config.PathsConfig{Temp: dir},
	}
}

func tone() audio.Waveform {
	return audio.Waveform{Samples: make([]float32, 1600), SampleRate: audio.TargetSampleRate}
}

func TestWhisperCLITranscribe(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeWhisper{output: " Today we cover\n entropy and enthalpy. \n"}

	tr, err := New(context.Background(), cfg, exec, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text, err := tr.Transcribe(context.Background(), tone())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "Today we cover entropy and enthalpy." {
		t.Errorf("Transcribe() = %q", text)
	}

	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"-m " + cfg.Whisper.ModelPath, "-l en", "-t 2", "-otxt"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}

	entries, _ := os.ReadDir(cfg.Paths.Temp)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "transcribe-") {
			t.Errorf("scratch dir %s left behind", e.Name())
		}
	}
}

func TestWhisperCLIIsStable(t *testing.T) {
	tr, err := New(context.Background(), testConfig(t), &fakeWhisper{output: "same words"}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	first, err := tr.Transcribe(context.Background(), tone())
	if err != nil {
		t.Fatal(err)
	}
	second, err := tr.Transcribe(context.Background(), tone())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated transcriptions differ: %q vs %q", first, second)
	}
}

func TestWhisperCLIRereadsModelPerRun(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeWhisper{output: "words"}
	tr, err := New(context.Background(), cfg, exec, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Transcribe(context.Background(), tone()); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(cfg.Whisper.ModelPath); err != nil {
		t.Fatal(err)
	}
	_, err = tr.Transcribe(context.Background(), tone())
	var te *TranscriptionError
	if !errors.As(err, &te) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Transcribe() error = %v, want TranscriptionError wrapping os.ErrNotExist", err)
	}
	if exec.calls != 1 {
		t.Errorf("whisper ran %d times, want 1", exec.calls)
	}
}

func TestWhisperCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeWhisper
		wf   audio.Waveform
	}{
		{"process failure", &fakeWhisper{err: fmt.Errorf("exit status 1")}, tone()},
		{"empty output", &fakeWhisper{output: "  \n"}, tone()},
		{"empty waveform", &fakeWhisper{output: "text"}, audio.Waveform{SampleRate: audio.TargetSampleRate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(context.Background(), testConfig(t), tt.exec, logger.Nop())
			if err != nil {
				t.Fatal(err)
			}
			text, err := tr.Transcribe(context.Background(), tt.wf)
			var te *TranscriptionError
			if !errors.As(err, &te) {
				t.Errorf("Transcribe() error = %v, want TranscriptionError", err)
			}
			if text != "" {
				t.Errorf("Transcribe() returned partial text %q", text)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing binary", func(c *config.Config) { c.Whisper.BinaryPath = "missing" }},
		{"missing model", func(c *config.Config) { c.Whisper.ModelPath = "/nonexistent/model.bin" }},
		{"unknown backend", func(c *config.Config) { c.Whisper.Backend = "vosk" }},
		{"remote without key", func(c *config.Config) {
			c.Whisper.Backend = "openai"
			c.Whisper.APIKeyEnv = "NOTEBOLT_TEST_UNSET_KEY"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := New(context.Background(), cfg, &fakeWhisper{}, logger.Nop())
			var le *ModelLoadError
			if !errors.As(err, &le) {
				t.Errorf("New() error = %v, want ModelLoadError", err)
			}
		})
	}
}

func TestSharedLoadsOnce(t *testing.T) {
	exec := &fakeWhisper{output: "shared"}
	first, err := Shared(context.Background(), testConfig(t), exec, logger.Nop())
	if err != nil {
		t.Fatalf("Shared() error = %v", err)
	}

	broken := testConfig(t)
	broken.Whisper.BinaryPath = "missing"
	second, err := Shared(context.Background(), broken, exec, logger.Nop())
	if err != nil {
		t.Fatalf("second Shared() error = %v", err)
	}
	if first != second {
		t.Error("Shared() returned a different instance on the second call")
	}
}

func TestRemoteWhisper(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		head := make([]byte, 4)
		io.ReadFull(file, head)
		if string(head) != "RIFF" {
			http.Error(w, "not a wav upload", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"text":"  remote lecture text "}`)
	}))
	defer srv.Close()

	t.Setenv("NOTEBOLT_TEST_WHISPER_KEY", "sk-test")
	cfg := testConfig(t)
	cfg.Whisper.Backend = "openai"
	cfg.Whisper.APIKeyEnv = "NOTEBOLT_TEST_WHISPER_KEY"
	cfg.Whisper.BaseURL = srv.URL + "/v1"
	cfg.Whisper.Model = "whisper-1"

	tr, err := New(context.Background(), cfg, nil, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text, err := tr.Transcribe(context.Background(), tone())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "remote lecture text" {
		t.Errorf("Transcribe() = %q", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q", gotModel)
	}
}
