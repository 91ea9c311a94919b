package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/export"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/internal/pipeline"
	"github.com/nguyentantai21042004/notebolt/internal/session"
)

type fakePipeline struct {
	session   *session.State
	params    generator.Params
	processed []string
	asked     []string
	processFn func(blob audio.Blob) error
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{session: session.New(), params: generator.DefaultParams}
}

func (f *fakePipeline) Process(ctx context.Context, blob audio.Blob, onFragment func(string)) (pipeline.Result, error) {
	f.processed = append(f.processed, blob.Name)
	if f.processFn != nil {
		if err := f.processFn(blob); err != nil {
			return pipeline.Result{}, err
		}
	}
	if f.session.IsSameUpload(blob.Name) && f.session.HasNotes() {
		return pipeline.Result{Filename: blob.Name, Notes: f.session.Notes(), Reused: true}, nil
	}
	f.session.RecordUpload(blob.Name)
	f.session.SetTranscript("the lecture")
	for _, frag := range []string{"**Title", " of Lecture**", ": Entropy"} {
		onFragment(frag)
	}
	f.session.SetNotes("**Title of Lecture**: Entropy")
	return pipeline.Result{Filename: blob.Name, Notes: f.session.Notes()}, nil
}

func (f *fakePipeline) ProcessFile(ctx context.Context, path string) error { return nil }

func (f *fakePipeline) Ask(ctx context.Context, question string, onFragment func(string)) (string, error) {
	if !f.session.HasNotes() {
		return "", pipeline.ErrNoNotes
	}
	f.asked = append(f.asked, question)
	onFragment("Because ")
	onFragment("entropy.")
	return "Because entropy.", nil
}

func (f *fakePipeline) Export(ctx context.Context, format, dir string) (string, error) {
	if !f.session.HasNotes() {
		return "", pipeline.ErrNoNotes
	}
	a, err := export.Render(format, f.session.Notes(), export.PDFOptions{})
	if err != nil {
		return "", err
	}
	return export.Write(dir, a)
}

func (f *fakePipeline) Clear()                   { f.session.Clear() }
func (f *fakePipeline) Session() *session.State  { return f.session }
func (f *fakePipeline) Params() generator.Params { return f.params }

func (f *fakePipeline) SetParams(p generator.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.params = p
	return nil
}

func writeUpload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, p pipeline.Pipeline, script string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(p, strings.NewReader(script), &out, Options{ExportDir: t.TempDir()}, logger.Nop())
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestSessionFlow(t *testing.T) {
	p := newFakePipeline()
	upload := writeUpload(t, "week 1.wav")
	exportDir := t.TempDir()

	script := strings.Join([]string{
		"help",
		"ask why?",
		"upload " + upload,
		"notes",
		"ask why is it called entropy?",
		"upload " + upload,
		"export txt " + exportDir,
		"quit",
		"notes",
	}, "\n")
	out := run(t, p, script)

	for _, want := range []string{
		"Welcome to Notebolt!",
		"set temperature|top_p",
		"Asking is disabled until notes exist",
		"Fun Fact:",
		"### Notebolt Summary\n**Title of Lecture**: Entropy\n",
		"### Generated Notes\n**Title of Lecture**: Entropy",
		"Because entropy.",
		"Saved " + filepath.Join(exportDir, "lecture_notes.txt"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	if len(p.processed) != 2 || p.processed[0] != "week 1.wav" {
		t.Errorf("processed = %v", p.processed)
	}
	if len(p.asked) != 1 || p.asked[0] != "why is it called entropy?" {
		t.Errorf("asked = %v", p.asked)
	}
	if strings.Count(out, "### Generated Notes") != 1 {
		t.Error("commands after quit were executed")
	}
}

func TestSetParams(t *testing.T) {
	p := newFakePipeline()
	out := run(t, p, "set temperature 0.75\nset top_p 2\nset top_p 0.555\nset bogus 1\nset temperature\nparams\n")

	if p.params.Temperature != 0.75 || p.params.TopP != 0.9 {
		t.Errorf("params = %+v, want 0.75/0.9", p.params)
	}
	if strings.Count(out, "Rejected:") != 2 {
		t.Errorf("expected two rejections\n%s", out)
	}
	for _, want := range []string{"Unknown parameter \"bogus\"", "Usage: set", "temperature=0.75 top_p=0.90"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestErrorsAreShown(t *testing.T) {
	tests := []struct {
		name   string
		script string
		setup  func(t *testing.T, p *fakePipeline) string
		want   string
	}{
		{
			name: "unsupported extension",
			setup: func(t *testing.T, p *fakePipeline) string {
				return "upload " + writeUpload(t, "lecture.flac")
			},
			want: "Please upload a .wav or .mp3 file.",
		},
		{
			name: "generation failure",
			setup: func(t *testing.T, p *fakePipeline) string {
				p.processFn = func(audio.Blob) error {
					return &generator.GenerationError{Backend: "replicate", Err: errors.New("stream ended")}
				}
				return "upload " + writeUpload(t, "lecture.mp3")
			},
			want: "Nothing was saved.",
		},
		{
			name: "pdf with non latin-1 notes",
			setup: func(t *testing.T, p *fakePipeline) string {
				p.session.RecordUpload("a.wav")
				p.session.SetNotes("日本語")
				return "export pdf " + t.TempDir()
			},
			want: "The PDF fonts only cover Latin-1.",
		},
		{
			name: "export before notes",
			setup: func(t *testing.T, p *fakePipeline) string {
				return "export txt"
			},
			want: "no notes yet",
		},
		{
			name: "unknown command",
			setup: func(t *testing.T, p *fakePipeline) string {
				return "summarise"
			},
			want: `Unknown command "summarise"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePipeline()
			out := run(t, p, tt.setup(t, p)+"\n")
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q\n%s", tt.want, out)
			}
		})
	}
}

func TestClear(t *testing.T) {
	p := newFakePipeline()
	out := run(t, p, "upload "+writeUpload(t, "a.wav")+"\nclear\nnotes\nask anything\n")

	if !strings.Contains(out, "Session cleared.") || !strings.Contains(out, "No notes yet.") {
		t.Errorf("unexpected output\n%s", out)
	}
	if len(p.asked) != 0 {
		t.Error("ask ran after clear")
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line, cmd, rest string
	}{
		{"upload /tmp/My Lecture.wav", "upload", "/tmp/My Lecture.wav"},
		{"  ASK   what is it?  ", "ask", "what is it?"},
		{"notes", "notes", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		cmd, rest := splitCommand(tt.line)
		if cmd != tt.cmd || rest != tt.rest {
			t.Errorf("splitCommand(%q) = %q, %q; want %q, %q", tt.line, cmd, rest, tt.cmd, tt.rest)
		}
	}
}
