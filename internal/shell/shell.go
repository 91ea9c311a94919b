package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/export"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/pipeline"
	"github.com/nguyentantai21042004/notebolt/internal/transcriber"
)

const helpText = `Commands:
  upload <path>                 transcribe a .wav or .mp3 lecture and generate notes
  ask <question>                ask about the generated notes
  notes                         show the generated notes
  transcript                    show the lecture transcript
  set temperature|top_p <value> adjust model parameters
  params                        show model parameters
  export txt|pdf|docx [dir]     save the notes
  clear                         clear the session
  help                          show this help
  quit                          exit
`

// Run is the read-eval-print loop.
func (s *implShell) Run(ctx context.Context) error {
	s.printf("Welcome to Notebolt!\n")
	s.printf("Hi, I'm your virtual assistant here to help you generate structured notes from your lecture audios.\n")
	s.printf("Type help for the list of commands.\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printf("> ")
		if !s.scanner.Scan() {
			s.printf("\n")
			return s.scanner.Err()
		}

		cmd, arg := splitCommand(s.scanner.Text())
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		s.dispatch(ctx, cmd, arg)
	}
}

func (s *implShell) dispatch(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "upload":
		s.upload(ctx, arg)
	case "ask":
		s.ask(ctx, arg)
	case "notes":
		s.showNotes()
	case "transcript":
		if t := s.pipeline.Session().Transcript(); t != "" {
			s.printf("%s\n", t)
		} else {
			s.printf("No transcript yet.\n")
		}
	case "set":
		s.set(arg)
	case "params":
		p := s.pipeline.Params()
		s.printf("temperature=%.2f top_p=%.2f\n", p.Temperature, p.TopP)
	case "export":
		s.export(ctx, arg)
	case "clear":
		s.pipeline.Clear()
		s.printf("Session cleared.\n")
	case "help":
		s.printf("%s", helpText)
	default:
		s.printf("Unknown command %q. Type help for the list of commands.\n", cmd)
	}
}

func (s *implShell) upload(ctx context.Context, path string) {
	if path == "" {
		s.printf("Usage: upload <path>\n")
		return
	}

	blob, err := audio.BlobFromFile(path)
	if err != nil {
		s.printError(err)
		return
	}

	s.printf("Processing your lecture...\n")
	stopFacts := s.showFacts(ctx)
	streaming := false
	res, err := s.pipeline.Process(ctx, blob, func(frag string) {
		if !streaming {
			stopFacts()
			streaming = true
			s.printf("### Notebolt Summary\n")
		}
		s.printf("%s", frag)
	})
	stopFacts()
	if streaming {
		s.printf("\n")
	}
	if err != nil {
		s.printError(err)
		return
	}

	if res.Reused {
		s.printf("### Notebolt Summary\n%s\n", res.Notes)
	}
	s.printf("Notes ready. Use ask, notes or export.\n")
}

func (s *implShell) ask(ctx context.Context, question string) {
	if !s.pipeline.Session().HasNotes() {
		s.printf("Asking is disabled until notes exist. Upload a lecture first.\n")
		return
	}
	if question == "" {
		s.printf("Usage: ask <question>\n")
		return
	}

	_, err := s.pipeline.Ask(ctx, question, func(frag string) {
		s.printf("%s", frag)
	})
	s.printf("\n")
	if err != nil {
		s.printError(err)
	}
}

func (s *implShell) showNotes() {
	notes := s.pipeline.Session().Notes()
	if notes == "" {
		s.printf("No notes yet.\n")
		return
	}
	s.printf("### Generated Notes\n%s\n", notes)
}

func (s *implShell) set(arg string) {
	name, value := splitCommand(arg)
	v, err := strconv.ParseFloat(value, 64)
	if name == "" || value == "" || err != nil {
		s.printf("Usage: set temperature|top_p <value>\n")
		return
	}

	p := s.pipeline.Params()
	switch name {
	case "temperature":
		p.Temperature = v
	case "top_p":
		p.TopP = v
	default:
		s.printf("Unknown parameter %q (temperature, top_p).\n", name)
		return
	}

	if err := s.pipeline.SetParams(p); err != nil {
		s.printf("Rejected: temperature must be in [0.01, 5.00] and top_p in [0.01, 1.00], in steps of 0.01.\n")
		return
	}
	s.printf("temperature=%.2f top_p=%.2f\n", p.Temperature, p.TopP)
}

func (s *implShell) export(ctx context.Context, arg string) {
	format, dir := splitCommand(arg)
	if format == "" {
		s.printf("Usage: export txt|pdf|docx [dir]\n")
		return
	}
	if dir == "" {
		dir = s.opts.ExportDir
	}

	path, err := s.pipeline.Export(ctx, strings.ToLower(format), dir)
	if err != nil {
		s.printError(err)
		return
	}
	s.printf("Saved %s\n", path)
}

// printError shows an error with a hint for the kinds the user can act on.
func (s *implShell) printError(err error) {
	var (
		formatErr   *audio.UnsupportedFormatError
		limitErr    *audio.LimitError
		encodingErr *export.EncodingError
		genErr      *generator.GenerationError
		transErr    *transcriber.TranscriptionError
	)
	s.logger.Debug(context.Background(), "Command failed: %v", err)

	switch {
	case errors.Is(err, pipeline.ErrNoNotes), errors.Is(err, pipeline.ErrBusy):
		s.printf("%v.\n", err)
	case errors.As(err, &formatErr):
		s.printf("Error: %v\nPlease upload a .wav or .mp3 file.\n", formatErr)
	case errors.As(err, &limitErr):
		s.printf("Error: %v\n", limitErr)
	case errors.As(err, &encodingErr):
		s.printf("Error: %v\nThe PDF fonts only cover Latin-1. Export as txt or docx, or enable export.pdf_substitute.\n", encodingErr)
	case errors.As(err, &genErr):
		s.printf("Error: %v\nNothing was saved. Try again.\n", genErr)
	case errors.As(err, &transErr):
		s.printf("Error: %v\n", transErr)
	default:
		s.printf("Error: %v\n", err)
	}
}

func (s *implShell) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// splitCommand splits a line into its first word and the trimmed rest.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}
