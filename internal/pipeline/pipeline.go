package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/notebolt/internal/audio"
	"github.com/nguyentantai21042004/notebolt/internal/export"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/internal/metrics"
	"github.com/nguyentantai21042004/notebolt/internal/prompt"
	"github.com/nguyentantai21042004/notebolt/internal/session"
)

// Process runs Loader -> Transcriber -> Prompt -> Generator for one upload.
//
// The same filename with notes stored is a redisplay; with only a transcript
// stored, just the generation runs. Any other upload replaces the session,
// but only once its audio has been decoded and transcribed. A failed step
// stores nothing and leaves the previous upload intact.
func (p *implPipeline) Process(ctx context.Context, blob audio.Blob, onFragment func(string)) (Result, error) {
	if err := p.sem.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer p.sem.release()

	st := p.session
	same := st.IsSameUpload(blob.Name)
	if same && st.HasNotes() {
		ctx = logger.WithUploadID(ctx, st.UploadID())
		p.logger.Info(ctx, "Notes for %s already generated, reusing them", blob.Name)
		return Result{Filename: blob.Name, Transcript: st.Transcript(), Notes: st.Notes(), Reused: true}, nil
	}
	if same {
		ctx = logger.WithUploadID(ctx, st.UploadID())
	}
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting lecture processing: %s", blob.Name)
	p.logger.Info(ctx, "========================================")

	// Step 1: Decode and transcribe, unless this upload already has a transcript
	var transcript string
	if same {
		transcript = st.Transcript()
	}
	if transcript == "" {
		var err error
		transcript, err = p.transcribe(ctx, blob)
		if err != nil {
			return Result{}, err
		}
		st.RecordUpload(blob.Name)
		st.SetTranscript(transcript)
		ctx = logger.WithUploadID(ctx, st.UploadID())
	} else {
		p.logger.Info(ctx, "Reusing stored transcript (%d characters)", len(transcript))
	}

	// Step 2: Generate notes
	notes, err := p.generate(ctx, "notes", prompt.Summary(transcript), onFragment)
	if err != nil {
		return Result{}, err
	}
	st.SetNotes(notes)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %d characters, notes: %d characters", len(transcript), len(notes))
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return Result{Filename: blob.Name, Transcript: transcript, Notes: notes}, nil
}

func (p *implPipeline) transcribe(ctx context.Context, blob audio.Blob) (string, error) {
	p.metrics.Uploads.Inc()

	wf, err := audio.Load(blob, audio.Limits{
		MaxBytes:        int64(p.cfg.Audio.MaxUploadMB) << 20,
		MaxDuration:     p.cfg.Audio.MaxDuration,
		ResampleQuality: p.cfg.Audio.ResampleQuality,
	})
	if err != nil {
		p.metrics.UploadsRejected.WithLabelValues(rejectReason(err)).Inc()
		p.logger.Error(ctx, "Failed to load %s: %v", blob.Name, err)
		return "", fmt.Errorf("load audio: %w", err)
	}
	p.metrics.AudioDuration.Observe(wf.Duration().Seconds())
	p.logger.Info(ctx, "Decoded %s: %s of audio at %d Hz", blob.Name, wf.Duration().Round(time.Second), wf.SampleRate)

	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, wf)
	p.metrics.Transcriptions.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		p.logger.Error(ctx, "Transcription failed: %v", err)
		return "", fmt.Errorf("transcribe: %w", err)
	}
	p.metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())

	return transcript, nil
}

// generate streams one completion while holding the session's generation flag.
func (p *implPipeline) generate(ctx context.Context, kind, text string, onFragment func(string)) (string, error) {
	if !p.session.BeginGeneration() {
		return "", ErrBusy
	}
	defer p.session.EndGeneration()

	start := time.Now()
	out, err := p.generator.Generate(ctx, text, p.Params(), onFragment)
	p.metrics.Generations.WithLabelValues(kind, metrics.Result(err)).Inc()
	if err != nil {
		p.logger.Error(ctx, "Generation (%s) failed: %v", kind, err)
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	p.metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	p.metrics.GeneratedChars.Observe(float64(len(out)))

	return out, nil
}

// Ask answers a follow-up question grounded in the stored notes. The answer
// is appended to the session's turn history.
func (p *implPipeline) Ask(ctx context.Context, question string, onFragment func(string)) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	if err := p.sem.acquire(ctx); err != nil {
		return "", err
	}
	defer p.sem.release()

	notes := p.session.Notes()
	if notes == "" {
		return "", ErrNoNotes
	}
	ctx = logger.WithUploadID(ctx, p.session.UploadID())
	p.logger.Info(ctx, "Answering follow-up question (%d characters)", len(question))

	answer, err := p.generate(ctx, "followup", prompt.FollowUp(question, notes), onFragment)
	if err != nil {
		return "", err
	}
	p.session.AddTurn(question, answer)

	return answer, nil
}

// ProcessFile handles a file dropped into the input folder.
func (p *implPipeline) ProcessFile(ctx context.Context, path string) error {
	blob, err := audio.BlobFromFile(path)
	if err != nil {
		return err
	}

	if _, err := p.Process(ctx, blob, nil); err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := filepath.Join(p.cfg.Paths.Output, stem)
	for _, format := range p.cfg.Export.Formats {
		out, err := p.Export(ctx, format, dir)
		if err != nil {
			p.logger.Warn(ctx, "Failed to export %s: %v", format, err)
			continue
		}
		p.logger.Info(ctx, "Output %s: %s", format, out)
	}
	return nil
}

func (p *implPipeline) Export(ctx context.Context, format, dir string) (string, error) {
	notes := p.session.Notes()
	if notes == "" {
		return "", ErrNoNotes
	}
	ctx = logger.WithUploadID(ctx, p.session.UploadID())

	artifact, err := export.Render(format, notes, export.PDFOptions{Substitute: p.cfg.Export.PDFSubstitute})
	var path string
	if err == nil {
		path, err = export.Write(dir, artifact)
	}
	p.metrics.Exports.WithLabelValues(format, metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("export %s: %w", format, err)
	}

	p.logger.Debug(ctx, "Exported %s (%d bytes) to %s", artifact.MIME, len(artifact.Data), path)
	return path, nil
}

// Clear resets the session: upload, transcript, notes and turns.
func (p *implPipeline) Clear() {
	p.session.Clear()
	p.logger.Info(context.Background(), "Session cleared")
}

func (p *implPipeline) Session() *session.State {
	return p.session
}

func (p *implPipeline) Params() generator.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// SetParams replaces the sampling params used by later generations.
func (p *implPipeline) SetParams(params generator.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
	return nil
}

func rejectReason(err error) string {
	var limitErr *audio.LimitError
	if errors.As(err, &limitErr) {
		return "limit"
	}
	var formatErr *audio.UnsupportedFormatError
	if errors.As(err, &formatErr) {
		return "format"
	}
	return "other"
}
