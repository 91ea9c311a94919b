package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
)

// backend opens one streaming completion.
type backend interface {
	name() string
	open(ctx context.Context, prompt string, p Params) (Stream, error)
}

type implGenerator struct {
	backend backend
	timeout time.Duration
	logger  logger.Logger
}

// New validates the token against the configured rule and builds the
// provider client. A malformed token is rejected before any client exists.
func New(ctx context.Context, cfg *config.Config, token string, log logger.Logger) (Generator, error) {
	rule := CredentialRule{Prefix: cfg.Credential.Prefix, Length: cfg.Credential.Length}
	if err := ValidateCredential(token, rule); err != nil {
		return nil, err
	}

	var (
		b   backend
		err error
	)
	switch cfg.Generator.Provider {
	case "replicate", "":
		b, err = newReplicate(cfg.Generator.BaseURL, cfg.Generator.Model, token)
	case "openai":
		b = newOpenAI(cfg.Generator.BaseURL, cfg.Generator.Model, token)
	case "gemini":
		b, err = newGemini(ctx, cfg.Generator.BaseURL, cfg.Generator.Model, token)
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Generator.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Generator.Provider, err)
	}

	log.Info(ctx, "Note generator ready: %s (%s)", b.name(), cfg.Generator.Model)

	return &implGenerator{
		backend: b,
		timeout: cfg.Generator.Timeout,
		logger:  log,
	}, nil
}

// Generate streams one completion. Temperature and top_p go to the model as given.
func (g *implGenerator) Generate(ctx context.Context, prompt string, p Params, onFragment func(string)) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	g.logger.Debug(ctx, "Opening %s stream (temperature=%.2f top_p=%.2f, %d prompt bytes)", g.backend.name(), p.Temperature, p.TopP, len(prompt))

	stream, err := g.backend.open(ctx, prompt, p)
	if err != nil {
		return "", &GenerationError{Backend: g.backend.name(), Err: err}
	}
	defer stream.Close()

	text, err := Collect(stream, onFragment)
	if err != nil {
		return "", &GenerationError{Backend: g.backend.name(), Err: err}
	}

	g.logger.Info(ctx, "Generation completed: %d characters in %s", len(text), time.Since(start).Round(time.Millisecond))
	return text, nil
}
