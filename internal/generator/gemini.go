package generator

import (
	"context"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"
)

type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, baseURL, model, token string) (*geminiBackend, error) {
	cc := &genai.ClientConfig{
		APIKey:  token,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &geminiBackend{client: client, model: model}, nil
}

func (g *geminiBackend) name() string { return "gemini" }

func (g *geminiBackend) open(ctx context.Context, prompt string, p Params) (Stream, error) {
	temperature := float32(p.Temperature)
	topP := float32(p.TopP)

	seq := g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
		TopP:        &topP,
	})
	next, stop := iter.Pull2(seq)
	return &geminiStream{next: next, stop: stop}, nil
}

// geminiStream ends successfully only after a candidate reports STOP. An
// exhausted iterator without a finish reason means the stream was cut off.
type geminiStream struct {
	next   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	finish genai.FinishReason
}

func (s *geminiStream) Recv() (string, error) {
	for {
		resp, err, ok := s.next()
		if !ok {
			switch s.finish {
			case genai.FinishReasonStop:
				return "", io.EOF
			case "", genai.FinishReasonUnspecified:
				return "", errTruncated
			default:
				return "", fmt.Errorf("generation stopped early: %s", s.finish)
			}
		}
		if err != nil {
			return "", err
		}

		if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			s.finish = resp.Candidates[0].FinishReason
		}
		if text := candidateText(resp); text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Close() error {
	s.stop()
	return nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text
}
