package generator

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAI(baseURL, model, token string) *openAIBackend {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *openAIBackend) name() string { return "openai" }

func (o *openAIBackend) open(ctx context.Context, prompt string, p Params) (Stream, error) {
	stream, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(p.Temperature),
		TopP:        float32(p.TopP),
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}
	return &openAIStream{stream: stream}, nil
}

// openAIStream only reports io.EOF once a choice has carried a finish
// reason; go-openai returns a bare io.EOF for a dropped connection too.
type openAIStream struct {
	stream *openai.ChatCompletionStream
	finish openai.FinishReason
}

func (s *openAIStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			switch s.finish {
			case openai.FinishReasonStop:
				return "", io.EOF
			case "":
				return "", errTruncated
			default:
				return "", fmt.Errorf("completion stopped early: %s", s.finish)
			}
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}

		choice := resp.Choices[0]
		if choice.FinishReason != "" {
			s.finish = choice.FinishReason
		}
		if choice.Delta.Content != "" {
			return choice.Delta.Content, nil
		}
	}
}

func (s *openAIStream) Close() error {
	s.stream.Close()
	return nil
}
