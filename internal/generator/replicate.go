package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/replicate/replicate-go"
)

// replicateBackend runs a streaming prediction. The model is "owner/name"
// for the latest version or "owner/name:version" to pin one.
type replicateBackend struct {
	client *replicate.Client
	model  string
}

func newReplicate(baseURL, model, token string) (*replicateBackend, error) {
	opts := []replicate.ClientOption{
		replicate.WithToken(token),
	}
	if baseURL != "" {
		opts = append(opts, replicate.WithBaseURL(baseURL))
	}

	client, err := replicate.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &replicateBackend{client: client, model: model}, nil
}

func (r *replicateBackend) name() string { return "replicate" }

func (r *replicateBackend) open(ctx context.Context, prompt string, p Params) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	events, errs := r.client.Stream(ctx, r.model, replicate.PredictionInput{
		"prompt":      prompt,
		"temperature": p.Temperature,
		"top_p":       p.TopP,
	}, nil)

	return &replicateStream{ctx: ctx, cancel: cancel, events: events, errs: errs}, nil
}

// replicateStream yields the data of "output" events until "done". The
// event channel closing before "done" is a truncated stream.
type replicateStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	events <-chan replicate.SSEEvent
	errs   <-chan error
	done   bool
}

func (s *replicateStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		select {
		case <-s.ctx.Done():
			return "", s.ctx.Err()

		case err, ok := <-s.errs:
			if !ok {
				s.errs = nil
				continue
			}
			if err != nil {
				return "", err
			}

		case ev, ok := <-s.events:
			if !ok {
				return "", errTruncated
			}

			switch ev.Type {
			case replicate.SSETypeOutput:
				if ev.Data == "" {
					continue
				}
				return ev.Data, nil
			case replicate.SSETypeDone:
				s.done = true
				var status struct {
					Reason string `json:"reason"`
				}
				if json.Unmarshal([]byte(ev.Data), &status) == nil && status.Reason != "" {
					return "", fmt.Errorf("prediction finished early: %s", status.Reason)
				}
				return "", io.EOF
			case replicate.SSETypeError:
				return "", fmt.Errorf("prediction error: %s", ev.Data)
			}
			// logs carry nothing for us
		}
	}
}

func (s *replicateStream) Close() error {
	s.cancel()
	return nil
}
