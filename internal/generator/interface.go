// Package generator streams study notes from a hosted language model.
package generator

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Generator runs one completion and returns the full text.
//
// onFragment, when non-nil, sees every fragment in arrival order as it
// streams in. The returned text is only valid when err is nil.
type Generator interface {
	Generate(ctx context.Context, prompt string, p Params, onFragment func(string)) (string, error)
}

// Stream is a finite, non-restartable sequence of text fragments.
// Recv returns io.EOF after the last fragment.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Params are the sampling parameters the operator controls.
type Params struct {
	Temperature float64 `validate:"gte=0.01,lte=5"`
	TopP        float64 `validate:"gte=0.01,lte=1"`
}

// DefaultParams match the initial slider positions.
var DefaultParams = Params{Temperature: 0.3, TopP: 0.9}

var validate = validator.New()

// Validate checks the slider ranges and the 0.01 step.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid generation params: %w", err)
	}
	for name, v := range map[string]float64{"temperature": p.Temperature, "top_p": p.TopP} {
		if !onStep(v) {
			return fmt.Errorf("invalid generation params: %s %v is not a multiple of 0.01", name, v)
		}
	}
	return nil
}

func onStep(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// InvalidCredentialError reports a token that does not have the required shape.
// The token itself is never included.
type InvalidCredentialError struct {
	Reason string
}

func (e *InvalidCredentialError) Error() string {
	return "invalid API token: " + e.Reason
}

// GenerationError reports a failed remote call, including a stream that broke
// off part way. No partial text accompanies it.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
