package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a provider answers 2xx but the payload has
// no usable vector or completion.
var ErrMalformed = errors.New("llm: malformed provider response")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Model is implemented by embedders that know which model they call, so
// cached vectors from different models never mix.
type Model interface {
	ModelName() string
}

func TutorSystemPrompt(subject string) string {
	return fmt.Sprintf("You are an expert tutor helping university students with their doubts. Subject: %s. "+
		"Provide clear, concise explanations with examples when helpful. Break down complex concepts into simpler terms.", subject)
}

// checkVector rejects empty vectors and, when dim > 0, vectors of another length.
func checkVector(vec []float32, dim int) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty embedding", ErrMalformed)
	}
	if dim > 0 && len(vec) != dim {
		return fmt.Errorf("%w: embedding has %d dimensions, want %d", ErrMalformed, len(vec), dim)
	}
	return nil
}
