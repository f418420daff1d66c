package llm

import (
	"context"
	"time"
)

// WithTimeout bounds every Embed call by d. A caller deadline that is
// already shorter wins.
func WithTimeout(e Embedder, d time.Duration) Embedder {
	if d <= 0 {
		return e
	}
	return &timeoutEmbedder{next: e, d: d}
}

// CompleteWithTimeout is WithTimeout for completions.
func CompleteWithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return &timeoutCompleter{next: c, d: d}
}

type timeoutEmbedder struct {
	next Embedder
	d    time.Duration
}

func (t *timeoutEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Embed(ctx, text)
}

func (t *timeoutEmbedder) ModelName() string {
	if m, ok := t.next.(Model); ok {
		return m.ModelName()
	}
	return ""
}

type timeoutCompleter struct {
	next Completer
	d    time.Duration
}

func (t *timeoutCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, systemPrompt, userText)
}
