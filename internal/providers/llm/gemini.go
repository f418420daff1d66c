package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini embeds and completes through the Generative Language API.
type Gemini struct {
	client         *genai.Client
	embeddingModel string
	chatModel      string
	dim            int
}

func NewGemini(ctx context.Context, apiKey, embeddingModel, chatModel string, dim int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: GEMINI_API_KEY is not set")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	if chatModel == "" {
		chatModel = "gemini-1.5-flash"
	}
	return &Gemini{client: c, embeddingModel: embeddingModel, chatModel: chatModel, dim: dim}, nil
}

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) ModelName() string { return g.embeddingModel }

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := g.client.EmbeddingModel(g.embeddingModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("%w: no embedding data", ErrMalformed)
	}
	vec := res.Embedding.Values
	if err := checkVector(vec, g.dim); err != nil {
		return nil, err
	}
	return vec, nil
}

func (g *Gemini) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	model := g.client.GenerativeModel(g.chatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1000)

	resp, err := model.GenerateContent(ctx, genai.Text(userText))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates", ErrMalformed)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformed)
	}
	return out, nil
}
