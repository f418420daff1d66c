package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the service knobs that are not connection strings.
type Settings struct {
	Port    string
	GinMode string

	// LLM_PROVIDER: openai|gemini|vertex. Vertex only answers doubts;
	// embeddings then come from EMBEDDING_PROVIDER.
	LLMProvider       string
	EmbeddingProvider string
	LLMTimeout        time.Duration
	EmbeddingDim      int

	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
	OpenAIChatModel      string

	GeminiAPIKey         string
	GeminiEmbeddingModel string
	GeminiChatModel      string

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	MatchPooling          string
	MatchFetchConcurrency int
	EmbedConcurrency      int

	EmbedCacheTTL time.Duration
	DoubtWorkers  int
	DoubtJobTTL   time.Duration

	GCSBucket string
	GCSPublic bool
}

func LoadSettings() (Settings, error) {
	s := Settings{
		Port:    envString("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		LLMProvider:       strings.ToLower(envString("LLM_PROVIDER", "openai")),
		EmbeddingProvider: strings.ToLower(os.Getenv("EMBEDDING_PROVIDER")),
		LLMTimeout:        envDuration("LLM_TIMEOUT", 20*time.Second),
		EmbeddingDim:      envInt("EMBEDDING_DIM", 0),

		OpenAIBaseURL:        envString("OPENAI_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
		OpenAIAPIKey:         firstEnv("OPENAI_API_KEY", "LOVABLE_API_KEY"),
		OpenAIEmbeddingModel: envString("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIChatModel:      envString("OPENAI_CHAT_MODEL", "gpt-4o-mini"),

		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiEmbeddingModel: envString("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		GeminiChatModel:      envString("GEMINI_CHAT_MODEL", "gemini-1.5-flash"),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  envString("VERTEX_LOCATION", "us-central1"),
		VertexModel:     envString("VERTEX_MODEL", "gemini-1.5-flash"),

		MatchPooling:          os.Getenv("MATCH_POOLING"),
		MatchFetchConcurrency: envInt("MATCH_FETCH_CONCURRENCY", 8),
		EmbedConcurrency:      envInt("EMBED_CONCURRENCY", 4),

		EmbedCacheTTL: envDuration("EMBED_CACHE_TTL", 0),
		DoubtWorkers:  envInt("DOUBT_WORKERS", 3),
		DoubtJobTTL:   envDuration("DOUBT_JOB_TTL", 24*time.Hour),

		GCSBucket: os.Getenv("GCS_BUCKET"),
		GCSPublic: envBool("GCS_PUBLIC", false),
	}

	if s.EmbeddingProvider == "" {
		s.EmbeddingProvider = s.LLMProvider
		if s.EmbeddingProvider == "vertex" {
			s.EmbeddingProvider = "gemini"
		}
	}

	switch s.LLMProvider {
	case "openai", "gemini", "vertex":
	default:
		return s, fmt.Errorf("LLM_PROVIDER %q is not supported", s.LLMProvider)
	}
	switch s.EmbeddingProvider {
	case "openai", "gemini":
	default:
		return s, fmt.Errorf("EMBEDDING_PROVIDER %q is not supported", s.EmbeddingProvider)
	}
	if s.LLMProvider == "vertex" && s.VertexProjectID == "" {
		return s, fmt.Errorf("VERTEX_PROJECT_ID is required for LLM_PROVIDER=vertex")
	}
	if s.LLMTimeout <= 0 {
		return s, fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if s.MatchFetchConcurrency <= 0 {
		s.MatchFetchConcurrency = 8
	}
	if s.EmbedConcurrency <= 0 {
		s.EmbedConcurrency = 4
	}
	return s, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// envDuration accepts Go durations ("30s") or plain seconds ("30").
func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
