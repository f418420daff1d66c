package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, k := range []string{"LLM_PROVIDER", "EMBEDDING_PROVIDER", "LLM_TIMEOUT", "MATCH_FETCH_CONCURRENCY", "DOUBT_WORKERS", "PORT"} {
		t.Setenv(k, "")
	}

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "openai", s.LLMProvider)
	assert.Equal(t, "openai", s.EmbeddingProvider)
	assert.Equal(t, 20*time.Second, s.LLMTimeout)
	assert.Equal(t, 8, s.MatchFetchConcurrency)
	assert.Equal(t, 3, s.DoubtWorkers)
	assert.Equal(t, "text-embedding-3-small", s.OpenAIEmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", s.OpenAIChatModel)
}

func TestLoadSettings_VertexEmbedsWithGemini(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "vertex")
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("VERTEX_PROJECT_ID", "proj")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "gemini", s.EmbeddingProvider)
}

func TestLoadSettings_Rejects(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	_, err := LoadSettings()
	assert.Error(t, err)

	t.Setenv("LLM_PROVIDER", "vertex")
	t.Setenv("VERTEX_PROJECT_ID", "")
	_, err = LoadSettings()
	assert.Error(t, err)
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("X_DUR", "15")
	assert.Equal(t, 15*time.Second, envDuration("X_DUR", time.Second))

	t.Setenv("X_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, envDuration("X_DUR", time.Second))

	t.Setenv("X_DUR", "soon")
	assert.Equal(t, time.Second, envDuration("X_DUR", time.Second))
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_BOOL", "true")
	assert.True(t, envBool("X_BOOL", false))

	t.Setenv("X_BOOL", "nope")
	assert.False(t, envBool("X_BOOL", false))

	t.Setenv("X_BOOL", "")
	assert.True(t, envBool("X_BOOL", true))
}
