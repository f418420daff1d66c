package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkillNames(t *testing.T) {
	clean, msg := NormalizeSkillNames([]string{" Python ", "python", "", "Go", "Design"})
	assert.Empty(t, msg)
	assert.Equal(t, []string{"Python", "Go", "Design"}, clean)

	_, msg = NormalizeSkillNames(nil)
	assert.Equal(t, "Skills array is required", msg)

	_, msg = NormalizeSkillNames([]string{"C"})
	assert.Contains(t, msg, "between 2 and 50")
}

func TestSkillService_ReplaceSkills(t *testing.T) {
	profiles := newFakeProfiles(profile("p1", 2))
	skills := newFakeSkills()
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"Python": {1, 0},
		"Design": {0, 1},
	}}
	svc := NewSkillService(profiles, skills, emb, 4)

	rows, err := svc.ReplaceSkills(context.Background(), "p1", []string{"Python", "Design", "python"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(2), emb.calls.Load())

	assert.Equal(t, "Python", rows[0].SkillName)
	assert.Equal(t, []float32{1, 0}, rows[0].Embedding.Slice())
	assert.Equal(t, "Design", rows[1].SkillName)
	assert.Equal(t, []float32{0, 1}, rows[1].Embedding.Slice())

	stored, err := svc.ListSkills(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSkillService_EmbeddingFailureWritesNothing(t *testing.T) {
	profiles := newFakeProfiles(profile("p1", 2))
	skills := newFakeSkills()
	skills.add("p1", []float32{1, 1}, "Old")
	emb := &fakeEmbedder{err: errProvider}
	svc := NewSkillService(profiles, skills, emb, 4)

	_, err := svc.ReplaceSkills(context.Background(), "p1", []string{"Python"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.Equal(t, 0, skills.replaced)
	assert.Len(t, skills.rows["p1"], 1)
}

func TestSkillService_ProviderTimeout(t *testing.T) {
	profiles := newFakeProfiles(profile("p1", 2))
	emb := &fakeEmbedder{err: fmt.Errorf("embed: %w", context.DeadlineExceeded)}
	svc := NewSkillService(profiles, newFakeSkills(), emb, 4)

	_, err := svc.ReplaceSkills(context.Background(), "p1", []string{"Python"})
	assert.True(t, utils.IsCode(err, utils.CodeTimeout))
}

func TestSkillService_ValidationBeforeProvider(t *testing.T) {
	emb := &fakeEmbedder{fallback: []float32{1}}
	svc := NewSkillService(newFakeProfiles(profile("p1", 2)), newFakeSkills(), emb, 4)

	_, err := svc.ReplaceSkills(context.Background(), "p1", []string{"  "})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.ReplaceSkills(context.Background(), "", []string{"Go"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.ReplaceSkills(context.Background(), "missing", []string{"Go"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	assert.Equal(t, int32(0), emb.calls.Load())
}

func TestSkillService_Reembed(t *testing.T) {
	profiles := newFakeProfiles(profile("p1", 2))
	skills := newFakeSkills()
	skills.add("p1", []float32{9, 9, 9}, "Go", "SQL")
	emb := &fakeEmbedder{fallback: []float32{1, 0}}
	svc := NewSkillService(profiles, skills, emb, 2)

	rows, err := svc.Reembed(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, []float32{1, 0}, r.Embedding.Slice())
	}
	assert.Equal(t, []string{"Go", "SQL"}, []string{rows[0].SkillName, rows[1].SkillName})
}

func TestSkillService_ReplaceKeepsEnteredOrder(t *testing.T) {
	profiles := newFakeProfiles(profile("p1", 2))
	svc := NewSkillService(profiles, newFakeSkills(), &fakeEmbedder{fallback: []float32{1, 0}}, 4)

	rows, err := svc.ReplaceSkills(context.Background(), "p1", []string{"Rust", "Go", "SQL", "Art"})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		// strictly later, at a resolution Postgres keeps
		assert.True(t, rows[i].CreatedAt.Sub(rows[i-1].CreatedAt) >= time.Microsecond, "row %d", i)
	}
}
