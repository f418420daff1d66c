package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(id string, skills ...SkillVector) Candidate {
	return Candidate{ID: id, Skills: skills}
}

func sv(name string, v ...float32) SkillVector {
	return SkillVector{Name: name, Embedding: v}
}

func ids(rs []Scored) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestParsePooling(t *testing.T) {
	p, err := ParsePooling("")
	require.NoError(t, err)
	assert.Equal(t, PoolMean, p)

	p, err = ParsePooling(" MAX ")
	require.NoError(t, err)
	assert.Equal(t, PoolMax, p)

	_, err = ParsePooling("median")
	assert.Error(t, err)
}

func TestRank_SortedNonIncreasing(t *testing.T) {
	query := []float32{1, 0}
	cands := []Candidate{
		cand("far", sv("History", 0, 1)),
		cand("near", sv("Go", 1, 0.1)),
		cand("mid", sv("Rust", 1, 1)),
		cand("opposite", sv("Art", -1, 0)),
	}

	r := Rank(query, cands, Options{Pooling: PoolMean})
	require.Len(t, r.Results, 4)
	assert.Equal(t, []string{"near", "mid", "far", "opposite"}, ids(r.Results))
	for i := 0; i+1 < len(r.Results); i++ {
		assert.GreaterOrEqual(t, r.Results[i].Score, r.Results[i+1].Score)
	}
}

func TestRank_ExcludesCandidatesWithoutSkills(t *testing.T) {
	query := []float32{1, 0}
	cands := []Candidate{
		cand("empty"),
		cand("skilled", sv("Go", 1, 0)),
	}

	r := Rank(query, cands, Options{})
	assert.Equal(t, []string{"skilled"}, ids(r.Results))
	assert.Equal(t, 0, r.Skipped)
}

func TestRank_TopK(t *testing.T) {
	query := []float32{1, 0}
	var cands []Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		cands = append(cands, cand(id, sv("x", 1, 0)))
	}

	r := Rank(query, cands, Options{TopK: MentorTopK})
	require.Len(t, r.Results, MentorTopK)
	// equal scores keep store order
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(r.Results))
}

func TestRank_UniqueIDs(t *testing.T) {
	query := []float32{1, 0}
	cands := []Candidate{
		cand("a", sv("Go", 1, 0)),
		cand("a", sv("Go", 1, 0)),
		cand("b", sv("Go", 0.5, 0.5)),
	}

	r := Rank(query, cands, Options{TopK: DoubtTopK})
	assert.Equal(t, []string{"a", "b"}, ids(r.Results))
}

func TestRank_SkipsDimensionMismatch(t *testing.T) {
	query := []float32{1, 0}
	cands := []Candidate{
		cand("stale", sv("Go", 1, 0, 0)),
		cand("ok", sv("Go", 1, 0)),
	}

	r := Rank(query, cands, Options{})
	assert.Equal(t, []string{"ok"}, ids(r.Results))
	assert.Equal(t, 1, r.Skipped)
}

func TestScore_Pooling(t *testing.T) {
	query := []float32{1, 0}
	c := cand("p", sv("Design", 0, 1), sv("Go", 1, 0))

	first, ok := Score(query, c, PoolFirst)
	require.True(t, ok)
	assert.InDelta(t, 0.0, first, tol)

	best, ok := Score(query, c, PoolMax)
	require.True(t, ok)
	assert.InDelta(t, 1.0, best, 1e-6)

	mean, ok := Score(query, c, PoolMean)
	require.True(t, ok)
	// mean of (0,1) and (1,0) is (0.5,0.5): cos 45 degrees
	assert.InDelta(t, 0.7071067811865476, mean, 1e-6)
}

func TestQueryVector(t *testing.T) {
	skills := []SkillVector{sv("a", 2, 0), sv("b", 0, 2)}

	assert.Equal(t, []float32{2, 0}, QueryVector(skills, PoolFirst))
	assert.Equal(t, []float32{1, 1}, QueryVector(skills, PoolMean))
	assert.Equal(t, []float32{1, 1}, QueryVector(skills, PoolMax))
	assert.Nil(t, QueryVector(nil, PoolMean))
}
