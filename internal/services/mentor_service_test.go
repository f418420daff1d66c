package services

import (
	"context"
	"testing"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMentorFixture() (*fakeProfiles, *fakeSkills, *fakeMentorships, MentorService) {
	profiles := newFakeProfiles(
		profile("me", 1),
		profile("peer", 1),
		profile("s1", 2),
		profile("s2", 3),
		profile("s3", 4),
		profile("empty", 4),
	)
	skills := newFakeSkills()
	ms := &fakeMentorships{}
	svc := NewMentorService(profiles, skills, ms, MatchOptions{Pooling: matching.PoolMean, FetchConcurrency: 2})
	return profiles, skills, ms, svc
}

func TestFindMentors_NoOwnSkills(t *testing.T) {
	_, _, _, svc := newMentorFixture()

	out, err := svc.FindMentors(context.Background(), "me")
	require.NoError(t, err)
	assert.Empty(t, out.Mentors)
	assert.Equal(t, MsgAddSkillsFirst, out.Message)
}

func TestFindMentors_Ranked(t *testing.T) {
	_, skills, _, svc := newMentorFixture()
	skills.add("me", []float32{1, 0}, "Go")
	skills.add("peer", []float32{1, 0}, "Go") // same year: never a mentor
	skills.add("s1", []float32{0, 1}, "Art")
	skills.add("s2", []float32{1, 0.1}, "Go", "Rust")
	skills.add("s3", []float32{1, 1}, "SQL")

	out, err := svc.FindMentors(context.Background(), "me")
	require.NoError(t, err)
	assert.Empty(t, out.Message)
	require.Len(t, out.Mentors, 3)

	assert.Equal(t, []string{"s2", "s3", "s1"}, []string{out.Mentors[0].ID, out.Mentors[1].ID, out.Mentors[2].ID})
	assert.Equal(t, []string{"Go", "Rust"}, out.Mentors[0].Skills)
	for i := 0; i+1 < len(out.Mentors); i++ {
		assert.GreaterOrEqual(t, out.Mentors[i].Similarity, out.Mentors[i+1].Similarity)
	}
	for _, m := range out.Mentors {
		assert.NotEqual(t, "empty", m.ID)
		assert.Greater(t, m.Year, 1)
	}
}

func TestFindMentors_NoSeniors(t *testing.T) {
	profiles := newFakeProfiles(profile("top", 6), profile("other", 6))
	skills := newFakeSkills()
	skills.add("top", []float32{1, 0}, "Go")
	svc := NewMentorService(profiles, skills, &fakeMentorships{}, MatchOptions{})

	out, err := svc.FindMentors(context.Background(), "top")
	require.NoError(t, err)
	assert.Empty(t, out.Mentors)
	assert.Equal(t, MsgNoSeniors, out.Message)
}

func TestFindMentors_SeniorsWithoutSkills(t *testing.T) {
	_, skills, _, svc := newMentorFixture()
	skills.add("me", []float32{1, 0}, "Go")

	out, err := svc.FindMentors(context.Background(), "me")
	require.NoError(t, err)
	assert.Empty(t, out.Mentors)
	assert.Equal(t, MsgNoSeniorSkills, out.Message)
}

func TestFindMentors_UnknownProfile(t *testing.T) {
	_, _, _, svc := newMentorFixture()

	_, err := svc.FindMentors(context.Background(), "ghost")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.FindMentors(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestRequestMentorship(t *testing.T) {
	_, _, ms, svc := newMentorFixture()
	score := 0.87

	m, err := svc.RequestMentorship(context.Background(), "me", "s1", &score)
	require.NoError(t, err)
	assert.Equal(t, "pending", m.Status)
	assert.Equal(t, &score, m.SimilarityScore)

	_, err = svc.RequestMentorship(context.Background(), "me", "s1", nil)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	assert.Contains(t, err.Error(), MsgAlreadyRequested)
	assert.Len(t, ms.rows, 1)

	list, err := svc.ListRequested(context.Background(), "me")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRequestMentorship_Invalid(t *testing.T) {
	_, _, _, svc := newMentorFixture()

	_, err := svc.RequestMentorship(context.Background(), "me", "me", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.RequestMentorship(context.Background(), "me", "ghost", nil)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
