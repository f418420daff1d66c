package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_UpsertCreatesThenUpdates(t *testing.T) {
	repo := newFakeProfiles()
	svc := NewProfileService(repo)

	created, err := svc.Upsert(context.Background(), &models.Profile{UserID: "u1", Name: " Ana ", Department: "Physics", Year: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)

	updated, err := svc.Upsert(context.Background(), &models.Profile{UserID: "u1", Name: "Ana Maria", Department: "Physics", Year: 3})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 3, updated.Year)

	me, err := svc.GetMe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", me.Name)
}

func TestProfileService_Validation(t *testing.T) {
	svc := NewProfileService(newFakeProfiles())
	long := strings.Repeat("x", 1001)

	cases := map[string]models.Profile{
		"short name":   {UserID: "u", Name: "A", Department: "CS", Year: 1},
		"long dept":    {UserID: "u", Name: "Ana", Department: strings.Repeat("d", 101), Year: 1},
		"year zero":    {UserID: "u", Name: "Ana", Department: "CS", Year: 0},
		"year seven":   {UserID: "u", Name: "Ana", Department: "CS", Year: 7},
		"long bio":     {UserID: "u", Name: "Ana", Department: "CS", Year: 1, Bio: &long},
		"missing user": {Name: "Ana", Department: "CS", Year: 1},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), &p)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		})
	}
}

func TestProfileService_GetMeNotFound(t *testing.T) {
	svc := NewProfileService(newFakeProfiles())

	_, err := svc.GetMe(context.Background(), "ghost")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
