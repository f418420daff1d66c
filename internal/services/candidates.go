package services

import (
	"context"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"golang.org/x/sync/errgroup"
)

// RankedCandidate is a matched profile with its similarity to the query.
type RankedCandidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Year       int      `json:"year"`
	Bio        *string  `json:"bio,omitempty"`
	Skills     []string `json:"skills"`
	Similarity float64  `json:"similarity"`
}

type MatchOptions struct {
	Pooling matching.Pooling
	// FetchConcurrency bounds the per-candidate skill lookups.
	FetchConcurrency int
}

func (o MatchOptions) withDefaults() MatchOptions {
	if o.Pooling == "" {
		o.Pooling = matching.PoolMean
	}
	if o.FetchConcurrency <= 0 {
		o.FetchConcurrency = 8
	}
	return o
}

func skillVectors(rows []models.Skill) []matching.SkillVector {
	out := make([]matching.SkillVector, 0, len(rows))
	for _, r := range rows {
		out = append(out, matching.SkillVector{Name: r.SkillName, Embedding: r.Embedding.Slice()})
	}
	return out
}

// loadCandidates fetches every profile's skills concurrently. Results land
// in the slot of their profile, so candidate order is the profile order no
// matter which lookup finishes first.
func loadCandidates(ctx context.Context, skills pgrepo.SkillRepository, profiles []models.Profile, limit int) ([]matching.Candidate, error) {
	out := make([]matching.Candidate, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range profiles {
		g.Go(func() error {
			rows, err := skills.ListByProfile(gctx, p.ID)
			if err != nil {
				return err
			}
			out[i] = matching.Candidate{ID: p.ID, Skills: skillVectors(rows)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func hasSkills(cands []matching.Candidate) bool {
	for _, c := range cands {
		if len(c.Skills) > 0 {
			return true
		}
	}
	return false
}

func toRanked(results []matching.Scored, profiles map[string]models.Profile) []RankedCandidate {
	out := make([]RankedCandidate, 0, len(results))
	for _, r := range results {
		p := profiles[r.ID]
		out = append(out, RankedCandidate{
			ID:         r.ID,
			Name:       p.Name,
			Department: p.Department,
			Year:       p.Year,
			Bio:        p.Bio,
			Skills:     r.SkillNames(),
			Similarity: r.Score,
		})
	}
	return out
}

func byID(profiles []models.Profile) map[string]models.Profile {
	m := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return m
}
