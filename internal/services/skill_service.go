package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/providers/llm"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"
)

const (
	minSkillLen = 2
	maxSkillLen = 50
)

type SkillService interface {
	ListSkills(ctx context.Context, profileID string) ([]models.Skill, error)
	// ReplaceSkills embeds every name and swaps the profile's skill set in
	// one transaction. Nothing is written if any embedding fails.
	ReplaceSkills(ctx context.Context, profileID string, names []string) ([]models.Skill, error)
	// Reembed regenerates the vectors of the skills a profile already has,
	// e.g. after the embedding model changed.
	Reembed(ctx context.Context, profileID string) ([]models.Skill, error)
}

type skillService struct {
	profiles    pgrepo.ProfileRepository
	skills      pgrepo.SkillRepository
	embedder    llm.Embedder
	concurrency int
}

func NewSkillService(profiles pgrepo.ProfileRepository, skills pgrepo.SkillRepository, embedder llm.Embedder, concurrency int) SkillService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &skillService{profiles: profiles, skills: skills, embedder: embedder, concurrency: concurrency}
}

func (s *skillService) ListSkills(ctx context.Context, profileID string) ([]models.Skill, error) {
	const op = "SkillService.ListSkills"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	rows, err := s.skills.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	return rows, nil
}

func (s *skillService) ReplaceSkills(ctx context.Context, profileID string, names []string) ([]models.Skill, error) {
	const op = "SkillService.ReplaceSkills"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	clean, msg := NormalizeSkillNames(names)
	if msg != "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, msg, nil)
	}
	return s.replace(ctx, op, profileID, clean)
}

func (s *skillService) Reembed(ctx context.Context, profileID string) ([]models.Skill, error) {
	const op = "SkillService.Reembed"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	rows, err := s.skills.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	if len(rows) == 0 {
		return []models.Skill{}, nil
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.SkillName)
	}
	return s.replace(ctx, op, profileID, names)
}

func (s *skillService) replace(ctx context.Context, op, profileID string, names []string) ([]models.Skill, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	vecs := make([][]float32, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range names {
		g.Go(func() error {
			v, err := s.embedder.Embed(gctx, name)
			if err != nil {
				return fmt.Errorf("skill %q: %w", name, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, utils.Upstream(op, "Failed to generate embeddings for skills", err)
	}

	// one microsecond apart (Postgres timestamp resolution) so listing by
	// created_at returns the entered order
	now := time.Now().UTC().Truncate(time.Microsecond)
	rows := make([]models.Skill, len(names))
	for i, name := range names {
		rows[i] = models.Skill{
			ID:        uuid.NewString(),
			ProfileID: profileID,
			SkillName: name,
			Embedding: pgvector.NewVector(vecs[i]),
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		}
	}

	if err := s.skills.ReplaceForProfile(ctx, profileID, rows); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store skills", err)
	}
	return rows, nil
}

// NormalizeSkillNames trims names, drops case-insensitive duplicates (first
// spelling wins) and checks lengths. msg is empty when names are valid.
func NormalizeSkillNames(names []string) (clean []string, msg string) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if l := utf8.RuneCountInString(n); l < minSkillLen || l > maxSkillLen {
			return nil, fmt.Sprintf("Skill %q must be between %d and %d characters", n, minSkillLen, maxSkillLen)
		}
		k := strings.ToLower(n)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		clean = append(clean, n)
	}
	if len(clean) == 0 {
		return nil, "Skills array is required"
	}
	return clean, ""
}
