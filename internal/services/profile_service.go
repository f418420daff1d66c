package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates the caller's profile on first save and updates it after.
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if p == nil || p.UserID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile.user_id is required", nil)
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Department = strings.TrimSpace(p.Department)
	if msg := validateProfile(p); msg != "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, msg, nil)
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}

	// on conflict the stored id wins over the one generated above
	out, err := s.profiles.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload profile", err)
	}
	return out, nil
}

func validateProfile(p *models.Profile) string {
	switch n := utf8.RuneCountInString(p.Name); {
	case n < 2:
		return "Name must be at least 2 characters"
	case n > 100:
		return "Name must be less than 100 characters"
	}
	switch n := utf8.RuneCountInString(p.Department); {
	case n < 2:
		return "Department must be at least 2 characters"
	case n > 100:
		return "Department must be less than 100 characters"
	}
	if p.Year < 1 || p.Year > 6 {
		return "Year must be between 1 and 6"
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > 1000 {
		return "Bio must be less than 1000 characters"
	}
	return ""
}
