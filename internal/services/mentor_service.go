package services

import (
	"context"
	"errors"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
)

const (
	MsgAddSkillsFirst   = "Please add skills to your profile first"
	MsgNoSeniors        = "No senior students found"
	MsgNoSeniorSkills   = "No senior students with skills found"
	MsgAlreadyRequested = "You've already requested this mentor"
)

type MentorMatches struct {
	Mentors []RankedCandidate `json:"mentors"`
	Message string            `json:"message,omitempty"`
}

type MentorService interface {
	// FindMentors ranks profiles in a strictly higher year than profileID.
	// Empty results carry a Message instead of an error.
	FindMentors(ctx context.Context, profileID string) (*MentorMatches, error)
	RequestMentorship(ctx context.Context, menteeID, mentorID string, score *float64) (*models.Mentorship, error)
	ListRequested(ctx context.Context, menteeID string) ([]models.Mentorship, error)
}

type mentorService struct {
	profiles    pgrepo.ProfileRepository
	skills      pgrepo.SkillRepository
	mentorships pgrepo.MentorshipRepository
	opts        MatchOptions
}

func NewMentorService(profiles pgrepo.ProfileRepository, skills pgrepo.SkillRepository, mentorships pgrepo.MentorshipRepository, opts MatchOptions) MentorService {
	return &mentorService{profiles: profiles, skills: skills, mentorships: mentorships, opts: opts.withDefaults()}
}

func (s *mentorService) FindMentors(ctx context.Context, profileID string) (*MentorMatches, error) {
	const op = "MentorService.FindMentors"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Profile ID is required", nil)
	}

	me, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	own, err := s.skills.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	query := matching.QueryVector(skillVectors(own), s.opts.Pooling)
	if len(query) == 0 {
		return &MentorMatches{Mentors: []RankedCandidate{}, Message: MsgAddSkillsFirst}, nil
	}

	seniors, err := s.profiles.ListSeniors(ctx, me.Year)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list potential mentors", err)
	}
	if len(seniors) == 0 {
		return &MentorMatches{Mentors: []RankedCandidate{}, Message: MsgNoSeniors}, nil
	}

	cands, err := loadCandidates(ctx, s.skills, seniors, s.opts.FetchConcurrency)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load mentor skills", err)
	}

	ranking := matching.Rank(query, cands, matching.Options{TopK: matching.MentorTopK, Pooling: s.opts.Pooling})
	if len(ranking.Results) == 0 {
		return &MentorMatches{Mentors: []RankedCandidate{}, Message: MsgNoSeniorSkills}, nil
	}
	return &MentorMatches{Mentors: toRanked(ranking.Results, byID(seniors))}, nil
}

func (s *mentorService) RequestMentorship(ctx context.Context, menteeID, mentorID string, score *float64) (*models.Mentorship, error) {
	const op = "MentorService.RequestMentorship"

	if menteeID == "" || mentorID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "mentor_id and mentee_id are required", nil)
	}
	if menteeID == mentorID {
		return nil, utils.E(utils.CodeInvalidArgument, op, "You cannot request yourself as a mentor", nil)
	}

	if _, err := s.profiles.GetByID(ctx, mentorID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "mentor not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get mentor", err)
	}

	m := &models.Mentorship{
		ID:              uuid.NewString(),
		MentorID:        mentorID,
		MenteeID:        menteeID,
		Status:          models.MentorshipPending,
		SimilarityScore: score,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.mentorships.Insert(ctx, m); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, MsgAlreadyRequested, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to request mentorship", err)
	}
	return m, nil
}

func (s *mentorService) ListRequested(ctx context.Context, menteeID string) ([]models.Mentorship, error) {
	const op = "MentorService.ListRequested"

	if menteeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "mentee_id is required", nil)
	}
	rows, err := s.mentorships.ListByMentee(ctx, menteeID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list mentorships", err)
	}
	return rows, nil
}
