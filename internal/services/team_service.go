package services

import (
	"context"
	"strings"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/providers/llm"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	MsgNoStudents       = "No students found"
	MsgNoSkilledMembers = "No candidates with skills found"
)

type TeamProposal struct {
	Team    []RankedCandidate `json:"team"`
	Message string            `json:"message,omitempty"`
}

type TeamMemberInput struct {
	ProfileID  string   `json:"profile_id"`
	MatchScore *float64 `json:"match_score"`
	Skills     []string `json:"skills"`
}

type SaveTeamInput struct {
	Name           string            `json:"name"`
	RequiredSkills []string          `json:"required_skills"`
	TeamSize       int               `json:"team_size"`
	Members        []TeamMemberInput `json:"members"`
}

type TeamService interface {
	// BuildTeam proposes up to teamSize profiles for requiredSkills.
	BuildTeam(ctx context.Context, requiredSkills []string, teamSize int) (*TeamProposal, error)
	SaveTeam(ctx context.Context, createdBy string, in SaveTeamInput) (*models.Team, []models.TeamMember, error)
}

type teamService struct {
	profiles pgrepo.ProfileRepository
	skills   pgrepo.SkillRepository
	teams    pgrepo.TeamRepository
	embedder llm.Embedder
	opts     MatchOptions
}

func NewTeamService(profiles pgrepo.ProfileRepository, skills pgrepo.SkillRepository, teams pgrepo.TeamRepository, embedder llm.Embedder, opts MatchOptions) TeamService {
	return &teamService{profiles: profiles, skills: skills, teams: teams, embedder: embedder, opts: opts.withDefaults()}
}

func cleanRequired(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *teamService) BuildTeam(ctx context.Context, requiredSkills []string, teamSize int) (*TeamProposal, error) {
	const op = "TeamService.BuildTeam"

	required := cleanRequired(requiredSkills)
	if len(required) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Required skills array is required", nil)
	}
	if !matching.ValidTeamSize(teamSize) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Team size must be between 3 and 5", nil)
	}

	query, err := s.embedder.Embed(ctx, strings.Join(required, ", "))
	if err != nil {
		return nil, utils.Upstream(op, "Failed to generate embedding for required skills", err)
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	if len(profiles) == 0 {
		return &TeamProposal{Team: []RankedCandidate{}, Message: MsgNoStudents}, nil
	}

	cands, err := loadCandidates(ctx, s.skills, profiles, s.opts.FetchConcurrency)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate skills", err)
	}

	ranking := matching.Rank(query, cands, matching.Options{Pooling: s.opts.Pooling})
	if len(ranking.Results) == 0 {
		return &TeamProposal{Team: []RankedCandidate{}, Message: MsgNoSkilledMembers}, nil
	}

	team := matching.AssembleTeam(ranking.Results, teamSize)
	return &TeamProposal{Team: toRanked(team, byID(profiles))}, nil
}

func (s *teamService) SaveTeam(ctx context.Context, createdBy string, in SaveTeamInput) (*models.Team, []models.TeamMember, error) {
	const op = "TeamService.SaveTeam"

	name := strings.TrimSpace(in.Name)
	required := cleanRequired(in.RequiredSkills)
	switch {
	case createdBy == "":
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "created_by is required", nil)
	case name == "":
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "Team name is required", nil)
	case len(required) == 0:
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "Required skills array is required", nil)
	case !matching.ValidTeamSize(in.TeamSize):
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "Team size must be between 3 and 5", nil)
	case len(in.Members) == 0:
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "Team must have at least one member", nil)
	case len(in.Members) > in.TeamSize:
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "Team has more members than team_size", nil)
	}

	now := time.Now().UTC()
	team := &models.Team{
		ID:             uuid.NewString(),
		Name:           name,
		RequiredSkills: pq.StringArray(required),
		TeamSize:       in.TeamSize,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	seen := make(map[string]struct{}, len(in.Members))
	members := make([]models.TeamMember, 0, len(in.Members))
	for _, m := range in.Members {
		if m.ProfileID == "" {
			return nil, nil, utils.E(utils.CodeInvalidArgument, op, "member profile_id is required", nil)
		}
		if _, dup := seen[m.ProfileID]; dup {
			return nil, nil, utils.E(utils.CodeInvalidArgument, op, "duplicate team member", nil)
		}
		seen[m.ProfileID] = struct{}{}
		members = append(members, models.TeamMember{
			ID:         uuid.NewString(),
			TeamID:     team.ID,
			ProfileID:  m.ProfileID,
			MatchScore: m.MatchScore,
			Skills:     pq.StringArray(m.Skills),
			CreatedAt:  now,
		})
	}

	if err := s.teams.CreateWithMembers(ctx, team, members); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to save team", err)
	}
	return team, members, nil
}
