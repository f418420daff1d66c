package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/providers/llm"
	mongorepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/mongo"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DoubtEventsChannel is the pub/sub channel carrying async progress for one
// doubt.
func DoubtEventsChannel(doubtID string) string { return "doubt:" + doubtID + ":events" }

// DoubtQueue hands a doubt to the background answerers.
type DoubtQueue interface {
	Enqueue(ctx context.Context, jobID, doubtID string) error
}

type DoubtAnswer struct {
	Doubt            *models.Doubt     `json:"doubt"`
	AIResponse       string            `json:"ai_response"`
	SuggestedMentors []RankedCandidate `json:"suggested_mentors"`
}

type DoubtSubmission struct {
	Doubt *models.Doubt `json:"doubt"`
	JobID string        `json:"job_id"`
}

type DoubtService interface {
	// SuggestMentorsForDoubt returns the top 3 profiles whose skills are
	// closest to text.
	SuggestMentorsForDoubt(ctx context.Context, text string) ([]RankedCandidate, error)
	// Ask stores the doubt and answers it before returning.
	Ask(ctx context.Context, profileID, question, subject string) (*DoubtAnswer, error)
	// Submit stores the doubt and queues it; Answer is run later by a worker.
	Submit(ctx context.Context, profileID, question, subject string) (*DoubtSubmission, error)
	Answer(ctx context.Context, doubtID string) (*DoubtAnswer, error)
	Get(ctx context.Context, doubtID string) (*models.Doubt, error)

	LatestJob(ctx context.Context, doubtID string) (*models.DoubtJob, error)
	MarkJob(ctx context.Context, jobID, status, errMsg string, processingMS int64) error
}

type doubtService struct {
	doubts    pgrepo.DoubtRepository
	profiles  pgrepo.ProfileRepository
	skills    pgrepo.SkillRepository
	embedder  llm.Embedder
	completer llm.Completer
	opts      MatchOptions

	// optional; Submit is unavailable without both
	jobs  mongorepo.DoubtJobRepository
	queue DoubtQueue
}

type DoubtDeps struct {
	Doubts    pgrepo.DoubtRepository
	Profiles  pgrepo.ProfileRepository
	Skills    pgrepo.SkillRepository
	Embedder  llm.Embedder
	Completer llm.Completer
	Jobs      mongorepo.DoubtJobRepository
	Queue     DoubtQueue
	Options   MatchOptions
}

func NewDoubtService(d DoubtDeps) DoubtService {
	return &doubtService{
		doubts:    d.Doubts,
		profiles:  d.Profiles,
		skills:    d.Skills,
		embedder:  d.Embedder,
		completer: d.Completer,
		opts:      d.Options.withDefaults(),
		jobs:      d.Jobs,
		queue:     d.Queue,
	}
}

func (s *doubtService) SuggestMentorsForDoubt(ctx context.Context, text string) ([]RankedCandidate, error) {
	const op = "DoubtService.SuggestMentorsForDoubt"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Doubt text is required", nil)
	}
	return s.suggest(ctx, op, text)
}

func (s *doubtService) suggest(ctx context.Context, op, text string) ([]RankedCandidate, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, utils.Upstream(op, "Failed to generate embedding for doubt", err)
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	cands, err := loadCandidates(ctx, s.skills, profiles, s.opts.FetchConcurrency)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate skills", err)
	}

	ranking := matching.Rank(query, cands, matching.Options{TopK: matching.DoubtTopK, Pooling: s.opts.Pooling})
	return toRanked(ranking.Results, byID(profiles)), nil
}

func validateDoubt(op, profileID, question, subject string) error {
	if profileID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	if question == "" || subject == "" {
		return utils.E(utils.CodeInvalidArgument, op, "Doubt text and subject are required", nil)
	}
	return nil
}

func (s *doubtService) create(ctx context.Context, op, profileID, question, subject string) (*models.Doubt, error) {
	now := time.Now().UTC()
	d := &models.Doubt{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Question:  question,
		Subject:   subject,
		Status:    models.DoubtOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.doubts.Create(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create doubt", err)
	}
	return d, nil
}

func (s *doubtService) Ask(ctx context.Context, profileID, question, subject string) (*DoubtAnswer, error) {
	const op = "DoubtService.Ask"

	question, subject = strings.TrimSpace(question), strings.TrimSpace(subject)
	if err := validateDoubt(op, profileID, question, subject); err != nil {
		return nil, err
	}

	d, err := s.create(ctx, op, profileID, question, subject)
	if err != nil {
		return nil, err
	}
	return s.answer(ctx, op, d)
}

func (s *doubtService) Submit(ctx context.Context, profileID, question, subject string) (*DoubtSubmission, error) {
	const op = "DoubtService.Submit"

	question, subject = strings.TrimSpace(question), strings.TrimSpace(subject)
	if err := validateDoubt(op, profileID, question, subject); err != nil {
		return nil, err
	}
	if s.jobs == nil || s.queue == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "async answering is not configured", nil)
	}

	d, err := s.create(ctx, op, profileID, question, subject)
	if err != nil {
		return nil, err
	}

	job := &models.DoubtJob{
		JobID:   uuid.NewString(),
		DoubtID: d.ID,
		Status:  models.JobPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create doubt job", err)
	}
	if err := s.queue.Enqueue(ctx, job.JobID, d.ID); err != nil {
		_ = s.jobs.SetStatus(ctx, job.JobID, models.JobFailed, "enqueue failed", 0)
		return nil, utils.E(utils.CodeUnavailable, op, "failed to queue doubt", err)
	}
	return &DoubtSubmission{Doubt: d, JobID: job.JobID}, nil
}

func (s *doubtService) Answer(ctx context.Context, doubtID string) (*DoubtAnswer, error) {
	const op = "DoubtService.Answer"

	d, err := s.Get(ctx, doubtID)
	if err != nil {
		return nil, err
	}
	if d.Status == models.DoubtAnswered && d.AIResponse != nil {
		out := &DoubtAnswer{Doubt: d, AIResponse: *d.AIResponse, SuggestedMentors: []RankedCandidate{}}
		if len(d.SuggestedMentors) == 0 {
			return out, nil
		}
		if err := json.Unmarshal(d.SuggestedMentors, &out.SuggestedMentors); err == nil {
			return out, nil
		}
		// unreadable snapshot: answer again so it gets rewritten
	}
	return s.answer(ctx, op, d)
}

// answer completes the doubt, suggests mentors and records both. On any
// provider failure the doubt is left open.
func (s *doubtService) answer(ctx context.Context, op string, d *models.Doubt) (*DoubtAnswer, error) {
	resp, err := s.completer.Complete(ctx, llm.TutorSystemPrompt(d.Subject), d.Question)
	if err != nil {
		return nil, utils.Upstream(op, "Failed to generate AI response", err)
	}

	mentors, err := s.suggest(ctx, op, d.Question)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(mentors)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode mentor snapshot", err)
	}
	if err := s.doubts.SaveAnswer(ctx, d.ID, resp, datatypes.JSON(snapshot)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save answer", err)
	}

	d.AIResponse = &resp
	d.SuggestedMentors = datatypes.JSON(snapshot)
	d.Status = models.DoubtAnswered
	d.UpdatedAt = time.Now().UTC()
	return &DoubtAnswer{Doubt: d, AIResponse: resp, SuggestedMentors: mentors}, nil
}

func (s *doubtService) Get(ctx context.Context, doubtID string) (*models.Doubt, error) {
	const op = "DoubtService.Get"

	if doubtID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "doubt_id is required", nil)
	}
	d, err := s.doubts.GetByID(ctx, doubtID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "doubt not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get doubt", err)
	}
	return d, nil
}

func (s *doubtService) LatestJob(ctx context.Context, doubtID string) (*models.DoubtJob, error) {
	const op = "DoubtService.LatestJob"

	if s.jobs == nil {
		return nil, utils.E(utils.CodeNotFound, op, "no job for doubt", nil)
	}
	j, err := s.jobs.LatestByDoubt(ctx, doubtID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no job for doubt", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get doubt job", err)
	}
	return j, nil
}

func (s *doubtService) MarkJob(ctx context.Context, jobID, status, errMsg string, processingMS int64) error {
	const op = "DoubtService.MarkJob"

	if jobID == "" || status == "" {
		return utils.E(utils.CodeInvalidArgument, op, "job_id and status are required", nil)
	}
	if s.jobs == nil {
		return nil
	}
	if err := s.jobs.SetStatus(ctx, jobID, status, errMsg, processingMS); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update doubt job", err)
	}
	return nil
}
