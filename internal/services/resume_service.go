package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/storage"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/google/uuid"
)

const MaxResumeBytes = 10 << 20

type ResumeService interface {
	// Upload stores a PDF resume for the profile and records its URL.
	Upload(ctx context.Context, profileID, contentType string, size int64, r io.Reader) (*models.Profile, error)
	// DownloadURL returns a URL the caller can open; private objects get a
	// short-lived signed URL.
	DownloadURL(ctx context.Context, profileID string) (string, error)
}

type resumeService struct {
	profiles pgrepo.ProfileRepository
	uploader storage.Uploader
	signer   storage.Signer
}

// NewResumeService accepts a nil signer when objects are public.
func NewResumeService(profiles pgrepo.ProfileRepository, uploader storage.Uploader, signer storage.Signer) ResumeService {
	return &resumeService{profiles: profiles, uploader: uploader, signer: signer}
}

func ResumeObjectName(profileID string) string {
	return "resumes/" + profileID + "/" + uuid.NewString() + ".pdf"
}

func (s *resumeService) Upload(ctx context.Context, profileID, contentType string, size int64, r io.Reader) (*models.Profile, error) {
	const op = "ResumeService.Upload"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Resume must be a PDF", nil)
	}
	if size <= 0 || size > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Resume must be smaller than 10MB", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "uploader is not configured", nil)
	}

	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	url, err := s.uploader.Upload(ctx, ResumeObjectName(profileID), "application/pdf", io.LimitReader(r, MaxResumeBytes))
	if err != nil {
		return nil, utils.Upstream(op, "failed to upload resume", err)
	}
	if err := s.profiles.SetResumeURL(ctx, profileID, url); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save resume url", err)
	}

	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload profile", err)
	}
	return p, nil
}

func (s *resumeService) DownloadURL(ctx context.Context, profileID string) (string, error) {
	const op = "ResumeService.DownloadURL"

	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if p.ResumeURL == nil || *p.ResumeURL == "" {
		return "", utils.E(utils.CodeNotFound, op, "no resume uploaded", nil)
	}

	url := *p.ResumeURL
	object, private := strings.CutPrefix(url, "gs://")
	if !private {
		return url, nil
	}
	if s.signer == nil {
		return "", utils.E(utils.CodeUnavailable, op, "signer is not configured", nil)
	}
	// gs://<bucket>/<object>
	if i := strings.Index(object, "/"); i >= 0 {
		object = object[i+1:]
	}
	signed, err := s.signer.SignedGetURL(ctx, object, 15*time.Minute)
	if err != nil {
		return "", utils.Upstream(op, "failed to sign resume url", err)
	}
	return signed, nil
}
