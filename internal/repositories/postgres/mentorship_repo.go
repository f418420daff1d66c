package postgres

import (
	"context"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"gorm.io/gorm"
)

type MentorshipRepository interface {
	// Insert returns utils.ErrConflict when the (mentor, mentee) pair exists.
	Insert(ctx context.Context, m *models.Mentorship) error
	ListByMentee(ctx context.Context, menteeID string) ([]models.Mentorship, error)
}

type mentorshipRepo struct {
	db *gorm.DB
}

func NewMentorshipRepo(db *gorm.DB) MentorshipRepository {
	return &mentorshipRepo{db: db}
}

func (r *mentorshipRepo) Insert(ctx context.Context, m *models.Mentorship) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if isUniqueViolation(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *mentorshipRepo) ListByMentee(ctx context.Context, menteeID string) ([]models.Mentorship, error) {
	var rows []models.Mentorship
	err := r.db.WithContext(ctx).
		Where("mentee_id = ?", menteeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
