package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DoubtRepository interface {
	Create(ctx context.Context, d *models.Doubt) error
	GetByID(ctx context.Context, id string) (*models.Doubt, error)
	// SaveAnswer stores the AI response and mentor snapshot and marks the
	// doubt answered.
	SaveAnswer(ctx context.Context, id, answer string, mentors datatypes.JSON) error
}

type doubtRepo struct {
	db *gorm.DB
}

func NewDoubtRepo(db *gorm.DB) DoubtRepository {
	return &doubtRepo{db: db}
}

func (r *doubtRepo) Create(ctx context.Context, d *models.Doubt) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *doubtRepo) GetByID(ctx context.Context, id string) (*models.Doubt, error) {
	var d models.Doubt
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doubtRepo) SaveAnswer(ctx context.Context, id, answer string, mentors datatypes.JSON) error {
	res := r.db.WithContext(ctx).
		Model(&models.Doubt{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"ai_response":       answer,
			"suggested_mentors": mentors,
			"status":            models.DoubtAnswered,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
