package postgres

import (
	"context"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"gorm.io/gorm"
)

type SkillRepository interface {
	ListByProfile(ctx context.Context, profileID string) ([]models.Skill, error)
	// ReplaceForProfile deletes every skill of the profile and inserts skills
	// in one transaction.
	ReplaceForProfile(ctx context.Context, profileID string, skills []models.Skill) error
}

type skillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) ListByProfile(ctx context.Context, profileID string) ([]models.Skill, error) {
	var rows []models.Skill
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at, id").
		Find(&rows).Error
	return rows, err
}

func (r *skillRepo) ReplaceForProfile(ctx context.Context, profileID string, skills []models.Skill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			return nil
		}
		return tx.Create(&skills).Error
	})
}
