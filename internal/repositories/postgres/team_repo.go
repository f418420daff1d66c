package postgres

import (
	"context"
	"errors"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"gorm.io/gorm"
)

type TeamRepository interface {
	// CreateWithMembers inserts the team and its members atomically.
	CreateWithMembers(ctx context.Context, t *models.Team, members []models.TeamMember) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

type teamRepo struct {
	db *gorm.DB
}

func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) CreateWithMembers(ctx context.Context, t *models.Team, members []models.TeamMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		for i := range members {
			members[i].TeamID = t.ID
		}
		err := tx.Create(&members).Error
		if isUniqueViolation(err) {
			return utils.ErrConflict
		}
		return err
	})
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepo) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	var rows []models.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("match_score DESC NULLS LAST").
		Find(&rows).Error
	return rows, err
}
