package models

import (
	"time"

	"github.com/lib/pq"
)

type Team struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"column:name;type:text" json:"name"`
	RequiredSkills pq.StringArray `gorm:"column:required_skills;type:text[]" json:"required_skills"`
	TeamSize       int            `gorm:"column:team_size;type:integer" json:"team_size"`
	CreatedBy      string         `gorm:"column:created_by;type:uuid;index" json:"created_by"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Team) TableName() string { return "teams" }

// TeamMember keeps the match score (and the member's skill names) as they
// were when the team was saved.
type TeamMember struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TeamID     string         `gorm:"column:team_id;type:uuid;index" json:"team_id"`
	ProfileID  string         `gorm:"column:profile_id;type:uuid;index" json:"profile_id"`
	MatchScore *float64       `gorm:"column:match_score;type:double precision" json:"match_score,omitempty"`
	Skills     pq.StringArray `gorm:"column:skills;type:text[]" json:"skills,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (TeamMember) TableName() string { return "team_members" }
