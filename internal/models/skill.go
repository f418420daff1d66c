package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Skill struct {
	ID        string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProfileID string          `gorm:"column:profile_id;type:uuid;index" json:"profile_id"`
	SkillName string          `gorm:"column:skill_name;type:text" json:"skill_name"`
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector" json:"-"`
	CreatedAt time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Skill) TableName() string { return "skills" }
