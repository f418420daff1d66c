package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DoubtOpen     = "open"
	DoubtAnswered = "answered"
)

type Doubt struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProfileID  string  `gorm:"column:profile_id;type:uuid;index" json:"profile_id"`
	Question   string  `gorm:"column:question;type:text" json:"question"`
	Subject    string  `gorm:"column:subject;type:text" json:"subject"`
	Status     string  `gorm:"column:status;type:text" json:"status"` // open|answered
	AIResponse *string `gorm:"column:ai_response;type:text" json:"ai_response,omitempty"`

	// JSONB snapshot of the mentors suggested when the doubt was answered
	SuggestedMentors datatypes.JSON `gorm:"column:suggested_mentors;type:jsonb" json:"suggested_mentors,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Doubt) TableName() string { return "doubts" }
