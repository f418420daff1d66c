package models

import "time"

const MentorshipPending = "pending"

// Mentorship is unique per (mentor_id, mentee_id); the store enforces it.
type Mentorship struct {
	ID              string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MentorID        string   `gorm:"column:mentor_id;type:uuid;uniqueIndex:mentorships_pair" json:"mentor_id"`
	MenteeID        string   `gorm:"column:mentee_id;type:uuid;uniqueIndex:mentorships_pair" json:"mentee_id"`
	Status          string   `gorm:"column:status;type:text" json:"status"`
	SimilarityScore *float64 `gorm:"column:similarity_score;type:double precision" json:"similarity_score,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Mentorship) TableName() string { return "mentorships" }
