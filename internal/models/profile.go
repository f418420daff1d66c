package models

import "time"

type Profile struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string  `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id"` // from Supabase Auth
	Name       string  `gorm:"column:name;type:text" json:"name"`
	Department string  `gorm:"column:department;type:text" json:"department"`
	Year       int     `gorm:"column:year;type:integer" json:"year"`
	Bio        *string `gorm:"column:bio;type:text" json:"bio,omitempty"`
	ResumeURL  *string `gorm:"column:resume_url;type:text" json:"resume_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
