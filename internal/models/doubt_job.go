package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobDone       = "done"
	JobFailed     = "failed"
)

// DoubtJob tracks one asynchronous answer request.
type DoubtJob struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	JobID   string             `bson:"job_id" json:"job_id"`
	DoubtID string             `bson:"doubt_id" json:"doubt_id"`
	Status  string             `bson:"status" json:"status"` // pending|processing|done|failed
	Error   string             `bson:"error,omitempty" json:"error,omitempty"`

	ProcessingTimeMS int64     `bson:"processing_time_ms,omitempty" json:"processing_time_ms,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
