package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DoubtJobsCollection = "doubt_jobs"

type DoubtJobRepository interface {
	Create(ctx context.Context, j *models.DoubtJob) error
	GetByJobID(ctx context.Context, jobID string) (*models.DoubtJob, error)
	LatestByDoubt(ctx context.Context, doubtID string) (*models.DoubtJob, error)
	SetStatus(ctx context.Context, jobID, status, errMsg string, processingMS int64) error
}

type doubtJobRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

// NewDoubtJobRepo keeps job documents for ttl after creation; the TTL index
// on expires_at removes them.
func NewDoubtJobRepo(db *mongo.Database, ttl time.Duration) DoubtJobRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &doubtJobRepo{col: db.Collection(DoubtJobsCollection), ttl: ttl}
}

func (r *doubtJobRepo) Create(ctx context.Context, j *models.DoubtJob) error {
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	if j.ExpiresAt.IsZero() {
		j.ExpiresAt = j.CreatedAt.Add(r.ttl)
	}
	if j.Status == "" {
		j.Status = models.JobPending
	}
	_, err := r.col.InsertOne(ctx, j)
	return err
}

func (r *doubtJobRepo) GetByJobID(ctx context.Context, jobID string) (*models.DoubtJob, error) {
	var j models.DoubtJob
	err := r.col.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *doubtJobRepo) LatestByDoubt(ctx context.Context, doubtID string) (*models.DoubtJob, error) {
	var j models.DoubtJob
	err := r.col.FindOne(ctx,
		bson.M{"doubt_id": doubtID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *doubtJobRepo) SetStatus(ctx context.Context, jobID, status, errMsg string, processingMS int64) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if errMsg != "" {
		set["error"] = errMsg
	}
	if processingMS > 0 {
		set["processing_time_ms"] = processingMS
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"job_id": jobID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
