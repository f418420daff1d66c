package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultStream = "doubts:stream"
	DefaultGroup  = "doubt-workers"
)

// Event is what subscribers of services.DoubtEventsChannel receive.
type Event struct {
	Type    string `json:"type"` // status|doubt_answer
	DoubtID string `json:"doubt_id"`
	JobID   string `json:"job_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`

	AIResponse       string                     `json:"ai_response,omitempty"`
	SuggestedMentors []services.RankedCandidate `json:"suggested_mentors,omitempty"`
	ProcessingTimeMS int64                      `json:"processing_time_ms,omitempty"`
}

// StreamQueue enqueues doubts on a Redis stream.
type StreamQueue struct {
	Redis  *redis.Client
	Stream string
}

func NewStreamQueue(rdb *redis.Client) *StreamQueue {
	return &StreamQueue{Redis: rdb, Stream: DefaultStream}
}

func (q *StreamQueue) Enqueue(ctx context.Context, jobID, doubtID string) error {
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.Stream,
		Values: map[string]any{"job_id": jobID, "doubt_id": doubtID},
	}).Err()
}

type DoubtWorkerPool struct {
	Redis      *redis.Client
	Doubts     services.DoubtService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *DoubtWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Doubts == nil {
		return errors.New("DoubtWorkerPool missing dependency: Redis/Doubts must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group %s on %s: %w", p.Group, p.Stream, err)
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	p.Logger.WithFields(logrus.Fields{"stream": p.Stream, "workers": p.NumWorkers}).Info("doubt workers started")
	return nil
}

// isBusyGroup reports the error Redis returns when the group already exists.
func isBusyGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}

func (p *DoubtWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				// no redelivery: failures are recorded on the job instead
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *DoubtWorkerPool) publish(ctx context.Context, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = p.Redis.Publish(ctx, services.DoubtEventsChannel(ev.DoubtID), b).Err()
}

func (p *DoubtWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	jobID := getStr("job_id")
	doubtID := getStr("doubt_id")
	if jobID == "" || doubtID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"job_id":   jobID,
		"doubt_id": doubtID,
	})

	start := time.Now()
	_ = p.Doubts.MarkJob(ctx, jobID, models.JobProcessing, "", 0)
	p.publish(ctx, Event{Type: "status", DoubtID: doubtID, JobID: jobID, Status: models.JobProcessing, Message: "generating answer"})

	ans, err := p.Doubts.Answer(ctx, doubtID)
	ms := time.Since(start).Milliseconds()
	if err != nil {
		log.WithError(err).Error("answer failed")
		_ = p.Doubts.MarkJob(ctx, jobID, models.JobFailed, err.Error(), ms)
		p.publish(ctx, Event{Type: "status", DoubtID: doubtID, JobID: jobID, Status: models.JobFailed, Message: "failed to answer doubt"})
		return
	}

	_ = p.Doubts.MarkJob(ctx, jobID, models.JobDone, "", ms)
	p.publish(ctx, Event{
		Type:             "doubt_answer",
		DoubtID:          doubtID,
		JobID:            jobID,
		AIResponse:       ans.AIResponse,
		SuggestedMentors: ans.SuggestedMentors,
		ProcessingTimeMS: ms,
	})
	p.publish(ctx, Event{Type: "status", DoubtID: doubtID, JobID: jobID, Status: models.JobDone, Message: "doubt answered"})
	log.WithField("processing_time_ms", ms).Info("doubt answered")
}
