package workers

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markCall struct {
	jobID, status, errMsg string
}

type recordingDoubts struct {
	services.DoubtService

	mu        sync.Mutex
	answerErr error
	answered  []string
	marks     []markCall
}

func (r *recordingDoubts) Answer(_ context.Context, doubtID string) (*services.DoubtAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answered = append(r.answered, doubtID)
	if r.answerErr != nil {
		return nil, r.answerErr
	}
	return &services.DoubtAnswer{AIResponse: "ok"}, nil
}

func (r *recordingDoubts) MarkJob(_ context.Context, jobID, status, errMsg string, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, markCall{jobID, status, errMsg})
	return nil
}

// unreachable returns a client whose publishes fail fast; the worker ignores
// publish errors.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func msg(values map[string]any) redis.XMessage {
	return redis.XMessage{ID: "1-0", Values: values}
}

func TestHandleMsg_Done(t *testing.T) {
	doubts := &recordingDoubts{}
	rdb := unreachable()
	defer rdb.Close()
	p := &DoubtWorkerPool{Redis: rdb, Doubts: doubts, Logger: quietLogger()}

	p.handleMsg(context.Background(), msg(map[string]any{"job_id": "j1", "doubt_id": "d1"}))

	assert.Equal(t, []string{"d1"}, doubts.answered)
	require.Len(t, doubts.marks, 2)
	assert.Equal(t, markCall{"j1", models.JobProcessing, ""}, doubts.marks[0])
	assert.Equal(t, markCall{"j1", models.JobDone, ""}, doubts.marks[1])
}

func TestHandleMsg_FailedRecordsError(t *testing.T) {
	doubts := &recordingDoubts{answerErr: errors.New("provider down")}
	rdb := unreachable()
	defer rdb.Close()
	p := &DoubtWorkerPool{Redis: rdb, Doubts: doubts, Logger: quietLogger()}

	p.handleMsg(context.Background(), msg(map[string]any{"job_id": "j1", "doubt_id": "d1"}))

	require.Len(t, doubts.marks, 2)
	assert.Equal(t, markCall{"j1", models.JobFailed, "provider down"}, doubts.marks[1])
}

func TestHandleMsg_IgnoresIncompleteMessages(t *testing.T) {
	doubts := &recordingDoubts{}
	p := &DoubtWorkerPool{Redis: unreachable(), Doubts: doubts, Logger: quietLogger()}

	p.handleMsg(context.Background(), msg(map[string]any{"job_id": "j1"}))
	p.handleMsg(context.Background(), msg(map[string]any{"doubt_id": "d1", "job_id": 7}))

	assert.Empty(t, doubts.answered)
	assert.Empty(t, doubts.marks)
}

func TestStart_RequiresDependencies(t *testing.T) {
	err := (&DoubtWorkerPool{}).Start(context.Background())
	assert.Error(t, err)
}

func TestEventsChannel(t *testing.T) {
	assert.Equal(t, "doubt:abc:events", services.DoubtEventsChannel("abc"))
}

func TestIsBusyGroup(t *testing.T) {
	assert.True(t, isBusyGroup(errors.New("BUSYGROUP Consumer Group name already exists")))
	assert.False(t, isBusyGroup(errors.New("dial tcp 127.0.0.1:1: connect: connection refused")))
	assert.False(t, isBusyGroup(nil))
}

func TestStart_GroupCreateFailure(t *testing.T) {
	rdb := unreachable()
	defer rdb.Close()
	p := &DoubtWorkerPool{Redis: rdb, Doubts: &recordingDoubts{}, Logger: quietLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := p.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create consumer group")
}
