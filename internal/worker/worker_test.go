package worker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/worker"
)

// fakeRecorder stores every submission except those with a user id listed
// in reject (validation error) or fail (store error).
type fakeRecorder struct {
	mu     sync.Mutex
	stored []string
	reject map[string]bool
	fail   map[string]bool
	delay  time.Duration
}

func (f *fakeRecorder) Record(ctx context.Context, in *models.UserDataInput) (*models.UserData, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.reject[in.UserID] {
		return nil, &prediction.ValidationError{Errors: []models.FieldError{{Field: "user_id", Code: "required"}}}
	}
	if f.fail[in.UserID] {
		return nil, errors.New("store data point: connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, in.UserID)
	return &models.UserData{UserID: in.UserID}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func inputs(ids ...string) []models.UserDataInput {
	out := make([]models.UserDataInput, len(ids))
	for i, id := range ids {
		out[i] = models.UserDataInput{UserID: id}
	}
	return out
}

func newJob(rec worker.Recorder, cfg worker.BatchConfig) *worker.ScoreJob {
	return worker.NewScoreJob(worker.ScoreJobConfig{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Recorder: rec,
	})
}

func TestDefaultBatchConfig(t *testing.T) {
	cfg := worker.DefaultBatchConfig()

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 500, cfg.MaxSubmissions)
}

func TestScoreJob_Run(t *testing.T) {
	rec := &fakeRecorder{
		reject: map[string]bool{"bad": true},
		fail:   map[string]bool{"down": true},
	}
	job := newJob(rec, worker.BatchConfig{Concurrency: 3})

	result := job.Run(context.Background(), inputs("a", "bad", "b", "down", "c"))

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Scored)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Retryable())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, rec.stored)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "bad", result.Errors[0].UserID)
	assert.Equal(t, 3, result.Errors[1].Index)
	assert.Contains(t, result.Errors[1].Error, "connection refused")
}

func TestScoreJob_Run_Empty(t *testing.T) {
	job := newJob(&fakeRecorder{}, worker.DefaultBatchConfig())

	result := job.Run(context.Background(), nil)

	assert.Zero(t, result.Total)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Retryable())
}

func TestScoreJob_Retryable(t *testing.T) {
	tests := []struct {
		name   string
		result worker.BatchResult
		want   bool
	}{
		{"all stored", worker.BatchResult{Total: 2, Scored: 2}, false},
		{"all rejected", worker.BatchResult{Total: 2, Rejected: 2}, false},
		{"all failed", worker.BatchResult{Total: 2, Failed: 2}, true},
		{"partial", worker.BatchResult{Total: 2, Scored: 1, Failed: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Retryable())
		})
	}
}

func TestScoreJob_SubmissionTimeout(t *testing.T) {
	rec := &fakeRecorder{delay: time.Second}
	job := newJob(rec, worker.BatchConfig{Concurrency: 2, Timeout: 10 * time.Millisecond})

	result := job.Run(context.Background(), inputs("a", "b"))

	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Retryable())
	for _, e := range result.Errors {
		assert.Contains(t, e.Error, context.DeadlineExceeded.Error())
	}
}

func TestScoreJob_Metrics(t *testing.T) {
	rec := &fakeRecorder{reject: map[string]bool{"bad": true}}
	job := newJob(rec, worker.DefaultBatchConfig())

	job.Run(context.Background(), inputs("a", "bad"))
	job.Run(context.Background(), inputs("b"))

	m := job.GetMetrics()
	assert.Equal(t, int64(2), m.TotalBatches)
	assert.Equal(t, int64(2), m.ScoredTotal)
	assert.Equal(t, int64(1), m.RejectedTotal)
	assert.Zero(t, m.FailedTotal)
	assert.False(t, m.LastBatchAt.IsZero())

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(2), snapshot["total_batches"])
	assert.Contains(t, snapshot, "last_batch_latency")
}

func TestProcessor_Process(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		rec    *fakeRecorder
		health worker.HealthChecker
		want   worker.Decision
		stored []string
	}{
		{
			name:   "score batch",
			data:   `{"job_type":"score_batch","submissions":[{"user_id":"a"},{"user_id":"b"}]}`,
			rec:    &fakeRecorder{},
			want:   worker.Ack,
			stored: []string{"a", "b"},
		},
		{
			name: "score batch with rejected submissions",
			data: `{"job_type":"score_batch","submissions":[{"user_id":"bad"}]}`,
			rec:  &fakeRecorder{reject: map[string]bool{"bad": true}},
			want: worker.Ack,
		},
		{
			name: "score batch with store down",
			data: `{"job_type":"score_batch","submissions":[{"user_id":"a"}]}`,
			rec:  &fakeRecorder{fail: map[string]bool{"a": true}},
			want: worker.Nack,
		},
		{
			name:   "health check",
			data:   `{"job_type":"health_check"}`,
			rec:    &fakeRecorder{},
			health: fakePinger{},
			want:   worker.Ack,
		},
		{
			name:   "health check failing",
			data:   `{"job_type":"health_check"}`,
			rec:    &fakeRecorder{},
			health: fakePinger{err: errors.New("unreachable")},
			want:   worker.Nack,
		},
		{
			name: "unknown job type",
			data: `{"job_type":"provider_refresh"}`,
			rec:  &fakeRecorder{},
			want: worker.Ack,
		},
		{
			name: "malformed json",
			data: `{"job_type":`,
			rec:  &fakeRecorder{},
			want: worker.Nack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := worker.NewProcessor(newJob(tt.rec, worker.DefaultBatchConfig()), tt.health, time.Minute, zerolog.Nop())

			got := p.Process(context.Background(), []byte(tt.data))

			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, tt.stored, tt.rec.stored)
		})
	}
}

func TestProcessor_OversizedBatchIsDropped(t *testing.T) {
	rec := &fakeRecorder{}
	job := newJob(rec, worker.BatchConfig{MaxSubmissions: 2})
	p := worker.NewProcessor(job, nil, 0, zerolog.Nop())

	ids := []string{`{"user_id":"a"}`, `{"user_id":"b"}`, `{"user_id":"c"}`}
	data := `{"job_type":"score_batch","submissions":[` + strings.Join(ids, ",") + `]}`

	assert.Equal(t, worker.Ack, p.Process(context.Background(), []byte(data)))
	assert.Empty(t, rec.stored)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "ack", worker.Ack.String())
	assert.Equal(t, "nack", worker.Nack.String())
}
