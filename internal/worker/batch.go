package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/prediction"
)

// Recorder scores and stores one submission.
type Recorder interface {
	Record(ctx context.Context, in *models.UserDataInput) (*models.UserData, error)
}

// ScoreJob scores batches of submissions with a bounded pool of goroutines.
type ScoreJob struct {
	config   BatchConfig
	logger   zerolog.Logger
	recorder Recorder

	mu      sync.RWMutex
	metrics BatchMetrics
}

// BatchMetrics tracks scoring statistics across batches.
type BatchMetrics struct {
	TotalBatches     int64
	ScoredTotal      int64
	RejectedTotal    int64
	FailedTotal      int64
	LastBatchAt      time.Time
	LastBatchLatency time.Duration
	TotalDuration    time.Duration
}

// ScoreJobConfig holds configuration for creating a ScoreJob.
type ScoreJobConfig struct {
	Config   BatchConfig
	Logger   zerolog.Logger
	Recorder Recorder
}

// NewScoreJob creates a new batch scoring job.
func NewScoreJob(cfg ScoreJobConfig) *ScoreJob {
	return &ScoreJob{
		config:   cfg.Config.withDefaults(),
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}
}

// BatchResult contains the outcome of one batch.
type BatchResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Total     int
	Scored    int
	// Rejected counts submissions that failed validation. Redelivery
	// cannot fix them.
	Rejected int
	// Failed counts submissions that failed for any other reason.
	Failed int
	Errors []SubmissionError
}

// Retryable reports whether redelivering the batch could help: nothing was
// stored and at least one submission failed for a reason other than
// validation.
func (r *BatchResult) Retryable() bool {
	return r.Scored == 0 && r.Failed > 0
}

// SubmissionError describes a failed submission.
type SubmissionError struct {
	Index  int
	UserID string
	Error  string
}

type submission struct {
	index int
	input models.UserDataInput
}

type submissionResult struct {
	index  int
	userID string
	err    error
}

// Run scores every submission. Results are independent: one failure does not
// stop the rest of the batch.
func (j *ScoreJob) Run(ctx context.Context, inputs []models.UserDataInput) *BatchResult {
	startTime := time.Now()
	result := &BatchResult{
		StartTime: startTime,
		Total:     len(inputs),
	}

	j.logger.Info().
		Int("submissions", result.Total).
		Int("concurrency", j.config.Concurrency).
		Msg("starting batch scoring")

	work := make(chan submission, len(inputs))
	results := make(chan submissionResult, len(inputs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.scoreWorker(ctx, work, results)
		}()
	}

	for i, in := range inputs {
		work <- submission{index: i, input: in}
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := 0
	for sr := range results {
		seen++
		var valErr *prediction.ValidationError
		switch {
		case sr.err == nil:
			result.Scored++
			continue
		case errors.As(sr.err, &valErr):
			result.Rejected++
		default:
			result.Failed++
		}
		result.Errors = append(result.Errors, SubmissionError{
			Index:  sr.index,
			UserID: sr.userID,
			Error:  sr.err.Error(),
		})
	}

	// Submissions skipped after cancellation count as failed.
	result.Failed += result.Total - seen

	sort.Slice(result.Errors, func(a, b int) bool {
		return result.Errors[a].Index < result.Errors[b].Index
	})

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("scored", result.Scored).
		Int("rejected", result.Rejected).
		Int("failed", result.Failed).
		Msg("batch scoring completed")

	return result
}

func (j *ScoreJob) scoreWorker(ctx context.Context, work <-chan submission, results chan<- submissionResult) {
	for s := range work {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.score(ctx, s)
		}
	}
}

func (j *ScoreJob) score(ctx context.Context, s submission) submissionResult {
	subCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	in := s.input
	_, err := j.recorder.Record(subCtx, &in)
	if err != nil {
		j.logger.Debug().
			Err(err).
			Int("index", s.index).
			Str("user_id", in.UserID).
			Msg("submission not stored")
	}
	return submissionResult{index: s.index, userID: in.UserID, err: err}
}

func (j *ScoreJob) updateMetrics(result *BatchResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.metrics.TotalBatches++
	j.metrics.ScoredTotal += int64(result.Scored)
	j.metrics.RejectedTotal += int64(result.Rejected)
	j.metrics.FailedTotal += int64(result.Failed)
	j.metrics.LastBatchAt = result.EndTime
	j.metrics.LastBatchLatency = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *ScoreJob) GetMetrics() BatchMetrics {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.metrics
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *ScoreJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_batches":      m.TotalBatches,
		"scored_total":       m.ScoredTotal,
		"rejected_total":     m.RejectedTotal,
		"failed_total":       m.FailedTotal,
		"last_batch_at":      m.LastBatchAt,
		"last_batch_latency": m.LastBatchLatency.String(),
		"total_duration":     m.TotalDuration.String(),
	}
}
