// Package worker provides background scoring of batched submissions for
// ScreenAware.
package worker

import (
	"time"
)

// Job types understood by the worker.
const (
	JobScoreBatch  = "score_batch"
	JobHealthCheck = "health_check"
)

// BatchConfig holds configuration for the batch scoring job.
type BatchConfig struct {
	// Concurrency is the number of submissions scored in parallel.
	// Default: 4
	Concurrency int

	// Timeout bounds each submission.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxSubmissions caps the size of one batch. Larger batches are rejected.
	// Default: 500
	MaxSubmissions int
}

// DefaultBatchConfig returns the default batch configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Concurrency:    4,
		Timeout:        10 * time.Second,
		MaxSubmissions: 500,
	}
}

func (c BatchConfig) withDefaults() BatchConfig {
	d := DefaultBatchConfig()
	if c.Concurrency < 1 {
		c.Concurrency = d.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxSubmissions < 1 {
		c.MaxSubmissions = d.MaxSubmissions
	}
	return c
}
