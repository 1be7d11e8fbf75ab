package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
)

// JobMessage is the payload of a worker Pub/Sub message.
type JobMessage struct {
	JobType     string                 `json:"job_type"`
	Submissions []models.UserDataInput `json:"submissions,omitempty"`
}

// HealthChecker verifies that the worker's dependencies are reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Decision tells the transport what to do with a message.
type Decision int

const (
	// Ack removes the message from the subscription.
	Ack Decision = iota
	// Nack asks for redelivery.
	Nack
)

func (d Decision) String() string {
	if d == Nack {
		return "nack"
	}
	return "ack"
}

// Processor decodes job messages and runs them.
type Processor struct {
	job     *ScoreJob
	health  HealthChecker
	timeout time.Duration
	logger  zerolog.Logger
}

// NewProcessor creates a Processor. timeout bounds one message; zero means
// no bound beyond the caller's context.
func NewProcessor(job *ScoreJob, health HealthChecker, timeout time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{job: job, health: health, timeout: timeout, logger: logger}
}

// Process handles one message payload. Malformed JSON is nacked; unknown job
// types are acked and dropped.
func (p *Processor) Process(ctx context.Context, data []byte) Decision {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		p.logger.Error().Err(err).Msg("failed to parse message")
		return Nack
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var err error
	switch msg.JobType {
	case JobScoreBatch:
		err = p.handleScoreBatch(ctx, msg)
	case JobHealthCheck:
		err = p.handleHealthCheck(ctx)
	default:
		p.logger.Warn().Str("job_type", msg.JobType).Msg("unknown job type")
		return Ack
	}

	if err != nil {
		p.logger.Error().Err(err).Str("job_type", msg.JobType).Msg("job failed")
		return Nack
	}
	return Ack
}

func (p *Processor) handleScoreBatch(ctx context.Context, msg JobMessage) error {
	if n := len(msg.Submissions); n > p.job.config.MaxSubmissions {
		p.logger.Error().
			Int("submissions", n).
			Int("max_submissions", p.job.config.MaxSubmissions).
			Msg("batch too large, dropping")
		return nil
	}

	result := p.job.Run(ctx, msg.Submissions)
	for _, e := range result.Errors {
		p.logger.Warn().
			Int("index", e.Index).
			Str("user_id", e.UserID).
			Str("error", e.Error).
			Msg("submission failed")
	}

	if result.Retryable() {
		return fmt.Errorf("no submissions stored: %d/%d failed", result.Failed, result.Total)
	}
	return nil
}

func (p *Processor) handleHealthCheck(ctx context.Context) error {
	p.logger.Debug().Msg("running health check")
	if p.health == nil {
		return nil
	}
	if err := p.health.Ping(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	p.logger.Debug().Msg("health check passed")
	return nil
}

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	processor        *Processor
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Processor        *Processor
	// MaxOutstanding bounds the messages handled concurrently.
	MaxOutstanding int
	Logger         zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	maxOutstanding := cfg.MaxOutstanding
	if maxOutstanding < 1 {
		maxOutstanding = 10
	}
	subscriber.ReceiveSettings.MaxOutstandingMessages = maxOutstanding
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		processor:        cfg.Processor,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages. It blocks until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	decision := h.processor.Process(ctx, msg.Data)

	logger.Info().
		Stringer("decision", decision).
		Dur("duration", time.Since(startTime)).
		Msg("message handled")

	if decision == Nack {
		msg.Nack()
		return
	}
	msg.Ack()
}
