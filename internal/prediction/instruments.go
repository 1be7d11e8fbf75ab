package prediction

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/screenaware/screenaware/internal/prediction"

// instruments holds the OpenTelemetry instruments for prediction tasks.
type instruments struct {
	taskTotal   metric.Int64Counter
	moodRating  metric.Int64Histogram
	clusterMiss metric.Int64Counter
}

func newInstruments() (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	taskTotal, err := meter.Int64Counter(
		"prediction.task.total",
		metric.WithDescription("Number of prediction task executions"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, err
	}

	moodRating, err := meter.Int64Histogram(
		"prediction.mood.rating",
		metric.WithDescription("Distribution of mood ratings on the 1-5 scale"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5),
	)
	if err != nil {
		return nil, err
	}

	clusterMiss, err := meter.Int64Counter(
		"prediction.cluster.unmapped",
		metric.WithDescription("Cluster assignments without a display name"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, err
	}

	return &instruments{
		taskTotal:   taskTotal,
		moodRating:  moodRating,
		clusterMiss: clusterMiss,
	}, nil
}

func (m *instruments) recordTask(ctx context.Context, task Task, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsInternal(err):
		outcome = "internal_error"
	default:
		outcome = "error"
	}
	m.taskTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prediction.task", string(task)),
		attribute.String("prediction.outcome", outcome),
	))
}
