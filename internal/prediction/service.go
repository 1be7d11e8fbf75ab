package prediction

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/screenaware/screenaware/internal/modelbundle"
)

// Service computes prediction reports from a read-only model bundle. It holds
// no per-request state and is safe for concurrent use.
type Service struct {
	bundle      *modelbundle.Bundle
	tracer      trace.Tracer
	instruments *instruments
}

// NewService creates a prediction service. It fails if any task's feature
// list names a feature the service cannot produce.
func NewService(bundle *modelbundle.Bundle) (*Service, error) {
	if bundle == nil {
		return nil, errors.New("prediction: nil model bundle")
	}

	var zero RawUserMetrics
	for task, names := range map[Task][]string{
		TaskRisk:    bundle.Risk.Features,
		TaskMood:    bundle.Mood.Features,
		TaskCluster: bundle.Cluster.Features,
	} {
		if _, err := FeatureVector(task, zero, names); err != nil {
			return nil, err
		}
	}

	inst, err := newInstruments()
	if err != nil {
		return nil, fmt.Errorf("prediction: create instruments: %w", err)
	}

	return &Service{
		bundle:      bundle,
		tracer:      otel.Tracer(instrumentationName),
		instruments: inst,
	}, nil
}

// Bundle returns the model bundle the service serves from.
func (s *Service) Bundle() *modelbundle.Bundle {
	return s.bundle
}

// ComputeReport runs the three tasks against the same input and adds the
// dominant usage category.
func (s *Service) ComputeReport(ctx context.Context, raw RawUserMetrics) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "prediction.report")
	defer span.End()

	risk, err := s.ComputeRisk(ctx, raw)
	if err != nil {
		return nil, endSpan(span, err)
	}
	mood, err := s.ComputeMood(ctx, raw)
	if err != nil {
		return nil, endSpan(span, err)
	}
	cluster, err := s.ComputeCluster(ctx, raw)
	if err != nil {
		return nil, endSpan(span, err)
	}

	report := &Report{
		RiskLevel:        risk,
		MoodRating:       mood,
		ClusterLabel:     cluster,
		DominantCategory: DominantCategory(raw),
	}
	span.SetAttributes(attribute.String("prediction.dominant_category", report.DominantCategory))
	return report, nil
}

// ComputeRisk predicts and decodes the risk level.
func (s *Service) ComputeRisk(ctx context.Context, raw RawUserMetrics) (label string, err error) {
	ctx, span := s.tracer.Start(ctx, "prediction.risk")
	defer func() {
		s.instruments.recordTask(ctx, TaskRisk, err)
		_ = endSpan(span, err)
	}()

	a := s.bundle.Risk
	x, err := s.prepare(TaskRisk, raw, a.Features, a.Scaler)
	if err != nil {
		return "", err
	}

	class, err := a.Model.Predict(x)
	if err != nil {
		return "", modelError(TaskRisk, err)
	}

	label, err = a.Labels.Decode(class)
	if err != nil {
		return "", &ConfigurationError{Task: TaskRisk, Err: err}
	}

	span.SetAttributes(attribute.Int("prediction.risk.class", class))
	return label, nil
}

// ComputeMood predicts the mood score and maps it onto the 1-5 scale.
func (s *Service) ComputeMood(ctx context.Context, raw RawUserMetrics) (rating int, err error) {
	ctx, span := s.tracer.Start(ctx, "prediction.mood")
	defer func() {
		s.instruments.recordTask(ctx, TaskMood, err)
		_ = endSpan(span, err)
	}()

	a := s.bundle.Mood
	x, err := s.prepare(TaskMood, raw, a.Features, a.Scaler)
	if err != nil {
		return 0, err
	}

	score, err := a.Model.Predict(x)
	if err != nil {
		return 0, modelError(TaskMood, err)
	}

	rating = MapMoodToScale(score, a.Range.Min, a.Range.Max)
	s.instruments.moodRating.Record(ctx, int64(rating))
	span.SetAttributes(
		attribute.Float64("prediction.mood.score", score),
		attribute.Int("prediction.mood.rating", rating),
	)
	return rating, nil
}

// ComputeCluster assigns the behavioral cluster and decodes its name.
// Unmapped cluster ids decode to modelbundle.UnknownCluster.
func (s *Service) ComputeCluster(ctx context.Context, raw RawUserMetrics) (name string, err error) {
	ctx, span := s.tracer.Start(ctx, "prediction.cluster")
	defer func() {
		s.instruments.recordTask(ctx, TaskCluster, err)
		_ = endSpan(span, err)
	}()

	a := s.bundle.Cluster
	x, err := s.prepare(TaskCluster, raw, a.Features, a.Scaler)
	if err != nil {
		return "", err
	}

	id, err := a.Model.Assign(x)
	if err != nil {
		return "", modelError(TaskCluster, err)
	}

	if _, ok := a.Names.Lookup(id); !ok {
		s.instruments.clusterMiss.Add(ctx, 1)
	}

	span.SetAttributes(attribute.Int("prediction.cluster.id", id))
	return a.Names.Decode(id), nil
}

// prepare builds the task's ordered feature vector and scales it.
func (s *Service) prepare(task Task, raw RawUserMetrics, names []string, scaler *modelbundle.Scaler) ([]float64, error) {
	x, err := FeatureVector(task, raw, names)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.Transform(x)
	if err != nil {
		return nil, &FeatureMismatchError{Task: task, Err: err}
	}
	return scaled, nil
}

func modelError(task Task, err error) error {
	if errors.Is(err, modelbundle.ErrDimensionMismatch) {
		return &FeatureMismatchError{Task: task, Err: err}
	}
	return &ConfigurationError{Task: task, Err: err}
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
