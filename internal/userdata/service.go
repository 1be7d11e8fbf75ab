package userdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/prediction"
)

// MaxUserIDLength bounds the user_id field.
const MaxUserIDLength = 128

// Predictor computes prediction reports.
type Predictor interface {
	ComputeReport(ctx context.Context, raw prediction.RawUserMetrics) (*prediction.Report, error)
}

// Service records scored submissions and serves analytics over them.
type Service struct {
	repo      Repository
	predictor Predictor
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a new user data service.
func NewService(repo Repository, predictor Predictor, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		predictor: predictor,
		logger:    logger.With().Str("component", "userdata").Logger(),
		now:       time.Now,
	}
}

// SetClock replaces the service's time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Ping checks that the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Record validates a submission, computes its prediction report and stores
// the result. A missing timestamp defaults to now.
func (s *Service) Record(ctx context.Context, in *models.UserDataInput) (*models.UserData, error) {
	var fieldErrs []models.FieldError

	userID := strings.TrimSpace(in.UserID)
	switch {
	case userID == "":
		fieldErrs = append(fieldErrs, models.FieldError{Field: "user_id", Message: "is required", Code: "required"})
	case len(userID) > MaxUserIDLength:
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "user_id",
			Message: fmt.Sprintf("must be at most %d characters", MaxUserIDLength),
			Code:    "max_length",
		})
	}

	raw, err := prediction.ParseInput(&in.MetricsInput)
	if err != nil {
		var valErr *prediction.ValidationError
		if !errors.As(err, &valErr) {
			return nil, err
		}
		fieldErrs = append(fieldErrs, valErr.Errors...)
	}

	if len(fieldErrs) > 0 {
		return nil, &prediction.ValidationError{Errors: fieldErrs}
	}

	report, err := s.predictor.ComputeReport(ctx, raw)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ts := now
	if in.Timestamp != nil {
		ts = in.Timestamp.Time().UTC()
	}

	dp := &DataPoint{
		ID:        "ud_" + uuid.New().String(),
		UserID:    userID,
		Timestamp: ts,
		Metrics:   raw,
		Report:    *report,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, dp); err != nil {
		return nil, fmt.Errorf("store data point: %w", err)
	}

	s.logger.Debug().
		Str("data_point_id", dp.ID).
		Str("risk_level", report.RiskLevel).
		Int("mood_rating", report.MoodRating).
		Msg("data point recorded")

	result := ToAPI(dp)
	return &result, nil
}

// Latest returns the user's newest data point.
func (s *Service) Latest(ctx context.Context, userID string) (*models.UserData, error) {
	dp, err := s.repo.Latest(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	result := ToAPI(dp)
	return &result, nil
}

// Overview summarizes the user's data over the analytics window.
func (s *Service) Overview(ctx context.Context, userID string) (*models.AnalyticsOverview, error) {
	points, err := s.window(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Overview(points), nil
}

// Detailed lists the user's data over the analytics window with weekly and
// monthly averages.
func (s *Service) Detailed(ctx context.Context, userID string) (*models.DetailedAnalytics, error) {
	points, err := s.window(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Detailed(points), nil
}

func (s *Service) window(ctx context.Context, userID string) ([]*DataPoint, error) {
	since := s.now().Add(-AnalyticsWindow)
	points, err := s.repo.ListSince(ctx, strings.TrimSpace(userID), since)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNotFound
	}
	return points, nil
}

// ToAPI converts a data point to its API representation.
func ToAPI(dp *DataPoint) models.UserData {
	m := dp.Metrics
	return models.UserData{
		ID:                           dp.ID,
		UserID:                       dp.UserID,
		Timestamp:                    models.Timestamp(dp.Timestamp.UTC()),
		DailyScreenTimeHours:         m.DailyScreenTimeHours,
		SleepDurationHours:           m.SleepDurationHours,
		StressLevel:                  m.StressLevel,
		SleepQuality:                 m.SleepQuality,
		PhysicalActivityHoursPerWeek: m.PhysicalActivityHoursPerWeek,
		SocialMediaHours:             m.SocialMediaHours,
		GamingHours:                  m.GamingHours,
		EntertainmentHours:           m.EntertainmentHours,
		WorkRelatedHours:             m.WorkRelatedHours,
		RiskLevel:                    dp.Report.RiskLevel,
		MoodRating:                   dp.Report.MoodRating,
		ClusterLabel:                 dp.Report.ClusterLabel,
		DominantCategory:             dp.Report.DominantCategory,
	}
}
