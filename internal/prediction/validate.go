package prediction

import (
	"math"

	"github.com/screenaware/screenaware/internal/api/models"
)

// ParseInput validates request metrics and converts them to RawUserMetrics.
// Every field is required and must be a finite, non-negative number.
func ParseInput(in *models.MetricsInput) (RawUserMetrics, error) {
	var raw RawUserMetrics
	var errs []models.FieldError

	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{FeatureDailyScreenTime, in.DailyScreenTimeHours, &raw.DailyScreenTimeHours},
		{FeatureSleepDuration, in.SleepDurationHours, &raw.SleepDurationHours},
		{FeatureStressLevel, in.StressLevel, &raw.StressLevel},
		{FeatureSleepQuality, in.SleepQuality, &raw.SleepQuality},
		{FeaturePhysicalActivity, in.PhysicalActivityHoursPerWeek, &raw.PhysicalActivityHoursPerWeek},
		{FeatureSocialMediaHours, in.SocialMediaHours, &raw.SocialMediaHours},
		{FeatureGamingHours, in.GamingHours, &raw.GamingHours},
		{FeatureEntertainmentHours, in.EntertainmentHours, &raw.EntertainmentHours},
		{FeatureWorkRelatedHours, in.WorkRelatedHours, &raw.WorkRelatedHours},
	}

	for _, f := range fields {
		switch {
		case f.src == nil:
			errs = append(errs, models.FieldError{Field: f.name, Message: "is required", Code: "required"})
		case math.IsNaN(*f.src) || math.IsInf(*f.src, 0):
			errs = append(errs, models.FieldError{Field: f.name, Message: "must be a finite number", Code: "invalid"})
		case *f.src < 0:
			errs = append(errs, models.FieldError{Field: f.name, Message: "must be non-negative", Code: "min"})
		default:
			*f.dst = *f.src
		}
	}

	if len(errs) > 0 {
		return RawUserMetrics{}, &ValidationError{Errors: errs}
	}
	return raw, nil
}

// ToAPIReport converts a Report to its API representation.
func ToAPIReport(r *Report) models.PredictionReport {
	return models.PredictionReport{
		RiskLevel:        r.RiskLevel,
		MoodRating:       r.MoodRating,
		ClusterLabel:     r.ClusterLabel,
		DominantCategory: r.DominantCategory,
	}
}
