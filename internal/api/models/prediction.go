package models

// MetricsInput holds the self-reported metrics of a prediction request.
// Pointers distinguish missing fields from zero values.
type MetricsInput struct {
	DailyScreenTimeHours         *float64 `json:"daily_screen_time_hours"`
	SleepDurationHours           *float64 `json:"sleep_duration_hours"`
	StressLevel                  *float64 `json:"stress_level"`
	SleepQuality                 *float64 `json:"sleep_quality"`
	PhysicalActivityHoursPerWeek *float64 `json:"physical_activity_hours_per_week"`
	SocialMediaHours             *float64 `json:"social_media_hours"`
	GamingHours                  *float64 `json:"gaming_hours"`
	EntertainmentHours           *float64 `json:"entertainment_hours"`
	WorkRelatedHours             *float64 `json:"work_related_hours"`
}

// PredictionReport is the combined prediction response.
type PredictionReport struct {
	RiskLevel        string `json:"risk_level"`
	MoodRating       int    `json:"mood_rating"`
	ClusterLabel     string `json:"cluster_label"`
	DominantCategory string `json:"dominant_category"`
}

// RiskPrediction is the risk-only response.
type RiskPrediction struct {
	RiskLevel string `json:"risk_level"`
}

// MoodPrediction is the mood-only response.
type MoodPrediction struct {
	MoodRating int `json:"mood_rating"`
}

// ClusterPrediction is the cluster-only response.
type ClusterPrediction struct {
	ClusterLabel string `json:"cluster_label"`
}
