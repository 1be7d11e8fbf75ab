package models

// UserDataInput is a metrics submission to be scored and stored.
type UserDataInput struct {
	UserID    string     `json:"user_id"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
	MetricsInput
}

// UserData is a stored submission together with its prediction report.
type UserData struct {
	ID                           string    `json:"_id"`
	UserID                       string    `json:"user_id"`
	Timestamp                    Timestamp `json:"timestamp"`
	DailyScreenTimeHours         float64   `json:"daily_screen_time_hours"`
	SleepDurationHours           float64   `json:"sleep_duration_hours"`
	StressLevel                  float64   `json:"stress_level"`
	SleepQuality                 float64   `json:"sleep_quality"`
	PhysicalActivityHoursPerWeek float64   `json:"physical_activity_hours_per_week"`
	SocialMediaHours             float64   `json:"social_media_hours"`
	GamingHours                  float64   `json:"gaming_hours"`
	EntertainmentHours           float64   `json:"entertainment_hours"`
	WorkRelatedHours             float64   `json:"work_related_hours"`
	RiskLevel                    string    `json:"risk_level"`
	MoodRating                   int       `json:"mood_rating"`
	ClusterLabel                 string    `json:"cluster_label"`
	DominantCategory             string    `json:"dominant_category"`
}
