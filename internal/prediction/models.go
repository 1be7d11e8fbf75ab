// Package prediction turns self-reported lifestyle metrics into a prediction
// report: risk level, mood rating, behavioral cluster and dominant usage
// category.
package prediction

// Task identifies one of the three predictive tasks.
type Task string

const (
	TaskRisk    Task = "risk"
	TaskMood    Task = "mood"
	TaskCluster Task = "cluster"
)

// RawUserMetrics is one self-reported observation: hours and scores over a
// fixed observation period. Sub-category hours are not checked against the
// total screen time.
type RawUserMetrics struct {
	DailyScreenTimeHours         float64
	SleepDurationHours           float64
	StressLevel                  float64
	SleepQuality                 float64
	PhysicalActivityHoursPerWeek float64
	SocialMediaHours             float64
	GamingHours                  float64
	EntertainmentHours           float64
	WorkRelatedHours             float64
}

// Report is the combined output of the three tasks.
type Report struct {
	RiskLevel        string
	MoodRating       int
	ClusterLabel     string
	DominantCategory string
}

// Raw feature names, as used in artifact feature lists.
const (
	FeatureDailyScreenTime    = "daily_screen_time_hours"
	FeatureSleepDuration      = "sleep_duration_hours"
	FeatureStressLevel        = "stress_level"
	FeatureSleepQuality       = "sleep_quality"
	FeaturePhysicalActivity   = "physical_activity_hours_per_week"
	FeatureSocialMediaHours   = "social_media_hours"
	FeatureGamingHours        = "gaming_hours"
	FeatureEntertainmentHours = "entertainment_hours"
	FeatureWorkRelatedHours   = "work_related_hours"
)

// Derived feature names, available to the mood task only.
const (
	FeatureScreenSleepRatio = "screen_sleep_ratio"
	FeatureStressXSleep     = "stress_x_sleep"
	FeatureActivityBalance  = "activity_balance"
)

// Usage category display names.
const (
	CategorySocialMedia   = "Social Media"
	CategoryGaming        = "Gaming"
	CategoryEntertainment = "Entertainment"
	CategoryWork          = "Work Related"
)
