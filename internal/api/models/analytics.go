package models

// AnalyticsOverview summarizes a user's last 30 days.
type AnalyticsOverview struct {
	AverageScreenTime     float64              `json:"average_screen_time"`
	AverageMood           float64              `json:"average_mood"`
	AverageSleep          float64              `json:"average_sleep"`
	RiskLevelDistribution map[string]int       `json:"risk_level_distribution"`
	MostCommonCluster     string               `json:"most_common_cluster"`
	ScreenTimeTrend       []ScreenTimePoint    `json:"screen_time_trend"`
	CategoryDistribution  CategoryDistribution `json:"category_distribution"`
}

// ScreenTimePoint is one point of the screen time trend.
type ScreenTimePoint struct {
	Timestamp            Timestamp `json:"timestamp"`
	DailyScreenTimeHours float64   `json:"daily_screen_time_hours"`
}

// CategoryDistribution holds mean hours per usage category.
type CategoryDistribution struct {
	SocialMedia   float64 `json:"social_media"`
	Gaming        float64 `json:"gaming"`
	Entertainment float64 `json:"entertainment"`
	Work          float64 `json:"work"`
}

// DetailedAnalytics lists a user's last 30 days with weekly and monthly means.
type DetailedAnalytics struct {
	DailyData       []UserData      `json:"daily_data"`
	WeeklyAverages  []PeriodAverage `json:"weekly_averages"`
	MonthlyAverages []PeriodAverage `json:"monthly_averages"`
}

// PeriodAverage holds mean values over a week or a month. Week is the ISO
// week number and is omitted for monthly averages; Month is omitted for
// weekly averages.
type PeriodAverage struct {
	Year                 int     `json:"year"`
	Week                 int     `json:"week,omitempty"`
	Month                int     `json:"month,omitempty"`
	DailyScreenTimeHours float64 `json:"daily_screen_time_hours"`
	MoodRating           float64 `json:"mood_rating"`
	SleepDurationHours   float64 `json:"sleep_duration_hours"`
	Count                int     `json:"count"`
}
