package userdata

import (
	"sort"

	"github.com/screenaware/screenaware/internal/api/models"
)

// Overview summarizes data points. points must be non-empty and newest first.
func Overview(points []*DataPoint) *models.AnalyticsOverview {
	n := float64(len(points))
	out := &models.AnalyticsOverview{
		RiskLevelDistribution: make(map[string]int),
	}

	clusterCounts := make(map[string]int)
	for _, dp := range points {
		m := dp.Metrics
		out.AverageScreenTime += m.DailyScreenTimeHours
		out.AverageMood += float64(dp.Report.MoodRating)
		out.AverageSleep += m.SleepDurationHours
		out.CategoryDistribution.SocialMedia += m.SocialMediaHours
		out.CategoryDistribution.Gaming += m.GamingHours
		out.CategoryDistribution.Entertainment += m.EntertainmentHours
		out.CategoryDistribution.Work += m.WorkRelatedHours

		out.RiskLevelDistribution[dp.Report.RiskLevel]++
		clusterCounts[dp.Report.ClusterLabel]++
	}

	out.AverageScreenTime /= n
	out.AverageMood /= n
	out.AverageSleep /= n
	out.CategoryDistribution.SocialMedia /= n
	out.CategoryDistribution.Gaming /= n
	out.CategoryDistribution.Entertainment /= n
	out.CategoryDistribution.Work /= n

	out.MostCommonCluster = mode(clusterCounts)
	out.ScreenTimeTrend = screenTimeTrend(points)
	return out
}

// Detailed lists data points with weekly and monthly averages. points must be
// newest first. Periods are UTC calendar weeks and months.
func Detailed(points []*DataPoint) *models.DetailedAnalytics {
	out := &models.DetailedAnalytics{
		DailyData: make([]models.UserData, 0, len(points)),
	}
	for _, dp := range points {
		out.DailyData = append(out.DailyData, ToAPI(dp))
	}

	out.WeeklyAverages = groupAverages(points, func(dp *DataPoint) periodKey {
		year, week := dp.Timestamp.UTC().ISOWeek()
		return periodKey{year: year, week: week}
	})
	out.MonthlyAverages = groupAverages(points, func(dp *DataPoint) periodKey {
		ts := dp.Timestamp.UTC()
		return periodKey{year: ts.Year(), month: int(ts.Month())}
	})
	return out
}

// mode returns the most frequent key. Ties resolve to the lexicographically
// smallest key.
func mode(counts map[string]int) string {
	var best string
	bestCount := 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

// screenTimeTrend returns the newest TrendLength points in ascending time order.
func screenTimeTrend(points []*DataPoint) []models.ScreenTimePoint {
	n := len(points)
	if n > TrendLength {
		n = TrendLength
	}

	trend := make([]models.ScreenTimePoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		trend = append(trend, models.ScreenTimePoint{
			Timestamp:            models.Timestamp(points[i].Timestamp.UTC()),
			DailyScreenTimeHours: points[i].Metrics.DailyScreenTimeHours,
		})
	}
	return trend
}

type periodKey struct {
	year  int
	week  int
	month int
}

func (k periodKey) less(o periodKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.week != o.week {
		return k.week < o.week
	}
	return k.month < o.month
}

func groupAverages(points []*DataPoint, keyOf func(*DataPoint) periodKey) []models.PeriodAverage {
	groups := make(map[periodKey]*models.PeriodAverage)
	for _, dp := range points {
		key := keyOf(dp)
		avg, ok := groups[key]
		if !ok {
			avg = &models.PeriodAverage{Year: key.year, Week: key.week, Month: key.month}
			groups[key] = avg
		}
		avg.DailyScreenTimeHours += dp.Metrics.DailyScreenTimeHours
		avg.MoodRating += float64(dp.Report.MoodRating)
		avg.SleepDurationHours += dp.Metrics.SleepDurationHours
		avg.Count++
	}

	keys := make([]periodKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]models.PeriodAverage, 0, len(keys))
	for _, k := range keys {
		avg := *groups[k]
		n := float64(avg.Count)
		avg.DailyScreenTimeHours /= n
		avg.MoodRating /= n
		avg.SleepDurationHours /= n
		out = append(out, avg)
	}
	return out
}
