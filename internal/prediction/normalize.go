package prediction

import (
	"math"
)

// Mood scale bounds.
const (
	MoodScaleMin      = 1
	MoodScaleMax      = 5
	MoodScaleMidpoint = 3
)

// MapMoodToScale rescales a raw mood score from the fitted range [lo, hi] onto
// the integer scale 1..5. The score is rescaled linearly, clipped to [1, 5]
// and then rounded half to even, so out-of-range scores saturate instead of
// extrapolating. A degenerate range (lo == hi) or a NaN score yields 3.
func MapMoodToScale(raw, lo, hi float64) int {
	if hi == lo || math.IsNaN(raw) {
		return MoodScaleMidpoint
	}
	scaled := 1 + (raw-lo)*4/(hi-lo)
	scaled = math.Max(MoodScaleMin, math.Min(MoodScaleMax, scaled))
	return int(math.RoundToEven(scaled))
}

// categoryOrder is the scan order for the dominant category. On equal hours
// the earlier entry wins.
var categoryOrder = []struct {
	name  string
	hours func(RawUserMetrics) float64
}{
	{CategorySocialMedia, func(r RawUserMetrics) float64 { return r.SocialMediaHours }},
	{CategoryGaming, func(r RawUserMetrics) float64 { return r.GamingHours }},
	{CategoryEntertainment, func(r RawUserMetrics) float64 { return r.EntertainmentHours }},
	{CategoryWork, func(r RawUserMetrics) float64 { return r.WorkRelatedHours }},
}

// DominantCategory returns the display name of the usage category with the
// most hours.
func DominantCategory(raw RawUserMetrics) string {
	best := categoryOrder[0].name
	bestHours := categoryOrder[0].hours(raw)
	for _, c := range categoryOrder[1:] {
		if h := c.hours(raw); h > bestHours {
			best, bestHours = c.name, h
		}
	}
	return best
}
