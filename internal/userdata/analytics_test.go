package userdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_TiesResolveLexicographically(t *testing.T) {
	counts := map[string]int{
		"Gaming Focused":     2,
		"Balanced Lifestyle": 2,
		"Social Media Heavy": 1,
	}

	assert.Equal(t, "Balanced Lifestyle", mode(counts))
}

func TestMode_Single(t *testing.T) {
	assert.Equal(t, "Gaming Focused", mode(map[string]int{"Gaming Focused": 1}))
}

func TestDetailed_BucketsInUTC(t *testing.T) {
	// Sunday 2026-01-04 23:30 UTC closes ISO week 1; in +02:00 it is already
	// Monday of week 2.
	utc := time.Date(2026, 1, 4, 23, 30, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("EET", 2*60*60))
	require.Equal(t, 5, local.Day())

	for name, ts := range map[string]time.Time{"utc": utc, "offset": local} {
		t.Run(name, func(t *testing.T) {
			dp := &DataPoint{ID: "1", UserID: "alice", Timestamp: ts}
			dp.Metrics.DailyScreenTimeHours = 5

			got := Detailed([]*DataPoint{dp})

			require.Len(t, got.WeeklyAverages, 1)
			assert.Equal(t, 2026, got.WeeklyAverages[0].Year)
			assert.Equal(t, 1, got.WeeklyAverages[0].Week)

			require.Len(t, got.MonthlyAverages, 1)
			assert.Equal(t, 2026, got.MonthlyAverages[0].Year)
			assert.Equal(t, 1, got.MonthlyAverages[0].Month)

			require.Len(t, got.DailyData, 1)
			assert.Equal(t, time.UTC, time.Time(got.DailyData[0].Timestamp).Location())
		})
	}
}
