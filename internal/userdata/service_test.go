package userdata_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/userdata"
)

var fixedNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

// fakePredictor rates mood from stress and labels risk by screen time.
type fakePredictor struct {
	err error
}

func (f fakePredictor) ComputeReport(_ context.Context, raw prediction.RawUserMetrics) (*prediction.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	risk := "Low"
	if raw.DailyScreenTimeHours > 6 {
		risk = "High"
	}
	return &prediction.Report{
		RiskLevel:        risk,
		MoodRating:       int(raw.StressLevel),
		ClusterLabel:     "Balanced Lifestyle",
		DominantCategory: prediction.DominantCategory(raw),
	}, nil
}

func ptr(v float64) *float64 { return &v }

func input(userID string, screen, stress float64, ts *time.Time) *models.UserDataInput {
	in := &models.UserDataInput{
		UserID: userID,
		MetricsInput: models.MetricsInput{
			DailyScreenTimeHours:         ptr(screen),
			SleepDurationHours:           ptr(7),
			StressLevel:                  ptr(stress),
			SleepQuality:                 ptr(6),
			PhysicalActivityHoursPerWeek: ptr(3),
			SocialMediaHours:             ptr(1),
			GamingHours:                  ptr(2),
			EntertainmentHours:           ptr(0.5),
			WorkRelatedHours:             ptr(1),
		},
	}
	if ts != nil {
		t := models.Timestamp(*ts)
		in.Timestamp = &t
	}
	return in
}

func newService(t *testing.T, p userdata.Predictor) (*userdata.Service, *userdata.InMemoryRepository) {
	t.Helper()
	repo := userdata.NewInMemoryRepository()
	svc := userdata.NewService(repo, p, zerolog.Nop())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, repo
}

func TestService_Record(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	got, err := svc.Record(ctx, input("user-1", 8, 4, nil))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.ID, "ud_"))
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, fixedNow.Equal(got.Timestamp.Time()))
	assert.Equal(t, 8.0, got.DailyScreenTimeHours)
	assert.Equal(t, "High", got.RiskLevel)
	assert.Equal(t, 4, got.MoodRating)
	assert.Equal(t, prediction.CategoryGaming, got.DominantCategory)

	latest, err := svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, got.ID, latest.ID)
}

func TestService_Record_Validation(t *testing.T) {
	svc, repo := newService(t, fakePredictor{})
	in := input("  ", 8, 4, nil)
	in.SleepQuality = nil

	_, err := svc.Record(context.Background(), in)
	require.Error(t, err)

	var valErr *prediction.ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.Errors, 2)
	assert.Equal(t, "user_id", valErr.Errors[0].Field)
	assert.Equal(t, "sleep_quality", valErr.Errors[1].Field)

	_, err = repo.Latest(context.Background(), "  ")
	assert.ErrorIs(t, err, userdata.ErrNotFound)
}

func TestService_Record_PredictionFailure(t *testing.T) {
	failure := &prediction.ConfigurationError{Task: prediction.TaskRisk, Err: errors.New("bad decoder")}
	svc, repo := newService(t, fakePredictor{err: failure})

	_, err := svc.Record(context.Background(), input("user-1", 8, 4, nil))

	require.Error(t, err)
	assert.True(t, prediction.IsInternal(err))
	_, err = repo.Latest(context.Background(), "user-1")
	assert.ErrorIs(t, err, userdata.ErrNotFound)
}

func TestService_Latest_NotFound(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})

	_, err := svc.Latest(context.Background(), "nobody")

	assert.ErrorIs(t, err, userdata.ErrNotFound)
}

func TestService_Latest_ByTimestamp(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	newer := fixedNow.Add(-time.Hour)
	older := fixedNow.Add(-48 * time.Hour)
	_, err := svc.Record(ctx, input("user-1", 5, 3, &newer))
	require.NoError(t, err)
	_, err = svc.Record(ctx, input("user-1", 9, 2, &older))
	require.NoError(t, err)

	latest, err := svc.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, latest.DailyScreenTimeHours)
}

func TestService_UserIDTrimmedOnRead(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	ts := fixedNow.Add(-time.Hour)
	_, err := svc.Record(ctx, input(" alice ", 5, 3, &ts))
	require.NoError(t, err)

	for _, id := range []string{"alice", " alice ", "\talice\n"} {
		latest, err := svc.Latest(ctx, id)
		require.NoError(t, err, "latest %q", id)
		assert.Equal(t, "alice", latest.UserID)

		_, err = svc.Overview(ctx, id)
		require.NoError(t, err, "overview %q", id)

		detailed, err := svc.Detailed(ctx, id)
		require.NoError(t, err, "detailed %q", id)
		assert.Len(t, detailed.DailyData, 1)
	}
}

func TestService_Overview(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	// Outside the window, must be ignored.
	stale := fixedNow.Add(-31 * 24 * time.Hour)
	_, err := svc.Record(ctx, input("user-1", 20, 1, &stale))
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		ts := fixedNow.Add(-time.Duration(i) * 24 * time.Hour)
		_, err := svc.Record(ctx, input("user-1", float64(i), 3, &ts))
		require.NoError(t, err)
	}

	got, err := svc.Overview(ctx, "user-1")
	require.NoError(t, err)

	assert.InDelta(t, 4.0, got.AverageScreenTime, 1e-9)
	assert.InDelta(t, 3.0, got.AverageMood, 1e-9)
	assert.InDelta(t, 7.0, got.AverageSleep, 1e-9)
	assert.Equal(t, map[string]int{"Low": 7, "High": 2}, got.RiskLevelDistribution)
	assert.Equal(t, "Balanced Lifestyle", got.MostCommonCluster)
	assert.InDelta(t, 2.0, got.CategoryDistribution.Gaming, 1e-9)

	require.Len(t, got.ScreenTimeTrend, userdata.TrendLength)
	assert.Equal(t, 6.0, got.ScreenTimeTrend[0].DailyScreenTimeHours)
	assert.Equal(t, 0.0, got.ScreenTimeTrend[6].DailyScreenTimeHours)
	assert.True(t, got.ScreenTimeTrend[0].Timestamp.Time().Before(got.ScreenTimeTrend[6].Timestamp.Time()))
}

func TestService_Overview_NotFound(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	stale := fixedNow.Add(-40 * 24 * time.Hour)
	_, err := svc.Record(ctx, input("user-1", 4, 3, &stale))
	require.NoError(t, err)

	_, err = svc.Overview(ctx, "user-1")
	assert.ErrorIs(t, err, userdata.ErrNotFound)

	_, err = svc.Detailed(ctx, "user-1")
	assert.ErrorIs(t, err, userdata.ErrNotFound)
}

func TestService_Detailed(t *testing.T) {
	svc, _ := newService(t, fakePredictor{})
	ctx := context.Background()

	// 2026-02-27 is ISO week 9 in February; 2026-03-02 and 2026-03-03 are
	// ISO week 10 in March.
	days := []struct {
		ts     time.Time
		screen float64
		stress float64
	}{
		{time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), 2, 2},
		{time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 4, 4},
		{time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), 6, 5},
	}
	for _, d := range days {
		ts := d.ts
		_, err := svc.Record(ctx, input("user-1", d.screen, d.stress, &ts))
		require.NoError(t, err)
	}

	got, err := svc.Detailed(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, got.DailyData, 3)
	assert.Equal(t, 6.0, got.DailyData[0].DailyScreenTimeHours)
	assert.Equal(t, 2.0, got.DailyData[2].DailyScreenTimeHours)

	require.Len(t, got.WeeklyAverages, 2)
	assert.Equal(t, models.PeriodAverage{Year: 2026, Week: 9, DailyScreenTimeHours: 2, MoodRating: 2, SleepDurationHours: 7, Count: 1}, got.WeeklyAverages[0])
	assert.Equal(t, models.PeriodAverage{Year: 2026, Week: 10, DailyScreenTimeHours: 5, MoodRating: 4.5, SleepDurationHours: 7, Count: 2}, got.WeeklyAverages[1])

	require.Len(t, got.MonthlyAverages, 2)
	assert.Equal(t, 2, got.MonthlyAverages[0].Month)
	assert.Equal(t, 3, got.MonthlyAverages[1].Month)
	assert.Equal(t, 5.0, got.MonthlyAverages[1].DailyScreenTimeHours)
}
