package userdata

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL data point repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `
	id, user_id, recorded_at,
	daily_screen_time_hours, sleep_duration_hours, stress_level, sleep_quality,
	physical_activity_hours_per_week, social_media_hours, gaming_hours,
	entertainment_hours, work_related_hours,
	risk_level, mood_rating, cluster_label, dominant_category,
	created_at
`

// Create stores a new data point.
func (r *PostgresRepository) Create(ctx context.Context, dp *DataPoint) error {
	query := `
		INSERT INTO user_data (
			id, user_id, recorded_at,
			daily_screen_time_hours, sleep_duration_hours, stress_level, sleep_quality,
			physical_activity_hours_per_week, social_media_hours, gaming_hours,
			entertainment_hours, work_related_hours,
			risk_level, mood_rating, cluster_label, dominant_category,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	m := dp.Metrics
	_, err := r.pool.Exec(ctx, query,
		dp.ID, dp.UserID, dp.Timestamp,
		m.DailyScreenTimeHours, m.SleepDurationHours, m.StressLevel, m.SleepQuality,
		m.PhysicalActivityHoursPerWeek, m.SocialMediaHours, m.GamingHours,
		m.EntertainmentHours, m.WorkRelatedHours,
		dp.Report.RiskLevel, dp.Report.MoodRating, dp.Report.ClusterLabel, dp.Report.DominantCategory,
		dp.CreatedAt,
	)
	return err
}

// Latest returns the user's data point with the newest timestamp.
func (r *PostgresRepository) Latest(ctx context.Context, userID string) (*DataPoint, error) {
	query := `SELECT ` + selectColumns + `
		FROM user_data
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	dp, err := scanDataPoint(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dp, nil
}

// ListSince returns the user's data points at or after since, newest first.
func (r *PostgresRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*DataPoint, error) {
	query := `SELECT ` + selectColumns + `
		FROM user_data
		WHERE user_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*DataPoint
	for rows.Next() {
		dp, err := scanDataPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, dp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// Ping checks the connection pool.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanDataPoint(row pgx.Row) (*DataPoint, error) {
	var dp DataPoint
	m := &dp.Metrics

	err := row.Scan(
		&dp.ID,
		&dp.UserID,
		&dp.Timestamp,
		&m.DailyScreenTimeHours,
		&m.SleepDurationHours,
		&m.StressLevel,
		&m.SleepQuality,
		&m.PhysicalActivityHoursPerWeek,
		&m.SocialMediaHours,
		&m.GamingHours,
		&m.EntertainmentHours,
		&m.WorkRelatedHours,
		&dp.Report.RiskLevel,
		&dp.Report.MoodRating,
		&dp.Report.ClusterLabel,
		&dp.Report.DominantCategory,
		&dp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	// pgx returns timestamptz in the server's local zone.
	dp.Timestamp = dp.Timestamp.UTC()
	dp.CreatedAt = dp.CreatedAt.UTC()
	return &dp, nil
}
