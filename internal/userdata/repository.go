package userdata

import (
	"context"
	"time"
)

// Repository defines the interface for data point persistence.
type Repository interface {
	// Create stores a new data point.
	Create(ctx context.Context, dp *DataPoint) error

	// Latest returns the user's data point with the newest timestamp.
	// Returns ErrNotFound if the user has no data.
	Latest(ctx context.Context, userID string) (*DataPoint, error)

	// ListSince returns the user's data points with a timestamp at or after
	// since, newest first.
	ListSince(ctx context.Context, userID string, since time.Time) ([]*DataPoint, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
