package userdata

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// It is used for tests and for STORAGE_BACKEND=memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]*DataPoint
}

// NewInMemoryRepository creates a new in-memory data point repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byUser: make(map[string][]*DataPoint),
	}
}

// Create stores a copy of the data point.
func (r *InMemoryRepository) Create(_ context.Context, dp *DataPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *dp
	r.byUser[dp.UserID] = append(r.byUser[dp.UserID], &cpy)
	return nil
}

// Latest returns the user's newest data point.
func (r *InMemoryRepository) Latest(_ context.Context, userID string) (*DataPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *DataPoint
	for _, dp := range r.byUser[userID] {
		if latest == nil || dp.Timestamp.After(latest.Timestamp) {
			latest = dp
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}

	cpy := *latest
	return &cpy, nil
}

// ListSince returns the user's data points at or after since, newest first.
func (r *InMemoryRepository) ListSince(_ context.Context, userID string, since time.Time) ([]*DataPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var points []*DataPoint
	for _, dp := range r.byUser[userID] {
		if !dp.Timestamp.Before(since) {
			cpy := *dp
			points = append(points, &cpy)
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.After(points[j].Timestamp)
	})
	return points, nil
}

// Ping always succeeds.
func (r *InMemoryRepository) Ping(_ context.Context) error {
	return nil
}
