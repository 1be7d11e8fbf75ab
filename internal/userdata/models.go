// Package userdata stores scored metric submissions and summarizes them for
// the analytics endpoints.
package userdata

import (
	"errors"
	"time"

	"github.com/screenaware/screenaware/internal/prediction"
)

// Repository errors.
var (
	ErrNotFound = errors.New("no data found for user")
)

// AnalyticsWindow is how far back the analytics endpoints look.
const AnalyticsWindow = 30 * 24 * time.Hour

// TrendLength is the number of points in the screen time trend.
const TrendLength = 7

// DataPoint is one stored submission together with its prediction report.
type DataPoint struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Metrics   prediction.RawUserMetrics
	Report    prediction.Report
	CreatedAt time.Time
}
