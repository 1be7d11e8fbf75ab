package modelbundle

import (
	"fmt"
)

// Scaler is a fitted standardization transform: (x - mean) / scale per feature.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// NewScaler creates a scaler. A zero scale is replaced by 1 so constant
// features pass through centered but unscaled.
func NewScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler: %d means, %d scales: %w", len(mean), len(scale), ErrDimensionMismatch)
	}

	s := &Scaler{
		Mean:  make([]float64, len(mean)),
		Scale: make([]float64, len(scale)),
	}
	copy(s.Mean, mean)
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.Scale[i] = v
	}
	return s, nil
}

// NumFeatures returns the number of features the scaler was fitted on.
func (s *Scaler) NumFeatures() int {
	return len(s.Mean)
}

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d: %w", len(s.Mean), len(x), ErrDimensionMismatch)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
