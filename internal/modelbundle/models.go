package modelbundle

import (
	"fmt"
)

// Classifier predicts an encoded class id.
type Classifier interface {
	Predict(x []float64) (int, error)
	NumFeatures() int
}

// Regressor predicts a continuous score.
type Regressor interface {
	Predict(x []float64) (float64, error)
	NumFeatures() int
}

// Clusterer assigns an input to a cluster id.
type Clusterer interface {
	Assign(x []float64) (int, error)
	NumFeatures() int
}

// Model kinds accepted in artifact files.
const (
	KindLogisticRegression = "logistic_regression"
	KindLinearRegression   = "linear_regression"
	KindKMeans             = "kmeans"
)

// LogisticClassifier is a linear classifier. With a single coefficient row it
// behaves as a binary classifier on the sign of the decision score; otherwise
// it returns the class with the highest score.
type LogisticClassifier struct {
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
	Classes   []int       `json:"classes"`
}

// NewLogisticClassifier validates and creates a linear classifier.
func NewLogisticClassifier(coef [][]float64, intercept []float64, classes []int) (*LogisticClassifier, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("logistic regression: no coefficients")
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("logistic regression: %d coefficient rows, %d intercepts", len(coef), len(intercept))
	}
	width := len(coef[0])
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("logistic regression: row %d has %d coefficients, want %d: %w", i, len(row), width, ErrDimensionMismatch)
		}
	}
	switch {
	case len(coef) == 1 && len(classes) != 2:
		return nil, fmt.Errorf("logistic regression: binary model needs 2 classes, got %d", len(classes))
	case len(coef) > 1 && len(classes) != len(coef):
		return nil, fmt.Errorf("logistic regression: %d coefficient rows, %d classes", len(coef), len(classes))
	}

	return &LogisticClassifier{Coef: coef, Intercept: intercept, Classes: classes}, nil
}

// NumFeatures returns the model's input width.
func (c *LogisticClassifier) NumFeatures() int {
	return len(c.Coef[0])
}

// Predict returns the predicted class id.
func (c *LogisticClassifier) Predict(x []float64) (int, error) {
	if len(x) != c.NumFeatures() {
		return 0, fmt.Errorf("classifier expects %d features, got %d: %w", c.NumFeatures(), len(x), ErrDimensionMismatch)
	}

	if len(c.Coef) == 1 {
		if dot(c.Coef[0], x)+c.Intercept[0] > 0 {
			return c.Classes[1], nil
		}
		return c.Classes[0], nil
	}

	best := 0
	bestScore := dot(c.Coef[0], x) + c.Intercept[0]
	for i := 1; i < len(c.Coef); i++ {
		score := dot(c.Coef[i], x) + c.Intercept[i]
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return c.Classes[best], nil
}

// LinearRegressor is an ordinary linear model.
type LinearRegressor struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// NumFeatures returns the model's input width.
func (r *LinearRegressor) NumFeatures() int {
	return len(r.Coef)
}

// Predict returns coef·x + intercept.
func (r *LinearRegressor) Predict(x []float64) (float64, error) {
	if len(x) != len(r.Coef) {
		return 0, fmt.Errorf("regressor expects %d features, got %d: %w", len(r.Coef), len(x), ErrDimensionMismatch)
	}
	return dot(r.Coef, x) + r.Intercept, nil
}

// KMeans assigns inputs to the nearest fitted centroid.
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// NewKMeans validates and creates a k-means model.
func NewKMeans(centroids [][]float64) (*KMeans, error) {
	if len(centroids) == 0 {
		return nil, fmt.Errorf("kmeans: no centroids")
	}
	width := len(centroids[0])
	for i, c := range centroids {
		if len(c) != width {
			return nil, fmt.Errorf("kmeans: centroid %d has %d dimensions, want %d: %w", i, len(c), width, ErrDimensionMismatch)
		}
	}
	return &KMeans{Centroids: centroids}, nil
}

// NumFeatures returns the model's input width.
func (k *KMeans) NumFeatures() int {
	return len(k.Centroids[0])
}

// Assign returns the index of the nearest centroid by squared Euclidean
// distance. Equidistant centroids resolve to the lowest index.
func (k *KMeans) Assign(x []float64) (int, error) {
	if len(x) != k.NumFeatures() {
		return 0, fmt.Errorf("kmeans expects %d features, got %d: %w", k.NumFeatures(), len(x), ErrDimensionMismatch)
	}

	best := 0
	bestDist := sqDist(k.Centroids[0], x)
	for i := 1; i < len(k.Centroids); i++ {
		if d := sqDist(k.Centroids[i], x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
