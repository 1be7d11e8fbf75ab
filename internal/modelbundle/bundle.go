// Package modelbundle holds the fitted model artifacts used to serve predictions.
// A Bundle is built once at startup and never mutated afterwards, so it can be
// shared across goroutines without locking.
package modelbundle

import (
	"errors"
	"fmt"
	"sort"
)

// Default mood range used when the manifest does not carry the fitted range.
const (
	DefaultMoodMin = 1.65
	DefaultMoodMax = 9.005
)

// UnknownCluster is the display label for cluster ids without a name.
const UnknownCluster = "Unknown"

// Decoding errors.
var (
	// ErrUnknownClass is returned when a classifier emits a class id the
	// label decoder was not fitted with.
	ErrUnknownClass = errors.New("unknown class id")

	// ErrDimensionMismatch is returned when a vector does not have the width
	// a scaler or model was fitted with.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// Bundle is the immutable set of per-task artifacts.
type Bundle struct {
	Risk    RiskArtifacts
	Mood    MoodArtifacts
	Cluster ClusterArtifacts
}

// RiskArtifacts are the artifacts of the risk classification task.
type RiskArtifacts struct {
	Features []string
	Scaler   *Scaler
	Model    Classifier
	Labels   LabelDecoder
}

// MoodArtifacts are the artifacts of the mood regression task.
type MoodArtifacts struct {
	Features []string
	Scaler   *Scaler
	Model    Regressor
	Range    MoodRange
}

// ClusterArtifacts are the artifacts of the behavioral clustering task.
type ClusterArtifacts struct {
	Features []string
	Scaler   *Scaler
	Model    Clusterer
	Names    ClusterNames
}

// MoodRange is the observed min/max of the raw regression output over the
// training set.
type MoodRange struct {
	Min float64
	Max float64
	// Default is true when the range was not present in the artifacts and the
	// package defaults were used instead.
	Default bool
}

// DefaultMoodRange returns the fallback mood range.
func DefaultMoodRange() MoodRange {
	return MoodRange{Min: DefaultMoodMin, Max: DefaultMoodMax, Default: true}
}

// LabelDecoder maps encoded class ids back to their original labels.
// Class id i decodes to the i-th label.
type LabelDecoder struct {
	labels []string
}

// NewLabelDecoder creates a decoder over the given ordered labels.
func NewLabelDecoder(labels []string) LabelDecoder {
	cpy := make([]string, len(labels))
	copy(cpy, labels)
	return LabelDecoder{labels: cpy}
}

// Decode returns the label for an encoded class id.
func (d LabelDecoder) Decode(id int) (string, error) {
	if id < 0 || id >= len(d.labels) {
		return "", fmt.Errorf("%w: %d", ErrUnknownClass, id)
	}
	return d.labels[id], nil
}

// Labels returns a copy of the decoder's labels in class-id order.
func (d LabelDecoder) Labels() []string {
	cpy := make([]string, len(d.labels))
	copy(cpy, d.labels)
	return cpy
}

// ClusterNames maps numeric cluster ids to display names.
type ClusterNames struct {
	names map[int]string
}

// NewClusterNames creates a cluster name map.
func NewClusterNames(names map[int]string) ClusterNames {
	cpy := make(map[int]string, len(names))
	for k, v := range names {
		cpy[k] = v
	}
	return ClusterNames{names: cpy}
}

// Lookup returns the name of a cluster and whether the id is mapped.
func (c ClusterNames) Lookup(id int) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}

// Decode returns the name of a cluster, or UnknownCluster when unmapped.
func (c ClusterNames) Decode(id int) string {
	if name, ok := c.Lookup(id); ok {
		return name
	}
	return UnknownCluster
}

// IDs returns the mapped cluster ids in ascending order.
func (c ClusterNames) IDs() []int {
	ids := make([]int, 0, len(c.names))
	for id := range c.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Validate checks that every task's scaler and model agree with its feature
// list, and that the label decoder covers every classifier class.
func (b *Bundle) Validate() error {
	if err := validateTask("risk", b.Risk.Features, b.Risk.Scaler, modelWidth(b.Risk.Model)); err != nil {
		return err
	}
	if err := validateTask("mood", b.Mood.Features, b.Mood.Scaler, modelWidth(b.Mood.Model)); err != nil {
		return err
	}
	if err := validateTask("cluster", b.Cluster.Features, b.Cluster.Scaler, modelWidth(b.Cluster.Model)); err != nil {
		return err
	}

	if c, ok := b.Risk.Model.(*LogisticClassifier); ok {
		for _, class := range c.Classes {
			if _, err := b.Risk.Labels.Decode(class); err != nil {
				return fmt.Errorf("risk: label decoder: %w", err)
			}
		}
	}

	if b.Mood.Range.Max < b.Mood.Range.Min {
		return fmt.Errorf("mood: range max %v is below min %v", b.Mood.Range.Max, b.Mood.Range.Min)
	}

	return nil
}

type widther interface {
	NumFeatures() int
}

func modelWidth(m widther) int {
	if m == nil {
		return -1
	}
	return m.NumFeatures()
}

func validateTask(task string, features []string, scaler *Scaler, width int) error {
	if len(features) == 0 {
		return fmt.Errorf("%s: empty feature list", task)
	}
	if scaler == nil {
		return fmt.Errorf("%s: missing scaler", task)
	}
	if width < 0 {
		return fmt.Errorf("%s: missing model", task)
	}
	if scaler.NumFeatures() != len(features) {
		return fmt.Errorf("%s: scaler fitted on %d features, feature list has %d: %w",
			task, scaler.NumFeatures(), len(features), ErrDimensionMismatch)
	}
	if width != len(features) {
		return fmt.Errorf("%s: model fitted on %d features, feature list has %d: %w",
			task, width, len(features), ErrDimensionMismatch)
	}
	return nil
}
