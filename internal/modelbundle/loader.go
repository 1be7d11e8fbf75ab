package modelbundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Artifact file names.
const (
	ManifestFile      = "artifacts.yaml"
	RiskScalerFile    = "scaler_clf.json"
	MoodScalerFile    = "scaler_reg.json"
	ClusterScalerFile = "scaler_cluster.json"
	RiskModelFile     = "risk_model.json"
	MoodModelFile     = "mood_model.json"
	ClusterModelFile  = "cluster_model.json"
)

// Source provides artifact files by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// DirSource reads artifacts from a local directory.
type DirSource struct {
	Dir string
}

// Open opens the named artifact file.
func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, name))
}

func (s DirSource) String() string {
	return s.Dir
}

// LoadError is a startup failure: the bundle could not be built and the
// process must not serve predictions.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("load model bundle: %v", e.Err)
	}
	return fmt.Sprintf("load model bundle: %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type manifest struct {
	ClfFeatures     []string       `yaml:"clf_features"`
	RegFeatures     []string       `yaml:"reg_features"`
	ClusterFeatures []string       `yaml:"cluster_features"`
	RiskClasses     []string       `yaml:"risk_classes"`
	ClusterNames    map[int]string `yaml:"cluster_names"`
	MoodMinRange    *float64       `yaml:"mood_min_range"`
	MoodMaxRange    *float64       `yaml:"mood_max_range"`
}

type modelFile struct {
	Kind      string          `json:"kind"`
	Coef      json.RawMessage `json:"coef"`
	Intercept json.RawMessage `json:"intercept"`
	Classes   []int           `json:"classes"`
	Centroids [][]float64     `json:"centroids"`
}

// Load reads every artifact from src, assembles the bundle and validates it.
// All failures are returned as *LoadError.
func Load(ctx context.Context, src Source) (*Bundle, error) {
	var m manifest
	if err := readYAML(ctx, src, ManifestFile, &m); err != nil {
		return nil, err
	}

	riskScaler, err := loadScaler(ctx, src, RiskScalerFile)
	if err != nil {
		return nil, err
	}
	moodScaler, err := loadScaler(ctx, src, MoodScalerFile)
	if err != nil {
		return nil, err
	}
	clusterScaler, err := loadScaler(ctx, src, ClusterScalerFile)
	if err != nil {
		return nil, err
	}

	var riskFile, moodFile, clusterFile modelFile
	if err := readJSON(ctx, src, RiskModelFile, &riskFile); err != nil {
		return nil, err
	}
	if err := readJSON(ctx, src, MoodModelFile, &moodFile); err != nil {
		return nil, err
	}
	if err := readJSON(ctx, src, ClusterModelFile, &clusterFile); err != nil {
		return nil, err
	}

	classifier, err := riskFile.classifier()
	if err != nil {
		return nil, &LoadError{File: RiskModelFile, Err: err}
	}
	regressor, err := moodFile.regressor()
	if err != nil {
		return nil, &LoadError{File: MoodModelFile, Err: err}
	}
	clusterer, err := clusterFile.clusterer()
	if err != nil {
		return nil, &LoadError{File: ClusterModelFile, Err: err}
	}

	bundle := &Bundle{
		Risk: RiskArtifacts{
			Features: m.ClfFeatures,
			Scaler:   riskScaler,
			Model:    classifier,
			Labels:   NewLabelDecoder(m.RiskClasses),
		},
		Mood: MoodArtifacts{
			Features: m.RegFeatures,
			Scaler:   moodScaler,
			Model:    regressor,
			Range:    m.moodRange(),
		},
		Cluster: ClusterArtifacts{
			Features: m.ClusterFeatures,
			Scaler:   clusterScaler,
			Model:    clusterer,
			Names:    NewClusterNames(m.ClusterNames),
		},
	}

	if err := bundle.Validate(); err != nil {
		return nil, &LoadError{Err: err}
	}
	return bundle, nil
}

// moodRange uses the manifest bounds only when both are present, so a lone
// bound is never paired with a default.
func (m manifest) moodRange() MoodRange {
	if m.MoodMinRange == nil || m.MoodMaxRange == nil {
		return DefaultMoodRange()
	}
	return MoodRange{Min: *m.MoodMinRange, Max: *m.MoodMaxRange}
}

func (f modelFile) classifier() (*LogisticClassifier, error) {
	if f.Kind != KindLogisticRegression {
		return nil, fmt.Errorf("unsupported classifier kind %q", f.Kind)
	}
	var coef [][]float64
	if err := json.Unmarshal(f.Coef, &coef); err != nil {
		return nil, fmt.Errorf("decode coef: %w", err)
	}
	var intercept []float64
	if err := json.Unmarshal(f.Intercept, &intercept); err != nil {
		return nil, fmt.Errorf("decode intercept: %w", err)
	}
	return NewLogisticClassifier(coef, intercept, f.Classes)
}

func (f modelFile) regressor() (*LinearRegressor, error) {
	if f.Kind != KindLinearRegression {
		return nil, fmt.Errorf("unsupported regressor kind %q", f.Kind)
	}
	var coef []float64
	if err := json.Unmarshal(f.Coef, &coef); err != nil {
		return nil, fmt.Errorf("decode coef: %w", err)
	}
	if len(coef) == 0 {
		return nil, fmt.Errorf("linear regression: no coefficients")
	}
	var intercept float64
	if err := json.Unmarshal(f.Intercept, &intercept); err != nil {
		return nil, fmt.Errorf("decode intercept: %w", err)
	}
	return &LinearRegressor{Coef: coef, Intercept: intercept}, nil
}

func (f modelFile) clusterer() (*KMeans, error) {
	if f.Kind != KindKMeans {
		return nil, fmt.Errorf("unsupported clustering kind %q", f.Kind)
	}
	return NewKMeans(f.Centroids)
}

func loadScaler(ctx context.Context, src Source, name string) (*Scaler, error) {
	var raw Scaler
	if err := readJSON(ctx, src, name, &raw); err != nil {
		return nil, err
	}
	s, err := NewScaler(raw.Mean, raw.Scale)
	if err != nil {
		return nil, &LoadError{File: name, Err: err}
	}
	return s, nil
}

func readJSON(ctx context.Context, src Source, name string, v any) error {
	data, err := readAll(ctx, src, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{File: name, Err: err}
	}
	return nil
}

func readYAML(ctx context.Context, src Source, name string, v any) error {
	data, err := readAll(ctx, src, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return &LoadError{File: name, Err: err}
	}
	return nil
}

func readAll(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &LoadError{File: name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &LoadError{File: name, Err: err}
	}
	return data, nil
}
