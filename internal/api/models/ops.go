package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Readiness reports whether the service can take traffic.
type Readiness struct {
	Status     HealthStatus      `json:"status"`
	Time       Timestamp         `json:"time"`
	Subsystems []SubsystemStatus `json:"subsystems"`
}

// SubsystemStatus represents the status of a dependency.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail *string      `json:"detail,omitempty"`
}

// Banner is the root endpoint response.
type Banner struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ModelInfo describes the loaded model bundle.
type ModelInfo struct {
	Source          string            `json:"source"`
	RiskFeatures    []string          `json:"risk_features"`
	MoodFeatures    []string          `json:"mood_features"`
	ClusterFeatures []string          `json:"cluster_features"`
	RiskClasses     []string          `json:"risk_classes"`
	ClusterNames    map[string]string `json:"cluster_names"`
	MoodRange       MoodRange         `json:"mood_range"`
}

// MoodRange is the fitted raw mood score range.
type MoodRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default bool    `json:"default"`
}
