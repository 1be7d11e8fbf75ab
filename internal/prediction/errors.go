package prediction

import (
	"errors"
	"fmt"

	"github.com/screenaware/screenaware/internal/api/models"
)

// ErrUnknownFeature is returned when a feature list names a feature that is
// neither a raw field nor a derived field of the task.
var ErrUnknownFeature = errors.New("unknown feature")

// ConfigurationError means the model bundle is internally inconsistent, for
// example an unknown feature name or an undecodable class id. It fails the
// current request and needs an operator fix.
type ConfigurationError struct {
	Task Task
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s task: configuration error: %v", e.Task, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// FeatureMismatchError means a feature vector does not have the shape the
// task's scaler or model was fitted with.
type FeatureMismatchError struct {
	Task Task
	Err  error
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("%s task: feature mismatch: %v", e.Task, e.Err)
}

func (e *FeatureMismatchError) Unwrap() error {
	return e.Err
}

// ValidationError represents caller-correctable input errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// IsInternal reports whether err is a server-side prediction failure.
func IsInternal(err error) bool {
	var cfgErr *ConfigurationError
	var mismatchErr *FeatureMismatchError
	return errors.As(err, &cfgErr) || errors.As(err, &mismatchErr)
}
