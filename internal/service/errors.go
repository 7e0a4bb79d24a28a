package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/example/jobdesk/backend/internal/models"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned for an unknown reference.
	ErrNotFound = errors.New("request not found")
	// ErrInvalidTransition matches every *TransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDemoLoaded is returned when demo data was seeded before.
	ErrDemoLoaded = errors.New("demo data already loaded")
)

// ValidationError lists the offending input fields and why they were refused.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransitionError describes a status change the lifecycle does not allow.
type TransitionError struct {
	Reference string
	From      models.RequestStatus
	To        models.RequestStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("request %s cannot move from %s to %s", e.Reference, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// result classifies err for metrics labels.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
