package labels

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrDuplicateLabel     = errors.New("duplicate label name")
	ErrInvalidColor       = errors.New("invalid label color")
	ErrInvalidRepository  = errors.New("invalid repository format")
	ErrUnsupportedFormat  = errors.New("unsupported configuration format")
)

// Process exit codes.
const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitConfigError    = 2
	ExitAuthError      = 3
	ExitNotFound       = 4
	ExitPartialSuccess = 5
	ExitRateLimited    = 6
)

// ValidationError describes one invalid field of a label configuration.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one configuration.
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ConfigNotFoundError is returned when no configuration file exists at any
// of the searched locations.
type ConfigNotFoundError struct {
	Searched []string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no label configuration found, searched: %s", strings.Join(e.Searched, ", "))
}

// IsConfigError reports whether err stems from an invalid or missing label
// configuration.
func IsConfigError(err error) bool {
	var validation ValidationErrors
	var notFound *ConfigNotFoundError
	var single *ValidationError
	return errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &single) ||
		errors.Is(err, ErrDuplicateLabel) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrInvalidRepository) ||
		errors.Is(err, ErrUnsupportedFormat)
}
