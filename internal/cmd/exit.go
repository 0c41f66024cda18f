package cmd

import (
	"errors"
	"fmt"

	"gh-labeler/internal/auth"
	"gh-labeler/internal/source"
	"gh-labeler/pkg/github"
	"gh-labeler/pkg/labels"
)

// configError marks bad flags, a bad config file or missing required input
type configError struct {
	err error
}

func (e *configError) Error() string {
	return e.err.Error()
}

func (e *configError) Unwrap() error {
	return e.err
}

func newConfigError(format string, args ...interface{}) error {
	return &configError{err: fmt.Errorf(format, args...)}
}

// exitCodeError carries the exit code of a result that was already rendered
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return labels.ExitSuccess
	}

	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		if authErr.Type == auth.ErrorTypeRateLimited {
			return labels.ExitRateLimited
		}
		return labels.ExitAuthError
	}

	switch {
	case github.IsErrorType(err, github.ErrorTypeAuth), github.IsErrorType(err, github.ErrorTypePermission):
		return labels.ExitAuthError
	case github.IsErrorType(err, github.ErrorTypeRateLimit):
		return labels.ExitRateLimited
	case errors.Is(err, labels.ErrRepositoryNotFound):
		return labels.ExitNotFound
	}

	var cfgErr *configError
	var srcErr *source.Error
	if errors.As(err, &cfgErr) || errors.As(err, &srcErr) || labels.IsConfigError(err) {
		return labels.ExitConfigError
	}

	if github.IsErrorType(err, github.ErrorTypeNotFound) {
		return labels.ExitNotFound
	}

	return labels.ExitError
}
