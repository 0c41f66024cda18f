package auth

import (
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/aws/smithy-go"

	"gh-labeler/pkg/github"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name              string
		inputError        error
		expectedType      ErrorType
		expectedRetryable bool
	}{
		{
			name:              "nil error",
			inputError:        nil,
			expectedType:      "",
			expectedRetryable: false,
		},
		{
			name:              "network timeout error",
			inputError:        &net.OpError{Op: "dial", Net: "tcp", Err: &timeoutError{}},
			expectedType:      ErrorTypeNetworkTimeout,
			expectedRetryable: true,
		},
		{
			name:              "DNS resolution error",
			inputError:        &net.DNSError{Name: "api.github.com", IsNotFound: true},
			expectedType:      ErrorTypeDNSResolution,
			expectedRetryable: false,
		},
		{
			name:              "connection refused error",
			inputError:        fmt.Errorf("dial tcp: connection refused"),
			expectedType:      ErrorTypeNetworkConnectivity,
			expectedRetryable: true,
		},
		{
			name:              "GitHub bad credentials",
			inputError:        github.NewGitHubError(github.ErrorTypeAuth, "Bad credentials", nil),
			expectedType:      ErrorTypeInvalidToken,
			expectedRetryable: false,
		},
		{
			name:              "GitHub missing scope",
			inputError:        github.NewGitHubError(github.ErrorTypePermission, "missing repo scope", nil),
			expectedType:      ErrorTypeInsufficientScope,
			expectedRetryable: false,
		},
		{
			name:              "GitHub rate limit",
			inputError:        github.NewGitHubError(github.ErrorTypeRateLimit, "rate limit", nil),
			expectedType:      ErrorTypeRateLimited,
			expectedRetryable: true,
		},
		{
			name:              "secret not found",
			inputError:        &mockAPIError{code: "ResourceNotFoundException", message: "Secrets Manager can't find the specified secret."},
			expectedType:      ErrorTypeSecretNotFound,
			expectedRetryable: false,
		},
		{
			name:              "secret access denied",
			inputError:        &mockAPIError{code: "AccessDeniedException", message: "not authorized"},
			expectedType:      ErrorTypeSecretAccessDenied,
			expectedRetryable: false,
		},
		{
			name:              "AWS throttling error",
			inputError:        &mockAPIError{code: "ThrottlingException", message: "Rate exceeded"},
			expectedType:      ErrorTypeRateLimited,
			expectedRetryable: true,
		},
		{
			name:              "AWS internal error",
			inputError:        &mockAPIError{code: "InternalServiceError", message: "oops"},
			expectedType:      ErrorTypeServiceUnavailable,
			expectedRetryable: true,
		},
		{
			name:              "other AWS error",
			inputError:        &mockAPIError{code: "InvalidParameterException", message: "bad id"},
			expectedType:      ErrorTypeAWSAPIError,
			expectedRetryable: false,
		},
		{
			name:              "generic error",
			inputError:        fmt.Errorf("some generic error"),
			expectedType:      ErrorTypeUnknown,
			expectedRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyError(tt.inputError)

			if tt.inputError == nil {
				if result != nil {
					t.Errorf("Expected nil result for nil error, got %v", result)
				}
				return
			}

			if result == nil {
				t.Fatalf("Expected non-nil result for error %v", tt.inputError)
			}

			if result.Type != tt.expectedType {
				t.Errorf("Expected error type %v, got %v", tt.expectedType, result.Type)
			}

			if result.IsRetryable() != tt.expectedRetryable {
				t.Errorf("Expected retryable %v, got %v", tt.expectedRetryable, result.IsRetryable())
			}

			if result.OriginalError != tt.inputError {
				t.Errorf("Expected original error to be preserved")
			}
		})
	}
}

func TestClassifyError_WrappedAuthError(t *testing.T) {
	original := NewMissingTokenError([]string{SourceFlag})
	wrapped := fmt.Errorf("sync: %w", original)

	if ClassifyError(wrapped) != original {
		t.Errorf("Expected wrapped *Error to be returned as is")
	}
}

func TestAuthError_Error(t *testing.T) {
	authErr := &Error{
		Type:    ErrorTypeNetworkTimeout,
		Message: "Network timeout occurred",
	}

	if authErr.Error() != "Network timeout occurred" {
		t.Errorf("Expected error message 'Network timeout occurred', got '%s'", authErr.Error())
	}
}

func TestAuthError_Unwrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	authErr := &Error{
		Type:          ErrorTypeNetworkTimeout,
		Message:       "Network timeout occurred",
		OriginalError: originalErr,
	}

	if authErr.Unwrap() != originalErr {
		t.Errorf("Expected unwrapped error to be original error")
	}
}

func TestAuthError_GetTroubleshootingMessage(t *testing.T) {
	tests := []struct {
		name     string
		authErr  *Error
		expected string
	}{
		{
			name: "with troubleshooting steps",
			authErr: &Error{
				Type:    ErrorTypeNetworkTimeout,
				Message: "Network timeout",
				TroubleshootingSteps: []string{
					"Check your connection",
					"Try again later",
				},
			},
			expected: "\nTroubleshooting steps:\n1. Check your connection\n2. Try again later\n",
		},
		{
			name: "without troubleshooting steps",
			authErr: &Error{
				Type:    ErrorTypeNetworkTimeout,
				Message: "Network timeout",
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.authErr.GetTroubleshootingMessage()
			if result != tt.expected {
				t.Errorf("Expected troubleshooting message:\n%s\nGot:\n%s", tt.expected, result)
			}
		})
	}
}

func TestNewMissingTokenError(t *testing.T) {
	err := NewMissingTokenError([]string{SourceFlag, SourceGitHubTokenEnv})

	if err.Type != ErrorTypeMissingToken {
		t.Errorf("Expected type %v, got %v", ErrorTypeMissingToken, err.Type)
	}

	if !strings.Contains(err.Error(), "--access-token, GITHUB_TOKEN") {
		t.Errorf("Expected searched sources in message, got %q", err.Error())
	}

	if len(err.TroubleshootingSteps) == 0 {
		t.Error("Expected troubleshooting steps")
	}
}

// Mock types for testing

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *mockAPIError) ErrorCode() string {
	return e.code
}

func (e *mockAPIError) ErrorMessage() string {
	return e.message
}

func (e *mockAPIError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultClient
}
