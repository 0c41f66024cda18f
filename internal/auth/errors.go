package auth

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/aws/smithy-go"

	"gh-labeler/pkg/github"
)

// ErrorType represents different types of authentication errors
type ErrorType string

const (
	// Network-related errors
	ErrorTypeNetworkConnectivity ErrorType = "network_connectivity"
	ErrorTypeNetworkTimeout      ErrorType = "network_timeout"
	ErrorTypeDNSResolution       ErrorType = "dns_resolution"

	// Token-related errors
	ErrorTypeMissingToken      ErrorType = "missing_token"
	ErrorTypeInvalidToken      ErrorType = "invalid_token"
	ErrorTypeInsufficientScope ErrorType = "insufficient_scope"

	// Secrets Manager errors
	ErrorTypeSecretNotFound     ErrorType = "secret_not_found"
	ErrorTypeSecretAccessDenied ErrorType = "secret_access_denied"
	ErrorTypeInvalidSecret      ErrorType = "invalid_secret"

	// API errors
	ErrorTypeAWSAPIError        ErrorType = "aws_api_error"
	ErrorTypeRateLimited        ErrorType = "rate_limited"
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"

	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a structured authentication error with troubleshooting guidance
type Error struct {
	Type                 ErrorType      `json:"type"`
	Message              string         `json:"message"`
	OriginalError        error          `json:"-"`
	TroubleshootingSteps []string       `json:"troubleshooting_steps"`
	RetryAfter           *time.Duration `json:"retry_after,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the original error for error unwrapping
func (e *Error) Unwrap() error {
	return e.OriginalError
}

// IsRetryable returns true if the error is retryable
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetworkTimeout, ErrorTypeNetworkConnectivity, ErrorTypeRateLimited, ErrorTypeServiceUnavailable:
		return true
	default:
		return false
	}
}

// GetTroubleshootingMessage returns a formatted troubleshooting message
func (e *Error) GetTroubleshootingMessage() string {
	if len(e.TroubleshootingSteps) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nTroubleshooting steps:\n")
	for i, step := range e.TroubleshootingSteps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return sb.String()
}

// NewMissingTokenError reports that no source produced a token
func NewMissingTokenError(searched []string) *Error {
	return &Error{
		Type:    ErrorTypeMissingToken,
		Message: fmt.Sprintf("no GitHub token found (checked: %s)", strings.Join(searched, ", ")),
		TroubleshootingSteps: []string{
			"Pass a token with --access-token",
			"Export GITHUB_TOKEN or GH_TOKEN",
			"Set github.token in ~/.gh-labeler/config.yaml",
			"Or store the token in AWS Secrets Manager and set github.token_secret",
		},
	}
}

// ClassifyError analyzes an error and returns a structured Error
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	// Check if it's already an Error
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}

	var ghErr *github.GitHubError
	if errors.As(err, &ghErr) {
		return classifyGitHubError(ghErr)
	}

	// AWS SDK errors
	if isAWSError(err) {
		return classifyAWSError(err)
	}

	// Network connectivity errors
	if isNetworkError(err) {
		return classifyNetworkError(err)
	}

	return &Error{
		Type:          ErrorTypeUnknown,
		Message:       fmt.Sprintf("Authentication failed: %v", err),
		OriginalError: err,
		TroubleshootingSteps: []string{
			"Check your internet connection",
			"Verify your token configuration",
			"Try running the command again",
		},
	}
}

// classifyGitHubError maps GitHub token failures
func classifyGitHubError(err *github.GitHubError) *Error {
	switch err.Type {
	case github.ErrorTypeAuth:
		return &Error{
			Type:          ErrorTypeInvalidToken,
			Message:       "GitHub rejected the token - it is invalid or expired",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check that the token was copied completely",
				"Create a new token under GitHub Settings > Developer settings",
				"For GitHub Enterprise, check github.base_url in ~/.gh-labeler/config.yaml",
			},
		}

	case github.ErrorTypePermission:
		return &Error{
			Type:          ErrorTypeInsufficientScope,
			Message:       fmt.Sprintf("GitHub token lacks the required permissions: %s", err.Message),
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Classic tokens need the repo scope (public_repo for public repositories)",
				"Fine-grained tokens need Issues: Read and write on the repository",
				"Check that you have triage access or higher on the repository",
			},
		}

	case github.ErrorTypeRateLimit:
		return &Error{
			Type:          ErrorTypeRateLimited,
			Message:       "Rate limited by GitHub while validating the token",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Wait for the rate limit to reset",
				"Use an authenticated token to get a higher limit",
			},
			RetryAfter: func() *time.Duration { d := 60 * time.Second; return &d }(),
		}

	case github.ErrorTypeNetwork:
		return classifyNetworkError(err)

	default:
		return &Error{
			Type:          ErrorTypeServiceUnavailable,
			Message:       fmt.Sprintf("Token validation failed: %s", err.Message),
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Try again in a few moments",
				"Check https://www.githubstatus.com if the issue persists",
			},
		}
	}
}

// isNetworkError checks if the error is network-related
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// Check for common network error strings
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection timeout",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"i/o timeout",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// classifyNetworkError creates a specific network error
func classifyNetworkError(err error) *Error {
	errStr := strings.ToLower(err.Error())

	// DNS resolution errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || strings.Contains(errStr, "no such host") {
		return &Error{
			Type:          ErrorTypeDNSResolution,
			Message:       "DNS resolution failed - unable to resolve the API hostname",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check your internet connection",
				"Verify your DNS settings",
				"Check if you're behind a corporate firewall",
				"For GitHub Enterprise, verify github.base_url",
			},
		}
	}

	// Timeout errors
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{
			Type:          ErrorTypeNetworkTimeout,
			Message:       "Network timeout - request took too long to complete",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check your internet connection speed",
				"Try again in a few moments",
				"Check if you're behind a slow proxy or VPN",
			},
			RetryAfter: func() *time.Duration { d := 30 * time.Second; return &d }(),
		}
	}

	// Connection refused
	if strings.Contains(errStr, "connection refused") {
		return &Error{
			Type:          ErrorTypeNetworkConnectivity,
			Message:       "Connection refused - unable to connect to the API",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check your internet connection",
				"Check if you're behind a firewall that blocks the endpoint",
				"Try connecting from a different network",
			},
		}
	}

	// Generic network error
	return &Error{
		Type:          ErrorTypeNetworkConnectivity,
		Message:       "Network connectivity issue - unable to reach the API",
		OriginalError: err,
		TroubleshootingSteps: []string{
			"Check your internet connection",
			"Check firewall and proxy settings",
			"Try again in a few moments",
		},
		RetryAfter: func() *time.Duration { d := 15 * time.Second; return &d }(),
	}
}

// isAWSError checks if the error is from AWS SDK
func isAWSError(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr)
}

// classifyAWSError creates a specific error for Secrets Manager failures
func classifyAWSError(err error) *Error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	errorCode := apiErr.ErrorCode()
	errorMessage := apiErr.ErrorMessage()

	switch errorCode {
	case "ResourceNotFoundException":
		return &Error{
			Type:          ErrorTypeSecretNotFound,
			Message:       fmt.Sprintf("Token secret not found: %s", errorMessage),
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check the secret name in --token-secret or github.token_secret",
				"Verify the AWS region (aws.region in ~/.gh-labeler/config.yaml or AWS_REGION)",
			},
		}

	case "AccessDeniedException", "DecryptionFailure", "UnrecognizedClientException":
		return &Error{
			Type:          ErrorTypeSecretAccessDenied,
			Message:       "Access denied reading the token secret",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check that your AWS credentials allow secretsmanager:GetSecretValue",
				"If the secret uses a customer managed KMS key, check kms:Decrypt",
				"Verify the AWS profile (aws.profile or AWS_PROFILE)",
			},
		}

	case "ThrottlingException", "TooManyRequestsException":
		return &Error{
			Type:          ErrorTypeRateLimited,
			Message:       "Rate limited by AWS - too many requests",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Wait a few minutes before trying again",
			},
			RetryAfter: func() *time.Duration { d := 60 * time.Second; return &d }(),
		}

	case "ServiceUnavailableException", "InternalServiceError", "InternalServerException":
		return &Error{
			Type:          ErrorTypeServiceUnavailable,
			Message:       "AWS Secrets Manager is temporarily unavailable",
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Wait a few minutes and try again",
				"Check AWS service health status",
			},
			RetryAfter: func() *time.Duration { d := 120 * time.Second; return &d }(),
		}

	default:
		return &Error{
			Type:          ErrorTypeAWSAPIError,
			Message:       fmt.Sprintf("AWS API error: %s", errorMessage),
			OriginalError: err,
			TroubleshootingSteps: []string{
				"Check your AWS configuration",
				"Verify your internet connection",
				"Try running the command again",
			},
		}
	}
}
