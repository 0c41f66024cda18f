package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"

	"gh-labeler/pkg/config"
	"gh-labeler/pkg/logging"
)

// Token sources, in resolution order
const (
	SourceFlag           = "--access-token"
	SourceGitHubTokenEnv = "GITHUB_TOKEN"
	SourceGHTokenEnv     = "GH_TOKEN"
	SourceConfig         = "config file"
	SourceSecretsManager = "AWS Secrets Manager"
)

// SecretsAPI is the part of the Secrets Manager client the resolver uses
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Token is a resolved GitHub token and where it came from
type Token struct {
	Value  string
	Source string
}

// Resolver finds the GitHub token. The first source with a non-empty value
// wins: flag, GITHUB_TOKEN, GH_TOKEN, config file, then Secrets Manager.
type Resolver struct {
	flagToken string
	secretID  string
	cfg       *config.Config
	getenv    func(string) string
	secrets   SecretsAPI
	logger    zerolog.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithFlagToken sets the token given on the command line
func WithFlagToken(token string) ResolverOption {
	return func(r *Resolver) {
		r.flagToken = token
	}
}

// WithSecretID overrides the secret named in the config file
func WithSecretID(id string) ResolverOption {
	return func(r *Resolver) {
		r.secretID = id
	}
}

// WithSecretsClient sets the Secrets Manager client. Without one, a client
// is built from the AWS section of the config when a secret is needed.
func WithSecretsClient(client SecretsAPI) ResolverOption {
	return func(r *Resolver) {
		r.secrets = client
	}
}

// WithEnv replaces os.Getenv
func WithEnv(getenv func(string) string) ResolverOption {
	return func(r *Resolver) {
		r.getenv = getenv
	}
}

// NewResolver creates a token resolver; cfg may be nil
func NewResolver(cfg *config.Config, opts ...ResolverOption) *Resolver {
	if cfg == nil {
		cfg = &config.Config{}
	}

	r := &Resolver{
		cfg:    cfg,
		getenv: os.Getenv,
		logger: logging.GetLogger("auth"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.secretID == "" {
		r.secretID = cfg.GitHub.TokenSecret
	}
	return r
}

// Resolve returns the first token found. It fails with an *Error of type
// ErrorTypeMissingToken when no source has one.
func (r *Resolver) Resolve(ctx context.Context) (*Token, error) {
	candidates := []Token{
		{Value: r.flagToken, Source: SourceFlag},
		{Value: r.getenv(SourceGitHubTokenEnv), Source: SourceGitHubTokenEnv},
		{Value: r.getenv(SourceGHTokenEnv), Source: SourceGHTokenEnv},
		{Value: r.cfg.GitHub.Token, Source: SourceConfig},
	}

	searched := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		searched = append(searched, c.Source)
		if v := strings.TrimSpace(c.Value); v != "" {
			r.logger.Debug().Str("source", c.Source).Msg("Using GitHub token")
			return &Token{Value: v, Source: c.Source}, nil
		}
	}

	if r.secretID == "" {
		return nil, NewMissingTokenError(searched)
	}

	value, err := r.fromSecret(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Str("source", SourceSecretsManager).Str("secret", r.secretID).Msg("Using GitHub token")
	return &Token{Value: value, Source: SourceSecretsManager}, nil
}

func (r *Resolver) fromSecret(ctx context.Context) (string, error) {
	client := r.secrets
	if client == nil {
		awsCfg, err := LoadAWSConfig(ctx, r.cfg.AWS)
		if err != nil {
			return "", ClassifyError(err)
		}
		client = secretsmanager.NewFromConfig(awsCfg)
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretID),
	})
	if err != nil {
		return "", ClassifyError(err)
	}

	raw := aws.ToString(out.SecretString)
	if raw == "" && len(out.SecretBinary) > 0 {
		raw = string(out.SecretBinary)
	}

	return parseSecret(r.secretID, raw)
}

// parseSecret accepts either the bare token or a JSON object with a
// "token" field.
func parseSecret(id, raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return "", invalidSecretError(id, fmt.Sprintf("secret is not valid JSON: %v", err), err)
		}
		raw = strings.TrimSpace(payload.Token)
		if raw == "" {
			return "", invalidSecretError(id, `secret JSON has no "token" field`, nil)
		}
	}

	if raw == "" {
		return "", invalidSecretError(id, "secret is empty", nil)
	}

	return raw, nil
}

func invalidSecretError(id, reason string, cause error) *Error {
	return &Error{
		Type:          ErrorTypeInvalidSecret,
		Message:       fmt.Sprintf("token secret %s is unusable: %s", id, reason),
		OriginalError: cause,
		TroubleshootingSteps: []string{
			"Store the token as the plain secret string",
			`Or store a JSON object like {"token": "ghp_..."}`,
		},
	}
}
