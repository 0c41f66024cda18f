package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gh-labeler/internal/auth"
	"gh-labeler/internal/source"
	"gh-labeler/pkg/config"
	"gh-labeler/pkg/github"
	"gh-labeler/pkg/labels"
)

// session is an authenticated client for the target repository
type session struct {
	cfg    *config.Config
	repo   labels.Repository
	client *github.Client
	user   string
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// targetRepository prefers the --repository flag over github.repository
func (o *rootOptions) targetRepository(cfg *config.Config) (labels.Repository, error) {
	name := o.repository
	if name == "" {
		name = cfg.GitHub.Repository
	}
	if name == "" {
		return labels.Repository{}, newConfigError("repository is required: use --repository owner/repo or set github.repository in the config file")
	}
	return labels.ParseRepository(name)
}

// connect resolves the token, builds the client and checks the token
// against the API.
func (o *rootOptions) connect(ctx context.Context, status io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	repo, err := o.targetRepository(cfg)
	if err != nil {
		return nil, err
	}

	token, err := auth.NewResolver(cfg,
		auth.WithFlagToken(o.accessToken),
		auth.WithSecretID(o.tokenSecret),
	).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	retry := github.DefaultRetryConfig()
	if cfg.Sync.MaxRetries != nil {
		retry.MaxRetries = *cfg.Sync.MaxRetries
	}

	client, err := github.NewClient(token.Value, repo,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithRetryConfig(retry),
	)
	if err != nil {
		return nil, &configError{err: err}
	}

	info, err := client.ValidateToken(ctx)
	if err != nil {
		return nil, explainAccessError(err)
	}
	fmt.Fprintf(status, "✓ Authenticated as %s (token from %s)\n", info.User, token.Source)

	return &session{cfg: cfg, repo: repo, client: client, user: info.User}, nil
}

// explainAccessError attaches troubleshooting steps to permission failures
func explainAccessError(err error) error {
	if github.IsErrorType(err, github.ErrorTypePermission) {
		return auth.ClassifyError(err)
	}
	return err
}

// sourceRequest builds the label source request from the global flags
func (o *rootOptions) sourceRequest() source.Request {
	return source.Request{
		RemoteConfig: o.remoteConfig,
		Template:     o.template,
		ConfigPath:   o.configPath,
		WorkDir:      ".",
	}
}

// statusWriter is where progress lines go: stderr, or nowhere in JSON mode
func (o *rootOptions) statusWriter(cmd *cobra.Command) io.Writer {
	if o.jsonOutput {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}
