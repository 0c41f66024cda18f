package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"gh-labeler/pkg/labels"
	"gh-labeler/pkg/logging"
)

const labelsPerPage = 100

// Client is a label store for a single repository backed by the GitHub REST API
type Client struct {
	client  *github.Client
	repo    labels.Repository
	retry   *RetryConfig
	limiter RateLimiter
	logger  zerolog.Logger
	baseURL string
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithRetryConfig overrides the retry policy used for idempotent calls
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *Client) {
		c.retry = config
	}
}

// WithRateLimiter overrides the rate limiter
func WithRateLimiter(limiter RateLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithBaseURL points the client at a GitHub Enterprise Server instance
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a client for repo. An empty token gives an
// unauthenticated client, which can only read public content.
func NewClient(token string, repo labels.Repository, opts ...ClientOption) (*Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	c := &Client{
		client:  github.NewClient(httpClient),
		repo:    repo,
		retry:   DefaultRetryConfig(),
		limiter: NewRateLimiter(nil),
		logger:  logging.GetLogger("github"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL != "" {
		enterprise, err := c.client.WithEnterpriseURLs(c.baseURL, c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", c.baseURL, err)
		}
		c.client = enterprise
	}

	return c, nil
}

// RateLimitStats returns the rate limiter statistics gathered so far
func (c *Client) RateLimitStats() RateLimiterStats {
	return c.limiter.GetStats()
}

// ListLabels returns every label of the repository, following pagination
func (c *Client) ListLabels(ctx context.Context) ([]labels.ObservedLabel, error) {
	var all []labels.ObservedLabel

	err := WithRetry(ctx, func(ctx context.Context) error {
		all = all[:0]
		opts := &github.ListOptions{PerPage: labelsPerPage}

		for {
			var page []*github.Label
			resp, err := c.call(ctx, func() (*github.Response, error) {
				var (
					resp *github.Response
					err  error
				)
				page, resp, err = c.client.Issues.ListLabels(ctx, c.repo.Owner, c.repo.Name, opts)
				return resp, err
			})
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("labels of %s", c.repo))
			}

			for _, l := range page {
				all = append(all, convertLabel(l))
			}

			if resp == nil || resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	}, c.retry)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("repository", c.repo.String()).
		Int("count", len(all)).
		Msg("Listed labels")

	return all, nil
}

// CreateLabel creates a label. Creates are never retried.
func (c *Client) CreateLabel(ctx context.Context, label labels.DesiredLabel) (*labels.ObservedLabel, error) {
	req := &github.Label{
		Name:  github.String(label.Name),
		Color: github.String(labels.NormalizeColor(label.Color)),
	}
	if label.Description != nil {
		req.Description = github.String(*label.Description)
	}

	var created *github.Label
	_, err := c.call(ctx, func() (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		created, resp, err = c.client.Issues.CreateLabel(ctx, c.repo.Owner, c.repo.Name, req)
		return resp, err
	})
	if err != nil {
		return nil, WrapGitHubError(err, c.labelResource(label.Name))
	}

	observed := convertLabel(created)
	return &observed, nil
}

// UpdateLabel edits the label currently named currentName in place, which
// renames it when label.Name differs. A nil description clears it.
func (c *Client) UpdateLabel(ctx context.Context, currentName string, label labels.DesiredLabel) (*labels.ObservedLabel, error) {
	req := &github.Label{
		Name:        github.String(label.Name),
		Color:       github.String(labels.NormalizeColor(label.Color)),
		Description: github.String(""),
	}
	if label.Description != nil {
		req.Description = github.String(*label.Description)
	}

	var edited *github.Label
	_, err := c.call(ctx, func() (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		edited, resp, err = c.client.Issues.EditLabel(ctx, c.repo.Owner, c.repo.Name, url.PathEscape(currentName), req)
		return resp, err
	})
	if err != nil {
		return nil, WrapGitHubError(err, c.labelResource(currentName))
	}

	observed := convertLabel(edited)
	return &observed, nil
}

// DeleteLabel deletes a label. A retried delete that finds the label gone
// counts as success, since an earlier attempt removed it.
func (c *Client) DeleteLabel(ctx context.Context, name string) error {
	attempt := 0

	return WithRetry(ctx, func(ctx context.Context) error {
		attempt++
		_, err := c.call(ctx, func() (*github.Response, error) {
			return c.client.Issues.DeleteLabel(ctx, c.repo.Owner, c.repo.Name, url.PathEscape(name))
		})
		if err == nil {
			return nil
		}

		wrapped := WrapGitHubError(err, c.labelResource(name))
		if attempt > 1 && wrapped.Type == ErrorTypeNotFound {
			return nil
		}
		return wrapped
	}, c.retry)
}

// RepositoryExists reports whether the repository is visible to the token
func (c *Client) RepositoryExists(ctx context.Context) (bool, error) {
	var found bool

	err := WithRetry(ctx, func(ctx context.Context) error {
		_, err := c.call(ctx, func() (*github.Response, error) {
			_, resp, err := c.client.Repositories.Get(ctx, c.repo.Owner, c.repo.Name)
			return resp, err
		})
		if err != nil {
			wrapped := WrapGitHubError(err, fmt.Sprintf("repository %s", c.repo))
			if wrapped.Type == ErrorTypeNotFound {
				found = false
				return nil
			}
			return wrapped
		}
		found = true
		return nil
	}, c.retry)
	if err != nil {
		return false, err
	}

	return found, nil
}

// RepositoryPermissions returns the permissions the token holds on the repository
func (c *Client) RepositoryPermissions(ctx context.Context) (map[string]bool, error) {
	var repo *github.Repository

	err := WithRetry(ctx, func(ctx context.Context) error {
		_, err := c.call(ctx, func() (*github.Response, error) {
			var (
				resp *github.Response
				err  error
			)
			repo, resp, err = c.client.Repositories.Get(ctx, c.repo.Owner, c.repo.Name)
			return resp, err
		})
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("repository %s", c.repo))
		}
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}

	return repo.GetPermissions(), nil
}

// GetFileContent returns the decoded content of a file in any repository
// the token can read. The path is resolved on the default branch.
func (c *Client) GetFileContent(ctx context.Context, repo labels.Repository, path string) ([]byte, error) {
	resource := fmt.Sprintf("file %s in %s", path, repo)
	var content string

	err := WithRetry(ctx, func(ctx context.Context) error {
		var file *github.RepositoryContent
		_, err := c.call(ctx, func() (*github.Response, error) {
			var (
				resp *github.Response
				err  error
			)
			file, _, resp, err = c.client.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, nil)
			return resp, err
		})
		if err != nil {
			return WrapGitHubError(err, resource)
		}
		if file == nil {
			ghErr := NewGitHubError(ErrorTypeValidation, "path is a directory, not a file", nil)
			ghErr.Resource = resource
			return ghErr
		}

		content, err = file.GetContent()
		if err != nil {
			return WrapGitHubError(fmt.Errorf("failed to decode content: %w", err), resource)
		}
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}

	return []byte(content), nil
}

// call paces fn through the rate limiter and feeds the response's rate
// headers back into it.
func (c *Client) call(ctx context.Context, fn func() (*github.Response, error)) (*github.Response, error) {
	if delay := c.limiter.GetDelay(); delay > 0 {
		c.logger.Debug().
			Dur("delay", delay).
			Int("remaining", c.limiter.GetStats().RemainingRequests).
			Msg("Throttling GitHub API call")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := fn()
	if resp != nil && resp.Rate.Limit > 0 {
		c.limiter.UpdateLimits(resp.Rate.Remaining, int(resp.Rate.Reset.Unix()))
	}
	return resp, err
}

func (c *Client) labelResource(name string) string {
	return fmt.Sprintf("label %s in %s", name, c.repo)
}
