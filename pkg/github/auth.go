package github

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/google/go-github/v66/github"
)

const scopesHeader = "X-OAuth-Scopes"

// ValidateToken checks that the token authenticates and, for classic
// tokens, that it carries a scope allowing label changes. Fine-grained
// tokens report no scopes and are accepted here; their repository access
// is checked by CheckWriteAccess.
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	var (
		user *github.User
		resp *github.Response
	)
	_, err := c.call(ctx, func() (*github.Response, error) {
		var err error
		user, resp, err = c.client.Users.Get(ctx, "")
		return resp, err
	})
	if err != nil {
		return nil, WrapGitHubError(err, "authenticated user")
	}

	tokenInfo := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: []string{},
	}

	values, classic := resp.Header[http.CanonicalHeaderKey(scopesHeader)]
	if !classic {
		return tokenInfo, nil
	}

	for _, value := range values {
		for _, scope := range strings.Split(value, ",") {
			if scope = strings.TrimSpace(scope); scope != "" {
				tokenInfo.Scopes = append(tokenInfo.Scopes, scope)
			}
		}
	}

	if err := validateScopes(tokenInfo.Scopes); err != nil {
		return tokenInfo, err
	}

	return tokenInfo, nil
}

// validateScopes checks if a classic token can manage labels
func validateScopes(scopes []string) error {
	if slices.Contains(scopes, "repo") || slices.Contains(scopes, "public_repo") {
		return nil
	}

	return NewGitHubError(ErrorTypePermission,
		fmt.Sprintf("GitHub token missing required permissions. Granted scopes: [%s]. Please ensure your token has the repo scope (or public_repo for public repositories)",
			strings.Join(scopes, ", ")), nil)
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Command line flag:
   gh-labeler sync --access-token "your_token" ...

2. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_token"    (GH_TOKEN is also read)

3. Configuration File:
   Add the following to ~/.gh-labeler/config.yaml:

   github:
     token: "your_token"

4. AWS Secrets Manager:
   Store the token (plain or as {"token": "..."}) and reference it:

   github:
     token_secret: "ci/github-token"

To create a token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Either create a fine-grained token with "Issues: Read and write" on the repository,
   or a classic token with the repo scope (public_repo is enough for public repositories)
3. Copy the generated token and use it with one of the methods above`
}
