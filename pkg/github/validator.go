package github

import (
	"context"
	"fmt"
	"unicode/utf8"

	"gh-labeler/pkg/labels"
)

// writePermissions are the repository roles that may manage labels
var writePermissions = []string{"triage", "push", "maintain", "admin"}

// ValidateLabelLimits checks desired labels against limits GitHub enforces
// server-side, so a sync fails before any change instead of midway.
func ValidateLabelLimits(desired []labels.DesiredLabel) error {
	var errs labels.ValidationErrors

	for i, d := range desired {
		if n := utf8.RuneCountInString(d.Name); n > MaxLabelNameLength {
			errs.Add(fmt.Sprintf("labels[%d].name", i), d.Name,
				fmt.Sprintf("must be at most %d characters, got %d", MaxLabelNameLength, n))
		}
		if d.Description == nil {
			continue
		}
		if n := utf8.RuneCountInString(*d.Description); n > MaxLabelDescriptionLength {
			errs.Add(fmt.Sprintf("labels[%d].description", i), *d.Description,
				fmt.Sprintf("must be at most %d characters, got %d", MaxLabelDescriptionLength, n))
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// CheckWriteAccess verifies the token may change labels of the repository
func (c *Client) CheckWriteAccess(ctx context.Context) error {
	perms, err := c.RepositoryPermissions(ctx)
	if err != nil {
		return err
	}

	// Tokens that are not scoped to a user, like GitHub App installation
	// tokens, get no permissions block.
	if len(perms) == 0 {
		return nil
	}

	for _, p := range writePermissions {
		if perms[p] {
			return nil
		}
	}

	ghErr := NewGitHubError(ErrorTypePermission,
		"insufficient permissions: triage access or higher is required to manage labels", nil)
	ghErr.Resource = fmt.Sprintf("repository %s", c.repo)
	return ghErr
}
