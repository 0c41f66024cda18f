package github

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gh-labeler/pkg/labels"
)

func TestValidateLabelLimits(t *testing.T) {
	t.Run("defaults fit", func(t *testing.T) {
		assert.NoError(t, ValidateLabelLimits(labels.DefaultLabels()))
	})

	t.Run("counts characters, not bytes", func(t *testing.T) {
		name := strings.Repeat("é", MaxLabelNameLength)
		assert.NoError(t, ValidateLabelLimits([]labels.DesiredLabel{{Name: name, Color: "#ffffff"}}))
	})

	t.Run("reports every oversized field", func(t *testing.T) {
		err := ValidateLabelLimits([]labels.DesiredLabel{
			{Name: strings.Repeat("a", MaxLabelNameLength+1), Color: "#ffffff"},
			{Name: "ok", Color: "#ffffff", Description: labels.StringPtr(strings.Repeat("d", MaxLabelDescriptionLength+1))},
		})

		var errs labels.ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 2)
		assert.Equal(t, "labels[0].name", errs[0].Field)
		assert.Equal(t, "labels[1].description", errs[1].Field)
	})
}

func TestClient_CheckWriteAccess(t *testing.T) {
	tests := []struct {
		name        string
		permissions map[string]bool
		expectError bool
	}{
		{name: "push", permissions: map[string]bool{"pull": true, "push": true}},
		{name: "triage", permissions: map[string]bool{"pull": true, "triage": true}},
		{name: "no permissions block", permissions: nil},
		{name: "read only", permissions: map[string]bool{"pull": true}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := mockGitHubServer(t, map[string]interface{}{
				"GET /repos/octo/repo": &github.Repository{Name: github.String("repo"), Permissions: tt.permissions},
			})
			client := createTestClient(t, server)

			err := client.CheckWriteAccess(context.Background())
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, IsErrorType(err, ErrorTypePermission))
				assert.Contains(t, err.Error(), "repository octo/repo")
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("missing repository", func(t *testing.T) {
		server, _ := mockGitHubServer(t, map[string]interface{}{})
		client := createTestClient(t, server)

		err := client.CheckWriteAccess(context.Background())
		assert.True(t, IsErrorType(err, ErrorTypeNotFound))
	})
}
