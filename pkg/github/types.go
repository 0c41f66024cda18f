package github

import (
	"github.com/google/go-github/v66/github"

	"gh-labeler/pkg/labels"
)

// GitHub rejects labels beyond these lengths
const (
	MaxLabelNameLength        = 50
	MaxLabelDescriptionLength = 100
)

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// convertLabel maps an API label to an observed label. A null description
// stays nil.
func convertLabel(l *github.Label) labels.ObservedLabel {
	observed := labels.ObservedLabel{
		ID:      l.GetID(),
		Name:    l.GetName(),
		Color:   l.GetColor(),
		Default: l.GetDefault(),
		URL:     l.GetURL(),
	}
	if l.Description != nil {
		observed.Description = labels.StringPtr(*l.Description)
	}
	return observed
}
