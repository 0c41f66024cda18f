package github

import "gh-labeler/pkg/labels"

// Client is the label store used by the syncer. UpdateLabel makes updates
// and renames a single atomic call.
var (
	_ labels.Store   = (*Client)(nil)
	_ labels.Updater = (*Client)(nil)
)
