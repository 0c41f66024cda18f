// Package github implements the label store on top of the GitHub REST API.
//
// The package includes:
// - Client, a labels.Store and labels.Updater for one repository
// - structured error mapping (GitHubError) and a context aware retry helper
// - a RateLimiter fed by the rate limit headers of each response
// - token and permission checks run before a sync
package github
