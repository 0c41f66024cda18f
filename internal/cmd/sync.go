package cmd

import (
	"github.com/spf13/cobra"

	"gh-labeler/internal/source"
	"gh-labeler/pkg/github"
	"gh-labeler/pkg/labels"
	"gh-labeler/pkg/logging"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize repository labels with the configuration",
		Long: `Synchronize the labels of a repository with the label configuration.

Labels are matched by exact name first, then by alias, then by name
similarity. Matches with a different name are renamed, matches with a
different color or description are updated and unmatched entries are
created. Labels the configuration does not claim are deleted unless
--allow-added-labels is set.

Examples:
  gh-labeler sync -r octo/repo
  gh-labeler sync -r octo/repo --config .github/labels.yml --dry-run
  cat labels.json | gh-labeler sync -r octo/repo --config - --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts, opts.dryRun)
		},
	}
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show the changes a sync would make without applying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts, true)
		},
	}
}

func runSync(cmd *cobra.Command, opts *rootOptions, dryRun bool) error {
	ctx := cmd.Context()
	status := opts.statusWriter(cmd)

	sess, err := opts.connect(ctx, status)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := sess.client.CheckWriteAccess(ctx); err != nil {
			return explainAccessError(err)
		}
	}

	loader := source.NewLoader(
		source.WithContentFetcher(sess.client),
		source.WithAWSConfig(sess.cfg.AWS),
	)
	desired, origin, err := loader.Load(ctx, opts.sourceRequest())
	if err != nil {
		return err
	}
	if err := github.ValidateLabelLimits(desired); err != nil {
		return &source.Error{Origin: origin, Err: err}
	}

	syncer := labels.NewSyncer(sess.client,
		labels.NewPlanner(),
		labels.NewExecutor(labels.WithOperationTimeout(sess.cfg.Sync.Timeout())),
	)
	syncOpts := labels.Options{
		AllowAddedLabels: opts.allowAddedLabels || sess.cfg.Sync.AllowAddedLabels,
	}

	var result *labels.Result
	if dryRun {
		result, err = syncer.Preview(ctx, desired, syncOpts)
	} else {
		result, err = syncer.Sync(ctx, desired, syncOpts)
	}
	if err != nil {
		return err
	}

	stats := sess.client.RateLimitStats()
	logger := logging.GetLogger("cli")
	logger.Debug().
		Int("remaining", stats.RemainingRequests).
		Int64("waits", stats.TotalWaits).
		Dur("delayed", stats.TotalDelayTime).
		Msg("GitHub rate limit usage")

	if opts.jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), result.Output()); err != nil {
			return err
		}
	} else {
		renderResult(cmd.OutOrStdout(), sess.repo, origin, result, opts.verbosity > 0)
	}

	if code := result.ExitCode(); code != labels.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}
