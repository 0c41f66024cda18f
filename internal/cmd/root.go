package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gh-labeler/internal/version"
	"gh-labeler/pkg/logging"
)

// rootOptions holds the global flags shared by every command
type rootOptions struct {
	accessToken      string
	repository       string
	configPath       string
	template         string
	remoteConfig     string
	tokenSecret      string
	dryRun           bool
	allowAddedLabels bool
	jsonOutput       bool
	verbosity        int
}

// NewRootCmd creates the command tree. Running it without a subcommand
// performs a sync.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gh-labeler",
		Short: "Synchronize GitHub repository labels with a configuration file",
		Long: `gh-labeler keeps the labels of a GitHub repository in line with a JSON or
YAML configuration. It creates missing labels, updates colors and descriptions,
renames labels matched through aliases or name similarity and removes labels
the configuration does not define.

Configuration sources, first match wins:
  --remote-config owner/repo:path   file in another repository
  --template owner/repo             convention files of another repository
  --config -                        stdin
  --config s3://bucket/key          object in S3
  --config path                     local file
  (none)                            .gh-labeler.{json,yaml,yml} or .github/labels.{json,yaml,yml}

Exit codes:
  0 success, 1 error, 2 configuration error, 3 authentication error,
  4 repository not found, 5 partial success, 6 rate limited

Examples:
  gh-labeler sync -r octo/repo
  gh-labeler preview -r octo/repo --config labels.yaml
  gh-labeler sync -r octo/repo --template octo/standards --allow-added-labels
  gh-labeler list -r octo/repo --format yaml > .github/labels.yml`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts, opts.dryRun)
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.accessToken, "access-token", "t", "", "GitHub access token (defaults to GITHUB_TOKEN, GH_TOKEN or the config file)")
	flags.StringVarP(&opts.repository, "repository", "r", "", "Target repository in owner/repo form")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Show planned changes without applying them")
	flags.BoolVar(&opts.allowAddedLabels, "allow-added-labels", false, "Keep labels that the configuration does not define")
	flags.StringVarP(&opts.configPath, "config", "c", "", `Label configuration: a path, "-" for stdin or s3://bucket/key`)
	flags.StringVar(&opts.template, "template", "", "Use the label configuration of another repository (owner/repo)")
	flags.StringVar(&opts.remoteConfig, "remote-config", "", "Use a configuration file from another repository (owner/repo:path)")
	flags.StringVar(&opts.tokenSecret, "token-secret", "", "AWS Secrets Manager secret holding the GitHub token")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print machine-readable JSON on stdout")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &configError{err: err}
	})

	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newPreviewCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))

	return rootCmd
}

// Execute runs the command line and returns the process exit code. An
// interrupt cancels the run; operations not yet applied are reported as
// errors.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCmd(), os.Args[1:])
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitCode(nil)
	}

	code := ExitCode(err)
	var rendered *exitCodeError
	if errors.As(err, &rendered) {
		return code
	}

	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("json")
	if jsonOutput {
		_ = writeJSON(rootCmd.OutOrStdout(), newErrorOutput(err, code))
	} else {
		renderError(rootCmd.ErrOrStderr(), err)
	}
	return code
}
