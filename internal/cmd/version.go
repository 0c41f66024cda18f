package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gh-labeler/internal/version"
)

type versionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), versionOutput{
					Version: version.Version,
					Commit:  version.Commit,
					Date:    version.Date,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gh-labeler %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
			return nil
		},
	}
}
