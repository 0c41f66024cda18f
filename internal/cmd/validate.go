package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gh-labeler/internal/source"
	"gh-labeler/pkg/github"
)

// validateOutput is the JSON document printed by validate
type validateOutput struct {
	Status string `json:"status"`
	Origin string `json:"origin"`
	Labels int    `json:"labels"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a label configuration without contacting GitHub",
		Long: `Validate a label configuration against the schema, the label rules
and the GitHub length limits. Without an argument the --config flag or
the convention files of the current directory are used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}
}

func runValidate(cmd *cobra.Command, opts *rootOptions, args []string) error {
	if opts.template != "" || opts.remoteConfig != "" {
		return newConfigError("validate works offline and cannot read --template or --remote-config")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := source.Request{ConfigPath: opts.configPath, WorkDir: "."}
	if len(args) == 1 {
		req.ConfigPath = args[0]
	}

	desired, origin, err := source.NewLoader(source.WithAWSConfig(cfg.AWS)).Load(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := github.ValidateLabelLimits(desired); err != nil {
		return &source.Error{Origin: origin, Err: err}
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), validateOutput{Status: "success", Origin: origin, Labels: len(desired)})
	}

	p := newPalette(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), p.success.Render(fmt.Sprintf("✓ %s is valid (%d labels)", origin, len(desired))))
	return nil
}
