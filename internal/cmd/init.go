package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gh-labeler/pkg/config"
	"gh-labeler/pkg/labels"
)

type initOptions struct {
	format     string
	output     string
	force      bool
	userConfig bool
}

// initOutput is the JSON document printed by init
type initOutput struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Labels int    `json:"labels,omitempty"`
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	initOpts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default label configuration",
		Long: `Write the default label set (bug, documentation, duplicate, enhancement,
good first issue, help wanted) to a configuration file.

With --user-config, a skeleton of the gh-labeler settings file is written
instead (~/.gh-labeler/config.yaml, or $GH_LABELER_CONFIG).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initOpts.userConfig {
				return runInitUserConfig(cmd, opts, initOpts.force)
			}
			return runInit(cmd, opts, initOpts)
		},
	}

	cmd.Flags().StringVarP(&initOpts.format, "format", "f", "yaml", "Configuration format: json or yaml")
	cmd.Flags().StringVarP(&initOpts.output, "output", "o", "", "Output path (default .gh-labeler.<format>)")
	cmd.Flags().BoolVar(&initOpts.force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&initOpts.userConfig, "user-config", false, "Write the gh-labeler settings file instead")
	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, initOpts *initOptions) error {
	format, err := labels.ParseFormat(initOpts.format)
	if err != nil {
		return &configError{err: err}
	}

	path := initOpts.output
	if path == "" {
		path = ".gh-labeler." + string(format)
	}
	if err := checkOverwrite(path, initOpts.force); err != nil {
		return err
	}

	defaults := labels.DefaultLabels()
	data, err := labels.MarshalLabels(defaults, format)
	if err != nil {
		return fmt.Errorf("failed to encode default labels: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), initOutput{Status: "success", Path: path, Labels: len(defaults)})
	}

	p := newPalette(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), p.success.Render("✅ Default configuration written to: "+path))
	return nil
}

func runInitUserConfig(cmd *cobra.Command, opts *rootOptions, force bool) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := checkOverwrite(configPath, force); err != nil {
		return err
	}

	retries := 3
	defaultConfig := &config.Config{
		GitHub: config.GitHubConfig{
			Repository: "owner/repo",
		},
		Sync: config.SyncConfig{
			OperationTimeout: config.DefaultOperationTimeout,
			MaxRetries:       &retries,
		},
	}

	if err := defaultConfig.SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), initOutput{Status: "success", Path: configPath})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration file created at: %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "📝 Please edit the file to set your repository and token source.")
	return nil
}

func checkOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return newConfigError("%s already exists: use --force to overwrite it or --output to pick another path", path)
	}
	return nil
}
