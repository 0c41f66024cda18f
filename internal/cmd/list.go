package cmd

import (
	"github.com/spf13/cobra"

	"gh-labeler/pkg/labels"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the current labels of a repository",
		Long: `List the current labels of a repository.

The json and yaml formats print a label configuration, so the output can
seed a configuration file:

  gh-labeler list -r octo/repo --format yaml > .github/labels.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				format = string(labels.FormatJSON)
			}
			return runList(cmd, opts, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions, format string) error {
	var configFormat labels.Format
	if format != "table" {
		parsed, err := labels.ParseFormat(format)
		if err != nil {
			return &configError{err: err}
		}
		configFormat = parsed
	}

	sess, err := opts.connect(cmd.Context(), opts.statusWriter(cmd))
	if err != nil {
		return err
	}

	observed, err := sess.client.ListLabels(cmd.Context())
	if err != nil {
		return err
	}

	if configFormat == "" {
		renderLabelsTable(cmd.OutOrStdout(), observed)
		return nil
	}

	data, err := labels.MarshalLabels(toDesired(observed), configFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// toDesired turns observed labels into configuration entries
func toDesired(observed []labels.ObservedLabel) []labels.DesiredLabel {
	desired := make([]labels.DesiredLabel, 0, len(observed))
	for _, l := range observed {
		d := labels.DesiredLabel{
			Name:  l.Name,
			Color: "#" + labels.NormalizeColor(l.Color),
		}
		if l.Description != nil && *l.Description != "" {
			d.Description = labels.StringPtr(*l.Description)
		}
		desired = append(desired, d)
	}
	return desired
}
