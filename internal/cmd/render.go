package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"gh-labeler/internal/auth"
	"gh-labeler/pkg/github"
	"gh-labeler/pkg/labels"
)

// palette holds the styles for one output stream. Colors are dropped when
// the stream is not a terminal.
type palette struct {
	renderer *lipgloss.Renderer
	header   lipgloss.Style
	success  lipgloss.Style
	create   lipgloss.Style
	update   lipgloss.Style
	rename   lipgloss.Style
	remove   lipgloss.Style
	muted    lipgloss.Style
	failure  lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}

	return palette{
		renderer: r,
		header:   r.NewStyle().Bold(true),
		success:  r.NewStyle().Foreground(green).Bold(true),
		create:   r.NewStyle().Foreground(green),
		update:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}),
		rename:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}),
		remove:   r.NewStyle().Foreground(red),
		muted:    r.NewStyle().Faint(true),
		failure:  r.NewStyle().Foreground(red).Bold(true),
	}
}

// operationLine returns the marker and style used for op
func (p palette) operationLine(op labels.Operation) string {
	var marker string
	var style lipgloss.Style

	switch op.Type {
	case labels.OperationCreate:
		marker, style = "+", p.create
	case labels.OperationUpdate:
		marker, style = "~", p.update
	case labels.OperationRename:
		marker, style = ">", p.rename
	case labels.OperationDelete:
		marker, style = "-", p.remove
	default:
		marker, style = "=", p.muted
	}

	return style.Render(fmt.Sprintf("  %s %s", marker, op.String()))
}

// renderResult prints the human readable report of a sync run
func renderResult(w io.Writer, repo labels.Repository, origin string, result *labels.Result, verbose bool) {
	p := newPalette(w)

	if result.DryRun() {
		fmt.Fprintln(w, p.header.Render(fmt.Sprintf("🔍 Dry-run mode: planned changes for %s", repo)))
	} else {
		fmt.Fprintln(w, p.header.Render(fmt.Sprintf("📋 Label changes for %s", repo)))
	}
	if origin != "" {
		fmt.Fprintln(w, p.muted.Render("   labels from "+origin))
	}
	fmt.Fprintln(w)

	for _, op := range result.Operations() {
		if !op.IsChange() && !verbose {
			continue
		}
		fmt.Fprintln(w, p.operationLine(op))
	}
	if !result.HasChanges() {
		fmt.Fprintln(w, "  No changes needed - labels are up to date")
	}

	fmt.Fprintf(w, "\nCreated: %s  Updated: %s  Renamed: %s  Deleted: %s  Unchanged: %d\n",
		p.create.Render(fmt.Sprint(result.Created())),
		p.update.Render(fmt.Sprint(result.Updated())),
		p.rename.Render(fmt.Sprint(result.Renamed())),
		p.remove.Render(fmt.Sprint(result.Deleted())),
		result.Unchanged())

	if result.HasErrors() {
		errs := result.Errors()
		fmt.Fprintf(w, "\n%s\n", p.failure.Render(fmt.Sprintf("✗ %d operation(s) failed:", len(errs))))
		for _, msg := range errs {
			fmt.Fprintf(w, "  %s\n", p.remove.Render(msg))
		}
		return
	}

	switch {
	case result.DryRun() && result.HasChanges():
		fmt.Fprintln(w, p.muted.Render("\nRun without --dry-run to apply these changes."))
	case !result.DryRun():
		fmt.Fprintln(w, "\n"+p.success.Render("✓ Labels synchronized"))
	}
}

// renderLabelsTable prints observed labels as a borderless table
func renderLabelsTable(w io.Writer, observed []labels.ObservedLabel) {
	p := newPalette(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Color", "Description"})
	for _, l := range observed {
		swatch := p.renderer.NewStyle().Foreground(lipgloss.Color("#" + l.Color)).Render("●")
		description := "(none)"
		if l.Description != nil && *l.Description != "" {
			description = *l.Description
		}
		t.AppendRow(table.Row{l.Name, swatch + " #" + l.Color, description})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

// errorOutput is the JSON document printed for a failed command
type errorOutput struct {
	Status   string   `json:"status"`
	ExitCode int      `json:"exit_code"`
	Errors   []string `json:"errors"`
}

func newErrorOutput(err error, code int) errorOutput {
	return errorOutput{Status: "error", ExitCode: code, Errors: []string{err.Error()}}
}

func renderError(w io.Writer, err error) {
	p := newPalette(w)
	fmt.Fprintln(w, p.failure.Render("Error:"), err)

	var authErr *auth.Error
	switch {
	case errors.As(err, &authErr):
		if msg := authErr.GetTroubleshootingMessage(); msg != "" {
			fmt.Fprint(w, p.muted.Render(strings.TrimSuffix(msg, "\n")), "\n")
		}
	case github.IsErrorType(err, github.ErrorTypeAuth):
		fmt.Fprintf(w, "\n%s\n", github.GetAuthInstructions())
	}
}

// writeJSON prints v with two-space indentation
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
