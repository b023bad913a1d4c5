/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/ui"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:     "generate [request]",
	Aliases: []string{"gen"},
	Short:   "Generate Office JavaScript API code from a request",
	Long: `Run a full copilot turn: break the request into coding tasks, check it
against local policies, then generate TypeScript with reference samples.

Requests scored above 50 for complexity are sent to the advanced model.

Examples:
  officekit generate "highlight cells above 100 in red"
  echo "insert a table of contents" | officekit generate
  officekit generate -o src/taskpane/chart.ts "add a chart for the selection"`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the generated code to this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args, promptInput())
	if err != nil {
		return err
	}

	reporter, stop := newReporter(cmd.ErrOrStderr(), "Generating")
	deps, err := newCopilot(cmd.Context(), reporter)
	if err != nil {
		stop()
		return err
	}
	defer deps.Close()

	s := spec.New(prompt)
	out, err := deps.orchestrator.Run(cmd.Context(), s)
	stop()
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if generateOutput != "" && out.Status == pipeline.StatusGenerated {
		if err := afero.WriteFile(afero.NewOsFs(), generateOutput, []byte(out.Code+"\n"), 0644); err != nil {
			return fmt.Errorf("write %s: %w", generateOutput, err)
		}
	}

	if isJSON() {
		return printJSON(out)
	}
	renderOutcome(cmd.OutOrStdout(), out)
	if out.Status != pipeline.StatusGenerated {
		return fmt.Errorf("turn ended with status %s", out.Status)
	}
	return nil
}

// newReporter picks the spinner view on a terminal and plain lines elsewhere.
// The returned stop function is safe to call more than once.
func newReporter(w io.Writer, title string) (pipeline.Reporter, func()) {
	if isJSON() || isQuiet() {
		return nil, func() {}
	}
	if ui.IsInteractive() && w == io.Writer(os.Stderr) {
		r := ui.NewProgressReporter(title, w)
		return r, r.Stop
	}
	r := &ui.LineReporter{Out: w}
	return r, r.Stop
}

func renderOutcome(w io.Writer, out *pipeline.Outcome) {
	if out.Breakdown != nil && !isQuiet() {
		renderBreakdown(w, out.Breakdown)
	}

	switch out.Status {
	case pipeline.StatusGenerated:
		if isQuiet() {
			_, _ = fmt.Fprintln(w, out.Code)
			return
		}
		_, _ = fmt.Fprintln(w, ui.RenderHighlighted("typescript", out.Code))
		pairs := [][2]string{{"Model", out.Model}, {"Turn", ui.ShortID(out.SpecID)}}
		if len(out.SampleIDs) > 0 {
			pairs = append(pairs, [2]string{"Samples", strings.Join(out.SampleIDs, ", ")})
		}
		if generateOutput != "" {
			pairs = append(pairs, [2]string{"Written to", generateOutput})
		}
		ui.KeyValues(w, pairs)
	case pipeline.StatusRejected:
		_, _ = fmt.Fprintln(w, ui.StyleWarning.Render("Request declined."))
		for _, v := range out.Violations {
			_, _ = fmt.Fprintf(w, "  • %s\n", v)
		}
	case pipeline.StatusBreakdownFailed:
		_, _ = fmt.Fprintln(w, ui.StyleError.Render("The breakdown response could not be parsed. Try rephrasing the request."))
	case pipeline.StatusCodegenFailed:
		_, _ = fmt.Fprintln(w, ui.StyleError.Render("The model did not return a typescript code block."))
	}
	for _, warning := range out.Warnings {
		_, _ = fmt.Fprintln(w, ui.StyleWarning.Render("! "+warning))
	}
}

func renderBreakdown(w io.Writer, r *spec.BreakdownResult) {
	host := r.Host
	if host == "" {
		host = "Unknown host"
	}
	header := fmt.Sprintf("%s • complexity %d (%s)", host, r.Complexity, spec.ComplexityBand(r.Complexity))
	if r.CustomFunctions {
		header += " • custom function"
	}
	var sb strings.Builder
	for i, task := range r.Data {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, task)
	}
	panel := ui.NewPanel(header, strings.TrimRight(sb.String(), "\n"))
	switch {
	case !r.ShouldContinue:
		panel.WithBorderColor(ui.ColorWarning)
	case spec.NeedsAdvancedModel(r.Complexity):
		panel.WithBorderColor(ui.ColorPrimary)
	}
	_, _ = fmt.Fprintln(w, panel.Render())
}
