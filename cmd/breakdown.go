/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/ui"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown [request]",
	Short: "Classify a request and list its coding tasks without generating code",
	Long: `Run only the task breakdown stage. Shows the detected Office host, whether
the request is accepted, its complexity score and the ordered sub-tasks.

Examples:
  officekit breakdown "sum column B into a custom function"
  officekit breakdown --json "add speaker notes to every slide"`,
	RunE: runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args, promptInput())
	if err != nil {
		return err
	}

	reporter, stop := newReporter(cmd.ErrOrStderr(), "Analyzing")
	deps, err := newCopilot(cmd.Context(), reporter)
	if err != nil {
		stop()
		return err
	}
	defer deps.Close()

	s := spec.New(prompt)
	result, err := deps.orchestrator.Breakdown(cmd.Context(), s)
	stop()
	if err != nil && !errors.Is(err, pipeline.ErrUnparseable) {
		return fmt.Errorf("breakdown: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]any{
			"specId":        s.ID,
			"breakdown":     result,
			"advancedModel": result != nil && spec.NeedsAdvancedModel(result.Complexity),
		})
	}
	if result == nil {
		return fmt.Errorf("breakdown: %w", pipeline.ErrUnparseable)
	}

	w := cmd.OutOrStdout()
	if !result.ShouldContinue {
		_, _ = fmt.Fprintln(w, ui.StyleWarning.Render("Request declined: it cannot be implemented as Office add-in code."))
		return nil
	}
	renderBreakdown(w, result)
	if spec.NeedsAdvancedModel(result.Complexity) {
		_, _ = fmt.Fprintln(w, ui.StyleSubtle.Render("Code generation would use the advanced model."))
	}
	return nil
}
