package mcp

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

// FormatBreakdown converts a breakdown into concise Markdown.
func FormatBreakdown(r *spec.BreakdownResult) string {
	if r == nil {
		return "The model response could not be parsed as a task breakdown. Rephrase the request and try again."
	}

	var sb strings.Builder
	if !r.ShouldContinue {
		sb.WriteString("## Request declined\n\n")
		sb.WriteString("This request cannot be implemented as Office add-in code.\n")
		return strings.TrimSpace(sb.String())
	}

	sb.WriteString(fmt.Sprintf("## %s task breakdown\n", hostOrUnknown(r.Host)))
	sb.WriteString(fmt.Sprintf("**Complexity**: %d (%s)", r.Complexity, spec.ComplexityBand(r.Complexity)))
	if r.CustomFunctions {
		sb.WriteString(" | **Custom function**")
	}
	if spec.NeedsAdvancedModel(r.Complexity) {
		sb.WriteString(" | advanced model")
	}
	sb.WriteString("\n\n")
	writeSteps(&sb, r.Data)
	return strings.TrimSpace(sb.String())
}

// FormatOutcome converts a turn outcome into Markdown with the generated code.
func FormatOutcome(out *pipeline.Outcome) string {
	if out == nil {
		return "No result."
	}

	var sb strings.Builder
	switch out.Status {
	case pipeline.StatusGenerated:
		sb.WriteString("## Generated code\n")
		sb.WriteString(fmt.Sprintf("**Model**: %s | **Turn**: `%s`", out.Model, out.SpecID))
		if len(out.SampleIDs) > 0 {
			sb.WriteString(fmt.Sprintf(" | **Samples**: %s", strings.Join(out.SampleIDs, ", ")))
		}
		sb.WriteString("\n\n```typescript\n")
		sb.WriteString(out.Code)
		sb.WriteString("\n```\n")
		if out.Breakdown != nil && len(out.Breakdown.Data) > 0 {
			sb.WriteString("\n### Steps\n")
			writeSteps(&sb, out.Breakdown.Data)
		}
	case pipeline.StatusRejected:
		sb.WriteString("## Request declined\n\n")
		if len(out.Violations) == 0 {
			sb.WriteString("This request cannot be implemented as Office add-in code.\n")
		}
		for _, v := range out.Violations {
			sb.WriteString(fmt.Sprintf("- %s\n", v))
		}
	case pipeline.StatusBreakdownFailed:
		sb.WriteString("## Breakdown failed\n\nThe model response could not be parsed. Rephrase the request and try again.\n")
	case pipeline.StatusCodegenFailed:
		sb.WriteString("## Code generation failed\n\nThe model did not return a typescript code block.\n")
	default:
		sb.WriteString(fmt.Sprintf("## %s\n", out.Status))
	}

	if len(out.Warnings) > 0 {
		sb.WriteString("\n### Warnings\n")
		for _, w := range out.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatSampleList lists samples without their code.
func FormatSampleList(list []samples.Sample) string {
	if len(list) == 0 {
		return "No samples found."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Samples (%d)\n", len(list)))
	for _, s := range list {
		marker := ""
		if s.CustomFunction {
			marker = " (custom function)"
		}
		sb.WriteString(fmt.Sprintf("- `%s` **%s**%s: %s\n", s.ID, s.Host, marker, truncate(s.Description, 100)))
	}
	return strings.TrimSpace(sb.String())
}

// FormatSample renders one sample with its code.
func FormatSample(s samples.Sample) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n", s.ID))
	sb.WriteString(fmt.Sprintf("**Host**: %s", s.Host))
	if len(s.Tags) > 0 {
		sb.WriteString(fmt.Sprintf(" | **Tags**: %s", strings.Join(s.Tags, ", ")))
	}
	sb.WriteString("\n\n")
	sb.WriteString(s.Description)
	sb.WriteString("\n\n```typescript\n")
	sb.WriteString(strings.TrimRight(s.Code, "\n"))
	sb.WriteString("\n```")
	return sb.String()
}

// FormatMatches renders ranked samples with a relevance bar.
func FormatMatches(matches []samples.Match) string {
	if len(matches) == 0 {
		return "No matching samples."
	}
	var sb strings.Builder
	for i, m := range matches {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("%s %.2f\n", scoreToBar(m.Score), m.Score))
		sb.WriteString(FormatSample(m.Sample))
	}
	return sb.String()
}

// FormatTurnList renders recent turns as a Markdown table.
func FormatTurnList(turns []history.TurnSummary) string {
	if len(turns) == 0 {
		return "No turns recorded."
	}
	var sb strings.Builder
	sb.WriteString("| ID | When | Host | Status | Complexity | Request |\n")
	sb.WriteString("|----|------|------|--------|------------|---------|\n")
	for _, t := range turns {
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %d | %s |\n",
			shortID(t.ID), t.CreatedAt.Format("2006-01-02 15:04"), hostOrUnknown(t.Host),
			t.Status, t.Complexity, strings.ReplaceAll(truncate(t.UserInput, 60), "|", "\\|")))
	}
	return strings.TrimSpace(sb.String())
}

// FormatTurn renders a recorded turn.
func FormatTurn(t *history.Turn) string {
	if t == nil {
		return "No turn."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Turn `%s`\n", t.ID))
	sb.WriteString(fmt.Sprintf("**Status**: %s | **Host**: %s | **Complexity**: %d", t.Status, hostOrUnknown(t.Host), t.Complexity))
	if t.Model != "" {
		sb.WriteString(fmt.Sprintf(" | **Model**: %s", t.Model))
	}
	sb.WriteString("\n\n> ")
	sb.WriteString(t.UserInput)
	sb.WriteString("\n\n")
	if len(t.Tasks) > 0 {
		sb.WriteString("### Steps\n")
		writeSteps(&sb, t.Tasks)
		sb.WriteString("\n")
	}
	if t.Code != "" {
		sb.WriteString("```typescript\n")
		sb.WriteString(t.Code)
		sb.WriteString("\n```\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

func writeSteps(sb *strings.Builder, steps []string) {
	for i, s := range steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
}

func hostOrUnknown(host string) string {
	if host == "" {
		return "Unknown host"
	}
	return host
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens a string to maxLen runes and adds ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// scoreToBar converts a 0-1 score to a visual bar
func scoreToBar(score float64) string {
	bars := int(score * 5)
	if bars < 1 && score > 0 {
		bars = 1
	}
	if bars > 5 {
		bars = 5
	}
	if bars < 0 {
		bars = 0
	}
	return strings.Repeat("█", bars) + strings.Repeat("░", 5-bars)
}
