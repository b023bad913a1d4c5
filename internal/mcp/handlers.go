package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

// Copilot runs copilot turns.
type Copilot interface {
	Run(ctx context.Context, s *spec.Spec) (*pipeline.Outcome, error)
	Breakdown(ctx context.Context, s *spec.Spec) (*spec.BreakdownResult, error)
}

// SampleCatalog lists and ranks reference samples.
type SampleCatalog interface {
	All(host string) []samples.Sample
	Get(id string) (samples.Sample, bool)
	Relevant(ctx context.Context, q samples.Query) ([]samples.Match, error)
}

// TurnReader reads recorded turns.
type TurnReader interface {
	Get(ctx context.Context, id string) (*history.Turn, error)
	List(ctx context.Context, opts history.ListOptions) ([]history.TurnSummary, error)
}

// Handlers serves the officekit tools. Samples and History may be nil.
type Handlers struct {
	Copilot Copilot
	Samples SampleCatalog
	History TurnReader
}

// HandleCopilotTool runs a breakdown or a full turn for a prompt.
// Validation problems are reported in the result, not as errors.
func (h *Handlers) HandleCopilotTool(ctx context.Context, params CopilotToolParams) (*ToolResult, error) {
	action := string(params.Action)
	if !params.Action.IsValid() {
		return &ToolResult{
			Action: action,
			Error:  fmt.Sprintf("invalid action %q, must be one of: breakdown, generate", params.Action),
		}, nil
	}
	prompt := strings.TrimSpace(params.Prompt)
	if prompt == "" {
		return &ToolResult{Action: action, Error: "prompt is required", Content: FormatValidationError("prompt", "describe what the add-in should do")}, nil
	}
	if h.Copilot == nil {
		return nil, errors.New("copilot is not configured")
	}

	s := spec.New(prompt)
	switch params.Action {
	case CopilotActionBreakdown:
		result, err := h.Copilot.Breakdown(ctx, s)
		if err != nil && !errors.Is(err, pipeline.ErrUnparseable) {
			return nil, fmt.Errorf("breakdown: %w", err)
		}
		return &ToolResult{Action: action, Content: FormatBreakdown(result)}, nil
	default:
		out, err := h.Copilot.Run(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		return &ToolResult{Action: action, Content: FormatOutcome(out)}, nil
	}
}

// HandleSamplesTool lists, shows or searches reference samples.
func (h *Handlers) HandleSamplesTool(ctx context.Context, params SamplesToolParams) (*ToolResult, error) {
	action := string(params.Action)
	if !params.Action.IsValid() {
		return &ToolResult{
			Action: action,
			Error:  fmt.Sprintf("invalid action %q, must be one of: list, show, search", params.Action),
		}, nil
	}
	if h.Samples == nil {
		return &ToolResult{Action: action, Error: "samples are not configured"}, nil
	}

	switch params.Action {
	case SamplesActionShow:
		id := strings.TrimSpace(params.ID)
		if id == "" {
			return &ToolResult{Action: action, Error: "id is required for show action", Content: FormatValidationError("id", "required for show")}, nil
		}
		sample, ok := h.Samples.Get(id)
		if !ok {
			return &ToolResult{Action: action, Error: fmt.Sprintf("sample %q not found", id)}, nil
		}
		return &ToolResult{Action: action, Content: FormatSample(sample)}, nil

	case SamplesActionSearch:
		if strings.TrimSpace(params.Query) == "" || params.Host == "" {
			return &ToolResult{Action: action, Error: "query and host are required for search action", Content: FormatValidationError("query", "query and host are required")}, nil
		}
		matches, err := h.Samples.Relevant(ctx, samples.Query{
			Text:           params.Query,
			Host:           spec.NormalizeHost(params.Host),
			CustomFunction: params.CustomFunction,
			Limit:          params.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("search samples: %w", err)
		}
		return &ToolResult{Action: action, Content: FormatMatches(matches)}, nil

	default:
		host := params.Host
		if host != "" {
			host = spec.NormalizeHost(host)
		}
		return &ToolResult{Action: action, Content: FormatSampleList(h.Samples.All(host))}, nil
	}
}

// HandleHistoryTool shows one recorded turn or lists recent ones.
func (h *Handlers) HandleHistoryTool(ctx context.Context, params HistoryToolParams) (*ToolResult, error) {
	if h.History == nil {
		return &ToolResult{Action: "history", Error: "history is disabled"}, nil
	}

	if id := strings.TrimSpace(params.ID); id != "" {
		turn, err := h.History.Get(ctx, id)
		if errors.Is(err, history.ErrNotFound) {
			return &ToolResult{Action: "show", Error: fmt.Sprintf("turn %q not found", id)}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get turn: %w", err)
		}
		return &ToolResult{Action: "show", Content: FormatTurn(turn)}, nil
	}

	turns, err := h.History.List(ctx, history.ListOptions{
		Limit:  params.Limit,
		Host:   params.Host,
		Status: params.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return &ToolResult{Action: "list", Content: FormatTurnList(turns)}, nil
}
