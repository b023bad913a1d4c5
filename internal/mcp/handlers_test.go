package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

type stubCopilot struct {
	breakdown *spec.BreakdownResult
	outcome   *pipeline.Outcome
	err       error
	calls     int
}

func (s *stubCopilot) Run(context.Context, *spec.Spec) (*pipeline.Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

func (s *stubCopilot) Breakdown(context.Context, *spec.Spec) (*spec.BreakdownResult, error) {
	s.calls++
	return s.breakdown, s.err
}

type stubTurns struct {
	turn *history.Turn
	list []history.TurnSummary
}

func (s *stubTurns) Get(_ context.Context, id string) (*history.Turn, error) {
	if s.turn == nil || s.turn.ID != id {
		return nil, history.ErrNotFound
	}
	return s.turn, nil
}

func (s *stubTurns) List(context.Context, history.ListOptions) ([]history.TurnSummary, error) {
	return s.list, nil
}

func testCatalog() *samples.Provider {
	return samples.NewStaticProvider([]samples.Sample{
		{ID: "excel-chart", Host: "Excel", Description: "Create a column chart", Code: "sheet.charts.add()"},
		{ID: "word-table", Host: "Word", Description: "Insert a table", Code: "body.insertTable()"},
	})
}

func TestHandleCopilotTool_Validation(t *testing.T) {
	c := &stubCopilot{}
	h := &Handlers{Copilot: c}

	res, err := h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: "deploy", Prompt: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Error, "invalid action") {
		t.Errorf("expected invalid action error, got %q", res.Error)
	}

	res, err = h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: CopilotActionGenerate, Prompt: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "prompt is required" {
		t.Errorf("expected prompt error, got %q", res.Error)
	}
	if c.calls != 0 {
		t.Errorf("copilot must not be called on invalid input, got %d calls", c.calls)
	}
}

func TestHandleCopilotTool_Breakdown(t *testing.T) {
	h := &Handlers{Copilot: &stubCopilot{breakdown: &spec.BreakdownResult{Host: "Word", ShouldContinue: true, Complexity: 20}}}

	res, err := h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: CopilotActionBreakdown, Prompt: "insert a table"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "## Word task breakdown") {
		t.Errorf("unexpected content:\n%s", res.Content)
	}
}

func TestHandleCopilotTool_BreakdownUnparseable(t *testing.T) {
	h := &Handlers{Copilot: &stubCopilot{err: pipeline.ErrUnparseable}}

	res, err := h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: CopilotActionBreakdown, Prompt: "x"})
	if err != nil {
		t.Fatalf("unparseable breakdown must not be a tool error: %v", err)
	}
	if !strings.Contains(res.Content, "could not be parsed") {
		t.Errorf("unexpected content:\n%s", res.Content)
	}
}

func TestHandleCopilotTool_GenerateError(t *testing.T) {
	h := &Handlers{Copilot: &stubCopilot{err: errors.New("timeout")}}

	_, err := h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: CopilotActionGenerate, Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected wrapped timeout error, got %v", err)
	}
}

func TestHandleCopilotTool_Generate(t *testing.T) {
	h := &Handlers{Copilot: &stubCopilot{outcome: &pipeline.Outcome{Status: pipeline.StatusGenerated, Code: "x()"}}}

	res, err := h.HandleCopilotTool(context.Background(), CopilotToolParams{Action: CopilotActionGenerate, Prompt: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "```typescript\nx()\n```") {
		t.Errorf("unexpected content:\n%s", res.Content)
	}
}

func TestHandleSamplesTool(t *testing.T) {
	h := &Handlers{Samples: testCatalog()}
	ctx := context.Background()

	res, _ := h.HandleSamplesTool(ctx, SamplesToolParams{Action: SamplesActionList, Host: "word"})
	if !strings.Contains(res.Content, "word-table") || strings.Contains(res.Content, "excel-chart") {
		t.Errorf("list should be filtered to Word:\n%s", res.Content)
	}

	res, _ = h.HandleSamplesTool(ctx, SamplesToolParams{Action: SamplesActionShow, ID: "excel-chart"})
	if !strings.Contains(res.Content, "sheet.charts.add()") {
		t.Errorf("show should include code:\n%s", res.Content)
	}

	res, _ = h.HandleSamplesTool(ctx, SamplesToolParams{Action: SamplesActionShow, ID: "missing"})
	if !strings.Contains(res.Error, "not found") {
		t.Errorf("expected not found, got %q", res.Error)
	}

	res, _ = h.HandleSamplesTool(ctx, SamplesToolParams{Action: SamplesActionSearch, Query: "chart"})
	if res.Error == "" {
		t.Error("search without host must fail validation")
	}

	res, err := h.HandleSamplesTool(ctx, SamplesToolParams{Action: SamplesActionSearch, Query: "column chart", Host: "excel"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "## excel-chart") {
		t.Errorf("search should find the chart sample:\n%s", res.Content)
	}
}

func TestHandleSamplesTool_NotConfigured(t *testing.T) {
	h := &Handlers{}
	res, err := h.HandleSamplesTool(context.Background(), SamplesToolParams{Action: SamplesActionList})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error == "" {
		t.Error("expected error when samples are missing")
	}
}

func TestHandleHistoryTool(t *testing.T) {
	turns := &stubTurns{
		turn: &history.Turn{ID: "abc", Status: "generated", UserInput: "chart", Code: "x()"},
		list: []history.TurnSummary{{ID: "abc", Status: "generated"}},
	}
	h := &Handlers{History: turns}
	ctx := context.Background()

	res, _ := h.HandleHistoryTool(ctx, HistoryToolParams{})
	if res.Action != "list" || !strings.Contains(res.Content, "`abc`") {
		t.Errorf("unexpected list result: %+v", res)
	}

	res, _ = h.HandleHistoryTool(ctx, HistoryToolParams{ID: "abc"})
	if res.Action != "show" || !strings.Contains(res.Content, "x()") {
		t.Errorf("unexpected show result: %+v", res)
	}

	res, _ = h.HandleHistoryTool(ctx, HistoryToolParams{ID: "zzz"})
	if !strings.Contains(res.Error, "not found") {
		t.Errorf("expected not found, got %+v", res)
	}
}
