package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/utils"
)

// SampleSource supplies reference snippets for code generation.
type SampleSource interface {
	Relevant(ctx context.Context, q samples.Query) ([]samples.Match, error)
}

// Generated is the code generation stage output.
type Generated struct {
	Code      string   `json:"code"`
	Model     string   `json:"model"`
	SampleIDs []string `json:"sampleIds,omitempty"`
}

// Codegen turns an accepted breakdown into TypeScript.
type Codegen struct {
	models  ModelSource
	samples SampleSource
	limit   int
	log     *zap.Logger
}

// NewCodegen creates the code generation stage. samples may be nil. limit is
// clamped to config.MaxSampleTopK.
func NewCodegen(models ModelSource, src SampleSource, limit int, log *zap.Logger) *Codegen {
	if limit <= 0 {
		limit = config.DefaultSampleTopK
	}
	limit = min(limit, config.MaxSampleTopK)
	if log == nil {
		log = zap.NewNop()
	}
	return &Codegen{models: models, samples: src, limit: limit, log: log}
}

// CodegenRole picks the model role for a complexity score: the advanced
// role strictly above the threshold, the standard one otherwise.
func CodegenRole(complexity int) llm.Role {
	if spec.NeedsAdvancedModel(complexity) {
		return llm.RoleCodegenAdvanced
	}
	return llm.RoleCodegen
}

// ExtractCode returns the first ```typescript block of a response.
func ExtractCode(raw string) (string, error) {
	code, ok := utils.ExtractTypeScriptBlock(raw)
	if !ok || code == "" {
		return "", ErrNoCodeBlock
	}
	return code, nil
}

type promptSample struct {
	Description string
	Code        string
}

// Run generates code for the breakdown stored in s. A response without a
// typescript block yields (nil, ErrNoCodeBlock).
func (g *Codegen) Run(ctx context.Context, s *spec.Spec) (*Generated, error) {
	app := &s.Appendix
	if len(app.CodeTaskBreakdown) == 0 {
		return nil, fmt.Errorf("codegen: no sub-tasks to implement")
	}

	refs, err := g.references(ctx, s)
	if err != nil {
		return nil, err
	}

	role := CodegenRole(app.Complexity)
	chatModel, modelID, err := g.models.ChatModel(ctx, role)
	if err != nil {
		return nil, err
	}
	app.Model = modelID
	app.Telemetry.SetProperty("codegenModel", modelID)
	app.Telemetry.SetProperty("codegenRole", string(role))

	chain, err := NewChain(ctx, "codegen", chatModel,
		config.SystemPromptCodegen, config.UserPromptCodegen, ExtractCode)
	if err != nil {
		return nil, err
	}

	res, elapsed, err := chain.Invoke(ctx, map[string]any{
		"Host":      hostLabel(app.Host),
		"HostGuide": config.CodegenHostGuide(app.Host, app.IsCustomFunction),
		"Samples":   refs,
		"UserInput": s.UserInput,
		"Tasks":     app.CodeTaskBreakdown,
	})
	app.Telemetry.IncrementMeasurement(spec.MeasureLLMCalls, 1)
	app.Telemetry.IncrementMeasurement(spec.MeasureCodegenDurationMs, float64(elapsed.Milliseconds()))
	if err != nil {
		return nil, err
	}

	if res.ParseErr != nil {
		g.log.Warn("codegen response has no code block",
			zap.String("spec_id", s.ID),
			zap.String("model", modelID),
			zap.String("raw", utils.Truncate(res.Raw, 500)))
		return nil, res.ParseErr
	}

	app.CodeSnippet = res.Parsed
	g.log.Debug("codegen complete",
		zap.String("spec_id", s.ID),
		zap.String("role", string(role)),
		zap.Int("code_tokens", llm.EstimateTokens(res.Parsed)),
		zap.Duration("elapsed", elapsed))

	return &Generated{Code: res.Parsed, Model: modelID, SampleIDs: app.SampleIDs}, nil
}

// references fetches the top samples and records which ones were used.
// A sample lookup failure degrades to no references.
func (g *Codegen) references(ctx context.Context, s *spec.Spec) ([]promptSample, error) {
	if g.samples == nil {
		return nil, nil
	}
	app := &s.Appendix
	matches, err := g.samples.Relevant(ctx, samples.Query{
		Text:           s.UserInput + "\n" + strings.Join(app.CodeTaskBreakdown, "\n"),
		Host:           app.Host,
		CustomFunction: app.IsCustomFunction,
		Limit:          g.limit,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Warn("sample lookup failed", zap.String("spec_id", s.ID), zap.Error(err))
		return nil, nil
	}

	if len(matches) > g.limit {
		matches = matches[:g.limit]
	}
	refs := make([]promptSample, 0, len(matches))
	app.SampleIDs = app.SampleIDs[:0]
	for _, m := range matches {
		refs = append(refs, promptSample{Description: m.Sample.Description, Code: m.Sample.Code})
		app.SampleIDs = append(app.SampleIDs, m.Sample.ID)
	}
	app.Telemetry.IncrementMeasurement(spec.MeasureSamplesUsed, float64(len(refs)))
	return refs, nil
}

func hostLabel(host string) string {
	if host == "" {
		return "Office"
	}
	return host
}
