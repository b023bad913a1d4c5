package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/utils"
)

// ModelSource hands out the chat model for a pipeline role.
type ModelSource interface {
	ChatModel(ctx context.Context, role llm.Role) (model.BaseChatModel, string, error)
}

// Breakdown classifies a request: host, complexity, accept or reject, sub-tasks.
type Breakdown struct {
	models ModelSource
	log    *zap.Logger
}

// NewBreakdown creates the task breakdown stage.
func NewBreakdown(models ModelSource, log *zap.Logger) *Breakdown {
	if log == nil {
		log = zap.NewNop()
	}
	return &Breakdown{models: models, log: log}
}

// breakdownResponse mirrors spec.BreakdownResult with pointers so absent
// fields can be told apart from zero values.
type breakdownResponse struct {
	Host            *string  `json:"host"`
	ShouldContinue  *bool    `json:"shouldContinue"`
	CustomFunctions bool     `json:"customFunctions"`
	Complexity      *int     `json:"complexity"`
	Data            []string `json:"data"`
}

// ParseBreakdown decodes a model response. The trimmed text is tried as JSON
// first, then the first ```json fenced block. No repair is attempted. The
// value must be an object carrying host, shouldContinue and complexity; JSON
// null, other value kinds and objects missing those keys are unparseable.
func ParseBreakdown(raw string) (*spec.BreakdownResult, error) {
	r, err := utils.ParseJSONWithFenceFallback[breakdownResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	var missing []string
	if r.Host == nil {
		missing = append(missing, "host")
	}
	if r.ShouldContinue == nil {
		missing = append(missing, "shouldContinue")
	}
	if r.Complexity == nil {
		missing = append(missing, "complexity")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrUnparseable, strings.Join(missing, ", "))
	}
	return &spec.BreakdownResult{
		Host:            spec.NormalizeHost(*r.Host),
		ShouldContinue:  *r.ShouldContinue,
		CustomFunctions: r.CustomFunctions,
		Complexity:      *r.Complexity,
		Data:            r.Data,
	}, nil
}

// Run sends the request to the breakdown model and copies the result into s.
// A response that cannot be decoded yields (nil, ErrUnparseable) and leaves s untouched.
func (b *Breakdown) Run(ctx context.Context, s *spec.Spec) (*spec.BreakdownResult, error) {
	if strings.TrimSpace(s.UserInput) == "" {
		return nil, fmt.Errorf("breakdown: empty request")
	}

	chatModel, modelID, err := b.models.ChatModel(ctx, llm.RoleBreakdown)
	if err != nil {
		return nil, err
	}

	chain, err := NewChain(ctx, "breakdown", chatModel,
		config.SystemPromptBreakdown, config.UserPromptBreakdown, ParseBreakdown)
	if err != nil {
		return nil, err
	}

	res, elapsed, err := chain.Invoke(ctx, map[string]any{"UserInput": s.UserInput})
	s.Appendix.Telemetry.IncrementMeasurement(spec.MeasureLLMCalls, 1)
	s.Appendix.Telemetry.IncrementMeasurement(spec.MeasureBreakdownDurationMs, float64(elapsed.Milliseconds()))
	s.Appendix.Telemetry.SetProperty("breakdownModel", modelID)
	if err != nil {
		return nil, err
	}

	if res.ParseErr != nil {
		b.log.Warn("breakdown response unparseable",
			zap.String("spec_id", s.ID),
			zap.String("model", modelID),
			zap.String("raw", utils.Truncate(res.Raw, 500)),
			zap.Error(res.ParseErr))
		return nil, res.ParseErr
	}

	b.log.Debug("breakdown complete",
		zap.String("spec_id", s.ID),
		zap.String("host", res.Parsed.Host),
		zap.Int("complexity", res.Parsed.Complexity),
		zap.Bool("continue", res.Parsed.ShouldContinue),
		zap.Duration("elapsed", elapsed))

	s.ApplyBreakdown(res.Parsed)
	return res.Parsed, nil
}
