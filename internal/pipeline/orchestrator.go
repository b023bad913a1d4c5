package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/policy"
	"github.com/josephgoksu/officekit/internal/spec"
)

// Status is the final state of one copilot turn.
type Status string

const (
	StatusRejected        Status = "rejected"
	StatusGenerated       Status = "generated"
	StatusBreakdownFailed Status = "breakdown_failed"
	StatusCodegenFailed   Status = "codegen_failed"
	StatusError           Status = "error"
)

// Stage names reported to a Reporter.
type Stage string

const (
	StageBreakdown Stage = "breakdown"
	StagePolicy    Stage = "policy"
	StageCodegen   Stage = "codegen"
)

// EventCopilotTurn is the telemetry event emitted once per turn.
const EventCopilotTurn = "copilot_turn"

// Reporter receives stage progress.
type Reporter interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage, err error)
}

// Recorder persists a finished turn.
type Recorder interface {
	Record(ctx context.Context, s *spec.Spec, status string) error
}

// Tracker sends anonymous usage events.
type Tracker interface {
	Track(event string, props map[string]any)
}

// PolicyEvaluator checks an accepted breakdown against local guardrails.
type PolicyEvaluator interface {
	EvaluateBreakdown(ctx context.Context, in policy.BreakdownInput) (*policy.Decision, error)
}

// Outcome summarizes a turn for callers.
type Outcome struct {
	SpecID     string                `json:"specId"`
	Status     Status                `json:"status"`
	Breakdown  *spec.BreakdownResult `json:"breakdown,omitempty"`
	Code       string                `json:"code,omitempty"`
	Model      string                `json:"model,omitempty"`
	SampleIDs  []string              `json:"sampleIds,omitempty"`
	Violations []string              `json:"violations,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
	Duration   time.Duration         `json:"duration"`
}

// Config wires the orchestrator. Only Models is required.
type Config struct {
	Models      ModelSource
	Samples     SampleSource
	Policy      PolicyEvaluator
	Recorder    Recorder
	Tracker     Tracker
	Reporter    Reporter
	SampleLimit int
	// StageTimeout bounds each model call; zero means no extra deadline.
	StageTimeout time.Duration
	Logger       *zap.Logger
}

// Orchestrator runs breakdown, policy and code generation in order.
type Orchestrator struct {
	breakdown *Breakdown
	codegen   *Codegen
	cfg       Config
	log       *zap.Logger
}

// New creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Models == nil {
		return nil, ErrNoModels
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Named("pipeline")
	}
	return &Orchestrator{
		breakdown: NewBreakdown(cfg.Models, log),
		codegen:   NewCodegen(cfg.Models, cfg.Samples, cfg.SampleLimit, log),
		cfg:       cfg,
		log:       log,
	}, nil
}

// Breakdown runs only the breakdown stage.
func (o *Orchestrator) Breakdown(ctx context.Context, s *spec.Spec) (*spec.BreakdownResult, error) {
	var r *spec.BreakdownResult
	err := o.stage(ctx, StageBreakdown, func(ctx context.Context) error {
		var err error
		r, err = o.breakdown.Run(ctx, s)
		return err
	})
	if errors.Is(err, ErrUnparseable) {
		s.Appendix.Telemetry.IncrementMeasurement(spec.MeasureBreakdownParseFailures, 1)
	}
	return r, err
}

// Run executes one full turn. Parse failures are reported through the
// outcome status; transport, policy engine and context errors are returned.
func (o *Orchestrator) Run(ctx context.Context, s *spec.Spec) (*Outcome, error) {
	start := time.Now()
	logger.SetTurn(s.ID, s.UserInput)

	out, err := o.run(ctx, s)
	if out == nil {
		out = &Outcome{SpecID: s.ID, Status: StatusError}
	}
	out.Duration = time.Since(start)

	o.finish(ctx, s, out, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, s *spec.Spec) (*Outcome, error) {
	out := &Outcome{SpecID: s.ID}

	breakdown, err := o.Breakdown(ctx, s)
	if errors.Is(err, ErrUnparseable) {
		out.Status = StatusBreakdownFailed
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Breakdown = breakdown

	if !breakdown.ShouldContinue {
		out.Status = StatusRejected
		return out, nil
	}

	if o.cfg.Policy != nil {
		var decision *policy.Decision
		err := o.stage(ctx, StagePolicy, func(ctx context.Context) error {
			var err error
			decision, err = o.cfg.Policy.EvaluateBreakdown(ctx, policy.BreakdownInput{
				UserInput:       s.UserInput,
				Host:            breakdown.Host,
				ShouldContinue:  breakdown.ShouldContinue,
				CustomFunctions: breakdown.CustomFunctions,
				Complexity:      breakdown.Complexity,
				Tasks:           breakdown.Data,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("evaluate policy: %w", err)
		}
		out.Warnings = decision.Warnings
		if !decision.IsAllowed() {
			s.Appendix.ShouldContinue = false
			s.Appendix.Telemetry.IncrementMeasurement(spec.MeasurePolicyViolations, float64(len(decision.Violations)))
			s.Appendix.Telemetry.SetProperty("policyDecision", decision.DecisionID)
			out.Violations = decision.Violations
			out.Status = StatusRejected
			return out, nil
		}
	}

	var gen *Generated
	err = o.stage(ctx, StageCodegen, func(ctx context.Context) error {
		var err error
		gen, err = o.codegen.Run(ctx, s)
		return err
	})
	out.Model = s.Appendix.Model
	out.SampleIDs = s.Appendix.SampleIDs
	if errors.Is(err, ErrNoCodeBlock) {
		s.Appendix.Telemetry.IncrementMeasurement(spec.MeasureCodegenParseFailures, 1)
		out.Status = StatusCodegenFailed
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Code = gen.Code
	out.Status = StatusGenerated
	return out, nil
}

// stage wraps one step with progress reporting and the per-stage deadline.
func (o *Orchestrator) stage(ctx context.Context, name Stage, fn func(context.Context) error) error {
	if o.cfg.Reporter != nil {
		o.cfg.Reporter.StageStarted(name)
	}
	if o.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.StageTimeout)
		defer cancel()
	}
	err := fn(ctx)
	if o.cfg.Reporter != nil {
		o.cfg.Reporter.StageFinished(name, err)
	}
	return err
}

// finish records the turn and emits telemetry. Failures here never fail the turn.
func (o *Orchestrator) finish(ctx context.Context, s *spec.Spec, out *Outcome, runErr error) {
	s.Appendix.Telemetry.SetProperty("status", string(out.Status))

	if o.cfg.Recorder != nil {
		if err := o.cfg.Recorder.Record(context.WithoutCancel(ctx), s, string(out.Status)); err != nil {
			o.log.Warn("record turn", zap.String("spec_id", s.ID), zap.Error(err))
		}
	}

	if o.cfg.Tracker != nil {
		props := s.Appendix.Telemetry.Snapshot()
		props["durationMs"] = out.Duration.Milliseconds()
		if runErr != nil {
			props["error"] = true
		}
		o.cfg.Tracker.Track(EventCopilotTurn, props)
	}

	o.log.Info("turn finished",
		zap.String("spec_id", s.ID),
		zap.String("status", string(out.Status)),
		zap.Duration("duration", out.Duration),
		zap.Error(runErr))
}
