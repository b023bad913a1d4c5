package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/spf13/afero"
)

// DefaultPackage is the Rego package officekit queries.
const DefaultPackage = "officekit.policy"

// Engine evaluates the `deny` and `warn` sets of a policy package.
// Evaluation is local; policies never reach the network.
type Engine struct {
	pkg   string
	files []*File
	deny  *rego.PreparedEvalQuery
	warn  *rego.PreparedEvalQuery
}

// EngineConfig holds configuration for creating an Engine.
type EngineConfig struct {
	Fs      afero.Fs // defaults to the OS filesystem
	Dir     string   // directory of .rego files; empty or missing means allow-all
	Package string   // defaults to DefaultPackage
}

// NewEngine loads and compiles policies from cfg.Dir.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	files, err := NewLoader(cfg.Fs, cfg.Dir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return NewEngineWithPolicies(ctx, cfg.Package, files)
}

// NewEngineWithPolicies compiles the given policy files. Test files are skipped.
func NewEngineWithPolicies(ctx context.Context, pkg string, files []*File) (*Engine, error) {
	if pkg == "" {
		pkg = DefaultPackage
	}
	e := &Engine{pkg: pkg}
	for _, f := range files {
		if !f.IsTest() {
			e.files = append(e.files, f)
		}
	}
	if len(e.files) == 0 {
		return e, nil
	}

	var err error
	if e.deny, err = e.prepare(ctx, "deny"); err != nil {
		return nil, err
	}
	if e.warn, err = e.prepare(ctx, "warn"); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) prepare(ctx context.Context, rule string) (*rego.PreparedEvalQuery, error) {
	opts := []func(*rego.Rego){rego.Query(fmt.Sprintf("data.%s.%s", e.pkg, rule))}
	for _, f := range e.files {
		opts = append(opts, rego.Module(f.Path, f.Content))
	}
	pq, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile policies (%s): %w", rule, err)
	}
	return &pq, nil
}

// PolicyCount returns the number of loaded (non-test) policy files.
func (e *Engine) PolicyCount() int {
	return len(e.files)
}

// Evaluate runs the deny and warn rules against input.
// Any deny message makes the decision a deny; warnings are informational.
func (e *Engine) Evaluate(ctx context.Context, input Input) (*Decision, error) {
	d := &Decision{
		DecisionID:  uuid.New().String(),
		Package:     e.pkg,
		Result:      ResultAllow,
		EvaluatedAt: time.Now().UTC(),
	}
	if len(e.files) == 0 {
		return d, nil
	}

	violations, err := querySet(ctx, e.deny, input)
	if err != nil {
		return nil, fmt.Errorf("query deny rules: %w", err)
	}
	warnings, err := querySet(ctx, e.warn, input)
	if err != nil {
		return nil, fmt.Errorf("query warn rules: %w", err)
	}

	d.Violations = violations
	d.Warnings = warnings
	if len(violations) > 0 {
		d.Result = ResultDeny
	}
	return d, nil
}

// EvaluateBreakdown checks a classified request.
func (e *Engine) EvaluateBreakdown(ctx context.Context, in BreakdownInput) (*Decision, error) {
	return e.Evaluate(ctx, Input{Breakdown: &in})
}

// EvaluateDeploy checks a pending deploy action.
func (e *Engine) EvaluateDeploy(ctx context.Context, in DeployInput) (*Decision, error) {
	return e.Evaluate(ctx, Input{Deploy: &in})
}

// querySet collects the string members of a set rule. An undefined rule yields nil.
func querySet(ctx context.Context, pq *rego.PreparedEvalQuery, input Input) ([]string, error) {
	rs, err := pq.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			set, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, item := range set {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out, nil
}

// ValidatePolicy checks that content is syntactically valid Rego.
func ValidatePolicy(ctx context.Context, name, content string) error {
	_, err := rego.New(
		rego.Query("data"),
		rego.Module(name, content),
	).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("invalid policy %s: %w", name, err)
	}
	return nil
}
