package policy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/tester"
	"github.com/open-policy-agent/opa/v1/topdown"
	"github.com/spf13/afero"
)

// TestResult is the outcome of one Rego test rule.
type TestResult struct {
	Name     string        `json:"name"` // e.g. "test_deny_large_request"
	Package  string        `json:"package"`
	Passed   bool          `json:"passed"`
	Failed   bool          `json:"failed"`
	Skipped  bool          `json:"skipped"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	Output   []string      `json:"output,omitempty"` // trace notes
}

// TestSummary aggregates a test run.
type TestSummary struct {
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Errored  int           `json:"errored"`
	Total    int           `json:"total"`
	Duration time.Duration `json:"duration"`
	Results  []*TestResult `json:"results"`
}

// TestRunner runs the test_ rules found in *_test.rego files alongside the policies.
type TestRunner struct {
	loader *Loader
	dir    string
}

// NewTestRunner creates a runner over the policies directory.
func NewTestRunner(fs afero.Fs, dir string) *TestRunner {
	return &TestRunner{loader: NewLoader(fs, dir), dir: dir}
}

// Run compiles every module in the directory and executes its tests.
func (r *TestRunner) Run(ctx context.Context) (*TestSummary, error) {
	start := time.Now()

	files, err := r.loader.LoadAll()
	if err != nil {
		return nil, err
	}
	modules := make(map[string]*ast.Module, len(files))
	for _, f := range files {
		m, err := ast.ParseModule(f.Path, f.Content)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Path, err)
		}
		name, relErr := filepath.Rel(r.dir, f.Path)
		if relErr != nil || name == "" {
			name = f.Path
		}
		modules[name] = m
	}

	summary := &TestSummary{Results: []*TestResult{}}
	if len(modules) == 0 {
		summary.Duration = time.Since(start)
		return summary, nil
	}

	compiler := ast.NewCompiler()
	compiler.Compile(modules)
	if compiler.Failed() {
		msgs := make([]string, 0, len(compiler.Errors))
		for _, e := range compiler.Errors {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("compile policies: %s", strings.Join(msgs, "; "))
	}

	runner := tester.NewRunner().
		SetCompiler(compiler).
		SetModules(modules).
		EnableTracing(true).
		SetTimeout(30 * time.Second)

	ch, err := runner.RunTests(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("run tests: %w", err)
	}

	for tr := range ch {
		res := &TestResult{Name: tr.Name, Package: tr.Package, Duration: tr.Duration}
		switch {
		case tr.Skip:
			res.Skipped = true
			summary.Skipped++
		case tr.Error != nil:
			res.Error = tr.Error.Error()
			summary.Errored++
		case tr.Fail:
			res.Failed = true
			summary.Failed++
		default:
			res.Passed = true
			summary.Passed++
		}
		for _, evt := range tr.Trace {
			if evt.Op == topdown.NoteOp && evt.Message != "" {
				res.Output = append(res.Output, evt.Message)
			}
		}
		summary.Results = append(summary.Results, res)
		summary.Total++
	}
	summary.Duration = time.Since(start)
	return summary, nil
}

// AllPassed reports whether no test failed or errored.
func (s *TestSummary) AllPassed() bool {
	return s.Failed == 0 && s.Errored == 0
}

// FormatSummary returns a one-line human-readable summary.
func (s *TestSummary) FormatSummary() string {
	if s.Total == 0 {
		return "No tests found.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tests, %d passed", s.Total, s.Passed)
	if s.Failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", s.Failed)
	}
	if s.Errored > 0 {
		fmt.Fprintf(&sb, ", %d errored", s.Errored)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(&sb, ", %d skipped", s.Skipped)
	}
	fmt.Fprintf(&sb, " in %s\n", s.Duration.Round(time.Millisecond))
	return sb.String()
}
