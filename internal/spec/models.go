/*
Package spec holds the request-scoped state shared by the copilot stages.

A Spec lives for exactly one user turn. The breakdown and code generation
stages receive the same pointer and write their results into its Appendix.
*/
package spec

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Telemetry measurement names accumulated on the appendix.
const (
	MeasureBreakdownParseFailures = "breakdownParseFailures"
	MeasureCodegenParseFailures   = "codegenParseFailures"
	MeasureLLMCalls               = "llmCalls"
	MeasureBreakdownDurationMs    = "breakdownDurationMs"
	MeasureCodegenDurationMs      = "codegenDurationMs"
	MeasurePolicyViolations       = "policyViolations"
	MeasureSamplesUsed            = "samplesUsed"
)

// Spec is the shared mutable per-request state.
type Spec struct {
	ID        string    `json:"id"`
	UserInput string    `json:"user_input"`
	CreatedAt time.Time `json:"created_at"`
	Appendix  Appendix  `json:"appendix"`
}

// Appendix accumulates everything the stages learn about the request.
type Appendix struct {
	Host              string    `json:"host,omitempty"`
	ShouldContinue    bool      `json:"should_continue"`
	Complexity        int       `json:"complexity"`
	IsCustomFunction  bool      `json:"is_custom_function"`
	CodeTaskBreakdown []string  `json:"code_task_breakdown,omitempty"`
	CodeSnippet       string    `json:"code_snippet,omitempty"`
	SampleIDs         []string  `json:"sample_ids,omitempty"`
	Model             string    `json:"model,omitempty"`
	Telemetry         Telemetry `json:"telemetry"`
}

// Telemetry carries string properties and numeric measurements for one turn.
// Guarded by a mutex because progress views read it while a stage writes.
type Telemetry struct {
	mu           sync.Mutex
	Properties   map[string]string  `json:"properties"`
	Measurements map[string]float64 `json:"measurements"`
}

// New creates a Spec for a single user turn.
func New(userInput string) *Spec {
	return &Spec{
		ID:        uuid.New().String(),
		UserInput: userInput,
		CreatedAt: time.Now().UTC(),
		Appendix: Appendix{
			Telemetry: Telemetry{
				Properties:   make(map[string]string),
				Measurements: make(map[string]float64),
			},
		},
	}
}

// SetProperty records a telemetry property.
func (t *Telemetry) SetProperty(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Properties == nil {
		t.Properties = make(map[string]string)
	}
	t.Properties[key] = value
}

// IncrementMeasurement adds delta to a named measurement.
func (t *Telemetry) IncrementMeasurement(name string, delta float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Measurements == nil {
		t.Measurements = make(map[string]float64)
	}
	t.Measurements[name] += delta
}

// Measurement returns the current value of a measurement (0 if unset).
func (t *Telemetry) Measurement(name string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Measurements[name]
}

// Snapshot returns copies of properties and measurements merged into a
// single map suitable for event properties.
func (t *Telemetry) Snapshot() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]any, len(t.Properties)+len(t.Measurements))
	for k, v := range t.Properties {
		out[k] = v
	}
	for k, v := range t.Measurements {
		out[k] = v
	}
	return out
}

// ApplyBreakdown copies an accepted or rejected breakdown into the appendix.
func (s *Spec) ApplyBreakdown(r *BreakdownResult) {
	if r == nil {
		return
	}
	s.Appendix.Host = r.Host
	s.Appendix.ShouldContinue = r.ShouldContinue
	s.Appendix.Complexity = r.Complexity
	s.Appendix.IsCustomFunction = r.CustomFunctions
	s.Appendix.CodeTaskBreakdown = append([]string(nil), r.Data...)
	s.Appendix.Telemetry.SetProperty("host", r.Host)
	s.Appendix.Telemetry.SetProperty("complexityBand", string(ComplexityBand(r.Complexity)))
}
