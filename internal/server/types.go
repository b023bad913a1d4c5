package server

import (
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

// PromptRequest is the payload of /api/breakdown and /api/generate.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// BreakdownResponse is returned by /api/breakdown. Breakdown is null when the
// model answer could not be parsed.
type BreakdownResponse struct {
	SpecID    string                `json:"specId"`
	Breakdown *spec.BreakdownResult `json:"breakdown"`
	Band      spec.Band             `json:"band,omitempty"`
	Advanced  bool                  `json:"advancedModel"`
}

// GenerateResponse is returned by /api/generate.
type GenerateResponse struct {
	*pipeline.Outcome
	DurationMs int64 `json:"durationMs"`
}

// SampleSearchRequest is the payload of /api/samples/search.
type SampleSearchRequest struct {
	Text           string `json:"text"`
	Host           string `json:"host"`
	CustomFunction bool   `json:"customFunction"`
	Limit          int    `json:"limit"`
}

// SampleSearchResponse is returned by /api/samples/search.
type SampleSearchResponse struct {
	Matches []samples.Match `json:"matches"`
}

type errorResponse struct {
	Error string `json:"error"`
}
