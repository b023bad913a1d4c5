// Package policy evaluates Rego guardrails (Open Policy Agent) against
// breakdown results and deploy actions before officekit acts on them.
package policy

import "time"

// Decision results.
const (
	ResultAllow = "allow"
	ResultDeny  = "deny"
)

// Decision is the outcome of evaluating the loaded policies against one input.
type Decision struct {
	DecisionID  string    `json:"decisionId"`
	Package     string    `json:"package"`
	Result      string    `json:"result"`
	Violations  []string  `json:"violations,omitempty"` // deny messages
	Warnings    []string  `json:"warnings,omitempty"`   // warn messages; never block
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// IsAllowed reports whether no deny rule fired.
func (d *Decision) IsAllowed() bool {
	return d.Result == ResultAllow
}

// Input is what Rego policies see as `input`. Exactly one field is set per evaluation.
type Input struct {
	Breakdown *BreakdownInput `json:"breakdown,omitempty"`
	Deploy    *DeployInput    `json:"deploy,omitempty"`
}

// BreakdownInput describes a classified user request.
type BreakdownInput struct {
	UserInput       string   `json:"userInput"`
	Host            string   `json:"host"`
	ShouldContinue  bool     `json:"shouldContinue"`
	CustomFunctions bool     `json:"customFunctions"`
	Complexity      int      `json:"complexity"`
	Tasks           []string `json:"tasks"`
}

// DeployInput describes a pending deploy action.
type DeployInput struct {
	Action      string   `json:"action"`
	Environment string   `json:"environment"`
	ResourceID  string   `json:"resourceId"`
	AppName     string   `json:"appName"`
	BuildDir    string   `json:"buildDir"`
	Files       []string `json:"files,omitempty"`
}
