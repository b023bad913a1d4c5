// Package mcp provides the tool parameters, handlers and Markdown presenters
// for the officekit MCP server.
package mcp

// CopilotAction defines the valid actions for the copilot tool.
type CopilotAction string

const (
	CopilotActionBreakdown CopilotAction = "breakdown"
	CopilotActionGenerate  CopilotAction = "generate"
)

// IsValid checks if the action is a valid copilot action.
func (a CopilotAction) IsValid() bool {
	switch a {
	case CopilotActionBreakdown, CopilotActionGenerate:
		return true
	}
	return false
}

// SamplesAction defines the valid actions for the samples tool.
type SamplesAction string

const (
	SamplesActionList   SamplesAction = "list"
	SamplesActionShow   SamplesAction = "show"
	SamplesActionSearch SamplesAction = "search"
)

// IsValid checks if the action is a valid samples action.
func (a SamplesAction) IsValid() bool {
	switch a {
	case SamplesActionList, SamplesActionShow, SamplesActionSearch:
		return true
	}
	return false
}

// CopilotToolParams defines the parameters for the copilot tool.
type CopilotToolParams struct {
	// Action specifies which operation to perform.
	// Required. One of: breakdown, generate
	Action CopilotAction `json:"action"`

	// Prompt is the natural-language add-in request.
	// Required.
	Prompt string `json:"prompt"`
}

// SamplesToolParams defines the parameters for the samples tool.
type SamplesToolParams struct {
	// Action specifies which operation to perform.
	// Required. One of: list, show, search
	Action SamplesAction `json:"action"`

	// Host filters by Office host (Excel, Word, PowerPoint, Outlook).
	// Optional for: list. Required for: search
	Host string `json:"host,omitempty"`

	// ID is the sample identifier.
	// Required for: show
	ID string `json:"id,omitempty"`

	// Query is the text samples are ranked against.
	// Required for: search
	Query string `json:"query,omitempty"`

	// CustomFunction restricts search to Excel custom function samples.
	CustomFunction bool `json:"custom_function,omitempty"`

	// Limit caps search results (default: 2).
	Limit int `json:"limit,omitempty"`
}

// HistoryToolParams defines the parameters for the history tool.
// An empty ID lists recent turns.
type HistoryToolParams struct {
	ID     string `json:"id,omitempty"`
	Host   string `json:"host,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ToolResult is the response shared by every officekit tool.
type ToolResult struct {
	Action  string `json:"action"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
