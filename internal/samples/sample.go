// Package samples provides the static catalogue of Office JavaScript API
// snippets used as reference material for code generation.
package samples

import "strings"

// Sample is a read-only API usage snippet with a natural-language description.
type Sample struct {
	ID             string   `yaml:"id" json:"id"`
	Host           string   `yaml:"host" json:"host"`
	Description    string   `yaml:"description" json:"description"`
	Code           string   `yaml:"code" json:"code"`
	CustomFunction bool     `yaml:"customFunction" json:"customFunction"`
	Tags           []string `yaml:"tags" json:"tags,omitempty"`
}

// document is the text a sample is ranked on.
func (s Sample) document() string {
	return s.Description + " " + strings.Join(s.Tags, " ")
}

// Query selects reference samples for one code generation request.
type Query struct {
	Text           string // sub-tasks and user request
	Host           string
	CustomFunction bool
	Limit          int
}

// Match is a sample with its relevance score.
type Match struct {
	Sample Sample  `json:"sample"`
	Score  float64 `json:"score"`
}

type catalogFile struct {
	Samples []Sample `yaml:"samples"`
}
