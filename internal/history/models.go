// Package history persists copilot turns in a local SQLite database so they
// can be listed, inspected and served back over the API.
package history

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a turn id does not exist.
var ErrNotFound = errors.New("turn not found")

// Turn is one recorded copilot request and what came of it.
type Turn struct {
	ID               string             `json:"id"`
	UserInput        string             `json:"userInput"`
	Status           string             `json:"status"`
	Host             string             `json:"host,omitempty"`
	Complexity       int                `json:"complexity"`
	ShouldContinue   bool               `json:"shouldContinue"`
	IsCustomFunction bool               `json:"isCustomFunction"`
	Tasks            []string           `json:"tasks,omitempty"`
	Code             string             `json:"code,omitempty"`
	Model            string             `json:"model,omitempty"`
	SampleIDs        []string           `json:"sampleIds,omitempty"`
	Properties       map[string]string  `json:"properties,omitempty"`
	Measurements     map[string]float64 `json:"measurements,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// TurnSummary is the list view of a turn.
type TurnSummary struct {
	ID         string    `json:"id"`
	UserInput  string    `json:"userInput"`
	Status     string    `json:"status"`
	Host       string    `json:"host,omitempty"`
	Complexity int       `json:"complexity"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListOptions filters List. Zero values mean no filter; Limit defaults to 20.
type ListOptions struct {
	Limit  int
	Host   string
	Status string
}

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20
