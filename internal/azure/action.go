/*
Package azure deploys officekit projects to Azure.

Each resource kind is an Action with two halves: Plan describes the effect
without touching anything, Execute performs it. Preconditions (a missing
build directory, a missing provisioning output) are reported as typed
errors before any network call is made.
*/
package azure

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/policy"
)

// Effect describes one change an action makes or would make.
type Effect struct {
	Action      string `json:"action"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

func (e Effect) String() string { return e.Description }

// PolicyEvaluator checks a pending deploy against local guardrails.
type PolicyEvaluator interface {
	EvaluateDeploy(ctx context.Context, in policy.DeployInput) (*policy.Decision, error)
}

// Context is the environment an action runs in.
type Context struct {
	Fs          afero.Fs
	ProjectDir  string
	Environment string
	Outputs     Outputs
	Policy      PolicyEvaluator // optional
	Logger      *zap.Logger
}

// Path resolves p against the project directory.
func (c *Context) Path(p string) string {
	if filepath.IsAbs(p) || c.ProjectDir == "" {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

func (c *Context) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Action is one provisioning or deployment step.
type Action interface {
	Name() string
	// Plan returns the intended effects without performing them.
	Plan(ctx context.Context, actx *Context) ([]Effect, error)
	// Execute performs the action and returns what it did.
	Execute(ctx context.Context, actx *Context) ([]Effect, error)
}

// ErrNoContext is returned when an action runs without a Context.
var ErrNoContext = errors.New("azure: nil action context")
