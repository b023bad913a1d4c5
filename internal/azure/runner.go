package azure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/telemetry"
)

// Tracker receives one event per action run.
type Tracker interface {
	Track(event string, props map[string]any)
}

// Runner runs actions in order. The first error stops the run.
type Runner struct {
	Actions []Action
	DryRun  bool
	Tracker Tracker // optional
	// OnEffect is called for every planned or executed effect.
	OnEffect func(Effect)
}

// Run plans (DryRun) or executes every action.
func (r *Runner) Run(ctx context.Context, actx *Context) ([]Effect, error) {
	if actx == nil {
		return nil, ErrNoContext
	}
	var all []Effect
	for _, a := range r.Actions {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		var (
			effects []Effect
			err     error
		)
		if r.DryRun {
			effects, err = a.Plan(ctx, actx)
		} else {
			effects, err = a.Execute(ctx, actx)
		}
		r.track(a.Name(), actx.Environment, len(effects), err)
		if err != nil {
			actx.log().Error("action failed", zap.String("action", a.Name()), zap.Error(err))
			return all, fmt.Errorf("%s: %w", a.Name(), err)
		}

		for _, e := range effects {
			if r.OnEffect != nil {
				r.OnEffect(e)
			}
		}
		all = append(all, effects...)
	}
	return all, nil
}

func (r *Runner) track(action, environment string, effects int, err error) {
	if r.Tracker == nil {
		return
	}
	r.Tracker.Track(telemetry.EventDeployAction, telemetry.DeployProps(action, environment, r.DryRun, effects, err))
}
