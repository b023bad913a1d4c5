package azure

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/policy"
)

// ActionFunctionDeploy is the name of FunctionDeployAction.
const ActionFunctionDeploy = "deploy-function"

// FunctionDeployAction zips a build directory and pushes it to the function
// app named by the API_FUNCTION_RESOURCE_ID and API_FUNCTION_ENDPOINT
// provisioning outputs.
type FunctionDeployAction struct {
	BuildDir string // relative to the project directory
	Deployer Deployer
}

// Name implements Action.
func (a *FunctionDeployAction) Name() string { return ActionFunctionDeploy }

// Plan implements Action.
func (a *FunctionDeployAction) Plan(ctx context.Context, actx *Context) ([]Effect, error) {
	if actx == nil {
		return nil, ErrNoContext
	}
	app, err := a.target(actx)
	if err != nil {
		return nil, err
	}
	return []Effect{a.effect(actx, app)}, nil
}

// Execute implements Action. The build directory and provisioning outputs are
// checked before anything is zipped or sent.
func (a *FunctionDeployAction) Execute(ctx context.Context, actx *Context) ([]Effect, error) {
	if actx == nil {
		return nil, ErrNoContext
	}
	dir := actx.Path(a.BuildDir)
	if err := requireDir(actx.Fs, dir); err != nil {
		return nil, err
	}
	app, err := a.target(actx)
	if err != nil {
		return nil, err
	}
	if a.Deployer == nil {
		return nil, fmt.Errorf("%s: no deployer configured", ActionFunctionDeploy)
	}

	rules, err := LoadIgnoreRules(actx.Fs, dir)
	if err != nil {
		return nil, err
	}
	var pkg bytes.Buffer
	files, err := ZipDir(actx.Fs, dir, rules, &pkg)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", dir, err)
	}

	if actx.Policy != nil {
		decision, err := actx.Policy.EvaluateDeploy(ctx, policy.DeployInput{
			Action:      ActionFunctionDeploy,
			Environment: actx.Environment,
			ResourceID:  app.ID,
			AppName:     app.Name,
			BuildDir:    a.BuildDir,
			Files:       files,
		})
		if err != nil {
			return nil, fmt.Errorf("evaluate deploy policy: %w", err)
		}
		for _, w := range decision.Warnings {
			actx.log().Warn("deploy policy warning", zap.String("warning", w))
		}
		if !decision.IsAllowed() {
			return nil, &PolicyDeniedError{Action: ActionFunctionDeploy, Violations: decision.Violations}
		}
	}

	actx.log().Info("zip deploy",
		zap.String("app", app.Name),
		zap.Int("files", len(files)),
		zap.Int("bytes", pkg.Len()))

	if err := a.Deployer.ZipDeploy(ctx, app, &pkg); err != nil {
		return nil, err
	}
	return []Effect{a.effect(actx, app)}, nil
}

func (a *FunctionDeployAction) target(actx *Context) (*FunctionApp, error) {
	id, err := actx.Outputs.Require(OutputFunctionResourceID)
	if err != nil {
		return nil, err
	}
	raw, err := actx.Outputs.Require(OutputFunctionEndpoint)
	if err != nil {
		return nil, err
	}
	app, err := ParseFunctionAppID(id)
	if err != nil {
		return nil, err
	}
	if app.Endpoint, err = ParseFunctionEndpoint(raw); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *FunctionDeployAction) effect(actx *Context, app *FunctionApp) Effect {
	return Effect{
		Action:      ActionFunctionDeploy,
		Target:      app.ID,
		Description: fmt.Sprintf("deploy %s to %s", actx.Path(a.BuildDir), app.ID),
	}
}

func requireDir(fsys afero.Fs, dir string) error {
	ok, err := afero.DirExists(fsys, dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !ok {
		return &BuildDirNotFoundError{Path: dir}
	}
	return nil
}
