package azure

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/officekit/internal/policy"
)

func deployContext(fsys afero.Fs, outputs map[string]string) *Context {
	return &Context{
		Fs:          fsys,
		ProjectDir:  "/proj",
		Environment: "dev",
		Outputs:     NewOutputs(outputs),
	}
}

func provisionedOutputs() map[string]string {
	return map[string]string{
		OutputFunctionResourceID: testResourceID,
		OutputFunctionEndpoint:   testEndpoint,
	}
}

func TestFunctionDeploy_MissingBuildDirFailsFast(t *testing.T) {
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}

	actx := deployContext(afero.NewMemMapFs(), provisionedOutputs())
	effects, err := action.Execute(context.Background(), actx)

	assert.Nil(t, effects)
	var notFound *BuildDirNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "/proj/api", notFound.Path)
	assert.Equal(t, 0, deployer.calls)
}

func TestFunctionDeploy_BuildDirIsAFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/proj/api": "not a dir"})
	action := &FunctionDeployAction{BuildDir: "api", Deployer: &recordingDeployer{}}

	_, err := action.Execute(context.Background(), deployContext(fsys, provisionedOutputs()))
	var notFound *BuildDirNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFunctionDeploy_MissingResourceID(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/proj/api/host.json": "{}"})
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}

	_, err := action.Execute(context.Background(), deployContext(fsys, nil))
	var missing *MissingOutputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, OutputFunctionResourceID, missing.Key)
	assert.Equal(t, 0, deployer.calls)

	_, err = action.Plan(context.Background(), deployContext(fsys, nil))
	assert.ErrorAs(t, err, &missing)
}

func TestFunctionDeploy_MissingEndpoint(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/proj/api/host.json": "{}"})
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}
	outputs := map[string]string{OutputFunctionResourceID: testResourceID}

	effects, err := action.Execute(context.Background(), deployContext(fsys, outputs))
	assert.Nil(t, effects)
	var missing *MissingOutputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, OutputFunctionEndpoint, missing.Key)
	assert.Equal(t, 0, deployer.calls)

	_, err = action.Plan(context.Background(), deployContext(fsys, outputs))
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, OutputFunctionEndpoint, missing.Key)
}

func TestFunctionDeploy_InvalidEndpoint(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/proj/api/host.json": "{}"})
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}

	_, err := action.Execute(context.Background(), deployContext(fsys, map[string]string{
		OutputFunctionResourceID: testResourceID,
		OutputFunctionEndpoint:   "func-addin-dev.azurewebsites.net",
	}))
	var invalid *InvalidEndpointError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, deployer.calls)
}

func TestFunctionDeploy_InvalidResourceID(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/proj/api/host.json": "{}"})
	action := &FunctionDeployAction{BuildDir: "api", Deployer: &recordingDeployer{}}

	_, err := action.Execute(context.Background(), deployContext(fsys, map[string]string{
		OutputFunctionResourceID: "not-an-id",
		OutputFunctionEndpoint:   testEndpoint,
	}))
	var invalid *InvalidResourceIDError
	assert.ErrorAs(t, err, &invalid)
}

func TestFunctionDeploy_PlanDoesNotTouchAnything(t *testing.T) {
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}

	effects, err := action.Plan(context.Background(), deployContext(afero.NewMemMapFs(), provisionedOutputs()))
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "deploy /proj/api to "+testResourceID, effects[0].Description)
	assert.Equal(t, 0, deployer.calls)
}

func TestFunctionDeploy_Execute(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/proj/api/host.json":           "{}",
		"/proj/api/dist/index.js":       "exports.x = 1",
		"/proj/api/local.settings.json": "{}",
	})
	deployer := &recordingDeployer{}
	action := &FunctionDeployAction{BuildDir: "api", Deployer: deployer}

	effects, err := action.Execute(context.Background(), deployContext(fsys, provisionedOutputs()))
	require.NoError(t, err)
	require.Len(t, effects, 1)

	assert.Equal(t, 1, deployer.calls)
	assert.Equal(t, "func-addin-dev", deployer.app.Name)
	assert.Equal(t, testEndpoint, deployer.app.Endpoint)
	entries := zipEntries(t, deployer.pkg)
	assert.Contains(t, entries, "host.json")
	assert.Contains(t, entries, "dist/index.js")
	assert.NotContains(t, entries, "local.settings.json")
}

func TestFunctionDeploy_PolicyDenied(t *testing.T) {
	engine, err := policy.NewEngineWithPolicies(context.Background(), "", []*policy.File{{
		Path: "deploy.rego",
		Name: "deploy.rego",
		Content: `package officekit.policy

deny contains msg if {
	some f in input.deploy.files
	endswith(f, ".env")
	msg := sprintf("secret file %s in package", [f])
}
`,
	}})
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/proj/api/host.json": "{}",
		"/proj/api/prod.env":  "SECRET=1",
	})
	deployer := &recordingDeployer{}
	actx := deployContext(fsys, provisionedOutputs())
	actx.Policy = engine

	_, err = (&FunctionDeployAction{BuildDir: "api", Deployer: deployer}).Execute(context.Background(), actx)
	var denied *PolicyDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, []string{"secret file prod.env in package"}, denied.Violations)
	assert.Equal(t, 0, deployer.calls)
}
