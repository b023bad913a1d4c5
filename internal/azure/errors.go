package azure

import "fmt"

// MissingOutputError reports a provisioning output that a deploy action needs
// but the environment file does not define.
type MissingOutputError struct {
	Key     string
	EnvFile string
}

func (e *MissingOutputError) Error() string {
	if e.EnvFile == "" {
		return fmt.Sprintf("provisioning output %s is not set; run provision first", e.Key)
	}
	return fmt.Sprintf("provisioning output %s is not set in %s; run provision first", e.Key, e.EnvFile)
}

// BuildDirNotFoundError reports a missing or non-directory build path.
type BuildDirNotFoundError struct {
	Path string
}

func (e *BuildDirNotFoundError) Error() string {
	return fmt.Sprintf("build directory %s does not exist; build the project before deploying", e.Path)
}

// InvalidResourceIDError reports a resource id that is malformed or names the
// wrong resource type.
type InvalidResourceIDError struct {
	ID     string
	Reason string
}

func (e *InvalidResourceIDError) Error() string {
	return fmt.Sprintf("invalid resource id %q: %s", e.ID, e.Reason)
}

// InvalidEndpointError reports a function endpoint output that is not an
// absolute http(s) URL.
type InvalidEndpointError struct {
	Endpoint string
	Reason   string
}

func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("invalid function endpoint %q: %s", e.Endpoint, e.Reason)
}

// PolicyDeniedError reports a deploy blocked by a local policy.
type PolicyDeniedError struct {
	Action     string
	Violations []string
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("%s denied by policy: %v", e.Action, e.Violations)
}

// DeployFailedError carries a non-success response from the deployment endpoint.
type DeployFailedError struct {
	App        string
	StatusCode int
	Body       string
}

func (e *DeployFailedError) Error() string {
	return fmt.Sprintf("zip deploy to %s failed: HTTP %d: %s", e.App, e.StatusCode, e.Body)
}
