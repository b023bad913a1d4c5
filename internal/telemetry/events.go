package telemetry

import "time"

// Event names.
const (
	EventCopilotTurn     = "copilot_turn"
	EventDeployAction    = "deploy_action"
	EventCommandExecuted = "command_executed"
)

// CommandProps builds the properties of a command_executed event.
func CommandProps(command string, success bool, elapsed time.Duration) Properties {
	return Properties{
		"command":     command,
		"success":     success,
		"duration_ms": elapsed.Milliseconds(),
	}
}

// DeployProps builds the properties of a deploy_action event. Resource ids
// and app names are left out; only the shape of the run is reported.
func DeployProps(action, environment string, dryRun bool, effects int, err error) Properties {
	props := Properties{
		"action":      action,
		"environment": environment,
		"dry_run":     dryRun,
		"effects":     effects,
		"success":     err == nil,
	}
	if err != nil {
		props["error_type"] = errorType(err)
	}
	return props
}
