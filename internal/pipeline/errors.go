package pipeline

import "errors"

var (
	// ErrUnparseable means the breakdown response held no decodable JSON object.
	ErrUnparseable = errors.New("breakdown response is not valid JSON")

	// ErrNoCodeBlock means the code generation response held no ```typescript block.
	ErrNoCodeBlock = errors.New("code generation response has no typescript code block")

	// ErrNoModels is returned when an orchestrator is built without a model source.
	ErrNoModels = errors.New("pipeline: model source is required")
)
