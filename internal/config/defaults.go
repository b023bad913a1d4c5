// Package config provides centralized configuration constants and loaders for officekit.
// All default values should be defined here to ensure a single source of truth.
package config

import "time"

const (
	// AppName is used for the config file name, env prefix and data directory.
	AppName = "officekit"

	// EnvPrefix is the prefix viper binds environment variables under (OFFICEKIT_LLM_PROVIDER).
	EnvPrefix = "OFFICEKIT"
)

// Pipeline defaults
const (
	// DefaultSampleTopK is how many reference samples the code generation stage receives.
	DefaultSampleTopK = 2

	// MaxSampleTopK caps the reference samples injected into one codegen prompt.
	MaxSampleTopK = 2

	// DefaultLLMTimeout bounds a single chat-model call.
	DefaultLLMTimeout = 2 * time.Minute
)

// Deploy defaults
const (
	// DefaultEnvironment is the provisioning environment used when --env is not given.
	DefaultEnvironment = "dev"

	// DefaultEnvDir holds env/.env.<environment> provisioning output files.
	DefaultEnvDir = "env"

	// DefaultBuildDir is the function app build directory, relative to the project root.
	DefaultBuildDir = "api"

	// DefaultWatchDebounce coalesces bursts of file events in deploy --watch.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// DefaultServerAddr is the listen address for `officekit serve`.
const DefaultServerAddr = "127.0.0.1:7310"
