/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Azure     AzureConfig     `mapstructure:"azure" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Samples   SamplesConfig   `mapstructure:"samples"`
	History   HistoryConfig   `mapstructure:"history"`
}

// LLMConfig holds configuration for the chat and embedding models
type LLMConfig struct {
	Provider       string `mapstructure:"provider" validate:"required,oneof=openai azure_openai anthropic gemini ollama"`
	Model          string `mapstructure:"model" validate:"omitempty,min=1"`
	BaseURL        string `mapstructure:"baseURL" validate:"omitempty,url"`
	APIVersion     string `mapstructure:"apiVersion"`
	EmbeddingModel string `mapstructure:"embeddingModel"`
	// Models pins a pipeline role (breakdown, codegen, codegen_advanced) to "provider:model".
	Models map[string]string `mapstructure:"models" validate:"omitempty,dive,keys,oneof=breakdown codegen codegen_advanced,endkeys,min=1"`
	// TimeoutSeconds bounds one pipeline stage
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"omitempty,min=5,max=600"`
	// SampleTopK is how many reference samples code generation receives
	SampleTopK int `mapstructure:"sampleTopK" validate:"omitempty,min=0,max=2"`
}

// AzureConfig holds deploy settings
type AzureConfig struct {
	Environment string `mapstructure:"environment" validate:"required,alphanum"`
	EnvDir      string `mapstructure:"envDir" validate:"required"`
	BuildDir    string `mapstructure:"buildDir" validate:"required"`
	TenantID    string `mapstructure:"tenantId" validate:"omitempty,uuid"`
}

// TelemetryConfig holds PostHog settings
type TelemetryConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// ServerConfig holds settings for `officekit serve`
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" validate:"omitempty,dive,url"`
}

// PolicyConfig points at the Rego guardrails
type PolicyConfig struct {
	Dir string `mapstructure:"dir"`
}

// SamplesConfig adds sample catalogues on top of the builtin one
type SamplesConfig struct {
	Dir string `mapstructure:"dir"`
}

// HistoryConfig controls turn recording
type HistoryConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	Path     string `mapstructure:"path"`
}
