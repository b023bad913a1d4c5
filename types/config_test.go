package types

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func validConfig() AppConfig {
	return AppConfig{
		LLM:    LLMConfig{Provider: "openai", Model: "gpt-4o"},
		Azure:  AzureConfig{Environment: "dev", EnvDir: "env", BuildDir: "api"},
		Server: ServerConfig{Addr: "127.0.0.1:7310"},
	}
}

func TestAppConfig_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Models = map[string]string{"codegen_advanced": "anthropic:claude-sonnet-4-5"}
	cfg.Server.AllowedOrigins = []string{"https://localhost:3000"}

	if err := validator.New().Struct(&cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"unknown provider", func(c *AppConfig) { c.LLM.Provider = "bedrock" }},
		{"unknown role", func(c *AppConfig) { c.LLM.Models = map[string]string{"planner": "openai:gpt-4o"} }},
		{"bad environment", func(c *AppConfig) { c.Azure.Environment = "dev/../prod" }},
		{"bad tenant", func(c *AppConfig) { c.Azure.TenantID = "contoso" }},
		{"bad addr", func(c *AppConfig) { c.Server.Addr = "localhost" }},
		{"too many samples", func(c *AppConfig) { c.LLM.SampleTopK = 3 }},
		{"timeout too small", func(c *AppConfig) { c.LLM.TimeoutSeconds = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := validator.New().Struct(&cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCLIError(t *testing.T) {
	inner := errors.New("no such file")
	err := NewCLIError("cannot read prompt", "pass the prompt as an argument", inner)

	if err.Error() != "cannot read prompt: no such file" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected CLIError to unwrap to the inner error")
	}
	if NewCLIError("x", "", nil).Error() != "x" {
		t.Error("message without inner error should be returned as is")
	}
}
