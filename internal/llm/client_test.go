package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{name: "valid openai", provider: "openai", want: ProviderOpenAI},
		{name: "valid azure openai", provider: "azure_openai", want: ProviderAzureOpenAI},
		{name: "valid ollama", provider: "ollama", want: ProviderOllama},
		{name: "valid anthropic", provider: "anthropic", want: ProviderAnthropic},
		{name: "valid gemini", provider: "gemini", want: ProviderGemini},
		{name: "invalid provider", provider: "invalid", wantErr: true},
		{name: "empty provider", provider: "", wantErr: true},
		{name: "case sensitive - OPENAI fails", provider: "OPENAI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ValidateProvider(%q) = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestDefaultModelForProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "gpt-4o-mini"},
		{"azure_openai", "gpt-4o-mini"},
		{"ollama", "llama3.2"},
		{"anthropic", "claude-3-5-haiku-latest"},
		{"gemini", "gemini-2.0-flash"},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := DefaultModelForProvider(tt.provider); got != tt.want {
				t.Errorf("DefaultModelForProvider(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestGetAdvancedModelID(t *testing.T) {
	if got := GetAdvancedModelID(ProviderOpenAI); got != "gpt-4o" {
		t.Errorf("openai advanced = %q, want gpt-4o", got)
	}
	if got := GetAdvancedModelID(ProviderAnthropic); got != "claude-3-5-sonnet-latest" {
		t.Errorf("anthropic advanced = %q", got)
	}
	if got := GetAdvancedModelID("unknown"); got != "" {
		t.Errorf("unknown provider advanced = %q, want empty", got)
	}
}

func TestNewChatModel_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "openai requires API key",
			cfg:     Config{Provider: ProviderOpenAI, Model: "gpt-4o"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "azure openai requires API key",
			cfg:     Config{Provider: ProviderAzureOpenAI, Model: "gpt-4o", BaseURL: "https://x.openai.azure.com"},
			wantErr: "azure OpenAI API key is required",
		},
		{
			name:    "azure openai requires endpoint",
			cfg:     Config{Provider: ProviderAzureOpenAI, Model: "gpt-4o", APIKey: "key"},
			wantErr: "endpoint",
		},
		{
			name:    "anthropic requires API key",
			cfg:     Config{Provider: ProviderAnthropic, Model: "claude-3"},
			wantErr: "anthropic API key is required",
		},
		{
			name:    "gemini requires API key",
			cfg:     Config{Provider: ProviderGemini, Model: "gemini-pro"},
			wantErr: "gemini API key is required",
		},
		{
			name:    "unsupported provider",
			cfg:     Config{Provider: "unknown", Model: "model", APIKey: "key"},
			wantErr: "unsupported LLM provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChatModel(ctx, tt.cfg)
			if err == nil {
				t.Fatalf("NewChatModel() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewChatModel() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewEmbeddingModel_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"openai requires API key", Config{Provider: ProviderOpenAI}, "OpenAI API key is required"},
		{"gemini requires API key", Config{Provider: ProviderGemini}, "gemini API key is required"},
		{"anthropic has no embeddings", Config{Provider: ProviderAnthropic, APIKey: "key"}, "embeddings not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmbeddingModel(ctx, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewEmbeddingModel() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

type stubChatModel struct{ id string }

func (s *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(s.id, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestFactory_RoleResolution(t *testing.T) {
	var built []Config
	f := NewFactory(Config{Provider: ProviderOpenAI, APIKey: "k"}, map[Role]Config{
		RoleBreakdown: {Provider: ProviderOllama, Model: "llama3.2"},
	}).WithConstructor(func(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
		built = append(built, cfg)
		return &stubChatModel{id: cfg.Model}, nil
	})

	ctx := context.Background()

	_, id, err := f.ChatModel(ctx, RoleBreakdown)
	if err != nil || id != "llama3.2" {
		t.Fatalf("breakdown = %q, %v", id, err)
	}
	_, id, err = f.ChatModel(ctx, RoleCodegen)
	if err != nil || id != "gpt-4o-mini" {
		t.Fatalf("codegen = %q, %v", id, err)
	}
	_, id, err = f.ChatModel(ctx, RoleCodegenAdvanced)
	if err != nil || id != "gpt-4o" {
		t.Fatalf("codegen_advanced = %q, %v", id, err)
	}

	// Cached on second request
	_, _, _ = f.ChatModel(ctx, RoleCodegen)
	if len(built) != 3 {
		t.Errorf("expected 3 constructions, got %d", len(built))
	}
}

func TestFactory_AdvancedKeepsConfiguredModel(t *testing.T) {
	tests := []struct {
		name string
		base Config
		want string
	}{
		{"registry default upgrades", Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}, "gpt-4o"},
		{"explicit hosted model", Config{Provider: ProviderOpenAI, Model: "gpt-4.1"}, "gpt-4.1"},
		{"azure deployment", Config{Provider: ProviderAzureOpenAI, Model: "contoso-gpt4o-deploy"}, "contoso-gpt4o-deploy"},
		{"azure default name", Config{Provider: ProviderAzureOpenAI, Model: "gpt-4o-mini"}, "gpt-4o-mini"},
		{"ollama pulled model", Config{Provider: ProviderOllama, Model: "llama3.1:70b"}, "llama3.1:70b"},
		{"ollama default", Config{Provider: ProviderOllama}, GetDefaultModelID(ProviderOllama)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFactory(tt.base, nil)
			if got := f.ConfigFor(RoleCodegenAdvanced).Model; got != tt.want {
				t.Errorf("codegen_advanced = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFactory_AdvancedOverrideWins(t *testing.T) {
	f := NewFactory(Config{Provider: ProviderAzureOpenAI, Model: "contoso-mini"}, map[Role]Config{
		RoleCodegenAdvanced: {Provider: ProviderAzureOpenAI, Model: "contoso-large"},
	})
	if got := f.ConfigFor(RoleCodegen).Model; got != "contoso-mini" {
		t.Errorf("codegen = %q", got)
	}
	if got := f.ConfigFor(RoleCodegenAdvanced).Model; got != "contoso-large" {
		t.Errorf("codegen_advanced = %q", got)
	}
}

func TestFactory_ConstructorError(t *testing.T) {
	f := NewFactory(Config{Provider: ProviderOpenAI}, nil).
		WithConstructor(func(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
			return nil, errors.New("boom")
		})
	_, _, err := f.ChatModel(context.Background(), RoleCodegen)
	if err == nil || !strings.Contains(err.Error(), "create codegen model") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestNewChatModel_MissingKeyIsSentinel(t *testing.T) {
	_, err := NewChatModel(context.Background(), Config{Provider: ProviderAnthropic, Model: "claude-3"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
