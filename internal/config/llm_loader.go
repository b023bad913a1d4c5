package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/spf13/viper"
)

// LoadLLMConfig loads LLM configuration from Viper and Environment variables.
// It handles precedence: Explicit Viper Config > Environment Variables > Defaults.
func LoadLLMConfig() (llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = llm.DefaultProvider
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	model := viper.GetString("llm.model")
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	return buildConfig(llmProvider, model), nil
}

// LoadLLMConfigForRole resolves the config for one pipeline role. A
// "llm.models.<role>" entry ("provider:model" or a bare model name) overrides
// the base provider/model; ok is false when no override exists.
func LoadLLMConfigForRole(role llm.Role) (cfg llm.Config, ok bool, err error) {
	ref := viper.GetString(fmt.Sprintf("llm.models.%s", role))
	if ref == "" {
		return llm.Config{}, false, nil
	}
	provider, model, err := llm.ParseModelSpec(ref)
	if err != nil {
		return llm.Config{}, false, fmt.Errorf("llm.models.%s: %w", role, err)
	}
	return buildConfig(llm.Provider(provider), model), true, nil
}

// NewModelFactory builds a role-aware factory from the loaded configuration.
func NewModelFactory() (*llm.Factory, error) {
	base, err := LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	overrides := make(map[llm.Role]llm.Config)
	for _, role := range llm.Roles {
		cfg, ok, err := LoadLLMConfigForRole(role)
		if err != nil {
			return nil, err
		}
		if ok {
			overrides[role] = cfg
		}
	}
	return llm.NewFactory(base, overrides), nil
}

func buildConfig(provider llm.Provider, model string) llm.Config {
	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && provider == llm.ProviderAzureOpenAI {
		baseURL = strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT"))
	}
	if baseURL == "" && provider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	embeddingModel := viper.GetString("llm.embeddingModel")
	if embeddingModel == "" {
		switch provider {
		case llm.ProviderOpenAI:
			embeddingModel = llm.DefaultOpenAIEmbeddingModel
		case llm.ProviderOllama:
			embeddingModel = llm.DefaultOllamaEmbeddingModel
		case llm.ProviderGemini:
			embeddingModel = llm.DefaultGeminiEmbeddingModel
		}
	}

	return llm.Config{
		Provider:       provider,
		Model:          model,
		EmbeddingModel: embeddingModel,
		APIKey:         ResolveAPIKey(provider),
		BaseURL:        baseURL,
		APIVersion:     viper.GetString("llm.apiVersion"),
	}
}

// ResolveAPIKey returns the best API key for the given provider using
// per-provider config keys, then provider-specific env vars.
func ResolveAPIKey(provider llm.Provider) string {
	if viper.IsSet(fmt.Sprintf("llm.apiKeys.%s", provider)) {
		if key := strings.TrimSpace(viper.GetString(fmt.Sprintf("llm.apiKeys.%s", provider))); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAzureOpenAI:
		return strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
