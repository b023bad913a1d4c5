package llm

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI = "openai"

	// ProviderAzureOpenAI represents an Azure OpenAI deployment (OpenAI wire format, Azure auth and routing)
	ProviderAzureOpenAI = "azure_openai"

	// ProviderOllama represents the Ollama provider
	ProviderOllama = "ollama"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic = "anthropic"

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini = "gemini"
)

// Embedding model constants
const (
	// DefaultOpenAIEmbeddingModel is the default embedding model for OpenAI
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"

	// DefaultOllamaEmbeddingModel is the default embedding model for Ollama
	DefaultOllamaEmbeddingModel = "nomic-embed-text"

	// DefaultGeminiEmbeddingModel is the default embedding model for Gemini
	DefaultGeminiEmbeddingModel = "text-embedding-004"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultAzureOpenAIAPIVersion is the Azure OpenAI REST API version used when none is configured.
const DefaultAzureOpenAIAPIVersion = "2024-10-21"

// DefaultClaudeMaxTokens bounds Anthropic responses; the Messages API requires a value.
const DefaultClaudeMaxTokens = 4096

// DefaultModelForProvider returns the default model ID for a given provider.
// This is a convenience wrapper around GetDefaultModelID in models.go.
func DefaultModelForProvider(provider string) string {
	return GetDefaultModelID(provider)
}

// SupportedProviders lists every provider NewChatModel accepts, in display order.
var SupportedProviders = []Provider{ProviderOpenAI, ProviderAzureOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}
