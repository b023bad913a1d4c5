package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Tier groups models by capability. Code generation for complex requests
// is routed to the advanced tier.
type Tier string

const (
	TierStandard Tier = "standard"
	TierAdvanced Tier = "advanced"
)

// Model represents a complete model definition including metadata and pricing.
type Model struct {
	ID          string   // Canonical model ID (e.g., "gpt-4o-mini")
	Provider    string   // Provider display name (e.g., "OpenAI")
	ProviderID  string   // Internal provider ID (e.g., "openai")
	Aliases     []string // Alternative IDs including dated versions
	InputPer1M  float64  // $ per 1M input tokens
	OutputPer1M float64  // $ per 1M output tokens
	Tier        Tier
	IsDefault   bool // Default model of its tier for its provider
}

// ModelRegistry lists the models officekit knows how to price and route.
// Unknown IDs still work; they just cost 0 and default to the standard tier.
// Prices last updated: 2025-12
var ModelRegistry = []Model{
	// OpenAI (also served through Azure OpenAI deployments of the same name)
	{
		ID:          "gpt-4o-mini",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4o-mini-2024-07-18"},
		InputPer1M:  0.15,
		OutputPer1M: 0.60,
		Tier:        TierStandard,
		IsDefault:   true,
	},
	{
		ID:          "gpt-4o",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4o-2024-08-06"},
		InputPer1M:  2.50,
		OutputPer1M: 10.00,
		Tier:        TierAdvanced,
		IsDefault:   true,
	},
	{
		ID:          "gpt-4.1-mini",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4.1-mini-2025-04-14"},
		InputPer1M:  0.40,
		OutputPer1M: 1.60,
		Tier:        TierStandard,
	},
	{
		ID:          "gpt-4.1",
		Provider:    "OpenAI",
		ProviderID:  ProviderOpenAI,
		Aliases:     []string{"gpt-4.1-2025-04-14"},
		InputPer1M:  2.00,
		OutputPer1M: 8.00,
		Tier:        TierAdvanced,
	},

	// Anthropic
	{
		ID:          "claude-3-5-haiku-latest",
		Provider:    "Anthropic",
		ProviderID:  ProviderAnthropic,
		Aliases:     []string{"claude-3-5-haiku-20241022"},
		InputPer1M:  0.80,
		OutputPer1M: 4.00,
		Tier:        TierStandard,
		IsDefault:   true,
	},
	{
		ID:          "claude-3-5-sonnet-latest",
		Provider:    "Anthropic",
		ProviderID:  ProviderAnthropic,
		Aliases:     []string{"claude-3-5-sonnet-20241022"},
		InputPer1M:  3.00,
		OutputPer1M: 15.00,
		Tier:        TierAdvanced,
		IsDefault:   true,
	},

	// Google Gemini
	{
		ID:          "gemini-2.0-flash",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  0.10,
		OutputPer1M: 0.40,
		Tier:        TierStandard,
		IsDefault:   true,
	},
	{
		ID:          "gemini-2.5-pro",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  1.25,
		OutputPer1M: 10.00,
		Tier:        TierAdvanced,
		IsDefault:   true,
	},
	{
		ID:          "gemini-2.5-flash",
		Provider:    "Google",
		ProviderID:  ProviderGemini,
		InputPer1M:  0.30,
		OutputPer1M: 2.50,
		Tier:        TierStandard,
	},

	// Ollama (local, no pricing)
	{
		ID:         "llama3.2",
		Provider:   "Ollama",
		ProviderID: ProviderOllama,
		Tier:       TierStandard,
		IsDefault:  true,
	},
	{
		ID:         "qwen2.5-coder",
		Provider:   "Ollama",
		ProviderID: ProviderOllama,
		Tier:       TierAdvanced,
		IsDefault:  true,
	},
}

// modelIndex is built at init time for fast lookups
var modelIndex map[string]*Model

func init() {
	buildModelIndex()
}

func buildModelIndex() {
	modelIndex = make(map[string]*Model)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[m.ID] = m
		for _, alias := range m.Aliases {
			modelIndex[alias] = m
		}
	}
}

// GetModel returns the model definition for a given model ID or alias.
// Returns nil if the model is not found.
func GetModel(modelID string) *Model {
	return modelIndex[modelID]
}

// catalogProvider maps providers that reuse another provider's model names.
func catalogProvider(providerID string) string {
	if providerID == ProviderAzureOpenAI {
		return ProviderOpenAI
	}
	return providerID
}

// GetDefaultModel returns the default model of the given tier for a provider.
func GetDefaultModel(providerID string, tier Tier) *Model {
	providerID = catalogProvider(providerID)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		if m.ProviderID == providerID && m.Tier == tier && m.IsDefault {
			return m
		}
	}
	return nil
}

// GetDefaultModelID returns the default standard-tier model ID for a provider.
func GetDefaultModelID(providerID string) string {
	if m := GetDefaultModel(providerID, TierStandard); m != nil {
		return m.ID
	}
	return ""
}

// GetAdvancedModelID returns the default advanced-tier model ID for a provider,
// falling back to the standard default when the provider has no advanced entry.
func GetAdvancedModelID(providerID string) string {
	if m := GetDefaultModel(providerID, TierAdvanced); m != nil {
		return m.ID
	}
	return GetDefaultModelID(providerID)
}

// InferProvider attempts to determine the provider from a model name.
// Returns the provider ID and true if inference succeeded.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1-"), strings.HasPrefix(modelID, "o3-"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"),
		strings.HasPrefix(modelID, "codellama"), strings.HasPrefix(modelID, "qwen"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}

	return "", false
}

// ParseModelSpec splits a "provider:model" reference. A bare model name has its
// provider inferred; an empty string yields ("", "", nil).
func ParseModelSpec(ref string) (provider, modelID string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", nil
	}
	if p, m, ok := strings.Cut(ref, ":"); ok {
		if _, err := ValidateProvider(p); err != nil {
			return "", "", err
		}
		if m == "" {
			return "", "", fmt.Errorf("model spec %q has no model name", ref)
		}
		return p, m, nil
	}
	p, ok := InferProvider(ref)
	if !ok {
		return "", "", fmt.Errorf("cannot infer provider for model %q; use provider:model", ref)
	}
	return p, ref, nil
}

// ModelOption represents a model choice for listing.
type ModelOption struct {
	ID        string
	Tier      Tier
	PriceInfo string
	IsDefault bool
}

// GetModelsForProvider returns known models for a provider, defaults first.
func GetModelsForProvider(providerID string) []ModelOption {
	providerID = catalogProvider(providerID)
	var options []ModelOption
	for _, m := range ModelRegistry {
		if m.ProviderID != providerID {
			continue
		}
		options = append(options, ModelOption{
			ID:        m.ID,
			Tier:      m.Tier,
			PriceInfo: formatPriceInfo(m.InputPer1M, m.OutputPer1M),
			IsDefault: m.IsDefault,
		})
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].IsDefault != options[j].IsDefault {
			return options[i].IsDefault
		}
		return options[i].ID < options[j].ID
	})
	return options
}

func formatPriceInfo(input, output float64) string {
	if input == 0 && output == 0 {
		return "local/free"
	}
	return fmt.Sprintf("$%.2f/$%.2f per 1M tokens", input, output)
}

// CalculateCost calculates cost in USD for token usage.
func CalculateCost(modelID string, inputTokens, outputTokens int) float64 {
	m := GetModel(modelID)
	if m == nil {
		return 0
	}
	inputCost := float64(inputTokens) / 1_000_000 * m.InputPer1M
	outputCost := float64(outputTokens) / 1_000_000 * m.OutputPer1M
	return inputCost + outputCost
}
