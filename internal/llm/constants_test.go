package llm

import "testing"

func TestInferProvider(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		wantProvider string
		wantOk       bool
	}{
		// Registry hits
		{"gpt-4o-mini", "gpt-4o-mini", ProviderOpenAI, true},
		{"gpt-4o dated alias", "gpt-4o-2024-08-06", ProviderOpenAI, true},
		{"claude sonnet", "claude-3-5-sonnet-latest", ProviderAnthropic, true},
		{"gemini-2.5-pro", "gemini-2.5-pro", ProviderGemini, true},
		{"qwen2.5-coder", "qwen2.5-coder", ProviderOllama, true},

		// Prefix inference
		{"gpt-5", "gpt-5", ProviderOpenAI, true},
		{"o1 model", "o1-preview", ProviderOpenAI, true},
		{"claude-opus-4-5", "claude-opus-4-5", ProviderAnthropic, true},
		{"gemini-1.5-pro", "gemini-1.5-pro", ProviderGemini, true},
		{"codellama", "codellama:7b", ProviderOllama, true},
		{"phi", "phi3", ProviderOllama, true},

		// Unknown models
		{"unknown model", "some-random-model", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ok := InferProvider(tt.model)
			if ok != tt.wantOk {
				t.Errorf("InferProvider(%q) ok = %v, want %v", tt.model, ok, tt.wantOk)
			}
			if provider != tt.wantProvider {
				t.Errorf("InferProvider(%q) = %q, want %q", tt.model, provider, tt.wantProvider)
			}
		})
	}
}

func TestParseModelSpec(t *testing.T) {
	tests := []struct {
		ref          string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"openai:gpt-4o", ProviderOpenAI, "gpt-4o", false},
		{"azure_openai:my-deployment", ProviderAzureOpenAI, "my-deployment", false},
		{"ollama:llama3.2", ProviderOllama, "llama3.2", false},
		{"claude-3-5-haiku-latest", ProviderAnthropic, "claude-3-5-haiku-latest", false},
		{"", "", "", false},
		{"bogus:model", "", "", true},
		{"openai:", "", "", true},
		{"mystery-model", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, m, err := ParseModelSpec(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelSpec(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if p != tt.wantProvider || m != tt.wantModel {
				t.Errorf("ParseModelSpec(%q) = (%q, %q), want (%q, %q)", tt.ref, p, m, tt.wantProvider, tt.wantModel)
			}
		})
	}
}

func TestCalculateCost(t *testing.T) {
	got := CalculateCost("gpt-4o", 1_000_000, 1_000_000)
	if got != 12.50 {
		t.Errorf("CalculateCost(gpt-4o) = %v, want 12.50", got)
	}
	if c := CalculateCost("llama3.2", 5000, 5000); c != 0 {
		t.Errorf("local model should be free, got %v", c)
	}
	if c := CalculateCost("unknown", 5000, 5000); c != 0 {
		t.Errorf("unknown model should cost 0, got %v", c)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("empty text should be 0 tokens")
	}
	if got := EstimateTokens("abcde"); got != 2 {
		t.Errorf("EstimateTokens(5 chars) = %d, want 2", got)
	}
}
