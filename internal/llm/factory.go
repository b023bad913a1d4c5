package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
)

// Role names the pipeline stage a chat model serves.
type Role string

const (
	RoleBreakdown       Role = "breakdown"
	RoleCodegen         Role = "codegen"
	RoleCodegenAdvanced Role = "codegen_advanced"
)

// Roles lists every role in pipeline order.
var Roles = []Role{RoleBreakdown, RoleCodegen, RoleCodegenAdvanced}

// ChatModelConstructor builds a chat model from a resolved config.
type ChatModelConstructor func(ctx context.Context, cfg Config) (model.BaseChatModel, error)

// Factory hands out one chat model per role, built lazily and cached.
type Factory struct {
	base      Config
	overrides map[Role]Config
	construct ChatModelConstructor

	mu    sync.Mutex
	cache map[Role]model.BaseChatModel
}

// NewFactory creates a role-aware model factory. Roles without an override use
// base; the advanced codegen role swaps in the provider's advanced-tier model
// only while base is on the provider's registry default.
func NewFactory(base Config, overrides map[Role]Config) *Factory {
	if overrides == nil {
		overrides = map[Role]Config{}
	}
	return &Factory{
		base:      base,
		overrides: overrides,
		construct: NewChatModel,
		cache:     make(map[Role]model.BaseChatModel),
	}
}

// WithConstructor replaces the model constructor. Used by tests and embedders.
func (f *Factory) WithConstructor(c ChatModelConstructor) *Factory {
	f.construct = c
	return f
}

// ConfigFor resolves the provider config for a role.
func (f *Factory) ConfigFor(role Role) Config {
	if cfg, ok := f.overrides[role]; ok {
		return cfg
	}
	cfg := f.base
	defaulted := cfg.Model == "" || cfg.Model == GetDefaultModelID(string(cfg.Provider))
	if cfg.Model == "" {
		cfg.Model = GetDefaultModelID(string(cfg.Provider))
	}
	if role == RoleCodegenAdvanced && defaulted && upgradable(cfg.Provider) {
		if id := GetAdvancedModelID(string(cfg.Provider)); id != "" {
			cfg.Model = id
		}
	}
	return cfg
}

// upgradable reports whether the registry's advanced model is reachable with
// the same credentials. Azure OpenAI models are deployment names and Ollama
// models must be pulled first, so both need an explicit codegen_advanced entry.
func upgradable(p Provider) bool {
	return p != ProviderAzureOpenAI && p != ProviderOllama
}

// ChatModel returns the model for role plus the model ID it was built with.
func (f *Factory) ChatModel(ctx context.Context, role Role) (model.BaseChatModel, string, error) {
	cfg := f.ConfigFor(role)

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.cache[role]; ok {
		return m, cfg.Model, nil
	}
	m, err := f.construct(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("create %s model (%s:%s): %w", role, cfg.Provider, cfg.Model, err)
	}
	f.cache[role] = m
	return m, cfg.Model, nil
}
