/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/pipeline"
	"github.com/josephgoksu/officekit/internal/policy"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/types"
)

// copilotDeps are the long-lived pieces behind one copilot.
type copilotDeps struct {
	orchestrator *pipeline.Orchestrator
	samples      *samples.Provider
	history      *history.Store // nil when history is disabled
}

func (d *copilotDeps) Close() {
	if d.history != nil {
		_ = d.history.Close()
	}
}

// newCopilot wires models, samples, policies, history and telemetry into an orchestrator.
func newCopilot(ctx context.Context, reporter pipeline.Reporter) (*copilotDeps, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	factory, err := config.NewModelFactory()
	if err != nil {
		return nil, types.NewCLIError("invalid LLM configuration", "run 'officekit config llm'", err)
	}

	provider, err := newSamplesProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine, err := policy.NewEngine(ctx, policy.EngineConfig{Dir: config.GetPolicyDir()})
	if err != nil {
		return nil, types.NewCLIError("cannot load policies", "run 'officekit policy validate' to find the broken file", err)
	}

	deps := &copilotDeps{samples: provider}
	pcfg := pipeline.Config{
		Models:       factory,
		Samples:      provider,
		Tracker:      tracker(),
		Reporter:     reporter,
		SampleLimit:  cfg.LLM.SampleTopK,
		StageTimeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		Logger:       logger.Named("pipeline"),
	}
	if engine.PolicyCount() > 0 {
		pcfg.Policy = engine
	}
	if !cfg.History.Disabled {
		store, err := history.Open(config.GetHistoryPath())
		if err != nil {
			logger.L().Warn("history unavailable, turns will not be recorded", zap.Error(err))
		} else {
			deps.history = store
			pcfg.Recorder = store
		}
	}

	deps.orchestrator, err = pipeline.New(pcfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

// newSamplesProvider loads builtin and configured samples. Embedding ranking is
// used when the configured provider offers embeddings.
func newSamplesProvider(ctx context.Context, cfg *types.AppConfig) (*samples.Provider, error) {
	opts := samples.Options{Fs: afero.NewOsFs(), Dir: cfg.Samples.Dir}

	if llmCfg, err := config.LoadLLMConfig(); err == nil {
		embedder, err := llm.NewEmbeddingModel(ctx, llmCfg)
		if err != nil {
			logger.L().Debug("sample embeddings disabled", zap.Error(err))
		} else {
			opts.Embedder = embedder
		}
	}

	provider, err := samples.NewProvider(opts)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	return provider, nil
}
