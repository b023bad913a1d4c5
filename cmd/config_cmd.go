/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/ui"
	"github.com/josephgoksu/officekit/types"
)

var (
	configProvider string
	configModel    string
	configKey      string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change officekit settings",
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Choose the LLM provider, model and API key",
	Long: `Save the LLM provider, model and API key to ~/.officekit.yaml.

Without flags an interactive picker is shown. Keys can also come from
OPENAI_API_KEY, AZURE_OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY.

Examples:
  officekit config llm
  officekit config llm --provider anthropic --model claude-sonnet-4-5
  officekit config llm --provider ollama --model llama3.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, model, key := configProvider, configModel, configKey
		if provider == "" {
			if !ui.IsInteractive() {
				return types.NewCLIError("--provider is required when not running in a terminal", "e.g. --provider openai", nil)
			}
			sel, err := ui.PromptLLMSelection()
			if err != nil {
				return err
			}
			provider, model = sel.Provider, sel.Model
		}
		if _, err := llm.ValidateProvider(provider); err != nil {
			return types.NewCLIError(err.Error(), "supported: openai, azure_openai, anthropic, gemini, ollama", nil)
		}

		if key == "" && provider != llm.ProviderOllama && config.ResolveAPIKey(llm.Provider(provider)) == "" && ui.IsInteractive() {
			var err error
			key, err = ui.PromptSecret(fmt.Sprintf("API key for %s (leave empty to use the environment)", provider))
			if err != nil && !errors.Is(err, ui.ErrCancelled) {
				return err
			}
		}

		if err := config.SaveGlobalLLMConfig(provider, model, key); err != nil {
			return err
		}
		if model == "" {
			model = llm.DefaultModelForProvider(provider)
		}
		if isJSON() {
			return printJSON(map[string]string{"provider": provider, "model": model})
		}
		cmd.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ Using %s / %s", provider, model)))
		return nil
	},
}

var configSetRoleModelCmd = &cobra.Command{
	Use:   "set-role-model <role> <provider:model>",
	Short: "Pin a pipeline stage to a specific model",
	Long: `Pin one pipeline stage to a model. Roles:
  breakdown          Task Breakdown
  codegen            Code Generation for requests with complexity <= 50
  codegen_advanced   Code Generation for requests with complexity > 50

Example:
  officekit config set-role-model codegen_advanced openai:gpt-4.1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(args[0])
		if err != nil {
			return err
		}
		if err := config.SaveRoleModel(role, args[1]); err != nil {
			return types.NewCLIError(fmt.Sprintf("cannot pin %s", role), `use "provider:model", e.g. "anthropic:claude-sonnet-4-5"`, err)
		}
		if !isQuiet() {
			cmd.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s → %s", role, args[1])))
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		roles, err := resolveRoleModels()
		if err != nil {
			return err
		}
		provider := llm.Provider(cfg.LLM.Provider)
		keySet := provider == llm.ProviderOllama || config.ResolveAPIKey(provider) != ""

		if isJSON() {
			return printJSON(map[string]any{
				"configFile": viper.ConfigFileUsed(),
				"config":     cfg,
				"roles":      roles,
				"apiKeySet":  keySet,
			})
		}

		pairs := [][2]string{
			{"Config file", orDash(viper.ConfigFileUsed())},
			{"Provider", cfg.LLM.Provider},
			{"API key", map[bool]string{true: "set", false: "not set"}[keySet]},
		}
		for _, r := range llm.Roles {
			pairs = append(pairs, [2]string{"Model (" + string(r) + ")", roles[string(r)]})
		}
		pairs = append(pairs,
			[2]string{"Stage timeout", strconv.Itoa(cfg.LLM.TimeoutSeconds) + "s"},
			[2]string{"Samples per prompt", strconv.Itoa(cfg.LLM.SampleTopK)},
			[2]string{"Samples dir", orDash(cfg.Samples.Dir)},
			[2]string{"Policies dir", config.GetPolicyDir()},
			[2]string{"History", historySummary(cfg)},
			[2]string{"Azure environment", cfg.Azure.Environment},
			[2]string{"Azure env dir", cfg.Azure.EnvDir},
			[2]string{"Function build dir", cfg.Azure.BuildDir},
			[2]string{"Server address", cfg.Server.Addr},
			[2]string{"Allowed origins", strings.Join(cfg.Server.AllowedOrigins, ", ")},
			[2]string{"Telemetry", map[bool]string{true: "disabled", false: "enabled"}[cfg.Telemetry.Disabled]},
		)
		ui.KeyValues(cmd.OutOrStdout(), pairs)
		return nil
	},
}

func parseRole(s string) (llm.Role, error) {
	for _, r := range llm.Roles {
		if string(r) == s {
			return r, nil
		}
	}
	names := make([]string, len(llm.Roles))
	for i, r := range llm.Roles {
		names[i] = string(r)
	}
	return "", types.NewCLIError(fmt.Sprintf("unknown role %q", s), "roles: "+strings.Join(names, ", "), nil)
}

// resolveRoleModels reports the "provider:model" each role will use.
func resolveRoleModels() (map[string]string, error) {
	base, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(llm.Roles))
	for _, r := range llm.Roles {
		c, ok, err := config.LoadLLMConfigForRole(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			c = base
		}
		out[string(r)] = fmt.Sprintf("%s:%s", c.Provider, c.Model)
	}
	return out, nil
}

func historySummary(cfg *types.AppConfig) string {
	if cfg.History.Disabled {
		return "disabled"
	}
	return config.GetHistoryPath()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configSetRoleModelCmd)
	configCmd.AddCommand(configShowCmd)

	configLLMCmd.Flags().StringVar(&configProvider, "provider", "", "LLM provider")
	configLLMCmd.Flags().StringVar(&configModel, "model", "", "model id (default: provider default)")
	configLLMCmd.Flags().StringVar(&configKey, "key", "", "API key to store in the global config")
}
