package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/spf13/viper"
)

// GetGlobalConfigFile returns the path of the user-level config file (~/.officekit.yaml).
// It's a variable to allow overriding in tests.
var GetGlobalConfigFile = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName+".yaml"), nil
}

// SaveGlobalLLMConfig saves the LLM provider, model, and API key to the global config,
// preserving every other setting already in the file. Key can be empty for Ollama.
func SaveGlobalLLMConfig(provider, model, key string) error {
	if provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if _, err := llm.ValidateProvider(provider); err != nil {
		return err
	}
	if model == "" {
		model = llm.DefaultModelForProvider(provider)
	}

	v, err := openGlobalConfig()
	if err != nil {
		return err
	}
	v.Set("llm.provider", provider)
	v.Set("llm.model", model)
	if key != "" {
		v.Set(fmt.Sprintf("llm.apiKeys.%s", provider), key)
	}
	return v.WriteConfig()
}

// SaveRoleModel pins a pipeline role to a "provider:model" reference.
func SaveRoleModel(role llm.Role, ref string) error {
	if _, _, err := llm.ParseModelSpec(ref); err != nil {
		return err
	}
	v, err := openGlobalConfig()
	if err != nil {
		return err
	}
	v.Set(fmt.Sprintf("llm.models.%s", role), ref)
	return v.WriteConfig()
}

func openGlobalConfig() (*viper.Viper, error) {
	path, err := GetGlobalConfigFile()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("# officekit global configuration\n"), 0600); err != nil {
			return nil, fmt.Errorf("create config file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return v, nil
}
