package config

import (
	"path/filepath"
	"testing"

	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempGlobalConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".officekit.yaml")
	orig := GetGlobalConfigFile
	GetGlobalConfigFile = func() (string, error) { return path, nil }
	t.Cleanup(func() { GetGlobalConfigFile = orig })
	return path
}

func readBack(t *testing.T, path string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return v
}

func TestSaveGlobalLLMConfig_CreatesFile(t *testing.T) {
	path := useTempGlobalConfig(t)

	require.NoError(t, SaveGlobalLLMConfig("anthropic", "", "sk-ant: with colon"))

	v := readBack(t, path)
	assert.Equal(t, "anthropic", v.GetString("llm.provider"))
	assert.Equal(t, "claude-3-5-haiku-latest", v.GetString("llm.model"))
	assert.Equal(t, "sk-ant: with colon", v.GetString("llm.apiKeys.anthropic"))
}

func TestSaveGlobalLLMConfig_PreservesOtherKeys(t *testing.T) {
	path := useTempGlobalConfig(t)

	require.NoError(t, SaveRoleModel(llm.RoleCodegenAdvanced, "openai:gpt-4.1"))
	require.NoError(t, SaveGlobalLLMConfig("ollama", "llama3.2", ""))

	v := readBack(t, path)
	assert.Equal(t, "ollama", v.GetString("llm.provider"))
	assert.Equal(t, "openai:gpt-4.1", v.GetString("llm.models.codegen_advanced"))
	assert.False(t, v.IsSet("llm.apiKeys.ollama"))
}

func TestSaveGlobalLLMConfig_Validation(t *testing.T) {
	useTempGlobalConfig(t)

	assert.Error(t, SaveGlobalLLMConfig("", "m", "k"))
	assert.Error(t, SaveGlobalLLMConfig("bedrock", "m", "k"))
	assert.Error(t, SaveRoleModel(llm.RoleCodegen, "nope:x"))
}
