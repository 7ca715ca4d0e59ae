package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIRPILOT_LANG", "zh-CN")
	t.Setenv("MODEL_X", "gpt-4o")

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"使用简短键获取", "lang", "zh-CN"},
		{"使用环境变量键获取", "DIRPILOT_LANG", "zh-CN"},
		{"获取不存在的配置", "nonexistent", ""},
		{"直接获取非前缀环境变量", "MODEL_X", "gpt-4o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.GetConfig(tt.key))
		})
	}

	assert.Equal(t, "fallback", config.GetConfigWithDefault("nonexistent", "fallback"))
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DIRPILOT_RENDERER", "")
	os.Unsetenv("DIRPILOT_RENDERER")
	defer config.ClearAllConfig()

	config.SetConfig("renderer", "text")
	config.SetConfig("DIRPILOT_MODEL", "llama3 8b")
	require.NoError(t, config.SaveConfig())

	path := filepath.Join(home, ".dirpilot", "config")
	assert.FileExists(t, path)
	assert.Equal(t, path, config.ConfigFile())

	config.ClearAllConfig()
	assert.Equal(t, "", config.GetConfig("renderer"))

	require.NoError(t, config.LoadConfig())
	assert.Equal(t, "text", config.GetConfig("renderer"))
	assert.Equal(t, "llama3 8b", config.GetConfig("model"))
	assert.Equal(t, "text", config.GetConfigMap()["DIRPILOT_RENDERER"])
}

func TestClearConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	defer config.ClearAllConfig()

	config.SetConfig("provider", "ollama")
	assert.Equal(t, "ollama", config.GetConfig("provider"))

	config.ClearConfig("provider")
	assert.Equal(t, "", config.GetConfig("provider"))
	_, ok := config.GetConfigMap()["DIRPILOT_PROVIDER"]
	assert.False(t, ok)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.NoError(t, config.LoadConfig())
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, config.ValidateValue("provider", "gemini"))
	assert.Error(t, config.ValidateValue("provider", "claude"))
	assert.NoError(t, config.ValidateValue("ollama_server_url", "http://localhost:11434"))
	assert.Error(t, config.ValidateValue("ollama_server_url", "not a url"))
	assert.NoError(t, config.ValidateValue("temperature", "0.2"))
	assert.Error(t, config.ValidateValue("max_tokens", "many"))
	assert.Error(t, config.ValidateValue("unknown_key", "x"))
	assert.NoError(t, config.ValidateValue("model", ""))
	assert.True(t, config.IsValidConfigOption("version_policy", "truncate"))
}

func TestSettingsValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIRPILOT_PROVIDER", "ollama")
	t.Setenv("DIRPILOT_TEMPERATURE", "0.3")

	s := config.Load()
	assert.Equal(t, "ollama", s.Provider)
	assert.InDelta(t, 0.3, s.Temperature, 1e-9)
	require.NoError(t, s.Validate())

	s.Provider = "openai"
	s.APIKey = ""
	assert.Error(t, s.Validate())

	s.APIKey = "sk-test"
	s.Temperature = 3
	assert.Error(t, s.Validate())
}
