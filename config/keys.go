package config

import (
	"fmt"
	"sort"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ConfigKeyInfo 存储配置键的相关信息
type ConfigKeyInfo struct {
	Description string   // 配置项描述
	Options     []string // 可选值，如果为空则表示没有限制
	Type        string   // string, secret, url, float, int
}

// 配置键常量定义
const (
	KeyLang            = "lang"
	KeyRenderer        = "renderer"
	KeyProvider        = "provider"
	KeyModel           = "model"
	KeyTemperature     = "temperature"
	KeyMaxTokens       = "max_tokens"
	KeyOpenAIAPIKey    = "openai_api_key"
	KeyOpenAIBaseURL   = "openai_base_url"
	KeyGeminiAPIKey    = "gemini_api_key"
	KeyOllamaServerURL = "ollama_server_url"
	KeyVersionPolicy   = "version_policy"
)

// 可选值
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	RendererText     = "text"
	RendererMarkdown = "markdown"
)

// ConfigKeys 存储所有配置键及其信息
var ConfigKeys = map[string]ConfigKeyInfo{
	KeyLang: {
		Description: "Set language",
		Options:     []string{"en", "zh-CN"},
		Type:        "string",
	},
	KeyRenderer: {
		Description: "Set llm response render type",
		Options:     []string{RendererText, RendererMarkdown},
		Type:        "string",
	},
	KeyProvider: {
		Description: "Set default LLM provider",
		Options:     []string{ProviderOpenAI, ProviderGemini, ProviderOllama},
		Type:        "string",
	},
	KeyModel: {
		Description: "Set model name",
		Type:        "string",
	},
	KeyTemperature: {
		Description: "Set sampling temperature",
		Type:        "float",
	},
	KeyMaxTokens: {
		Description: "Set max tokens per response",
		Type:        "int",
	},
	KeyOpenAIAPIKey: {
		Description: "Set OpenAI API key",
		Type:        "secret",
	},
	KeyOpenAIBaseURL: {
		Description: "Set OpenAI compatible base URL",
		Type:        "url",
	},
	KeyGeminiAPIKey: {
		Description: "Set Gemini API key",
		Type:        "secret",
	},
	KeyOllamaServerURL: {
		Description: "Set Ollama server URL",
		Type:        "url",
	},
	KeyVersionPolicy: {
		Description: "Set commit-after-revert policy",
		Options:     []string{"keep", "truncate"},
		Type:        "string",
	},
}

// GetConfigDescription 获取配置键的描述
func GetConfigDescription(key string) string {
	return ConfigKeys[key].Description
}

// GetConfigType 获取配置键的类型
func GetConfigType(key string) string {
	if info, exists := ConfigKeys[key]; exists && info.Type != "" {
		return info.Type
	}
	return "string"
}

// GetAllConfigKeys 按字典序获取所有配置键
func GetAllConfigKeys() []string {
	keys := make([]string, 0, len(ConfigKeys))
	for key := range ConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ValidateValue 校验单个配置值
func ValidateValue(key, value string) error {
	info, ok := ConfigKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if value == "" {
		return nil
	}

	var rules []validation.Rule
	if len(info.Options) > 0 {
		in := make([]interface{}, len(info.Options))
		for i, o := range info.Options {
			in[i] = o
		}
		rules = append(rules, validation.In(in...))
	}
	switch info.Type {
	case "url":
		rules = append(rules, is.URL)
	case "float":
		rules = append(rules, is.Float)
	case "int":
		rules = append(rules, is.Int)
	}
	if err := validation.Validate(value, rules...); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// IsValidConfigOption 检查给定的值是否是配置键的有效选项
func IsValidConfigOption(key, value string) bool {
	return ValidateValue(key, value) == nil
}

func parseFloat(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
