package config

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/sjzsdu/dirpilot/share"
)

// Settings 运行时使用的完整配置
type Settings struct {
	Lang          string
	Renderer      string
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	Temperature   float64
	MaxTokens     int
	VersionPolicy string
}

// Load 从配置文件和环境变量组装配置
func Load() *Settings {
	s := &Settings{
		Lang:          GetConfigWithDefault(KeyLang, "en"),
		Renderer:      GetConfigWithDefault(KeyRenderer, share.DEFAULT_RENDERER),
		Provider:      GetConfigWithDefault(KeyProvider, share.DEFAULT_PROVIDER),
		Model:         GetConfig(KeyModel),
		Temperature:   parseFloat(GetConfig(KeyTemperature), 0.7),
		MaxTokens:     parseInt(GetConfig(KeyMaxTokens), share.MAX_TOKENS),
		VersionPolicy: GetConfigWithDefault(KeyVersionPolicy, "keep"),
	}

	switch s.Provider {
	case ProviderOpenAI:
		s.APIKey = firstNonEmpty(GetConfig(KeyOpenAIAPIKey), os.Getenv("OPENAI_API_KEY"))
		s.BaseURL = GetConfig(KeyOpenAIBaseURL)
	case ProviderGemini:
		s.APIKey = firstNonEmpty(GetConfig(KeyGeminiAPIKey), os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	case ProviderOllama:
		s.BaseURL = GetConfig(KeyOllamaServerURL)
	}
	return s
}

// Validate 校验配置
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Lang, validation.In("en", "zh-CN")),
		validation.Field(&s.Renderer, validation.Required, validation.In(RendererText, RendererMarkdown)),
		validation.Field(&s.Provider, validation.Required, validation.In(ProviderOpenAI, ProviderGemini, ProviderOllama)),
		validation.Field(&s.APIKey, validation.When(s.Provider != ProviderOllama, validation.Required)),
		validation.Field(&s.BaseURL, is.URL),
		validation.Field(&s.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&s.MaxTokens, validation.Min(1)),
		validation.Field(&s.VersionPolicy, validation.In("keep", "truncate")),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
