package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrEmptyResponse   = errors.New("empty response from model")
)

// 各提供方未配置模型时使用的默认模型
var defaultModels = map[string]string{
	config.ProviderOpenAI: "gpt-4o-mini",
	config.ProviderGemini: "gemini-1.5-flash",
	config.ProviderOllama: "llama3",
}

// Generator 文本生成后端
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Stream 每收到一段输出回调一次，返回完整文本
	Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) (string, error)
}

// Client 基于 langchaingo 模型的 Generator 实现
type Client struct {
	model llms.Model
	name  string
	opts  []llms.CallOption
}

// New 按配置创建客户端
func New(ctx context.Context, s *config.Settings) (*Client, error) {
	if s == nil {
		return nil, errors.New("nil settings")
	}
	name := s.Model
	if name == "" {
		name = defaultModels[s.Provider]
	}

	model, err := newModel(ctx, s, name)
	if err != nil {
		return nil, err
	}

	opts := []llms.CallOption{llms.WithTemperature(s.Temperature)}
	if s.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(s.MaxTokens))
	}
	logger.Debug("llm client created",
		zap.String("provider", s.Provider),
		zap.String("model", name),
	)
	return &Client{model: model, name: name, opts: opts}, nil
}

func newModel(ctx context.Context, s *config.Settings, name string) (llms.Model, error) {
	switch s.Provider {
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(s.APIKey), openai.WithModel(name), openai.WithCallback(LogHandler{})}
		if s.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(s.BaseURL))
		}
		m, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		return m, nil
	case config.ProviderGemini:
		m, err := googleai.New(ctx, googleai.WithAPIKey(s.APIKey), googleai.WithDefaultModel(name))
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		return m, nil
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(name)}
		if s.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(s.BaseURL))
		}
		m, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init ollama: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}

// NewFromModel 包装已有模型
func NewFromModel(model llms.Model, name string, opts ...llms.CallOption) *Client {
	return &Client{model: model, name: name, opts: opts}
}

// Name 模型名称
func (c *Client) Name() string {
	return c.name
}

// Model 底层 langchaingo 模型
func (c *Client) Model() llms.Model {
	return c.model
}

// Generate 一次性生成
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.opts...)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// Stream 流式生成
func (c *Client) Stream(ctx context.Context, prompt string, onChunk func(chunk string) error) (string, error) {
	var sb strings.Builder
	opts := append([]llms.CallOption{}, c.opts...)
	opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		sb.Write(chunk)
		if onChunk != nil {
			return onChunk(string(chunk))
		}
		return nil
	}))

	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, opts...)
	if err != nil {
		return sb.String(), fmt.Errorf("stream: %w", err)
	}
	// 部分提供方不回调流式函数，只返回完整结果
	if sb.Len() == 0 && out != "" {
		sb.WriteString(out)
		if onChunk != nil {
			if err := onChunk(out); err != nil {
				return out, err
			}
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
