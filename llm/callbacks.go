package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// 日志中单个字段的最大长度
const maxLogField = 200

// LogHandler 把模型与链的调用过程写入 debug 日志
type LogHandler struct {
	callbacks.SimpleHandler
}

var _ callbacks.Handler = LogHandler{}

func (LogHandler) HandleLLMGenerateContentStart(_ context.Context, ms []llms.MessageContent) {
	size := 0
	for _, m := range ms {
		for _, p := range m.Parts {
			if t, ok := p.(llms.TextContent); ok {
				size += len(t.Text)
			}
		}
	}
	logger.Debug("llm request", zap.Int("messages", len(ms)), zap.Int("promptBytes", size))
}

func (LogHandler) HandleLLMGenerateContentEnd(_ context.Context, res *llms.ContentResponse) {
	if res == nil || len(res.Choices) == 0 {
		logger.Debug("llm response", zap.Int("choices", 0))
		return
	}
	c := res.Choices[0]
	logger.Debug("llm response",
		zap.Int("choices", len(res.Choices)),
		zap.String("stopReason", c.StopReason),
		zap.Int("bytes", len(c.Content)),
	)
}

func (LogHandler) HandleLLMError(_ context.Context, err error) {
	logger.Debug("llm error", zap.Error(err))
}

func (LogHandler) HandleChainStart(_ context.Context, inputs map[string]any) {
	logger.Debug("chain start", zap.String("inputs", formatValues(inputs)))
}

func (LogHandler) HandleChainEnd(_ context.Context, outputs map[string]any) {
	logger.Debug("chain end", zap.String("outputs", formatValues(outputs)))
}

func (LogHandler) HandleChainError(_ context.Context, err error) {
	logger.Debug("chain error", zap.Error(err))
}

func formatValues(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: %q", k, truncate(removeNewLines(values[k]))))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string) string {
	if len(s) <= maxLogField {
		return s
	}
	return s[:maxLogField] + "..."
}

func removeNewLines(s any) string {
	return strings.ReplaceAll(fmt.Sprint(s), "\n", " ")
}
