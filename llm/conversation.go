package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/memory"
)

// Conversation 带历史记录的多轮对话，chat 模式使用
type Conversation struct {
	chain  chains.LLMChain
	memory *memory.ConversationBuffer
	// prefix 拼在每轮用户输入之前，例如 code-only 的系统指令
	prefix string
}

// NewConversation 基于客户端模型创建对话
func NewConversation(c *Client, prefix string) *Conversation {
	buf := memory.NewConversationBuffer()
	chain := chains.NewConversation(c.model, buf)
	chain.CallbacksHandler = LogHandler{}
	return &Conversation{
		chain:  chain,
		memory: buf,
		prefix: prefix,
	}
}

// Send 发送一轮输入，onChunk 为 nil 时不走流式
func (c *Conversation) Send(ctx context.Context, input string, onChunk func(chunk string) error) (string, error) {
	if c.prefix != "" {
		input = c.prefix + "\n\n" + input
	}

	var sb strings.Builder
	var opts []chains.ChainCallOption
	if onChunk != nil {
		opts = append(opts, chains.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			sb.Write(chunk)
			return onChunk(string(chunk))
		}))
	}

	out, err := chains.Run(ctx, c.chain, input, opts...)
	if err != nil {
		return sb.String(), fmt.Errorf("conversation: %w", err)
	}
	if strings.TrimSpace(out) == "" && sb.Len() > 0 {
		out = sb.String()
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// Clear 清空历史
func (c *Conversation) Clear(ctx context.Context) error {
	return c.memory.Clear(ctx)
}
