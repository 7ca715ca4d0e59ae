package cmdio

import (
	"context"
	"strings"

	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/llm"
)

// ChatProcessor 自由对话，保留多轮历史
type ChatProcessor struct {
	conv *llm.Conversation
}

// NewChatProcessor 创建对话处理器，instruction 非空时拼在每轮输入前
func NewChatProcessor(client *llm.Client, instruction string) *ChatProcessor {
	return &ChatProcessor{conv: llm.NewConversation(client, instruction)}
}

func (p *ChatProcessor) ProcessInput(ctx context.Context, input string) (string, error) {
	return p.conv.Send(ctx, input, nil)
}

func (p *ChatProcessor) ProcessInputStream(ctx context.Context, input string, callback func(content string, done bool)) error {
	streamed := false
	out, err := p.conv.Send(ctx, input, func(chunk string) error {
		streamed = true
		callback(chunk, false)
		return nil
	})
	if err != nil {
		return err
	}
	if !streamed {
		callback(out, false)
	}
	callback("\n", true)
	return nil
}

func (p *ChatProcessor) HandleCommand(ctx context.Context, input string) (string, bool, error) {
	switch strings.Fields(input)[0] {
	case "/clear":
		if err := p.conv.Clear(ctx); err != nil {
			return "", true, err
		}
		return lang.T("Conversation history cleared.") + "\n", true, nil
	}
	return "", false, nil
}
