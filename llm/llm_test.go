package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type mockModel struct {
	mock.Mock
	prompts []string
}

func (m *mockModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(msgs) > 0 && len(msgs[0].Parts) > 0 {
		if text, ok := msgs[0].Parts[0].(llms.TextContent); ok {
			m.prompts = append(m.prompts, text.Text)
		}
	}
	args := m.Called(ctx, msgs, options)
	if resp, ok := args.Get(0).(*llms.ContentResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func response(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

// streamChunks 在 GenerateContent 中依次回调流式函数
func streamChunks(chunks ...string) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		opts := llms.CallOptions{}
		for _, o := range args.Get(2).([]llms.CallOption) {
			o(&opts)
		}
		if opts.StreamingFunc == nil {
			return
		}
		for _, c := range chunks {
			_ = opts.StreamingFunc(context.Background(), []byte(c))
		}
	}
}

func TestGenerate(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response("an overview"), nil)

	c := NewFromModel(m, "fake")
	out, err := c.Generate(context.Background(), "describe")
	require.NoError(t, err)
	assert.Equal(t, "an overview", out)
	assert.Equal(t, []string{"describe"}, m.prompts)
	assert.Equal(t, "fake", c.Name())
	m.AssertExpectations(t)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		m := new(mockModel)
		m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota"))
		_, err := NewFromModel(m, "fake").Generate(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota")
	})

	t.Run("blank output", func(t *testing.T) {
		m := new(mockModel)
		m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response("  \n"), nil)
		_, err := NewFromModel(m, "fake").Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestStream(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(streamChunks("Let's ", "update ", "main.go")).
		Return(response("Let's update main.go"), nil)

	var got []string
	out, err := NewFromModel(m, "fake").Stream(context.Background(), "plan", func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Let's update main.go", out)
	assert.Equal(t, []string{"Let's ", "update ", "main.go"}, got)
}

func TestStreamWithoutCallbacks(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response("whole answer"), nil)

	var got []string
	out, err := NewFromModel(m, "fake").Stream(context.Background(), "plan", func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "whole answer", out)
	assert.Equal(t, []string{"whole answer"}, got)
}

func TestStreamCallbackError(t *testing.T) {
	stop := errors.New("stop")
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(streamChunks("a", "b")).
		Return(nil, stop)

	_, err := NewFromModel(m, "fake").Stream(context.Background(), "plan", func(chunk string) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), &config.Settings{Provider: "nope"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewOllamaDefaults(t *testing.T) {
	c, err := New(context.Background(), &config.Settings{
		Provider:    config.ProviderOllama,
		BaseURL:     "http://localhost:11434",
		Temperature: 0.2,
		MaxTokens:   128,
	})
	require.NoError(t, err)
	assert.Equal(t, "llama3", c.Name())
	assert.NotNil(t, c.Model())
}

func TestConversationKeepsHistory(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response("hi there"), nil).Once()
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response("still here"), nil).Once()

	conv := NewConversation(NewFromModel(m, "fake"), "")
	ctx := context.Background()

	out, err := conv.Send(ctx, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)

	out, err = conv.Send(ctx, "again", nil)
	require.NoError(t, err)
	assert.Equal(t, "still here", out)

	require.Len(t, m.prompts, 2)
	assert.Contains(t, m.prompts[1], "hello")
	assert.Contains(t, m.prompts[1], "hi there")

	require.NoError(t, conv.Clear(ctx))
}

func TestConversationPrefixAndStream(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Run(streamChunks("```go\n", "}\n```")).
		Return(response("```go\n}\n```"), nil)

	conv := NewConversation(NewFromModel(m, "fake"), "Only answer with code.")
	var chunks []string
	out, err := conv.Send(context.Background(), "close the brace", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "```go\n}\n```", out)
	assert.Len(t, chunks, 2)
	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "Only answer with code.\n\nclose the brace")
}

func TestFormatValues(t *testing.T) {
	out := formatValues(map[string]any{"input": "a\nb", "history": ""})
	assert.Equal(t, `"history": "", "input": "a b"`, out)

	long := formatValues(map[string]any{"k": string(make([]byte, maxLogField+10))})
	assert.Contains(t, long, "...")
}
