package cmdio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/renders"
	"github.com/sjzsdu/dirpilot/lang"
)

// InputStringFunc 读取一行用户输入
type InputStringFunc func(prompt string) (string, error)

// ShowLoadingAnimationFunc 显示加载动画，收到 done 后回写一次表示已清理
type ShowLoadingAnimationFunc func(done chan bool)

// InteractiveSession 交互式会话结构体
type InteractiveSession struct {
	Processor                InteractiveProcessor
	renderer                 renders.Renderer
	welcome                  string
	stream                   bool
	tips                     []string
	prompt                   string
	exitCommands             []string
	inputStringFunc          InputStringFunc
	showLoadingAnimationFunc ShowLoadingAnimationFunc
}

// SessionOption 会话选项函数类型
type SessionOption func(*InteractiveSession)

// NewInteractiveSession 创建新的交互式会话
func NewInteractiveSession(processor InteractiveProcessor, opts ...SessionOption) *InteractiveSession {
	s := &InteractiveSession{
		Processor:                processor,
		renderer:                 renders.NewTextRenderer(os.Stdout),
		prompt:                   "> ",
		exitCommands:             []string{"quit", "q", "exit"},
		inputStringFunc:          helper.InputString,
		showLoadingAnimationFunc: helper.ShowLoadingAnimation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithRenderer 设置渲染器
func WithRenderer(renderer renders.Renderer) SessionOption {
	return func(s *InteractiveSession) {
		s.renderer = renderer
	}
}

// WithWelcome 设置欢迎信息
func WithWelcome(welcome string) SessionOption {
	return func(s *InteractiveSession) {
		s.welcome = welcome
	}
}

// WithTips 追加提示信息
func WithTips(tips ...string) SessionOption {
	return func(s *InteractiveSession) {
		s.tips = append(s.tips, tips...)
	}
}

// WithPrompt 设置命令提示符
func WithPrompt(prompt string) SessionOption {
	return func(s *InteractiveSession) {
		s.prompt = prompt
	}
}

// WithExitCommands 设置退出命令列表
func WithExitCommands(commands ...string) SessionOption {
	return func(s *InteractiveSession) {
		s.exitCommands = commands
	}
}

// WithStream 是否流式输出
func WithStream(stream bool) SessionOption {
	return func(s *InteractiveSession) {
		s.stream = stream
	}
}

// WithInputStringFunc 替换输入函数
func WithInputStringFunc(fn InputStringFunc) SessionOption {
	return func(s *InteractiveSession) {
		s.inputStringFunc = fn
	}
}

// WithShowLoadingAnimationFunc 替换加载动画
func WithShowLoadingAnimationFunc(fn ShowLoadingAnimationFunc) SessionOption {
	return func(s *InteractiveSession) {
		s.showLoadingAnimationFunc = fn
	}
}

// Renderer 返回渲染器
func (s *InteractiveSession) Renderer() renders.Renderer {
	return s.renderer
}

// Start 启动交互式会话，输入结束（EOF）或输入退出命令时返回
func (s *InteractiveSession) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}
	if s.Processor == nil {
		return errors.New("processor cannot be nil")
	}

	if s.welcome != "" {
		s.renderer.WriteStream(s.welcome + "\n")
	}
	for _, tip := range s.tips {
		s.renderer.WriteStream(tip + "\n")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := s.inputStringFunc(s.prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if s.IsExitCommand(input) {
			s.renderer.WriteStream(lang.T("Session terminated, thanks for using!") + "\n")
			s.renderer.Done()
			return nil
		}

		if strings.HasPrefix(input, "/") {
			s.runCommand(ctx, input)
			continue
		}

		if err := s.process(ctx, input); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.renderer.WriteStream(fmt.Sprintf(lang.T("Error processing input")+": %v\n", err))
			s.renderer.Done()
		}
	}
}

func (s *InteractiveSession) runCommand(ctx context.Context, input string) {
	handler, ok := s.Processor.(CommandHandler)
	if !ok {
		s.renderer.WriteStream(fmt.Sprintf(lang.T("Unknown command: %s"), input) + "\n")
		s.renderer.Done()
		return
	}
	out, handled, err := handler.HandleCommand(ctx, input)
	switch {
	case err != nil:
		s.renderer.WriteStream(fmt.Sprintf(lang.T("Error processing input")+": %v\n", err))
	case !handled:
		s.renderer.WriteStream(fmt.Sprintf(lang.T("Unknown command: %s"), input) + "\n")
	default:
		s.renderer.WriteStream(out)
	}
	s.renderer.Done()
}

// process 处理一次输入，首次输出前停止加载动画
func (s *InteractiveSession) process(ctx context.Context, input string) error {
	loadingDone := make(chan bool)
	go s.showLoadingAnimationFunc(loadingDone)

	var once sync.Once
	stopLoading := func() {
		once.Do(func() {
			loadingDone <- true
			<-loadingDone
		})
	}
	defer stopLoading()

	if !s.stream {
		content, err := s.Processor.ProcessInput(ctx, input)
		stopLoading()
		if err != nil {
			return err
		}
		s.renderer.WriteStream(content)
		s.renderer.Done()
		return nil
	}

	return s.Processor.ProcessInputStream(ctx, input, func(content string, done bool) {
		stopLoading()
		if content != "" {
			s.renderer.WriteStream(content)
		}
		if done {
			s.renderer.Done()
		}
	})
}

// IsExitCommand 检查输入是否为退出命令，不区分大小写
func (s *InteractiveSession) IsExitCommand(input string) bool {
	input = strings.TrimSpace(strings.ToLower(input))
	for _, cmd := range s.exitCommands {
		if input == strings.TrimSpace(strings.ToLower(cmd)) {
			return true
		}
	}
	return false
}
