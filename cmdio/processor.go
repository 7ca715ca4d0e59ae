package cmdio

import "context"

// InteractiveProcessor 交互式处理器接口
type InteractiveProcessor interface {
	// ProcessInput 处理用户输入
	ProcessInput(ctx context.Context, input string) (string, error)
	ProcessInputStream(ctx context.Context, input string, callback func(content string, done bool)) error
}

// CommandHandler 处理以 / 开头的会话命令
type CommandHandler interface {
	// HandleCommand handled 为 false 表示不认识该命令
	HandleCommand(ctx context.Context, input string) (output string, handled bool, err error)
}

// collect 把流式处理的结果收集为完整字符串
func collect(ctx context.Context, input string, run func(ctx context.Context, input string, callback func(string, bool)) error) (string, error) {
	var out []byte
	err := run(ctx, input, func(content string, done bool) {
		out = append(out, content...)
	})
	return string(out), err
}
