package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/cmdio"
	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/renders"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/llm"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/workspace"
)

var skipOverview bool

// overviewer 能够输出概览的处理器
type overviewer interface {
	Overview(ctx context.Context, callback func(content string, done bool)) error
}

// loadWorkspace 加载目录并打印统计和扫描警告
func loadWorkspace(ctx context.Context, dir string, mode workspace.Mode, policy version.Policy) (*workspace.Workspace, error) {
	if dir == "" {
		dir = "."
	}
	fmt.Printf(lang.T("Loading %s ...")+"\n", dir)
	ws, err := workspace.Load(ctx, dir, workspace.Options{
		Mode:    mode,
		Scanner: newScanner(project.WithDiagnosticHandler(printDiagnostic)),
		Policy:  policy,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf(lang.T("%d files loaded from %s")+"\n", len(ws.Files()), ws.Dir())
	return ws, nil
}

// newClient 读取配置并创建模型客户端
func newClient(ctx context.Context) (*llm.Client, *config.Settings, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	client, err := llm.New(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	return client, s, nil
}

// showOverview 带加载动画地流式输出概览
func showOverview(ctx context.Context, p overviewer, r renders.Renderer) error {
	if skipOverview {
		return nil
	}
	loading := make(chan bool)
	go helper.ShowLoadingAnimation(loading)
	stopped := false
	stop := func() {
		if !stopped {
			stopped = true
			loading <- true
			<-loading
		}
	}
	defer stop()

	return p.Overview(ctx, func(content string, done bool) {
		stop()
		if content != "" {
			r.WriteStream(content)
		}
		if done {
			r.Done()
		}
	})
}

// runSession 启动交互会话，Ctrl+C 取消视为正常退出
func runSession(ctx context.Context, p cmdio.InteractiveProcessor, r renders.Renderer, welcome string, tips ...string) error {
	session := cmdio.NewInteractiveSession(p,
		cmdio.WithRenderer(r),
		cmdio.WithStream(true),
		cmdio.WithWelcome(welcome),
		cmdio.WithTips(tips...),
	)
	err := session.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func commandTips(commands ...string) string {
	return lang.T("Commands") + ": " + strings.Join(commands, ", ") + ", quit"
}
