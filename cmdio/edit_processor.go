package cmdio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/llm"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/sjzsdu/dirpilot/prompt"
	"github.com/sjzsdu/dirpilot/workspace"
	"go.uber.org/zap"
)

// EditProcessor 规划、确认并把修改写入工作区
type EditProcessor struct {
	gen      llm.Generator
	ws       *workspace.Workspace
	language string
	confirm  InputStringFunc
	// refresh 修改后重新生成概览
	refresh bool
}

// EditOption 编辑处理器选项
type EditOption func(*EditProcessor)

// WithConfirmFunc 替换计划确认时的输入函数
func WithConfirmFunc(fn InputStringFunc) EditOption {
	return func(p *EditProcessor) {
		p.confirm = fn
	}
}

// WithOverviewRefresh 修改写入后是否重新生成概览
func WithOverviewRefresh(refresh bool) EditOption {
	return func(p *EditProcessor) {
		p.refresh = refresh
	}
}

// NewEditProcessor 创建编辑处理器，ws 必须是编辑模式
func NewEditProcessor(gen llm.Generator, ws *workspace.Workspace, language string, opts ...EditOption) *EditProcessor {
	p := &EditProcessor{
		gen:      gen,
		ws:       ws,
		language: language,
		confirm:  helper.InputString,
		refresh:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *EditProcessor) render(name string, vars prompt.Vars) (string, error) {
	vars["dir"] = p.ws.Dir()
	vars["context"] = p.ws.Context()
	text, err := prompt.Render(name, vars)
	if err != nil {
		return "", err
	}
	return prompt.WithLanguage(text, p.language), nil
}

// Overview 流式输出项目概览
func (p *EditProcessor) Overview(ctx context.Context, callback func(content string, done bool)) error {
	text, err := p.render(prompt.Overview, prompt.Vars{})
	if err != nil {
		return err
	}
	return streamPrompt(ctx, p.gen, text, callback, true)
}

func (p *EditProcessor) ProcessInput(ctx context.Context, input string) (string, error) {
	return collect(ctx, input, p.ProcessInputStream)
}

// ProcessInputStream 生成计划，确认（或修改）后生成并写入文件修改
func (p *EditProcessor) ProcessInputStream(ctx context.Context, query string, callback func(content string, done bool)) error {
	plan, err := p.plan(ctx, query, callback)
	if err != nil {
		return err
	}

	for {
		answer, err := p.confirm(lang.T("Apply this plan? (y/n, or describe a change): "))
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if yes, ok := helper.ParseYesNo(answer); ok {
			if !yes {
				callback(lang.T("Plan discarded.")+"\n", true)
				return nil
			}
			break
		}
		if answer == "" {
			continue
		}
		plan, err = p.revise(ctx, query, plan, answer, callback)
		if err != nil {
			return err
		}
	}

	return p.apply(ctx, query, plan, callback)
}

func (p *EditProcessor) plan(ctx context.Context, query string, callback func(string, bool)) (string, error) {
	text, err := p.render(prompt.Plan, prompt.Vars{"query": query})
	if err != nil {
		return "", err
	}
	return p.streamPlan(ctx, text, callback)
}

func (p *EditProcessor) revise(ctx context.Context, query, plan, modification string, callback func(string, bool)) (string, error) {
	text, err := p.render(prompt.Revise, prompt.Vars{
		"query":        query,
		"plan":         plan,
		"modification": modification,
	})
	if err != nil {
		return "", err
	}
	return p.streamPlan(ctx, text, callback)
}

func (p *EditProcessor) streamPlan(ctx context.Context, text string, callback func(string, bool)) (string, error) {
	callback("\n"+lang.T("Proposed plan:")+"\n", false)
	plan, err := p.gen.Stream(ctx, text, func(chunk string) error {
		callback(chunk, false)
		return nil
	})
	if err != nil {
		return "", err
	}
	callback("\n", true)
	return strings.TrimSpace(plan), nil
}

func (p *EditProcessor) apply(ctx context.Context, query, plan string, callback func(string, bool)) error {
	text, err := p.render(prompt.Edit, prompt.Vars{"query": query, "plan": plan})
	if err != nil {
		return err
	}
	callback(lang.T("Generating file changes...")+"\n", false)
	response, err := p.gen.Generate(ctx, text)
	if err != nil {
		return err
	}

	edits := editor.ParseEdits(response)
	if len(edits) == 0 {
		logger.Warn("no edits in response", zap.Int("bytes", len(response)))
		callback(lang.T("No file changes found in the response.")+"\n", true)
		return nil
	}

	info, err := p.ws.Apply(edits)
	written := len(edits)
	var pw *version.PartialWriteError
	switch {
	case errors.As(err, &pw):
		for _, path := range pw.Written {
			callback("  ✓ "+path+"\n", false)
		}
		callback(fmt.Sprintf("  ✗ %s: %v\n", pw.Failed, pw.Err), false)
		if len(pw.Written) == 0 {
			callback(lang.T("No files were written.")+"\n", true)
			return nil
		}
		written = len(pw.Written)
	case err != nil:
		return err
	default:
		for _, e := range edits {
			callback("  ✓ "+helper.NormalizeRelPath(e.Path)+"\n", false)
		}
	}
	callback(fmt.Sprintf(lang.T("Directory modified. %d file(s) updated. Saved as version %d.")+"\n",
		written, info.CurrentVersion), !p.refresh)

	if p.refresh {
		return p.Overview(ctx, callback)
	}
	return nil
}

func (p *EditProcessor) HandleCommand(ctx context.Context, input string) (string, bool, error) {
	switch strings.Fields(input)[0] {
	case "/revert":
		info, err := p.ws.Revert()
		if errors.Is(err, version.ErrVersionBounds) {
			return lang.T("Already at the oldest version.") + "\n", true, nil
		}
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf(lang.T("Reverted to version %d.")+"\n", info.CurrentVersion), true, nil
	case "/forward":
		info, err := p.ws.Forward()
		if errors.Is(err, version.ErrVersionBounds) {
			return lang.T("Already at the latest version.") + "\n", true, nil
		}
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf(lang.T("Moved forward to version %d.")+"\n", info.CurrentVersion), true, nil
	case "/versions":
		list, err := p.ws.Versions()
		if err != nil {
			return "", true, err
		}
		return FormatVersions(list), true, nil
	case "/show":
		return p.show(input)
	case "/files":
		return formatPaths(filePaths(p.ws)), true, nil
	case "/overview":
		out, err := collect(ctx, "", func(ctx context.Context, _ string, cb func(string, bool)) error {
			return p.Overview(ctx, cb)
		})
		return out, true, err
	}
	return "", false, nil
}

// show 输出指定版本记录的文件内容
func (p *EditProcessor) show(input string) (string, bool, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return lang.T("Usage: /show <version>") + "\n", true, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(fields[1], "v"))
	if err != nil {
		return lang.T("Usage: /show <version>") + "\n", true, nil
	}
	rec, err := p.ws.Version(n)
	if errors.Is(err, version.ErrVersionBounds) {
		return fmt.Sprintf(lang.T("No such version: %d.")+"\n", n), true, nil
	}
	if err != nil {
		return "", true, err
	}
	header := fmt.Sprintf(lang.T("Version %d, saved %s")+"\n", n, rec.Timestamp.Format(helper.TimeLayout))
	return header + editor.NewContext(rec.Files).String(), true, nil
}

// FormatVersions 把版本链格式化为列表，当前版本以 * 标记
func FormatVersions(list []version.Summary) string {
	var b strings.Builder
	for _, s := range list {
		marker := " "
		if s.Current {
			marker = "*"
		}
		label := strings.Join(s.Files, ", ")
		if s.Index == 0 {
			label = fmt.Sprintf(lang.T("initial snapshot (%d files)"), len(s.Files))
		}
		fmt.Fprintf(&b, "%s v%-3d %s  %s\n", marker, s.Index, s.Timestamp.Format(helper.TimeLayout), label)
	}
	return b.String()
}
