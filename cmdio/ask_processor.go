package cmdio

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/llm"
	"github.com/sjzsdu/dirpilot/project/pack"
	"github.com/sjzsdu/dirpilot/prompt"
	"github.com/sjzsdu/dirpilot/workspace"
)

// AskProcessor 基于已加载内容回答问题，不修改任何文件
type AskProcessor struct {
	gen      llm.Generator
	template string
	dir      string
	context  func() string
	paths    func() []string
	language string
}

// NewAskProcessor 针对工作区问答
func NewAskProcessor(gen llm.Generator, ws *workspace.Workspace, language string) *AskProcessor {
	return &AskProcessor{
		gen:      gen,
		template: prompt.Ask,
		dir:      ws.Dir(),
		context:  ws.Context,
		paths:    func() []string { return filePaths(ws) },
		language: language,
	}
}

// NewDigestProcessor 针对摘要结果问答
func NewDigestProcessor(gen llm.Generator, d *pack.DigestResult, language string) *AskProcessor {
	text := pack.Render(d, &pack.TextFormatter{})
	return &AskProcessor{
		gen:      gen,
		template: prompt.Digest,
		dir:      d.Source,
		context:  func() string { return text },
		paths: func() []string {
			out := make([]string, len(d.Files))
			for i, f := range d.Files {
				out[i] = f.Path
			}
			return out
		},
		language: language,
	}
}

func (p *AskProcessor) render(name, query string) (string, error) {
	text, err := prompt.Render(name, prompt.Vars{
		"dir":     p.dir,
		"context": p.context(),
		"query":   query,
	})
	if err != nil {
		return "", err
	}
	return prompt.WithLanguage(text, p.language), nil
}

// Overview 流式输出项目概览
func (p *AskProcessor) Overview(ctx context.Context, callback func(content string, done bool)) error {
	text, err := p.render(prompt.AskOverview, "")
	if err != nil {
		return err
	}
	return streamPrompt(ctx, p.gen, text, callback, true)
}

func (p *AskProcessor) ProcessInput(ctx context.Context, input string) (string, error) {
	text, err := p.render(p.template, input)
	if err != nil {
		return "", err
	}
	return p.gen.Generate(ctx, text)
}

func (p *AskProcessor) ProcessInputStream(ctx context.Context, input string, callback func(content string, done bool)) error {
	text, err := p.render(p.template, input)
	if err != nil {
		return err
	}
	return streamPrompt(ctx, p.gen, text, callback, true)
}

func (p *AskProcessor) HandleCommand(ctx context.Context, input string) (string, bool, error) {
	switch strings.Fields(input)[0] {
	case "/files":
		return formatPaths(p.paths()), true, nil
	case "/overview":
		out, err := collect(ctx, "", func(ctx context.Context, _ string, cb func(string, bool)) error {
			return p.Overview(ctx, cb)
		})
		return out, true, err
	}
	return "", false, nil
}

// streamPrompt 流式生成并转发给回调，finish 为 true 时以 done 结束
func streamPrompt(ctx context.Context, gen llm.Generator, text string, callback func(string, bool), finish bool) error {
	_, err := gen.Stream(ctx, text, func(chunk string) error {
		callback(chunk, false)
		return nil
	})
	if err != nil {
		return err
	}
	if finish {
		callback("\n", true)
	}
	return nil
}

func filePaths(ws *workspace.Workspace) []string {
	files := ws.Files()
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func formatPaths(paths []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, lang.T("%d files loaded:")+"\n", len(paths))
	for _, p := range paths {
		b.WriteString("  " + p + "\n")
	}
	return b.String()
}
