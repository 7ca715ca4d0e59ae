package pack

import (
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/share"
)

// Formatter 定义摘要输出格式的接口
type Formatter interface {
	Header(d *DigestResult) string
	Format(file project.FlatFile) string
	Footer() string
	FileExtension() string
}

// TextFormatter 纯文本格式：目录树后接上下文文本
type TextFormatter struct{}

func (t *TextFormatter) Header(d *DigestResult) string {
	return d.Tree + "\n"
}

func (t *TextFormatter) Format(file project.FlatFile) string {
	return editor.NewContext([]project.FlatFile{file}).String()
}

func (t *TextFormatter) Footer() string {
	return ""
}

func (t *TextFormatter) FileExtension() string {
	return ".txt"
}

// MarkdownFormatter Markdown格式
type MarkdownFormatter struct{}

// Format 格式化单个文件内容为Markdown格式
func (m *MarkdownFormatter) Format(file project.FlatFile) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("## 📄 %s\n\n", file.Path))
	builder.WriteString(fmt.Sprintf("**路径:** `%s`  \n", file.Path))
	builder.WriteString(fmt.Sprintf("**大小:** %d bytes  \n\n", file.Size))

	// 内容里本身含有 ``` 时加长围栏
	fence := "```"
	for strings.Contains(file.Content, fence) {
		fence += "`"
	}
	builder.WriteString(fence + helper.LanguageOf(file.Path) + "\n")
	builder.WriteString(file.Content)
	if !strings.HasSuffix(file.Content, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(fence + "\n\n")

	return builder.String()
}

// Header 生成文档头部
func (m *MarkdownFormatter) Header(d *DigestResult) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# 📦 项目摘要: %s\n\n", d.Title()))
	builder.WriteString(fmt.Sprintf("> %s\n\n", strings.ReplaceAll(d.Summary, "\n", "  \n> ")))
	builder.WriteString("```text\n")
	builder.WriteString(d.Tree)
	if !strings.HasSuffix(d.Tree, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("```\n\n---\n\n")
	return builder.String()
}

// Footer 生成文档尾部
func (m *MarkdownFormatter) Footer() string {
	return fmt.Sprintf("\n---\n*文档由 %s %s 自动生成*\n", share.BUILDNAME, share.VERSION)
}

// FileExtension 返回文件扩展名
func (m *MarkdownFormatter) FileExtension() string {
	return ".md"
}

// GetFormatter 根据格式名称获取对应的格式化器
func GetFormatter(format string) Formatter {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "markdown", "md":
		return &MarkdownFormatter{}
	default:
		return &TextFormatter{}
	}
}
