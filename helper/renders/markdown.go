package renders

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// 没有空行时缓冲区超过该长度也会输出
const flushThreshold = 500

// MarkdownRenderer 按段落缓冲流式内容，用 glamour 渲染后输出
type MarkdownRenderer struct {
	w        io.Writer
	renderer *glamour.TermRenderer
	buffer   strings.Builder
	mu       sync.Mutex
}

// NewMarkdownRenderer 创建 Markdown 渲染器，默认自动选择终端样式
func NewMarkdownRenderer(w io.Writer, opts ...glamour.TermRendererOption) (*MarkdownRenderer, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	opts = append(opts, glamour.WithWordWrap(120))
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("init markdown renderer: %w", err)
	}
	return &MarkdownRenderer{w: w, renderer: renderer}, nil
}

// WriteStream 缓冲内容，遇到完整段落时立即渲染
func (m *MarkdownRenderer) WriteStream(content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buffer.WriteString(content)
	buf := m.buffer.String()
	cut := flushPoint(buf)
	if cut <= 0 {
		return nil
	}
	m.buffer.Reset()
	m.buffer.WriteString(buf[cut:])
	return m.render(buf[:cut])
}

// Done 渲染剩余内容
func (m *MarkdownRenderer) Done() {
	m.mu.Lock()
	defer m.mu.Unlock()

	rest := m.buffer.String()
	m.buffer.Reset()
	if strings.TrimSpace(rest) == "" {
		return
	}
	_ = m.render(rest)
}

// flushPoint 返回可安全渲染的前缀长度，代码块未闭合时返回 0
func flushPoint(buf string) int {
	if strings.Count(buf, "```")%2 == 1 {
		return 0
	}
	if i := strings.LastIndex(buf, "\n\n"); i > 0 {
		return i + 2
	}
	if len(buf) > flushThreshold {
		if i := strings.LastIndex(buf, "\n"); i > 0 {
			return i + 1
		}
	}
	return 0
}

func (m *MarkdownRenderer) render(content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		// 渲染失败时输出原文
		_, werr := io.WriteString(m.w, content)
		return werr
	}
	for strings.Contains(rendered, "\n\n\n") {
		rendered = strings.ReplaceAll(rendered, "\n\n\n", "\n\n")
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err = io.WriteString(m.w, rendered)
	return err
}
