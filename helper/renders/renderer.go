package renders

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Renderer 流式输出模型回复
type Renderer interface {
	WriteStream(content string) error
	// Done 一次回复结束，输出剩余内容
	Done()
}

const (
	KindText     = "text"
	KindMarkdown = "markdown"
)

// New 按类型创建渲染器，markdown 初始化失败时回退到纯文本
func New(kind string, w io.Writer) Renderer {
	if w == nil {
		w = os.Stdout
	}
	if kind == KindMarkdown {
		r, err := NewMarkdownRenderer(w)
		if err == nil {
			return r
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	return NewTextRenderer(w)
}

// TextRenderer 原样输出
type TextRenderer struct {
	w          io.Writer
	mu         sync.Mutex
	endNewline bool
	written    bool
}

// NewTextRenderer 创建纯文本渲染器
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (t *TextRenderer) WriteStream(content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if content == "" {
		return nil
	}
	if _, err := io.WriteString(t.w, content); err != nil {
		return err
	}
	t.written = true
	t.endNewline = content[len(content)-1] == '\n'
	return nil
}

// Done 补齐末尾换行
func (t *TextRenderer) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.written && !t.endNewline {
		io.WriteString(t.w, "\n")
	}
	t.written = false
	t.endNewline = false
}
