package editor

import (
	"errors"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/project"
)

// Separator 上下文文本中包围文件头的分隔行
const Separator = "================================================"

const headerPrefix = "File: "

// boundary 出现在两个文件段之间的文本
const boundary = "\n\n" + Separator + "\n" + headerPrefix

// ErrMalformedContext 文本不是合法的上下文格式
var ErrMalformedContext = errors.New("malformed context blob")

// Edit 对单个文件的整体替换
type Edit = project.FlatFile

// Context 路径到内容的有序映射，保持文件首次出现的顺序
type Context struct {
	order []string
	files map[string]string
}

// NewContext 由文件列表创建上下文，重复路径以后出现的为准
func NewContext(files []project.FlatFile) *Context {
	c := &Context{files: make(map[string]string, len(files))}
	for _, f := range files {
		c.Set(f.Path, f.Content)
	}
	return c
}

// Set 替换已有文件的内容，或在末尾追加新文件
func (c *Context) Set(path, content string) {
	path = helper.NormalizeRelPath(path)
	if c.files == nil {
		c.files = make(map[string]string)
	}
	if _, ok := c.files[path]; !ok {
		c.order = append(c.order, path)
	}
	c.files[path] = content
}

// Get 返回文件内容
func (c *Context) Get(path string) (string, bool) {
	content, ok := c.files[helper.NormalizeRelPath(path)]
	return content, ok
}

// Apply 依次应用编辑
func (c *Context) Apply(edits []Edit) {
	for _, e := range edits {
		c.Set(e.Path, e.Content)
	}
}

// ApplyFiles 供版本回退/前进时同步上下文
func (c *Context) ApplyFiles(files []project.FlatFile) error {
	c.Apply(files)
	return nil
}

// Len 文件数量
func (c *Context) Len() int {
	return len(c.order)
}

// Paths 按顺序返回所有路径
func (c *Context) Paths() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Files 按顺序返回所有文件
func (c *Context) Files() []project.FlatFile {
	out := make([]project.FlatFile, 0, len(c.order))
	for _, p := range c.order {
		content := c.files[p]
		out = append(out, project.FlatFile{Path: p, Content: content, Size: int64(len(content))})
	}
	return out
}

// String 序列化为上下文文本
func (c *Context) String() string {
	var b strings.Builder
	for _, p := range c.order {
		writeSegment(&b, p, c.files[p])
	}
	return b.String()
}

func writeSegment(b *strings.Builder, path, content string) {
	b.WriteString(Separator)
	b.WriteString("\n")
	b.WriteString(headerPrefix)
	b.WriteString(path)
	b.WriteString("\n")
	b.WriteString(Separator)
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n\n")
}

// ParseContext 把上下文文本解析回有序映射
// 文件内容中恰好出现完整文件头序列时无法区分，这正是会话持有 Context 而非文本的原因
func ParseContext(blob string) (*Context, error) {
	c := &Context{files: make(map[string]string)}
	if blob == "" {
		return c, nil
	}

	pos := 0
	for pos < len(blob) {
		path, contentStart, ok := parseHeader(blob, pos)
		if !ok {
			return nil, ErrMalformedContext
		}

		end := len(blob)
		next := -1
		for search := contentStart; search < len(blob); {
			idx := strings.Index(blob[search:], boundary)
			if idx < 0 {
				break
			}
			cand := search + idx
			if _, _, ok := parseHeader(blob, cand+2); ok {
				next = cand + 2
				end = cand
				break
			}
			search = cand + 1
		}

		if next < 0 {
			if !strings.HasSuffix(blob, "\n\n") || len(blob)-2 < contentStart {
				return nil, ErrMalformedContext
			}
			end = len(blob) - 2
		}
		c.Set(path, blob[contentStart:end])

		if next < 0 {
			break
		}
		pos = next
	}
	return c, nil
}

// parseHeader 检查 pos 处是否为完整的文件头，返回路径和内容起点
func parseHeader(blob string, pos int) (string, int, bool) {
	rest := blob[pos:]
	prefix := Separator + "\n" + headerPrefix
	if !strings.HasPrefix(rest, prefix) {
		return "", 0, false
	}
	rest = rest[len(prefix):]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", 0, false
	}
	path := rest[:nl]
	rest = rest[nl+1:]
	if !strings.HasPrefix(rest, Separator+"\n") {
		return "", 0, false
	}
	start := pos + len(prefix) + nl + 1 + len(Separator) + 1
	return path, start, true
}

// ApplyEdits 对上下文文本应用编辑并返回新文本
// 已有路径原位替换，新路径追加到末尾
func ApplyEdits(blob string, edits []Edit) (string, error) {
	c, err := ParseContext(blob)
	if err != nil {
		return "", err
	}
	c.Apply(edits)
	return c.String(), nil
}
