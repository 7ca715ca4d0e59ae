package renders

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	require.NoError(t, r.WriteStream("hello "))
	require.NoError(t, r.WriteStream("world"))
	r.Done()
	assert.Equal(t, "hello world\n", buf.String())

	buf.Reset()
	require.NoError(t, r.WriteStream("line\n"))
	r.Done()
	assert.Equal(t, "line\n", buf.String(), "已有换行时不重复补齐")

	buf.Reset()
	r.Done()
	assert.Empty(t, buf.String())
}

func TestFlushPoint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"空", "", 0},
		{"段落未结束", "partial line", 0},
		{"完整段落", "para one\n\nnext", len("para one\n\n")},
		{"代码块未闭合", "text\n\n```go\nfunc main() {\n\n", 0},
		{"代码块已闭合", "```go\nx\n```\n\n", len("```go\nx\n```\n\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flushPoint(tt.in))
		})
	}

	long := bytes.Repeat([]byte("a"), flushThreshold)
	in := "head\n" + string(long)
	assert.Equal(t, len("head\n"), flushPoint(in))
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewMarkdownRenderer(&buf, glamour.WithStandardStyle(styles.NoTTYStyle))
	require.NoError(t, err)

	require.NoError(t, r.WriteStream("# Title\n\nSome "))
	assert.Contains(t, buf.String(), "Title")
	assert.NotContains(t, buf.String(), "Some")

	require.NoError(t, r.WriteStream("**bold** text"))
	r.Done()
	assert.Contains(t, buf.String(), "bold")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	_, ok := New(KindText, &buf).(*TextRenderer)
	assert.True(t, ok)
	_, ok = New(KindMarkdown, &buf).(*MarkdownRenderer)
	assert.True(t, ok)
	_, ok = New("unknown", &buf).(*TextRenderer)
	assert.True(t, ok)
}
