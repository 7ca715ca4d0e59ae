package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPrompts(t *testing.T) {
	m := NewManager("")
	system, user := m.List()
	assert.Empty(t, user)
	for _, name := range []string{Overview, AskOverview, Plan, Revise, Edit, Ask, Digest, Code} {
		assert.Contains(t, system, name)
		assert.True(t, m.IsSystem(name))
	}
}

func TestRender(t *testing.T) {
	m := NewManager("")

	t.Run("填充变量", func(t *testing.T) {
		out, err := m.Render(Edit, map[string]any{
			"dir":     "/tmp/app",
			"context": "==== blob ====",
			"query":   "add logging",
			"plan":    "Let's add logging to main.go.",
		})
		require.NoError(t, err)
		assert.Contains(t, out, `"/tmp/app"`)
		assert.Contains(t, out, "==== blob ====")
		assert.Contains(t, out, "Let's add logging to main.go.")
		assert.Contains(t, out, "File: path/to/file.py")
	})

	t.Run("内容中的模板符号不会被再次解析", func(t *testing.T) {
		out, err := m.Render(Overview, map[string]any{
			"dir":     "d",
			"context": "tpl := `{{.Name}}`",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "{{.Name}}")
	})

	t.Run("缺少变量", func(t *testing.T) {
		_, err := m.Render(Plan, map[string]any{"dir": "d"})
		assert.ErrorIs(t, err, ErrMissingVariable)
	})

	t.Run("不存在的提示词", func(t *testing.T) {
		_, err := m.Render("nope", nil)
		assert.ErrorIs(t, err, ErrPromptNotFound)
	})

	t.Run("无变量模板", func(t *testing.T) {
		out, err := m.Render(Code, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "code block")
	})
}

func TestUserPrompts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overview.md"), []byte("custom {{.dir}}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	m := NewManager(dir)

	t.Run("用户模板覆盖内置模板", func(t *testing.T) {
		out, err := m.Render(Overview, map[string]any{"dir": "app"})
		require.NoError(t, err)
		assert.Equal(t, "custom app", out)
		_, user := m.List()
		assert.Equal(t, []string{"overview"}, user)
	})

	t.Run("保存与删除", func(t *testing.T) {
		require.NoError(t, m.Save("review", "review {{.query}}"))
		content, ok := m.Content("review")
		require.True(t, ok)
		assert.Equal(t, "review {{.query}}", content)
		assert.FileExists(t, filepath.Join(dir, "review.md"))

		require.NoError(t, m.Delete("review"))
		_, ok = m.Content("review")
		assert.False(t, ok)
		assert.NoFileExists(t, filepath.Join(dir, "review.md"))
	})

	t.Run("删除用户覆盖后回到内置模板", func(t *testing.T) {
		require.NoError(t, m.Delete(Overview))
		content, ok := m.Content(Overview)
		require.True(t, ok)
		assert.Contains(t, content, "project analyst")
	})

	t.Run("非法名称", func(t *testing.T) {
		assert.Error(t, m.Save("Bad Name", "x"))
		assert.Error(t, m.Save("../evil", "x"))
		assert.Error(t, m.Save("ok", "   "))
	})

	t.Run("删除内置模板失败", func(t *testing.T) {
		assert.ErrorIs(t, m.Delete(Plan), ErrPromptNotFound)
	})
}

func TestVariables(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Variables("{{.a}} {{ .b }} {{.a}}"))
	assert.Empty(t, Variables("plain"))
}

func TestWithLanguage(t *testing.T) {
	assert.Equal(t, "q", WithLanguage("q", "en"))
	assert.Equal(t, "q", WithLanguage("q", "xx"))
	assert.Equal(t, "q\n\n你需要用中文语言回复。", WithLanguage("q", "zh-CN"))
	assert.Equal(t, "Bitte antworten Sie auf Deutsch.", LanguageDirective("DE"))
}
