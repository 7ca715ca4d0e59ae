package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDir(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestLoadAsk(t *testing.T) {
	root := buildDir(t, map[string]string{
		"README.md":   "# app",
		"src/main.go": "package main",
		"logo.png":    "\x00\x01\x02\x03png",
		".git/HEAD":   "ref",
	})

	w, err := Load(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, ModeAsk, w.Mode())
	assert.Equal(t, root, w.Dir())

	var got []string
	for _, f := range w.Files() {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"src/main.go", "README.md"}, got)
	assert.Contains(t, w.Context(), "File: src/main.go")
	assert.Equal(t, 3, w.Stats().FileCount)
	assert.NoDirExists(t, filepath.Join(root, ".versions"))

	_, err = w.Apply([]editor.Edit{{Path: "a", Content: "b"}})
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = w.Revert()
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = w.Versions()
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		root := buildDir(t, map[string]string{"img.bin": "\x00\x01\x02\x03"})
		_, err := Load(context.Background(), root, Options{Mode: ModeEdit})
		assert.ErrorIs(t, err, project.ErrEmptyResult)
		assert.NoDirExists(t, filepath.Join(root, ".versions"))
	})

	t.Run("not a directory", func(t *testing.T) {
		root := buildDir(t, map[string]string{"a.txt": "x"})
		_, err := Load(context.Background(), filepath.Join(root, "a.txt"), Options{})
		assert.ErrorIs(t, err, project.ErrNotADirectory)
	})
}

func TestEditSession(t *testing.T) {
	root := buildDir(t, map[string]string{"a.py": "print('v0')\n"})
	ctx := context.Background()

	w, err := Load(ctx, root, Options{Mode: ModeEdit})
	require.NoError(t, err)
	info, err := w.Info()
	require.NoError(t, err)
	assert.Equal(t, version.Info{CurrentVersion: 0, TotalVersions: 1}, info)
	assert.False(t, w.Modified())

	info, err = w.Apply([]editor.Edit{
		{Path: "a.py", Content: "print('v1')\n"},
		{Path: "./pkg/new.py", Content: "x = 1\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, version.Info{CurrentVersion: 1, TotalVersions: 2}, info)
	assert.True(t, w.Modified())
	assert.Equal(t, "print('v1')\n", readFile(t, root, "a.py"))
	assert.Equal(t, "x = 1\n", readFile(t, root, "pkg/new.py"))
	assert.Contains(t, w.Context(), "File: pkg/new.py")
	assert.Contains(t, w.Context(), "print('v1')")

	info, err = w.Revert()
	require.NoError(t, err)
	assert.Equal(t, 0, info.CurrentVersion)
	assert.Equal(t, "print('v0')\n", readFile(t, root, "a.py"))
	assert.Contains(t, w.Context(), "print('v0')")
	// 版本 0 中不存在的文件保留在磁盘上
	assert.FileExists(t, filepath.Join(root, "pkg", "new.py"))

	_, err = w.Revert()
	assert.ErrorIs(t, err, version.ErrVersionBounds)

	info, err = w.Forward()
	require.NoError(t, err)
	assert.Equal(t, 1, info.CurrentVersion)
	assert.Equal(t, "print('v1')\n", readFile(t, root, "a.py"))

	list, err := w.Versions()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[1].Current)
	assert.ElementsMatch(t, []string{"a.py", "pkg/new.py"}, list[1].Files)

	// 重新加载时沿用已有版本链，.versions 不进入上下文
	again, err := Load(ctx, root, Options{Mode: ModeEdit})
	require.NoError(t, err)
	info, err = again.Info()
	require.NoError(t, err)
	assert.Equal(t, version.Info{CurrentVersion: 1, TotalVersions: 2}, info)
	assert.NotContains(t, again.Context(), ".versions")
}

func TestApplyRejectsEscapingPath(t *testing.T) {
	root := buildDir(t, map[string]string{"a.py": "v0"})
	w, err := Load(context.Background(), root, Options{Mode: ModeEdit})
	require.NoError(t, err)

	_, err = w.Apply([]editor.Edit{{Path: "../outside.py", Content: "x"}})
	var pw *version.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.Empty(t, pw.Written)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "outside.py"))

	info, err := w.Info()
	require.NoError(t, err)
	assert.Equal(t, 1, info.TotalVersions)
}

func TestApplyPartialWriteCommitsWrittenFiles(t *testing.T) {
	root := buildDir(t, map[string]string{"a.py": "v0", "b.py": "v0"})
	w, err := Load(context.Background(), root, Options{Mode: ModeEdit})
	require.NoError(t, err)

	orig := writeFile
	t.Cleanup(func() { writeFile = orig })
	writeFile = func(path string, data []byte) error {
		if strings.HasSuffix(path, "b.py") {
			return errors.New("disk full")
		}
		return orig(path, data)
	}

	info, err := w.Apply([]editor.Edit{
		{Path: "a.py", Content: "v1"},
		{Path: "b.py", Content: "v1"},
	})
	var pw *version.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.Equal(t, []string{"a.py"}, pw.Written)
	assert.Equal(t, "b.py", pw.Failed)
	assert.Equal(t, 1, info.CurrentVersion)

	assert.Equal(t, "v1", readFile(t, root, "a.py"))
	assert.Equal(t, "v0", readFile(t, root, "b.py"))

	rec, err := version.New(root, root)
	require.NoError(t, err)
	saved, err := rec.Load(1)
	require.NoError(t, err)
	require.Len(t, saved.Files, 1)
	assert.Equal(t, "a.py", saved.Files[0].Path)
}

func TestTruncatePolicy(t *testing.T) {
	root := buildDir(t, map[string]string{"a.py": "v0"})
	w, err := Load(context.Background(), root, Options{Mode: ModeEdit, Policy: version.PolicyTruncate})
	require.NoError(t, err)

	_, err = w.Apply([]editor.Edit{{Path: "a.py", Content: "v1"}})
	require.NoError(t, err)
	_, err = w.Revert()
	require.NoError(t, err)

	info, err := w.Apply([]editor.Edit{{Path: "a.py", Content: "v2"}})
	require.NoError(t, err)
	assert.Equal(t, version.Info{CurrentVersion: 1, TotalVersions: 2}, info)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "ask", ModeAsk.String())
	assert.Equal(t, "edit", ModeEdit.String())
}

func TestReadableDropsErrorMarkers(t *testing.T) {
	files := []project.FlatFile{
		{Path: "a.py", Content: "v0"},
		{Path: "locked.py", Content: "Error reading file: denied", Unreadable: true},
	}
	assert.Equal(t, []project.FlatFile{{Path: "a.py", Content: "v0"}}, readable(files))
}

func TestVersion(t *testing.T) {
	root := buildDir(t, map[string]string{"a.py": "v0"})
	w, err := Load(context.Background(), root, Options{Mode: ModeEdit})
	require.NoError(t, err)
	_, err = w.Apply([]editor.Edit{{Path: "a.py", Content: "v1"}})
	require.NoError(t, err)

	rec, err := w.Version(1)
	require.NoError(t, err)
	assert.Equal(t, "v1", rec.Files[0].Content)

	_, err = w.Version(2)
	assert.ErrorIs(t, err, version.ErrVersionBounds)

	ask, err := Load(context.Background(), root, Options{Mode: ModeAsk})
	require.NoError(t, err)
	_, err = ask.Version(0)
	assert.ErrorIs(t, err, ErrReadOnly)
}
