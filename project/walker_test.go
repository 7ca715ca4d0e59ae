package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sjzsdu/dirpilot/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFS 在临时目录中按 相对路径->内容 创建文件
func buildFS(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func childNames(n *FileNode) []string {
	var names []string
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestScanExcludesAndOrders(t *testing.T) {
	root := buildFS(t, map[string]string{
		"a.py":              "print('a')",
		"node_modules/x.js": "x=1;",
		"README.md":         "# readme here......",
	})

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "a.py"}, childNames(res.Root))
	assert.Equal(t, 2, res.Root.FileCount)
	assert.Equal(t, 2, res.Stats.TotalFiles)
	assert.Empty(t, res.Diagnostics)
}

func TestScanChildOrdering(t *testing.T) {
	root := buildFS(t, map[string]string{
		"b.txt":       "b",
		"A.txt":       "a",
		"readme.MD":   "r",
		"zdir/f.txt":  "f",
		"Adir/g.txt":  "g",
		"c.txt":       "c",
		"empty/.keep": "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nothing"), 0755))

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	// 空目录不会出现在树中
	assert.Equal(t, []string{"Adir", "empty", "zdir", "readme.MD", "A.txt", "b.txt", "c.txt"}, childNames(res.Root))
	assert.Equal(t, 3, res.Root.DirCount)
	assert.Equal(t, 7, res.Root.FileCount)
}

func TestScanNotADirectory(t *testing.T) {
	root := buildFS(t, map[string]string{"f.txt": "x"})

	_, err := Scan(context.Background(), filepath.Join(root, "f.txt"))
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = Scan(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanFileLimit(t *testing.T) {
	root := buildFS(t, map[string]string{
		"1.txt": "1", "2.txt": "2", "3.txt": "3", "sub/4.txt": "4",
	})
	limits := DefaultLimits()
	limits.MaxFiles = 2

	res, err := NewScanner(WithLimits(limits)).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.TotalFiles)
	assert.Equal(t, 2, res.Root.FileCount)
	require.NotEmpty(t, res.Diagnostics)
	for _, d := range res.Diagnostics {
		assert.Equal(t, DiagLimitExceeded, d.Kind)
		assert.ErrorIs(t, d.Err(), ErrLimitExceeded)
	}
}

func TestScanDepthLimit(t *testing.T) {
	root := buildFS(t, map[string]string{
		"top.txt":       "t",
		"a/mid.txt":     "m",
		"a/b/deep.txt":  "d",
		"a/b/c/x.txt":   "x",
	})
	limits := DefaultLimits()
	limits.MaxDepth = 1

	res, err := NewScanner(WithLimits(limits)).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Root.FileCount)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagLimitExceeded, res.Diagnostics[0].Kind)
	assert.Equal(t, filepath.Join(root, "a", "b"), res.Diagnostics[0].Path)
}

func TestScanTotalSizeLimit(t *testing.T) {
	root := buildFS(t, map[string]string{
		"a.txt": strings.Repeat("a", 60),
		"b.txt": strings.Repeat("b", 60),
		"c.txt": "c",
	})
	limits := DefaultLimits()
	limits.MaxTotalSize = 100

	res, err := NewScanner(WithLimits(limits)).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "c.txt"}, childNames(res.Root))
	assert.LessOrEqual(t, res.Stats.TotalSize, int64(100))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, filepath.Join(root, "b.txt"), res.Diagnostics[0].Path)
}

func TestScanLargeFileNotRead(t *testing.T) {
	root := buildFS(t, map[string]string{
		"big.txt":   strings.Repeat("x", 64),
		"small.txt": "ok",
	})
	limits := DefaultLimits()
	limits.MaxFileSize = 32

	orig := readFile
	defer func() { readFile = orig }()
	readFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "big.txt" {
			t.Fatalf("large file should not be read")
		}
		return orig(name)
	}

	res, err := NewScanner(WithLimits(limits)).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Root.Children, 2)
	big := res.Root.Children[0]
	assert.True(t, big.TooLarge)
	assert.False(t, big.Ingestible())
	assert.Equal(t, 2, res.Stats.TotalFiles)
}

func TestScanBinaryAndLatin1(t *testing.T) {
	root := buildFS(t, map[string]string{
		"blob.dat":  string([]byte{'x', 0x00, 0x01, 0x02, 0x03}),
		"latin.txt": string([]byte{'c', 'a', 'f', 0xE9}),
	})

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Root.Children, 2)

	blob, latin := res.Root.Children[0], res.Root.Children[1]
	assert.True(t, blob.Binary)
	assert.Equal(t, share.NON_TEXT_FILE_CONTENT, blob.Content)
	assert.False(t, blob.Ingestible())
	assert.Equal(t, "café", latin.Content)
	assert.True(t, latin.Ingestible())
}

func TestScanReadFailureIsSoft(t *testing.T) {
	root := buildFS(t, map[string]string{"bad.txt": "x", "good.txt": "y"})

	orig := readFile
	defer func() { readFile = orig }()
	readFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "bad.txt" {
			return nil, errors.New("permission denied")
		}
		return orig(name)
	}

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Root.Children, 2)
	bad := res.Root.Children[0]
	assert.True(t, bad.Unreadable)
	assert.Contains(t, bad.Content, "Error reading file")
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0].Err(), ErrReadFailure)
}

func TestScanSubdirectoryReadFailure(t *testing.T) {
	root := buildFS(t, map[string]string{
		"locked/secret.txt": "s",
		"open/ok.txt":       "o",
	})
	lockedPath := filepath.Join(root, "locked")

	orig := readDir
	defer func() { readDir = orig }()
	readDir = func(name string) ([]os.DirEntry, error) {
		if name == lockedPath {
			return nil, os.ErrPermission
		}
		return orig(name)
	}

	var seen []Diagnostic
	res, err := NewScanner(WithDiagnosticHandler(func(d Diagnostic) {
		seen = append(seen, d)
	})).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, childNames(res.Root))
	require.Len(t, seen, 1)
	assert.Equal(t, DiagDirectoryRead, seen[0].Kind)
	assert.Equal(t, res.Diagnostics, seen)
}

func TestScanRootReadFailureIsFatal(t *testing.T) {
	root := buildFS(t, map[string]string{"a.txt": "a"})

	orig := readDir
	defer func() { readDir = orig }()
	readDir = func(string) ([]os.DirEntry, error) {
		return nil, os.ErrPermission
	}

	_, err := Scan(context.Background(), root)
	assert.ErrorIs(t, err, ErrDirectoryRead)
}

func TestScanSymlinkCycle(t *testing.T) {
	root := buildFS(t, map[string]string{"sub/a.txt": "a"})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Root.FileCount)

	var cycles int
	for _, d := range res.Diagnostics {
		if d.Kind == DiagCycleDetected {
			cycles++
		}
	}
	assert.Equal(t, 1, cycles)
}

func TestScanCancelled(t *testing.T) {
	root := buildFS(t, map[string]string{"a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanWithExcludes(t *testing.T) {
	root := buildFS(t, map[string]string{
		"keep.go":       "package x",
		"gen/out.pb.go": "package gen",
		"skip.snap":     "snap",
	})

	res, err := NewScanner(WithExcludes("gen", "*.snap")).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go"}, childNames(res.Root))
}

func TestScanKeepsSourceDirsNamedLikeArtifacts(t *testing.T) {
	root := buildFS(t, map[string]string{
		"pkg/api/api.go":      "package api",
		"bin/run.sh":          "#!/bin/sh",
		"target/x.txt":        "x",
		"packages/a/index.ts": "export {}",
		"main.go":             "package main",
	})

	res, err := Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Root.FileCount)
	assert.Equal(t, []string{"bin", "packages", "pkg", "target", "main.go"}, childNames(res.Root))
	assert.Empty(t, res.Diagnostics)
}
