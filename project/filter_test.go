package project

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobToRegexp(t *testing.T) {
	tests := []struct {
		glob  string
		match []string
		miss  []string
	}{
		{"*.pyc", []string{"a.pyc", ".pyc"}, []string{"a.pyco", "apyc"}},
		{"file?.txt", []string{"file1.txt"}, []string{"file10.txt", "file.txt"}},
		{"c++.h", []string{"c++.h"}, []string{"cc.h", "c+++.h"}},
		{"*.tfstate*", []string{"x.tfstate", "x.tfstate.backup"}, []string{"tfstate"}},
		{"a[1].js", []string{"a[1].js"}, []string{"a1.js"}},
	}
	for _, tt := range tests {
		re := regexp.MustCompile(GlobToRegexp(tt.glob))
		for _, s := range tt.match {
			assert.True(t, re.MatchString(s), "%s should match %s", tt.glob, s)
		}
		for _, s := range tt.miss {
			assert.False(t, re.MatchString(s), "%s should not match %s", tt.glob, s)
		}
	}
}

func TestPathFilterMatch(t *testing.T) {
	f := DefaultFilter()

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"node_modules/x.js", true},
		{"web/node_modules", true},
		{"src/main.py", false},
		{"src/__pycache__/m.pyc", true},
		{"app.min.js", true},
		{"README.md", false},
		{"build", true},
		{"vendor/bundle", true},
		{"lib/vendor/bundle", true},
		{"x.rs.bk", true},
		{".versions", true},
		{".git", true},
		{"", false},
		{".", false},
		// 以 / 结尾的模式与不带 / 的相对路径永远不相等
		{"pkg", false},
		{"pkg/api/api.go", false},
		{"bin", false},
		{"target", false},
		{"packages/a/index.ts", false},
		{"vendor", false},
		{"App.xcodeproj", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Match(tt.path), "path %q", tt.path)
	}
}

func TestShouldExcludeRelativeToRoot(t *testing.T) {
	root := filepath.Join("home", "u", "build")
	// 根目录名本身不参与匹配
	assert.False(t, ShouldExclude(filepath.Join(root, "main.go"), root))
	assert.True(t, ShouldExclude(filepath.Join(root, "dist"), root))
	assert.True(t, ShouldExclude(filepath.Join(root, "src", "app.log"), root))
	assert.False(t, ShouldExclude(filepath.Join(root, "pkg"), root))
}

func TestCustomFilter(t *testing.T) {
	f := NewPathFilter([]string{"", "  ", "docs", "*.gen.go", "**/fixtures", "gen/"})
	assert.True(t, f.Match("docs"))
	assert.True(t, f.Match("a/docs"))
	assert.True(t, f.Match("a/b/z.gen.go"))
	assert.True(t, f.Match("pkg/fixtures"))
	assert.False(t, f.Match("gen"))
	assert.False(t, f.Match("main.go"))
}
