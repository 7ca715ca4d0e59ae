package project

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DefaultIgnorePatterns 扫描时默认排除的路径模式
var DefaultIgnorePatterns = []string{
	// Python
	"*.pyc", "*.pyo", "*.pyd", "__pycache__", ".pytest_cache", ".coverage", ".tox", ".nox",
	".mypy_cache", ".ruff_cache", ".hypothesis", "poetry.lock", "Pipfile.lock",
	// JavaScript / Node
	"node_modules", "bower_components", "package-lock.json", "yarn.lock", ".npm", ".yarn",
	".pnpm-store", "bun.lock", "bun.lockb",
	// Java
	"*.class", "*.jar", "*.war", "*.ear", "*.nar", ".gradle/", "build/", ".settings/",
	".classpath", "gradle-app.setting", "*.gradle", ".project",
	// C / C++
	"*.o", "*.obj", "*.dll", "*.dylib", "*.exe", "*.lib", "*.out", "*.a", "*.pdb",
	// Swift / Xcode
	".build/", "*.xcodeproj/", "*.xcworkspace/", "*.pbxuser", "*.mode1v3", "*.mode2v3",
	"*.perspectivev3", "*.xcuserstate", "xcuserdata/", ".swiftpm/",
	// Ruby
	"*.gem", ".bundle/", "vendor/bundle", "Gemfile.lock", ".ruby-version", ".ruby-gemset", ".rvmrc",
	// Rust
	"Cargo.lock", "**/*.rs.bk", "target/",
	// Go / .NET
	"pkg/", "obj/", "*.suo", "*.user", "*.userosscache", "*.sln.docstates", "packages/", "*.nupkg", "bin/",
	// 版本控制
	".git", ".svn", ".hg", ".gitignore", ".gitattributes", ".gitmodules",
	// 图片与媒体
	"*.svg", "*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.pdf", "*.mov", "*.mp4", "*.mp3", "*.wav",
	// 虚拟环境
	"venv", ".venv", "env", ".env", "virtualenv",
	// IDE
	".idea", ".vscode", ".vs", "*.swo", "*.swn", ".settings", "*.sublime-*",
	// 临时文件与缓存
	"*.log", "*.bak", "*.swp", "*.tmp", "*.temp", ".cache", ".sass-cache", ".eslintcache",
	".DS_Store", "Thumbs.db", "desktop.ini",
	// 构建产物
	"build", "dist", "out", "*.egg-info", "*.egg", "*.whl", "*.so",
	"site-packages", ".docusaurus", ".next", ".nuxt",
	"*.min.js", "*.min.css", "*.map",
	".terraform", "*.tfstate*",
	"vendor/",
	// 自身的版本快照目录
	".versions",
}

// pattern 编译后的忽略模式
type pattern struct {
	raw      string
	re       *regexp.Regexp
	wholeRel bool // 以 / 结尾，只与完整相对路径比较
	hasSlash bool // 模式本身包含路径分隔符，需要匹配路径后缀
}

// PathFilter 根据固定的模式集合判断路径是否需要排除
type PathFilter struct {
	patterns []pattern
}

var (
	defaultFilter     *PathFilter
	defaultFilterOnce sync.Once
)

// DefaultFilter 返回使用内置模式的过滤器
func DefaultFilter() *PathFilter {
	defaultFilterOnce.Do(func() {
		defaultFilter = NewPathFilter(DefaultIgnorePatterns)
	})
	return defaultFilter
}

// NewPathFilter 编译给定的模式集合
func NewPathFilter(patterns []string) *PathFilter {
	f := &PathFilter{}
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p := pattern{raw: raw}
		if strings.HasSuffix(raw, "/") {
			// 相对路径不以 / 结尾，这类模式只有完整路径相同时才会命中
			p.wholeRel = true
			p.re = regexp.MustCompile(GlobToRegexp(raw))
			f.patterns = append(f.patterns, p)
			continue
		}
		// **/ 前缀等价于任意层级，按名称匹配即可
		body := strings.TrimPrefix(raw, "**/")
		p.hasSlash = strings.Contains(body, "/")
		p.re = regexp.MustCompile(GlobToRegexp(body))
		f.patterns = append(f.patterns, p)
	}
	return f
}

// GlobToRegexp 将 glob 模式转换为完整匹配的正则表达式
// . 被转义，* 匹配任意字符序列，? 匹配单个字符，+ 按字面处理
func GlobToRegexp(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// Match 判断相对路径是否命中任一模式，relPath 使用 / 分隔
func (f *PathFilter) Match(relPath string) bool {
	relPath = strings.Trim(normalizeSeparators(relPath), "/")
	if relPath == "" || relPath == "." {
		return false
	}
	components := strings.Split(relPath, "/")

	for _, p := range f.patterns {
		switch {
		case p.wholeRel:
			if p.re.MatchString(relPath) {
				return true
			}
		case p.hasSlash:
			// 含路径的模式匹配完整路径或路径后缀
			for i := 0; i < len(components); i++ {
				if p.re.MatchString(strings.Join(components[i:], "/")) {
					return true
				}
			}
		default:
			// 不含路径的模式匹配任一路径段
			for _, name := range components {
				if p.re.MatchString(name) {
					return true
				}
			}
		}
	}
	return false
}

// ShouldExclude 判断 entryPath 相对于 rootPath 是否需要排除
func (f *PathFilter) ShouldExclude(entryPath, rootPath string) bool {
	rel, err := filepath.Rel(rootPath, entryPath)
	if err != nil {
		rel = entryPath
	}
	return f.Match(rel)
}

// ShouldExclude 使用内置模式判断是否需要排除
func ShouldExclude(entryPath, rootPath string) bool {
	return DefaultFilter().ShouldExclude(entryPath, rootPath)
}

// normalizeSeparators 统一路径分隔符为 /
func normalizeSeparators(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
}
