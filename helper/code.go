package helper

import (
	"path/filepath"
	"strings"
)

var languageByExt = map[string]string{
	".go":         "go",
	".py":         "python",
	".js":         "javascript",
	".ts":         "typescript",
	".jsx":        "jsx",
	".tsx":        "tsx",
	".java":       "java",
	".cpp":        "cpp",
	".c":          "c",
	".h":          "c",
	".hpp":        "cpp",
	".cs":         "csharp",
	".php":        "php",
	".rb":         "ruby",
	".rs":         "rust",
	".swift":      "swift",
	".kt":         "kotlin",
	".scala":      "scala",
	".sh":         "bash",
	".yaml":       "yaml",
	".yml":        "yaml",
	".json":       "json",
	".xml":        "xml",
	".html":       "html",
	".css":        "css",
	".scss":       "scss",
	".less":       "less",
	".sql":        "sql",
	".md":         "markdown",
	".txt":        "text",
	".cfg":        "ini",
	".ini":        "ini",
	".toml":       "toml",
	".dockerfile": "dockerfile",
}

// GetLanguageFromExtension 根据文件扩展名返回对应的语言标识
func GetLanguageFromExtension(ext string) string {
	return languageByExt[strings.ToLower(ext)]
}

// LanguageOf 根据文件路径返回代码块语言标识
func LanguageOf(path string) string {
	if strings.EqualFold(filepath.Base(path), "dockerfile") {
		return "dockerfile"
	}
	return GetLanguageFromExtension(filepath.Ext(path))
}
