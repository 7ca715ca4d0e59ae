package project

import (
	"path/filepath"
	"strings"
)

// FlatFile 扁平化后的文本文件，Path 为相对工作根目录、以 / 分隔的路径
type FlatFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"-"`
	// Unreadable 读取失败，Content 为错误标记而非磁盘内容
	Unreadable bool `json:"-"`
}

// RelPath 计算 path 相对 root 的路径，统一使用 / 分隔
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimPrefix(rel, "./")
}
