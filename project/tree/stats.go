package tree

import (
	"fmt"

	"github.com/sjzsdu/dirpilot/project"
)

// Statistics 树的统计信息
type Statistics struct {
	TotalNodes     int   // 总节点数
	DirectoryCount int   // 目录数量
	FileCount      int   // 文件数量
	TextFileCount  int   // 可纳入上下文的文本文件
	TotalSize      int64 // 总大小（字节）
	MaxDepth       int   // 最大深度
}

// Stats 返回树的统计信息
func Stats(node *project.FileNode) Statistics {
	if node == nil {
		return Statistics{}
	}

	stats := Statistics{}
	_ = node.Walk(func(n *project.FileNode, depth int) error {
		stats.TotalNodes++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		if n.IsDir() {
			stats.DirectoryCount++
			return nil
		}
		stats.FileCount++
		stats.TotalSize += n.Size
		if n.Ingestible() {
			stats.TextFileCount++
		}
		return nil
	})
	return stats
}

// String 返回统计信息的字符串表示
func (s Statistics) String() string {
	return fmt.Sprintf("%d directories, %d files (%d text), %s total",
		s.DirectoryCount, s.FileCount, s.TextFileCount, FormatSize(s.TotalSize))
}
