package tree

import (
	"fmt"
	"strings"

	"github.com/sjzsdu/dirpilot/project"
)

// Tree 生成树状结构的字符串表示，类似于 Unix tree 命令
// 子节点顺序沿用扫描时的排序
func Tree(node *project.FileNode) string {
	if node == nil {
		return ""
	}

	var result strings.Builder
	buildTree(node, &result, "", true, false, 0, 0)
	return result.String()
}

// TreeWithOptions 生成带选项的树状结构
func TreeWithOptions(node *project.FileNode, showSize bool, maxDepth int) string {
	if node == nil {
		return ""
	}

	var result strings.Builder
	buildTree(node, &result, "", true, showSize, 0, maxDepth)
	return result.String()
}

// buildTree 递归构建树状结构，根节点同样带有连接符
func buildTree(node *project.FileNode, result *strings.Builder, prefix string, isLast bool,
	showSize bool, currentDepth int, maxDepth int) {

	if maxDepth > 0 && currentDepth >= maxDepth {
		return
	}

	if isLast {
		result.WriteString(prefix + "└── ")
	} else {
		result.WriteString(prefix + "├── ")
	}

	if node.IsDir() {
		result.WriteString(node.Name + "/")
	} else {
		result.WriteString(node.Name)
		if showSize {
			result.WriteString(fmt.Sprintf(" (%s)", FormatSize(node.Size)))
		}
	}
	result.WriteString("\n")

	if !node.IsDir() {
		return
	}

	newPrefix := prefix + "│   "
	if isLast {
		newPrefix = prefix + "    "
	}
	for i, child := range node.Children {
		buildTree(child, result, newPrefix, i == len(node.Children)-1, showSize, currentDepth+1, maxDepth)
	}
}

// FormatSize 将字节数格式化为易读形式
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
	}
}
