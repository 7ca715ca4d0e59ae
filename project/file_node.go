package project

import (
	"sort"
	"strings"
)

// NodeType 节点类型
type NodeType string

const (
	TypeFile      NodeType = "file"
	TypeDirectory NodeType = "directory"
)

// FileNode 一次扫描产生的内存文件树节点
type FileNode struct {
	Name    string
	Type    NodeType
	Size    int64
	Path    string // 绝对路径
	Content string // 文本内容，二进制文件为 share.NON_TEXT_FILE_CONTENT
	Binary  bool
	// Unreadable 读取失败，Content 为错误标记
	Unreadable bool
	// TooLarge 超过单文件大小限制，内容未读取
	TooLarge bool
	Children   []*FileNode

	// 目录的聚合统计
	FileCount int
	DirCount  int
}

// Ingestible 是否纳入上下文：非二进制且未超过大小限制，读取失败的文件以错误标记纳入
func (n *FileNode) Ingestible() bool {
	return n != nil && n.Type == TypeFile && !n.Binary && !n.TooLarge
}

// IsDir 是否为目录
func (n *FileNode) IsDir() bool {
	return n != nil && n.Type == TypeDirectory
}

// ScanStats 整个扫描过程共享的计数器，只属于顶层扫描调用
type ScanStats struct {
	TotalFiles int
	TotalSize  int64
}

// addChild 将子节点加入目录并更新聚合统计
func (n *FileNode) addChild(child *FileNode) {
	n.Children = append(n.Children, child)
	n.Size += child.Size
	if child.IsDir() {
		n.FileCount += child.FileCount
		n.DirCount += 1 + child.DirCount
		return
	}
	n.FileCount++
}

// sortChildren 目录在前；文件中 readme.md 置顶；其余按不区分大小写的字典序
func (n *FileNode) sortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return childLess(n.Children[i], n.Children[j])
	})
}

func childLess(a, b *FileNode) bool {
	if a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	if !a.IsDir() {
		ar := isReadme(a.Name)
		br := isReadme(b.Name)
		if ar != br {
			return ar
		}
	}
	al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if al != bl {
		return al < bl
	}
	return a.Name < b.Name
}

func isReadme(name string) bool {
	return strings.EqualFold(name, "readme.md")
}

// Walk 深度优先遍历节点
func (n *FileNode) Walk(fn func(node *FileNode, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *FileNode) walk(fn func(node *FileNode, depth int) error, depth int) error {
	if n == nil {
		return nil
	}
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}
