package pack

import (
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/share"
)

// ExtractFiles 深度优先收集树中可纳入上下文的文本文件，读取失败的文件保留错误标记
// 路径相对 workRoot 计算；顺序与扫描时的子节点顺序一致
func ExtractFiles(tree *project.FileNode, workRoot string) []project.FlatFile {
	var files []project.FlatFile
	_ = tree.Walk(func(node *project.FileNode, _ int) error {
		if !node.Ingestible() || node.Size > share.MAX_FILE_SIZE {
			return nil
		}
		files = append(files, project.FlatFile{
			Path:       project.RelPath(workRoot, node.Path),
			Content:    node.Content,
			Size:       node.Size,
			Unreadable: node.Unreadable,
		})
		return nil
	})
	return files
}

// BuildContext 把文件列表序列化为上下文文本
func BuildContext(files []project.FlatFile) string {
	return editor.NewContext(files).String()
}
