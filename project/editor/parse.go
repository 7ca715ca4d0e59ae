package editor

import (
	"strings"
)

// ParseEdits 从模型回复中解析文件编辑
// 每个编辑由一行 "File: <path>" 和其后的第一个围栏代码块组成，空内容的编辑会被丢弃
func ParseEdits(response string) []Edit {
	var (
		edits   []Edit
		path    string
		fence   string
		inBlock bool
		body    []string
	)

	for _, line := range strings.Split(strings.ReplaceAll(response, "\r\n", "\n"), "\n") {
		if inBlock {
			if strings.TrimSpace(line) == fence {
				if content := strings.Trim(strings.Join(body, "\n"), "\n"); strings.TrimSpace(content) != "" {
					edits = append(edits, Edit{Path: path, Content: content + "\n"})
				}
				inBlock, path, body = false, "", nil
				continue
			}
			body = append(body, line)
			continue
		}

		if p, ok := headerPath(line); ok {
			path = p
			continue
		}
		if path != "" {
			if f, ok := openingFence(line); ok {
				fence, inBlock = f, true
			}
		}
	}
	return edits
}

// headerPath 识别 "File: path"，允许 markdown 标题、加粗和行内代码修饰
func headerPath(line string) (string, bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#*> ")
	if !strings.HasPrefix(s, "File:") {
		return "", false
	}
	p := strings.TrimSpace(strings.TrimPrefix(s, "File:"))
	p = strings.Trim(p, "*`'\" ")
	if p == "" {
		return "", false
	}
	return p, true
}

// openingFence 返回代码块的围栏标记（三个或更多反引号）
func openingFence(line string) (string, bool) {
	s := strings.TrimSpace(line)
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	if n < 3 {
		return "", false
	}
	if strings.ContainsRune(s[n:], '`') {
		return "", false
	}
	return s[:n], true
}
