package helper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjzsdu/dirpilot/share"
)

// ErrPathEscapes 相对路径指向根目录之外
var ErrPathEscapes = errors.New("path escapes root directory")

// 文件写入钩子，测试时可替换
var (
	mkdirAll   = os.MkdirAll
	createTemp = os.CreateTemp
	rename     = os.Rename
)

// NormalizeRelPath 统一为以 / 分隔、不带前导 ./ 的相对路径
func NormalizeRelPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// SafeJoin 把相对路径拼接到 root 下，拒绝绝对路径和跳出 root 的路径
func SafeJoin(root, rel string) (string, error) {
	rel = NormalizeRelPath(rel)
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	return filepath.Join(root, cleaned), nil
}

// WriteFileAtomic 先写入同目录临时文件再重命名，必要时创建父目录
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := mkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := createTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// GetPath 返回用户家目录下 share.PATH 中的路径
func GetPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, share.PATH, name)
}
