package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
)

var (
	// ErrNotExist 文件不存在
	ErrNotExist = errors.New("json file does not exist")
	// ErrInvalidJSON 文件内容不是合法的 JSON
	ErrInvalidJSON = errors.New("invalid json")
)

// JSONStore 管理特定目录下的JSON文件
type JSONStore struct {
	// 完整目录路径
	Path string
}

// NewJSONStoreAt 在指定目录创建存储，目录不存在时自动创建
func NewJSONStoreAt(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败 %s: %w", dir, err)
	}
	return &JSONStore{Path: dir}, nil
}

// ensureJSONExtension 确保文件名有.json扩展名
func ensureJSONExtension(filename string) string {
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return filename + ".json"
	}
	return filename
}

// FilePath 返回名称对应的文件路径
func (s *JSONStore) FilePath(name string) string {
	return filepath.Join(s.Path, ensureJSONExtension(name))
}

// Get 读取JSON文件，decodeInto 不为 nil 时解码到该结构
func (s *JSONStore) Get(name string, decodeInto interface{}) ([]byte, error) {
	filePath := s.FilePath(name)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, filePath)
		}
		return nil, fmt.Errorf("读取文件失败 %s: %w", filePath, err)
	}

	if decodeInto != nil {
		if err := json.Unmarshal(data, decodeInto); err != nil {
			return data, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, filePath, err)
		}
	}
	return data, nil
}

// Set 写入JSON文件，data 可以是字节数组、字符串或任何可编码对象
// 写入先落到临时文件再重命名，读者不会看到写了一半的文件
func (s *JSONStore) Set(name string, data interface{}) error {
	filePath := s.FilePath(name)

	var jsonData []byte
	switch v := data.(type) {
	case []byte:
		if !json.Valid(v) {
			return fmt.Errorf("%w: 提供的数据不是有效的JSON", ErrInvalidJSON)
		}
		jsonData = v
	case string:
		if !json.Valid([]byte(v)) {
			return fmt.Errorf("%w: 提供的字符串不是有效的JSON", ErrInvalidJSON)
		}
		jsonData = []byte(v)
	default:
		var err error
		jsonData, err = json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("编码为JSON失败: %w", err)
		}
	}

	if err := helper.WriteFileAtomic(filePath, jsonData); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", filePath, err)
	}
	return nil
}

// Delete 删除JSON文件
func (s *JSONStore) Delete(name string) error {
	filePath := s.FilePath(name)
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotExist, filePath)
		}
		return fmt.Errorf("删除文件失败 %s: %w", filePath, err)
	}
	return nil
}

// List 列出所有JSON文件，返回不带扩展名的名称，按字典序排列
func (s *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取目录失败 %s: %w", s.Path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			files = append(files, name[:len(name)-len(".json")])
		}
	}
	sort.Strings(files)
	return files, nil
}

// Search 搜索匹配指定前缀的JSON文件
func (s *JSONStore) Search(prefix string) ([]string, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, file := range files {
		if strings.HasPrefix(file, prefix) {
			matches = append(matches, file)
		}
	}
	return matches, nil
}
