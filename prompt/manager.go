package prompt

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

const PROMPT_EXT = ".md"

//go:embed prompts/*.md
var embeddedPrompts embed.FS

var (
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrMissingVariable = errors.New("missing prompt variable")
)

var (
	namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	varPattern  = regexp.MustCompile(`\{\{\s*\.(\w+)\s*\}\}`)
)

// Manager 管理内置与用户自定义的提示词，用户目录中同名文件覆盖内置模板
type Manager struct {
	userDir string
	mu      sync.RWMutex
	system  map[string]string
	user    map[string]string
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default 使用 ~/.dirpilot/prompts 作为用户目录的管理器
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(helper.GetPath("prompts"))
	})
	return defaultManager
}

// NewManager 加载内置模板和 userDir 下的用户模板
func NewManager(userDir string) *Manager {
	m := &Manager{
		userDir: userDir,
		system:  make(map[string]string),
		user:    make(map[string]string),
	}
	m.loadSystem()
	m.loadUser()
	return m
}

func (m *Manager) loadSystem() {
	entries, err := embeddedPrompts.ReadDir("prompts")
	if err != nil {
		logger.Warn("failed to read embedded prompts", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), PROMPT_EXT) {
			continue
		}
		content, err := embeddedPrompts.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			continue
		}
		m.system[strings.TrimSuffix(entry.Name(), PROMPT_EXT)] = string(content)
	}
}

func (m *Manager) loadUser() {
	if m.userDir == "" {
		return
	}
	files, err := os.ReadDir(m.userDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read prompt dir", zap.String("dir", m.userDir), zap.Error(err))
		}
		return
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), PROMPT_EXT) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(m.userDir, f.Name()))
		if err != nil {
			logger.Warn("failed to read prompt", zap.String("file", f.Name()), zap.Error(err))
			continue
		}
		m.user[strings.TrimSuffix(f.Name(), PROMPT_EXT)] = string(content)
	}
}

// List 返回内置和用户提示词名称，均已排序
func (m *Manager) List() (system, user []string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.system), sortedKeys(m.user)
}

func sortedKeys(src map[string]string) []string {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Content 获取提示词内容，优先用户版本
func (m *Manager) Content(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if content, ok := m.user[name]; ok {
		return content, true
	}
	content, ok := m.system[name]
	return content, ok
}

// IsSystem 是否为内置提示词
func (m *Manager) IsSystem(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.system[name]
	return ok
}

// Save 创建或覆盖用户提示词
func (m *Manager) Save(name, content string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("empty prompt content")
	}
	if m.userDir == "" {
		return errors.New("no user prompt directory")
	}
	if err := helper.WriteFileAtomic(filepath.Join(m.userDir, name+PROMPT_EXT), []byte(content)); err != nil {
		return fmt.Errorf("save prompt %s: %w", name, err)
	}

	m.mu.Lock()
	m.user[name] = content
	m.mu.Unlock()
	return nil
}

// Delete 删除用户提示词，内置模板不受影响
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.user[name]; !ok {
		return fmt.Errorf("%w: %s", ErrPromptNotFound, name)
	}
	if err := os.Remove(filepath.Join(m.userDir, name+PROMPT_EXT)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete prompt %s: %w", name, err)
	}
	delete(m.user, name)
	return nil
}

// Render 用 vars 渲染提示词，模板中引用的变量必须全部提供
func (m *Manager) Render(name string, vars map[string]any) (string, error) {
	content, ok := m.Content(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPromptNotFound, name)
	}

	inputVars := Variables(content)
	for _, v := range inputVars {
		if _, ok := vars[v]; !ok {
			return "", fmt.Errorf("%w: %s needs %q", ErrMissingVariable, name, v)
		}
	}

	tpl := prompts.NewPromptTemplate(content, inputVars)
	out, err := tpl.Format(vars)
	if err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// Variables 模板中引用的变量名，按首次出现排序
func Variables(content string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, m := range varPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

func validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, 64),
		validation.Match(namePattern).Error("must be lowercase letters, digits, '-' or '_'"),
	)
}
