package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/share"
	"go.uber.org/zap"
)

// 文件系统操作钩子，测试时可替换
var (
	readDir      = os.ReadDir
	statFile     = os.Stat
	readFile     = os.ReadFile
	evalSymlinks = filepath.EvalSymlinks
)

const tooLargeContent = "[Content ignored: file too large]"

// Limits 扫描的资源限制
type Limits struct {
	MaxFileSize  int64
	MaxDepth     int
	MaxFiles     int
	MaxTotalSize int64
}

// DefaultLimits 返回默认的资源限制
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:  share.MAX_FILE_SIZE,
		MaxDepth:     share.MAX_DIRECTORY_DEPTH,
		MaxFiles:     share.MAX_FILES,
		MaxTotalSize: share.MAX_TOTAL_SIZE_BYTES,
	}
}

// Scanner 递归扫描目录并生成内存文件树
type Scanner struct {
	filters      []*PathFilter
	limits       Limits
	onDiagnostic func(Diagnostic)
}

// ScanOption 扫描器选项
type ScanOption func(*Scanner)

// WithLimits 设置资源限制
func WithLimits(limits Limits) ScanOption {
	return func(s *Scanner) {
		s.limits = limits
	}
}

// WithExcludes 在内置模式之外追加排除模式
func WithExcludes(patterns ...string) ScanOption {
	return func(s *Scanner) {
		if len(patterns) > 0 {
			s.filters = append(s.filters, NewPathFilter(patterns))
		}
	}
}

// WithDiagnosticHandler 每产生一条软失败诊断时回调
func WithDiagnosticHandler(fn func(Diagnostic)) ScanOption {
	return func(s *Scanner) {
		s.onDiagnostic = fn
	}
}

// NewScanner 创建扫描器
func NewScanner(opts ...ScanOption) *Scanner {
	s := &Scanner{
		filters: []*PathFilter{DefaultFilter()},
		limits:  DefaultLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits 返回扫描器使用的资源限制
func (s *Scanner) Limits() Limits {
	return s.limits
}

// ScanResult 一次扫描的结果
type ScanResult struct {
	Root        *FileNode
	Stats       ScanStats
	Diagnostics []Diagnostic
}

// scanState 单次扫描调用独占的状态
type scanState struct {
	root  string
	seen  map[string]bool
	stats *ScanStats
	diags []Diagnostic
}

// Scan 使用默认设置扫描目录
func Scan(ctx context.Context, path string) (*ScanResult, error) {
	return NewScanner().Scan(ctx, path)
}

// Scan 扫描目录。根目录不可读是致命错误，子目录与文件的错误只记录诊断
func (s *Scanner) Scan(ctx context.Context, path string) (*ScanResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &traverseError{Path: path, Err: err}
	}
	info, err := statFile(absPath)
	if err != nil {
		return nil, &traverseError{Path: absPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &traverseError{Path: absPath, Err: ErrNotADirectory}
	}

	st := &scanState{
		root:  absPath,
		seen:  make(map[string]bool),
		stats: &ScanStats{},
	}
	root, err := s.scan(ctx, st, absPath, 0)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Root:        root,
		Stats:       *st.stats,
		Diagnostics: st.diags,
	}, nil
}

func (s *Scanner) report(st *scanState, kind DiagnosticKind, path, format string, args ...interface{}) {
	d := Diagnostic{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
	st.diags = append(st.diags, d)
	logger.Warn("scan diagnostic",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.String("message", d.Message),
	)
	if s.onDiagnostic != nil {
		s.onDiagnostic(d)
	}
}

func (s *Scanner) excluded(st *scanState, path string) bool {
	for _, f := range s.filters {
		if f.ShouldExclude(path, st.root) {
			return true
		}
	}
	return false
}

// scan 递归扫描，返回 nil 节点表示该分支被跳过
func (s *Scanner) scan(ctx context.Context, st *scanState, dirPath string, depth int) (*FileNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > s.limits.MaxDepth {
		s.report(st, DiagLimitExceeded, dirPath, "skipping deep directory (max depth %d reached)", s.limits.MaxDepth)
		return nil, nil
	}
	if st.stats.TotalFiles >= s.limits.MaxFiles {
		s.report(st, DiagLimitExceeded, dirPath, "skipping further processing: maximum file limit (%d) reached", s.limits.MaxFiles)
		return nil, nil
	}
	if st.stats.TotalSize >= s.limits.MaxTotalSize {
		s.report(st, DiagLimitExceeded, dirPath, "skipping further processing: maximum total size (%d bytes) reached", s.limits.MaxTotalSize)
		return nil, nil
	}

	realPath, err := evalSymlinks(dirPath)
	if err != nil {
		realPath = filepath.Clean(dirPath)
	}
	if st.seen[realPath] {
		s.report(st, DiagCycleDetected, dirPath, "skipping already visited path %s", realPath)
		return nil, nil
	}
	st.seen[realPath] = true

	node := &FileNode{
		Name: filepath.Base(dirPath),
		Type: TypeDirectory,
		Path: dirPath,
	}

	entries, err := readDir(dirPath)
	if err != nil {
		if depth == 0 {
			return nil, &traverseError{Path: dirPath, Err: fmt.Errorf("%w: %v", ErrDirectoryRead, err)}
		}
		s.report(st, DiagDirectoryRead, dirPath, "error scanning directory: %v", err)
		return nil, nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fullPath := filepath.Join(dirPath, entry.Name())

		isDir, isRegular, err := entryKind(entry, fullPath)
		if err != nil {
			s.report(st, DiagReadFailure, fullPath, "cannot stat entry: %v", err)
			continue
		}
		if s.excluded(st, fullPath) {
			continue
		}

		if isRegular {
			if st.stats.TotalFiles >= s.limits.MaxFiles {
				s.report(st, DiagLimitExceeded, fullPath, "maximum file limit (%d) reached", s.limits.MaxFiles)
				break
			}
			child, ok := s.readFileNode(st, entry.Name(), fullPath)
			if ok {
				node.addChild(child)
			}
			continue
		}

		if isDir {
			sub, err := s.scan(ctx, st, fullPath, depth+1)
			if err != nil {
				return nil, err
			}
			// 只保留至少包含一个文件的子目录
			if sub != nil && sub.FileCount > 0 {
				node.addChild(sub)
			}
		}
	}

	node.sortChildren()
	return node, nil
}

// entryKind 判断条目是否为目录或普通文件，符号链接按目标判断
func entryKind(entry fs.DirEntry, fullPath string) (isDir, isRegular bool, err error) {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := statFile(fullPath)
		if err != nil {
			return false, false, err
		}
		return info.IsDir(), info.Mode().IsRegular(), nil
	}
	return mode.IsDir(), mode.IsRegular(), nil
}

// readFileNode 统计并读取单个文件，返回 false 表示跳过
func (s *Scanner) readFileNode(st *scanState, name, fullPath string) (*FileNode, bool) {
	info, err := statFile(fullPath)
	if err != nil {
		s.report(st, DiagReadFailure, fullPath, "cannot stat file: %v", err)
		return nil, false
	}
	size := info.Size()
	if st.stats.TotalSize+size > s.limits.MaxTotalSize {
		s.report(st, DiagLimitExceeded, fullPath, "skipping file: would exceed total size limit")
		return nil, false
	}
	st.stats.TotalFiles++
	st.stats.TotalSize += size

	child := &FileNode{
		Name: name,
		Type: TypeFile,
		Size: size,
		Path: fullPath,
	}

	if size > s.limits.MaxFileSize {
		child.TooLarge = true
		child.Content = tooLargeContent
		return child, true
	}

	data, err := readFile(fullPath)
	if err != nil {
		s.report(st, DiagReadFailure, fullPath, "error reading file: %v", err)
		child.Unreadable = true
		child.Content = readErrorContent(err)
		return child, true
	}
	if IsBinary(data) {
		child.Binary = true
		child.Content = share.NON_TEXT_FILE_CONTENT
		return child, true
	}
	text, err := DecodeText(data)
	if err != nil {
		s.report(st, DiagReadFailure, fullPath, "error decoding file: %v", err)
		child.Unreadable = true
		child.Content = readErrorContent(err)
		return child, true
	}
	child.Content = text
	return child, true
}
