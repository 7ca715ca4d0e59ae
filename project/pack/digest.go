package pack

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/tree"
	"go.uber.org/zap"
)

// 克隆钩子，测试时可替换
var cloneProject = helper.CloneProject

// DigestOptions 生成摘要的选项
type DigestOptions struct {
	// Scanner 为 nil 时使用默认扫描器
	Scanner *project.Scanner
	// WorkRoot 计算文件相对路径的根目录，为空时使用被扫描的目录
	WorkRoot string
	// Progress 克隆远程仓库时的进度输出
	Progress io.Writer
}

// DigestResult 一次摘要的结果
type DigestResult struct {
	Source      string
	Summary     string
	Tree        string
	Content     string
	Files       []project.FlatFile
	Stats       tree.Statistics
	Diagnostics []project.Diagnostic
}

// Title 摘要标题，取来源的最后一段
func (d *DigestResult) Title() string {
	s := strings.TrimSuffix(strings.TrimRight(d.Source, "/\\"), ".git")
	if i := strings.LastIndexAny(s, "/\\:"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" || s == "." {
		if wd, err := os.Getwd(); err == nil {
			return filepath.Base(wd)
		}
	}
	return s
}

// Digest 读取目录、单个文件或远程仓库，生成摘要
// 远程仓库克隆到临时目录，结束后删除
func Digest(ctx context.Context, source string, opts DigestOptions) (*DigestResult, error) {
	target := source
	if helper.IsGitURL(source) {
		dir, cleanup, err := cloneProject(ctx, source, opts.Progress)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		target = dir
		if opts.WorkRoot == "" {
			opts.WorkRoot = dir
		}
	}

	absPath, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	var result *DigestResult
	if info.IsDir() {
		result, err = digestDirectory(ctx, absPath, opts)
	} else {
		result, err = digestFile(absPath, info, opts)
	}
	if err != nil {
		return nil, err
	}
	result.Source = source

	logger.Info("digest built",
		zap.String("source", source),
		zap.Int("files", len(result.Files)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	return result, nil
}

func digestDirectory(ctx context.Context, dir string, opts DigestOptions) (*DigestResult, error) {
	scanner := opts.Scanner
	if scanner == nil {
		scanner = project.NewScanner()
	}
	res, err := scanner.Scan(ctx, dir)
	if err != nil {
		return nil, err
	}

	workRoot := opts.WorkRoot
	if workRoot == "" {
		workRoot = dir
	}
	files := ExtractFiles(res.Root, workRoot)
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, project.ErrEmptyResult)
	}

	return &DigestResult{
		Summary:     fmt.Sprintf("Files analyzed: %d", res.Root.FileCount),
		Tree:        "Directory structure:\n" + tree.Tree(res.Root),
		Content:     BuildContext(files),
		Files:       files,
		Stats:       tree.Stats(res.Root),
		Diagnostics: res.Diagnostics,
	}, nil
}

func digestFile(path string, info os.FileInfo, opts DigestOptions) (*DigestResult, error) {
	scanner := opts.Scanner
	if scanner == nil {
		scanner = project.NewScanner()
	}
	if info.Size() > scanner.Limits().MaxFileSize {
		return nil, fmt.Errorf("%s: file too large: %w", path, project.ErrEmptyResult)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", project.ErrReadFailure, err)
	}
	if project.IsBinary(data) {
		return nil, fmt.Errorf("%s: non-text file: %w", path, project.ErrEmptyResult)
	}
	text, err := project.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", project.ErrReadFailure, err)
	}

	workRoot := opts.WorkRoot
	if workRoot == "" {
		workRoot = filepath.Dir(path)
	}
	file := project.FlatFile{
		Path:    project.RelPath(workRoot, path),
		Content: text,
		Size:    info.Size(),
	}
	name := filepath.Base(path)

	return &DigestResult{
		Summary: fmt.Sprintf("File: %s\nSize: %d bytes\nLines: %d", name, info.Size(), strings.Count(text, "\n")+1),
		Tree:    "Directory structure:\n└── " + name + "\n",
		Content: BuildContext([]project.FlatFile{file}),
		Files:   []project.FlatFile{file},
		Stats: tree.Statistics{
			TotalNodes:    1,
			FileCount:     1,
			TextFileCount: 1,
			TotalSize:     info.Size(),
		},
	}, nil
}
