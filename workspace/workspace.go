package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/project/pack"
	"github.com/sjzsdu/dirpilot/project/tree"
	"github.com/sjzsdu/dirpilot/project/version"
	"go.uber.org/zap"
)

// ErrReadOnly 只读工作区不能写入或切换版本
var ErrReadOnly = errors.New("workspace is read-only")

// 写盘钩子，测试时可替换
var writeFile = helper.WriteFileAtomic

type Mode int

const (
	// ModeAsk 只读问答
	ModeAsk Mode = iota
	// ModeEdit 可编辑，带版本链
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "ask"
}

// Options 加载选项
type Options struct {
	Mode    Mode
	Scanner *project.Scanner
	Policy  version.Policy
	// VersionDir 为空时使用 <dir>/.versions
	VersionDir string
}

// Workspace 一个已加载的目录：内存上下文加可选的版本链
type Workspace struct {
	dir      string
	mode     Mode
	ctx      *editor.Context
	store    *version.Store
	stats    tree.Statistics
	modified bool
	mu       sync.Mutex
}

// Load 扫描目录并建立上下文，编辑模式下初始化版本链
func Load(ctx context.Context, dir string, opts Options) (*Workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = project.NewScanner()
	}

	res, err := scanner.Scan(ctx, absDir)
	if err != nil {
		return nil, err
	}
	files := pack.ExtractFiles(res.Root, absDir)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", project.ErrEmptyResult, absDir)
	}

	w := &Workspace{
		dir:   absDir,
		mode:  opts.Mode,
		ctx:   editor.NewContext(files),
		stats: tree.Stats(res.Root),
	}

	if opts.Mode == ModeEdit {
		storeOpts := []version.Option{version.WithPolicy(opts.Policy)}
		if opts.VersionDir != "" {
			storeOpts = append(storeOpts, version.WithDir(opts.VersionDir))
		}
		w.store, err = version.New(absDir, absDir, storeOpts...)
		if err != nil {
			return nil, err
		}
		info, created, err := w.store.Initialize(readable(files))
		if err != nil {
			return nil, err
		}
		logger.Info("workspace loaded",
			zap.String("dir", absDir),
			zap.Int("files", len(files)),
			zap.Bool("newChain", created),
			zap.Int("version", info.CurrentVersion),
			zap.Int("total", info.TotalVersions),
		)
	}
	return w, nil
}

// Dir 工作区的绝对路径
func (w *Workspace) Dir() string { return w.dir }

// Mode 工作区模式
func (w *Workspace) Mode() Mode { return w.mode }

// Stats 扫描统计
func (w *Workspace) Stats() tree.Statistics { return w.stats }

// Context 当前上下文文本
func (w *Workspace) Context() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx.String()
}

// Files 当前上下文中的文件
func (w *Workspace) Files() []project.FlatFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx.Files()
}

// Modified 本次会话是否写入过文件
func (w *Workspace) Modified() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.modified
}

// Apply 把修改写盘、更新上下文并提交新版本
// 部分写入失败时已写入的文件仍会提交，返回 *version.PartialWriteError
func (w *Workspace) Apply(edits []editor.Edit) (version.Info, error) {
	if w.store == nil {
		return version.Info{}, ErrReadOnly
	}
	if len(edits) == 0 {
		return version.Info{}, errors.New("no edits to apply")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	written := make([]editor.Edit, 0, len(edits))
	var werr error
	for _, e := range edits {
		rel := helper.NormalizeRelPath(e.Path)
		full, err := helper.SafeJoin(w.dir, rel)
		if err == nil {
			err = writeFile(full, []byte(e.Content))
		}
		if err != nil {
			werr = &version.PartialWriteError{Written: paths(written), Failed: rel, Err: err}
			break
		}
		written = append(written, project.FlatFile{Path: rel, Content: e.Content})
	}

	if len(written) == 0 {
		return version.Info{}, werr
	}
	w.ctx.Apply(written)
	w.modified = true

	info, err := w.store.Commit(written)
	if err != nil {
		return info, fmt.Errorf("commit edits: %w", err)
	}
	logger.Info("edits applied",
		zap.String("dir", w.dir),
		zap.Strings("files", paths(written)),
		zap.Int("version", info.CurrentVersion),
	)
	return info, werr
}

// Revert 回到上一个版本
func (w *Workspace) Revert() (version.Info, error) {
	if w.store == nil {
		return version.Info{}, ErrReadOnly
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Revert(w.ctx)
}

// Forward 前进到下一个版本
func (w *Workspace) Forward() (version.Info, error) {
	if w.store == nil {
		return version.Info{}, ErrReadOnly
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Forward(w.ctx)
}

// Versions 列出版本链
func (w *Workspace) Versions() ([]version.Summary, error) {
	if w.store == nil {
		return nil, ErrReadOnly
	}
	return w.store.List()
}

// Version 读取指定版本保存的文件
func (w *Workspace) Version(n int) (*version.Record, error) {
	if w.store == nil {
		return nil, ErrReadOnly
	}
	return w.store.Load(n)
}

// Info 当前版本信息
func (w *Workspace) Info() (version.Info, error) {
	if w.store == nil {
		return version.Info{}, ErrReadOnly
	}
	return w.store.Info()
}

// readable 去掉内容为错误标记的文件，避免回退时把标记写回磁盘
func readable(files []project.FlatFile) []project.FlatFile {
	out := make([]project.FlatFile, 0, len(files))
	for _, f := range files {
		if !f.Unreadable {
			out = append(out, f)
		}
	}
	return out
}

func paths(files []project.FlatFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
