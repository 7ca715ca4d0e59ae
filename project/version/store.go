package version

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/helper/json"
	"github.com/sjzsdu/dirpilot/helper/logger"
	"github.com/sjzsdu/dirpilot/project"
	"github.com/sjzsdu/dirpilot/project/editor"
	"github.com/sjzsdu/dirpilot/share"
	"go.uber.org/zap"
)

// Policy 回退后再提交时如何处理更新的版本
type Policy int

const (
	// PolicyKeep 保留较新的版本，新版本追加在末尾
	PolicyKeep Policy = iota
	// PolicyTruncate 先删除当前版本之后的所有版本再追加
	PolicyTruncate
)

func (p Policy) String() string {
	switch p {
	case PolicyTruncate:
		return "truncate"
	default:
		return "keep"
	}
}

// ParsePolicy 解析策略名称
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "keep":
		return PolicyKeep, nil
	case "truncate":
		return PolicyTruncate, nil
	}
	return PolicyKeep, fmt.Errorf("unknown version policy %q", s)
}

// Info 版本链元数据
type Info struct {
	CurrentVersion int `json:"currentVersion"`
	TotalVersions  int `json:"totalVersions"`
}

// Record 一个版本的快照。版本 0 是完整快照，之后的版本只包含被修改的文件
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	// Parent 提交时所在的版本，缺省为前一个版本
	Parent *int               `json:"parent,omitempty"`
	Files  []project.FlatFile `json:"files"`
}

// Summary List 返回的版本摘要
type Summary struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Files     []string  `json:"files"`
	Current   bool      `json:"current"`
}

// Applier 接收回退/前进时写回的文件，通常是会话持有的上下文
type Applier interface {
	ApplyFiles(files []project.FlatFile) error
}

// 写盘钩子，测试时可替换
var writeFile = helper.WriteFileAtomic

// 同一目录标识的操作在进程内串行执行
var identityLocks sync.Map

func lockFor(key string) *sync.Mutex {
	mu, _ := identityLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Store 某个目录的线性版本链
type Store struct {
	root     string
	identity string
	key      string
	dir      string
	policy   Policy
	now      func() time.Time
	files    *json.JSONStore
}

// Option Store 选项
type Option func(*Store)

// WithDir 设置版本文件目录，默认是 root 下的 share.VERSIONS_DIR
func WithDir(dir string) Option {
	return func(s *Store) {
		s.dir = dir
	}
}

// WithPolicy 设置回退后提交的策略
func WithPolicy(p Policy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New 创建版本存储。root 是回退/前进时写回文件的目录，identity 用于区分目录
func New(root, identity string, opts ...Option) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	s := &Store{
		root:     absRoot,
		identity: identity,
		key:      sanitizeIdentity(identity),
		policy:   PolicyKeep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dir == "" {
		s.dir = filepath.Join(absRoot, share.VERSIONS_DIR)
	}
	s.files, err = json.NewJSONStoreAt(s.dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitizeIdentity 把目录标识转换为可用作文件名的片段
// 被改写过的标识追加短哈希，避免 a/b 与 a_b 冲突
func sanitizeIdentity(identity string) string {
	safe := unsafeChars.ReplaceAllString(identity, "_")
	if safe == identity && safe != "" {
		return safe
	}
	sum := sha256.Sum256([]byte(identity))
	return safe + "-" + hex.EncodeToString(sum[:4])
}

// Identity 目录标识
func (s *Store) Identity() string { return s.identity }

// Dir 版本文件目录
func (s *Store) Dir() string { return s.dir }

// Policy 回退后提交的策略
func (s *Store) Policy() Policy { return s.policy }

func (s *Store) infoName() string {
	return fmt.Sprintf("editdir_%s_versionInfo", s.key)
}

func (s *Store) recordName(index int) string {
	return fmt.Sprintf("editdir_%s_v%d", s.key, index)
}

// pruneAbove 删除序号大于 index 的版本记录
func (s *Store) pruneAbove(index int) {
	prefix := fmt.Sprintf("editdir_%s_v", s.key)
	names, err := s.files.Search(prefix)
	if err != nil {
		logger.Warn("list version records", zap.Error(err))
		return
	}
	for _, name := range names {
		n, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
		if err != nil || n <= index {
			continue
		}
		if err := s.files.Delete(name); err != nil {
			logger.Warn("delete truncated version", zap.String("record", name), zap.Error(err))
		}
	}
}

func (s *Store) lock() func() {
	mu := lockFor(s.dir + "\x00" + s.key)
	mu.Lock()
	return mu.Unlock
}

func (s *Store) loadInfo() (Info, error) {
	var info Info
	if _, err := s.files.Get(s.infoName(), &info); err != nil {
		if errors.Is(err, json.ErrNotExist) {
			return Info{}, ErrNotInitialized
		}
		if errors.Is(err, json.ErrInvalidJSON) {
			return Info{}, fmt.Errorf("%w: %v", ErrMetadataCorrupt, err)
		}
		return Info{}, err
	}
	if info.TotalVersions < 1 || info.CurrentVersion < 0 || info.CurrentVersion >= info.TotalVersions {
		return Info{}, fmt.Errorf("%w: current %d of %d", ErrMetadataCorrupt, info.CurrentVersion, info.TotalVersions)
	}
	return info, nil
}

func (s *Store) saveInfo(info Info) error {
	return s.files.Set(s.infoName(), info)
}

func (s *Store) loadRecord(index int) (*Record, error) {
	var rec Record
	if _, err := s.files.Get(s.recordName(index), &rec); err != nil {
		if errors.Is(err, json.ErrInvalidJSON) || errors.Is(err, json.ErrNotExist) {
			return nil, fmt.Errorf("%w: version %d: %v", ErrMetadataCorrupt, index, err)
		}
		return nil, err
	}
	return &rec, nil
}

func (s *Store) saveRecord(index int, rec *Record) error {
	return s.files.Set(s.recordName(index), rec)
}

// Info 返回当前元数据，未初始化时返回 ErrNotInitialized
func (s *Store) Info() (Info, error) {
	defer s.lock()()
	return s.loadInfo()
}

// Initialize 首次加载目录时把完整文件集保存为版本 0
// 已有元数据时不做任何修改，返回 created=false
func (s *Store) Initialize(files []project.FlatFile) (Info, bool, error) {
	defer s.lock()()

	info, err := s.loadInfo()
	if err == nil {
		return info, false, nil
	}
	if !errors.Is(err, ErrNotInitialized) {
		return Info{}, false, err
	}

	rec := &Record{Timestamp: s.now(), Files: files}
	if err := s.saveRecord(0, rec); err != nil {
		return Info{}, false, err
	}
	info = Info{CurrentVersion: 0, TotalVersions: 1}
	if err := s.saveInfo(info); err != nil {
		return Info{}, false, err
	}
	logger.Debug("version chain initialized",
		zap.String("identity", s.identity),
		zap.Int("files", len(files)),
	)
	return info, true, nil
}

// Commit 把已写盘的修改记录为新版本并移动到该版本
func (s *Store) Commit(files []project.FlatFile) (Info, error) {
	if len(files) == 0 {
		return Info{}, errors.New("commit: no files")
	}
	defer s.lock()()

	info, err := s.loadInfo()
	if err != nil {
		return Info{}, err
	}

	parent := info.CurrentVersion
	index := info.TotalVersions
	if s.policy == PolicyTruncate {
		index = parent + 1
	}
	rec := &Record{Timestamp: s.now(), Parent: &parent, Files: files}
	if err := s.saveRecord(index, rec); err != nil {
		return Info{}, err
	}

	info = Info{CurrentVersion: index, TotalVersions: index + 1}
	if err := s.saveInfo(info); err != nil {
		return Info{}, err
	}
	// 元数据落盘后再清理被截断的版本，清理失败只留下无人引用的记录
	if s.policy == PolicyTruncate {
		s.pruneAbove(index)
	}
	logger.Debug("version committed",
		zap.String("identity", s.identity),
		zap.Int("version", index),
		zap.Int("parent", parent),
		zap.Int("files", len(files)),
	)
	return info, nil
}

// Revert 回到上一个版本
func (s *Store) Revert(applier Applier) (Info, error) {
	return s.move(-1, "revert", applier)
}

// Forward 前进到下一个版本
func (s *Store) Forward(applier Applier) (Info, error) {
	return s.move(1, "forward", applier)
}

func (s *Store) move(delta int, op string, applier Applier) (Info, error) {
	defer s.lock()()

	info, err := s.loadInfo()
	if err != nil {
		return Info{}, err
	}
	target := info.CurrentVersion + delta
	if target < 0 || target >= info.TotalVersions {
		return info, &boundsError{Op: op, Current: info.CurrentVersion, Total: info.TotalVersions}
	}

	changes, err := s.changes(info.CurrentVersion, target)
	if err != nil {
		return info, err
	}

	written, werr := s.writeBack(changes)
	if applier != nil && len(written) > 0 {
		if err := applier.ApplyFiles(written); err != nil {
			return info, err
		}
	}
	if werr != nil {
		return info, werr
	}

	info.CurrentVersion = target
	if err := s.saveInfo(info); err != nil {
		return info, err
	}
	logger.Debug("version moved",
		zap.String("identity", s.identity),
		zap.String("op", op),
		zap.Int("version", target),
		zap.Int("files", len(written)),
	)
	return info, nil
}

// writeBack 依次写回文件，失败时返回已写入的部分和 PartialWriteError
func (s *Store) writeBack(files []project.FlatFile) ([]project.FlatFile, error) {
	written := make([]project.FlatFile, 0, len(files))
	for _, f := range files {
		full, err := helper.SafeJoin(s.root, f.Path)
		if err == nil {
			err = writeFile(full, []byte(f.Content))
		}
		if err != nil {
			paths := make([]string, len(written))
			for i, w := range written {
				paths[i] = w.Path
			}
			return written, &PartialWriteError{Written: paths, Failed: f.Path, Err: err}
		}
		written = append(written, f)
	}
	return written, nil
}

// changes 计算从 from 切换到 to 需要写回的文件：
// 两个版本内容不同的文件，加上目标版本记录本身包含的文件
func (s *Store) changes(from, to int) ([]project.FlatFile, error) {
	cache := make(map[int]*Record)
	current, err := s.materialize(from, cache)
	if err != nil {
		return nil, err
	}
	target, err := s.materialize(to, cache)
	if err != nil {
		return nil, err
	}

	own := make(map[string]bool)
	for _, f := range cache[to].Files {
		own[helper.NormalizeRelPath(f.Path)] = true
	}

	var out []project.FlatFile
	for _, f := range target.Files() {
		old, ok := current.Get(f.Path)
		if own[f.Path] || !ok || old != f.Content {
			out = append(out, f)
		}
	}
	for _, p := range current.Paths() {
		if _, ok := target.Get(p); !ok {
			logger.Info("file absent from target version left in place",
				zap.String("identity", s.identity),
				zap.String("path", p),
			)
		}
	}
	return out, nil
}

// materialize 重放版本 0 到 index 的父链，得到该版本的完整文件集
func (s *Store) materialize(index int, cache map[int]*Record) (*editor.Context, error) {
	var chain []*Record
	for i := index; ; {
		rec, ok := cache[i]
		if !ok {
			var err error
			rec, err = s.loadRecord(i)
			if err != nil {
				return nil, err
			}
			cache[i] = rec
		}
		chain = append(chain, rec)
		if i == 0 {
			break
		}
		i = parentOf(rec, i)
	}

	ctx := editor.NewContext(nil)
	for i := len(chain) - 1; i >= 0; i-- {
		ctx.Apply(chain[i].Files)
	}
	return ctx, nil
}

func parentOf(rec *Record, index int) int {
	if rec.Parent != nil && *rec.Parent >= 0 && *rec.Parent < index {
		return *rec.Parent
	}
	return index - 1
}

// List 返回所有版本的摘要，不修改任何状态
func (s *Store) List() ([]Summary, error) {
	defer s.lock()()

	info, err := s.loadInfo()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, info.TotalVersions)
	for i := 0; i < info.TotalVersions; i++ {
		rec, err := s.loadRecord(i)
		if err != nil {
			return nil, err
		}
		paths := make([]string, len(rec.Files))
		for j, f := range rec.Files {
			paths[j] = f.Path
		}
		out = append(out, Summary{
			Index:     i,
			Timestamp: rec.Timestamp,
			Files:     paths,
			Current:   i == info.CurrentVersion,
		})
	}
	return out, nil
}

// Load 读取指定版本的记录
func (s *Store) Load(index int) (*Record, error) {
	defer s.lock()()

	info, err := s.loadInfo()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= info.TotalVersions {
		return nil, &boundsError{Op: "load", Current: index, Total: info.TotalVersions}
	}
	return s.loadRecord(index)
}
