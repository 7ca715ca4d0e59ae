package version

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVersionBounds 回退到 0 之前或前进超过最新版本
	ErrVersionBounds = errors.New("version out of bounds")
	// ErrMetadataCorrupt 版本元数据或版本记录无法解析
	ErrMetadataCorrupt = errors.New("version metadata corrupt")
	// ErrNotInitialized 目录尚未建立版本链
	ErrNotInitialized = errors.New("version chain not initialized")
)

// PartialWriteError 多文件写回过程中途失败
type PartialWriteError struct {
	Written []string
	Failed  string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %d file(s) written [%s], failed at %s: %v",
		len(e.Written), strings.Join(e.Written, ", "), e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// boundsError 携带越界方向的错误
type boundsError struct {
	Op      string
	Current int
	Total   int
}

func (e *boundsError) Error() string {
	return fmt.Sprintf("%s: at version %d of %d", e.Op, e.Current, e.Total)
}

func (e *boundsError) Unwrap() error {
	return ErrVersionBounds
}
