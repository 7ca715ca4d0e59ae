package project

import (
	"errors"
	"fmt"
)

var (
	ErrNotADirectory = errors.New("path is not a directory")
	ErrEmptyResult   = errors.New("no valid text files found in directory")
	ErrLimitExceeded = errors.New("scan limit exceeded")
	ErrCycleDetected = errors.New("path already visited")
	ErrReadFailure   = errors.New("file unreadable")
	ErrDirectoryRead = errors.New("directory unreadable")
)

// DiagnosticKind 软失败的类别
type DiagnosticKind string

const (
	DiagLimitExceeded DiagnosticKind = "limit_exceeded"
	DiagCycleDetected DiagnosticKind = "cycle_detected"
	DiagReadFailure   DiagnosticKind = "read_failure"
	DiagDirectoryRead DiagnosticKind = "directory_read_failure"
)

// Diagnostic 扫描过程中产生的软失败记录，扫描会继续进行
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Path, d.Message)
}

// Err 返回诊断对应的哨兵错误，便于 errors.Is 判断
func (d Diagnostic) Err() error {
	switch d.Kind {
	case DiagLimitExceeded:
		return ErrLimitExceeded
	case DiagCycleDetected:
		return ErrCycleDetected
	case DiagReadFailure:
		return ErrReadFailure
	case DiagDirectoryRead:
		return ErrDirectoryRead
	}
	return nil
}

// traverseError 封装遍历过程中的错误信息
type traverseError struct {
	Path string
	Err  error
}

func (e *traverseError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *traverseError) Unwrap() error {
	return e.Err
}
