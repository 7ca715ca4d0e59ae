// Package logger 基于 zap 的全局日志
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	globalLog   *zap.Logger = zap.NewNop()
	globalLevel             = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// Init 初始化全局日志，debug 为 true 时输出调试级别日志
func Init(debug bool) error {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	if debug {
		globalLevel.SetLevel(zapcore.DebugLevel)
	} else {
		globalLevel.SetLevel(zapcore.WarnLevel)
	}
	config.Level = globalLevel

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	globalLog = l
	mu.Unlock()
	return nil
}

// Set 替换全局日志实例，主要用于测试
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	globalLog = l
	mu.Unlock()
}

// L 返回全局日志实例
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLog
}

// Sync 刷新缓冲的日志
func Sync() error {
	return L().Sync()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
