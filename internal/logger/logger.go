package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

// New 按运行环境构建 zap logger
func New(env, level string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}

// Set 设置进程级 logger，同时替换 zap 全局 logger
func Set(l *zap.Logger) {
	current.Store(l)
	zap.ReplaceGlobals(l)
}

// L 返回进程级 logger，未初始化时为 Nop
func L() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}
