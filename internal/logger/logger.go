package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger 创建一个新的日志记录器
func NewLogger(debug bool) *zap.Logger {
	return NewLoggerWithVerbose(debug, false)
}

// NewLoggerWithVerbose 创建日志记录器。verbose 模式使用带颜色的控制台格式，
// 否则使用 JSON 格式
func NewLoggerWithVerbose(debug, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return build(level, verbose)
}

// NewLoggerWithLevel 按级别名创建日志记录器，无法识别的级别按 info 处理
func NewLoggerWithLevel(levelName string, verbose bool) *zap.Logger {
	return build(ParseLevel(levelName), verbose)
}

// ParseLevel 解析日志级别（debug/info/warn/error），大小写不敏感
func ParseLevel(levelName string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(levelName)))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func build(level zapcore.Level, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	// 日志写到 stderr，stdout 留给命令输出
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}

	return logger
}
