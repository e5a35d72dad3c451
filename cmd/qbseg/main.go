package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nerdneilsfield/go-qbank-segmenter/internal/cli"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/logger"
	"go.uber.org/zap"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// 初始化日志
	log := logger.NewLogger(false)
	defer func() {
		_ = log.Sync()
	}()

	// Ctrl+C 时停止题库切分
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("执行命令失败", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
