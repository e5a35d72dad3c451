package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nerdneilsfield/go-qbank-segmenter/internal/config"
	"github.com/stretchr/testify/require"
)

// CreateTestConfig 创建通用测试配置，并发为 1，只输出错误日志
func CreateTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LogLevel = "error"
	cfg.Concurrency = 1
	cfg.PreviewTitle = "Test Preview"
	return cfg
}

// WriteTestConfig 将配置写入临时目录中的 YAML 文件，返回文件路径
func WriteTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qbseg.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))
	return path
}

// WriteFile 在临时目录中写入测试文件
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
