package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config 保存切分工具的所有配置
type Config struct {
	Debug              bool     `mapstructure:"debug"`
	Verbose            bool     `mapstructure:"verbose"`               // 控制台格式日志
	LogLevel           string   `mapstructure:"log_level"`             // debug, info, warn, error
	OutputFormat       string   `mapstructure:"output_format"`         // table 或 json
	PlainTextMinLength int      `mapstructure:"plain_text_min_length"` // 超过该长度的普通句子不视为公式
	ImageHosts         []string `mapstructure:"image_hosts"`           // 额外的图床前缀
	EscapeTablePath    string   `mapstructure:"escape_table_path"`     // TOML 符号转义表
	InputEncoding      string   `mapstructure:"input_encoding"`        // CSV 编码，空表示自动检测
	FuzzyHeaders       bool     `mapstructure:"fuzzy_headers"`         // 模糊匹配未知表头
	Concurrency        int      `mapstructure:"concurrency"`           // 题库并发切分数
	PreviewTitle       string   `mapstructure:"preview_title"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".qbseg")
		v.SetConfigType("yaml")
	}

	// 读取环境变量，例如 QBSEG_CONCURRENCY
	v.SetEnvPrefix("QBSEG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 找不到配置文件时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.PlainTextMinLength <= 0 {
		config.PlainTextMinLength = segment.DefaultPlainTextMinLength
	}

	return &config, nil
}

// SaveConfig 保存配置到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(home, ".qbseg.yaml")
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	// 创建父目录（如果不存在）
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		OutputFormat:       "table",
		PlainTextMinLength: segment.DefaultPlainTextMinLength,
		ImageHosts:         []string{},
		FuzzyHeaders:       true,
		Concurrency:        4,
		PreviewTitle:       "Question Preview",
	}
}

// SegmentOptions 将配置转换为切分引擎的选项。配置了转义表时读取该文件
func (c *Config) SegmentOptions(log *zap.Logger) ([]segment.Option, error) {
	opts := []segment.Option{
		segment.WithPlainTextMinLength(c.PlainTextMinLength),
	}
	if len(c.ImageHosts) > 0 {
		opts = append(opts, segment.WithImageHosts(c.ImageHosts...))
	}
	if c.EscapeTablePath != "" {
		table, err := LoadEscapeTable(c.EscapeTablePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, segment.WithEscapes(table.Escapes))
	}
	if log != nil {
		opts = append(opts, segment.WithLogger(log))
	}
	return opts, nil
}

func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	for k, val := range structToMap(d) {
		v.SetDefault(k, val)
	}
}

func structToMap(config *Config) map[string]interface{} {
	return map[string]interface{}{
		"debug":                 config.Debug,
		"verbose":               config.Verbose,
		"log_level":             config.LogLevel,
		"output_format":         config.OutputFormat,
		"plain_text_min_length": config.PlainTextMinLength,
		"image_hosts":           config.ImageHosts,
		"escape_table_path":     config.EscapeTablePath,
		"input_encoding":        config.InputEncoding,
		"fuzzy_headers":         config.FuzzyHeaders,
		"concurrency":           config.Concurrency,
		"preview_title":         config.PreviewTitle,
	}
}

// Settings 以配置文件中的键名返回所有配置项
func (c *Config) Settings() map[string]interface{} {
	return structToMap(c)
}
