package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/nerdneilsfield/go-qbank-segmenter/internal/bank"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/config"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/logger"
	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 输出格式
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// rootOptions 所有子命令共享的标志
type rootOptions struct {
	cfgFile string
	debug   bool
	verbose bool
	format  string
}

// env 一次命令执行所需的配置和组件
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	format string
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "qbseg",
		Short: "题库混合内容切分工具",
		Long: `qbseg 将题库中混合了文本、LaTeX 公式和图片链接的内容切分为有序的片段。

支持的输入:
  - 单段文本（参数或标准输入）
  - CSV / TSV / JSON / HTML 表格形式的题库文件

示例:
  qbseg segment 'Find $x^2$ when \frac{1}{2}'
  qbseg bank questions.csv --export payload.json
  qbseg stats questions.csv
  qbseg preview questions.csv --format html -o preview.html`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "配置文件路径 (默认 $HOME/.qbseg.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "启用调试日志")
	flags.BoolVar(&opts.verbose, "verbose", false, "使用控制台格式输出日志")
	flags.StringVar(&opts.format, "format", "", "输出格式 (table, json, markdown, html)")

	rootCmd.AddCommand(
		newSegmentCommand(opts),
		newBankCommand(opts),
		newStatsCommand(opts),
		newPreviewCommand(opts),
		newConfigCommand(opts),
	)

	return rootCmd
}

// load 读取配置并创建日志记录器，命令行标志优先于配置文件
func (o *rootOptions) load() (*env, error) {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Debug = true
	}
	if o.verbose {
		cfg.Verbose = true
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	log := logger.NewLoggerWithLevel(level, cfg.Verbose)

	format := strings.ToLower(strings.TrimSpace(o.format))
	if format == "" {
		format = cfg.OutputFormat
	}

	return &env{cfg: cfg, log: log, format: format}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
}

func (e *env) segmenter() (*segment.Segmenter, error) {
	opts, err := e.cfg.SegmentOptions(e.log)
	if err != nil {
		return nil, err
	}
	return segment.New(opts...), nil
}

func (e *env) reader() *bank.Reader {
	return bank.NewReader(bank.ReaderConfig{
		Encoding:     e.cfg.InputEncoding,
		FuzzyHeaders: e.cfg.FuzzyHeaders,
	}, e.log)
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q (expected one of: %s)", format, strings.Join(allowed, ", "))
}

// readText 参数拼接为文本，没有参数时读取标准输入
func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
