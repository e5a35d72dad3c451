package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nerdneilsfield/go-qbank-segmenter/internal/preview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type previewOptions struct {
	text   string
	output string
	row    int
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	po := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "将切分结果渲染为 Markdown 或 HTML",
		Long: `将题库或一段文本的切分结果渲染为 Markdown 或带 MathJax 的 HTML 页面。

示例:
  qbseg preview questions.csv
  qbseg preview questions.csv --row 3 --format html -o q3.html
  qbseg preview --text 'Solve $x^2=4$' --format html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.close()

			// 默认输出 Markdown
			format := e.format
			if format == FormatTable {
				format = FormatMarkdown
			}
			if err := checkFormat(format, FormatMarkdown, FormatHTML); err != nil {
				return err
			}

			var md string
			switch {
			case len(args) == 1:
				md, err = e.bankMarkdown(cmd, args[0], po.row)
			case po.text != "":
				md, err = e.textMarkdown(po.text)
			default:
				return fmt.Errorf("either a question bank file or --text is required")
			}
			if err != nil {
				return err
			}

			out := md
			if format == FormatHTML {
				page, err := preview.HTML([]byte(md))
				if err != nil {
					return err
				}
				if out, err = page.Standalone(e.cfg.PreviewTitle); err != nil {
					return err
				}
			}

			if po.output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(po.output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write preview: %w", err)
			}
			e.log.Info("预览已生成", zap.String("file", po.output), zap.String("format", format))
			return nil
		},
	}

	cmd.Flags().StringVarP(&po.text, "text", "t", "", "预览一段文本而不是题库文件")
	cmd.Flags().StringVarP(&po.output, "output", "o", "", "输出文件，默认标准输出")
	cmd.Flags().IntVar(&po.row, "row", 0, "只预览第 N 道题目 (从 1 开始)，0 表示全部")
	return cmd
}

func (e *env) textMarkdown(text string) (string, error) {
	s, err := e.segmenter()
	if err != nil {
		return "", err
	}
	md, err := preview.Markdown(s.Segment(text))
	if err != nil {
		return "", err
	}
	return preview.FrontMatter(map[string]string{"title": e.cfg.PreviewTitle}) + md, nil
}

// bankMarkdown 多道题目之间以分隔线隔开，只有第一道题目带 front matter
func (e *env) bankMarkdown(cmd *cobra.Command, path string, row int) (string, error) {
	rows, err := e.reader().ReadFile(path)
	if err != nil {
		return "", err
	}
	if row < 0 || row > len(rows) {
		return "", fmt.Errorf("row %d out of range (1-%d)", row, len(rows))
	}
	if row > 0 {
		rows = rows[row-1 : row]
	}

	results, err := e.process(cmd.Context(), rows)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		md, err := preview.QuestionMarkdown(r, e.cfg.PreviewTitle)
		if err != nil {
			return "", err
		}
		if i > 0 {
			md = stripFrontMatter(md)
		}
		parts = append(parts, strings.TrimSpace(md)+"\n")
	}
	return strings.Join(parts, "\n***\n\n"), nil
}

func stripFrontMatter(md string) string {
	if !strings.HasPrefix(md, "---\n") {
		return md
	}
	end := strings.Index(md[4:], "\n---\n")
	if end < 0 {
		return md
	}
	return md[4+end+5:]
}
