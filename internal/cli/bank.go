package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/bank"
	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBankCommand(opts *rootOptions) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "bank <file>",
		Short: "切分整个题库文件",
		Long: `读取 CSV / TSV / JSON / HTML 题库，检查字段完整度并切分所有内容字段。

示例:
  qbseg bank questions.csv
  qbseg bank questions.html --format json
  qbseg bank questions.csv --export payload.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.close()

			if err := checkFormat(e.format, FormatTable, FormatJSON); err != nil {
				return err
			}

			rows, err := e.reader().ReadFile(args[0])
			if err != nil {
				return err
			}

			if exportPath != "" {
				if err := exportPayload(cmd.OutOrStdout(), exportPath, rows); err != nil {
					return err
				}
				e.log.Info("导出完成", zap.String("file", exportPath), zap.Int("rows", len(rows)))
				return nil
			}

			results, err := e.process(cmd.Context(), rows)
			if err != nil {
				return err
			}

			if e.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			renderBank(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "e", "", "导出题库数据 (JSON)，- 表示标准输出")
	return cmd
}

func (e *env) process(ctx context.Context, rows []bank.Row) ([]bank.SegmentedRow, error) {
	s, err := e.segmenter()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return bank.NewProcessor(s, e.cfg.Concurrency, e.log).Process(ctx, rows)
}

func exportPayload(stdout io.Writer, path string, rows []bank.Row) error {
	payload := bank.NewPayload(rows, time.Now())
	if path == "-" {
		return writeJSON(stdout, payload)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return writeJSON(f, payload)
}

// renderBank 每道题目一行，列出完整度和片段数量
func renderBank(w io.Writer, results []bank.SegmentedRow) {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Serial", "Type", "Status", "Text", "Math", "Image"})

	complete := 0
	for i, r := range results {
		status := r.Completeness.MissingText()
		switch {
		case !r.Completeness.IsComplete():
			status = bad(status)
		case len(r.Completeness.MissingOptional) > 0:
			complete++
			status = warn(status)
		default:
			complete++
			status = ok(status)
		}

		counts := r.Counts()
		tw.AppendRow(table.Row{
			i + 1,
			displayValue(r.Row.SerialNumber),
			displayValue(r.Row.QnType),
			status,
			counts[segment.KindText],
			counts[segment.KindMath],
			counts[segment.KindImage],
		})
	}

	tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d/%d complete", complete, len(results)), "", "", ""})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
