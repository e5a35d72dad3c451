package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/bank"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// bankStats stats 命令的 JSON 输出
type bankStats struct {
	Summary bank.Summary     `json:"summary"`
	Types   []bank.TypeCount `json:"types"`
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "统计题库的完整度和题型分布",
		Long: `统计题库的题目数量、完整度、答案覆盖、科目数量和题型分布。

示例:
  qbseg stats questions.csv
  qbseg stats questions.json --format json`,
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

			st := bankStats{
				Summary: bank.Summarize(rows),
				Types:   bank.SortedTypeCounts(bank.TypeCounts(rows)),
			}
			if e.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			return renderStats(cmd.OutOrStdout(), st)
		},
	}
	return cmd
}

func renderStats(w io.Writer, st bankStats) error {
	heading := color.New(color.FgCyan, color.Bold)

	heading.Fprintln(w, "Question Bank Summary")
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendRow(table.Row{"Total questions", st.Summary.Total})
	tw.AppendRow(table.Row{"Complete", st.Summary.Complete})
	tw.AppendRow(table.Row{"Incomplete", st.Summary.Incomplete})
	tw.AppendRow(table.Row{"With answers", st.Summary.WithAnswers})
	tw.AppendRow(table.Row{"Unique subjects", st.Summary.UniqueSubjects})
	tw.AppendRow(table.Row{"Question types", st.Summary.QuestionTypes})
	tw.SetStyle(table.StyleLight)
	tw.Render()

	if len(st.Types) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Question Types")

	bars := make(pterm.Bars, 0, len(st.Types))
	for _, tc := range st.Types {
		bars = append(bars, pterm.Bar{Label: displayValue(tc.Type), Value: tc.Count})
	}
	chart, err := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal().
		WithShowValue().
		WithWidth(40).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = io.WriteString(w, chart)
	return err
}
