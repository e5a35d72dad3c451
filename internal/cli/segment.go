package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/preview"
	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 表格中片段内容的最大显示宽度
const valueWidth = 60

func newSegmentCommand(opts *rootOptions) *cobra.Command {
	var normalizeOnly bool

	cmd := &cobra.Command{
		Use:   "segment [text...]",
		Short: "切分一段文本",
		Long: `切分一段混合内容文本，没有参数时从标准输入读取。

示例:
  qbseg segment 'Let $x = \frac{1}{2}$'
  echo 'See https://i.imgur.com/a.png' | qbseg segment --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.close()

			raw, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			s, err := e.segmenter()
			if err != nil {
				return err
			}

			if normalizeOnly {
				fmt.Fprintln(cmd.OutOrStdout(), s.Normalize(raw))
				return nil
			}

			doc := s.Segment(raw)
			e.log.Debug("文本切分完成",
				zap.Int("blocks", len(doc.Blocks)),
				zap.Int("segments", len(doc.Segments())))
			return writeDocument(cmd.OutOrStdout(), e.format, doc)
		},
	}

	cmd.Flags().BoolVar(&normalizeOnly, "normalize", false, "只输出规范化后的文本")
	return cmd
}

func writeDocument(w io.Writer, format string, doc *segment.Document) error {
	if err := checkFormat(format, FormatTable, FormatJSON, FormatMarkdown); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatMarkdown:
		md, err := preview.Markdown(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	default:
		renderSegments(w, doc)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// renderSegments 以表格列出所有片段
func renderSegments(w io.Writer, doc *segment.Document) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Block", "Kind", "Value", "Span", "Rule"})

	n := 0
	for _, b := range doc.Blocks {
		block := b.Role.String()
		if b.Label != "" {
			block += " " + b.Label
		}
		for _, s := range b.Segments {
			n++
			tw.AppendRow(table.Row{
				n,
				block,
				s.Kind.String(),
				displayValue(s.Value),
				fmt.Sprintf("%d-%d", s.Span.Start, s.Span.End),
				s.Rule,
			})
		}
	}

	tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d segments", n), "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// displayValue 单行显示，过长时按显示宽度截断
func displayValue(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	return runewidth.Truncate(v, valueWidth, "...")
}
