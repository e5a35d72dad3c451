package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "显示当前生效的配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.close()

			if err := checkFormat(e.format, FormatTable, FormatJSON); err != nil {
				return err
			}
			if e.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), e.cfg.Settings())
			}
			renderSettings(cmd.OutOrStdout(), e.cfg.Settings())
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCommand(), newConfigRulesCommand(opts))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "写入默认配置文件 (默认 $HOME/.qbseg.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.SaveConfig(config.NewDefaultConfig(), path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "默认配置已写入")
			return nil
		},
	}
}

func newConfigRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "按优先级列出规范化步骤和切分规则",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.close()

			s, err := e.segmenter()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Stage", "Order", "Name"})
			for i, step := range s.Normalizer().Steps() {
				tw.AppendRow(table.Row{"normalize", i + 1, step.Name})
			}
			tw.AppendSeparator()
			for i, name := range s.RuleNames() {
				tw.AppendRow(table.Row{"tokenize", i + 1, name})
			}
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}
}

func renderSettings(w io.Writer, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Key", "Value"})
	for _, k := range keys {
		tw.AppendRow(table.Row{k, fmt.Sprint(settings[k])})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
