package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	renderFlags layoutFlags
	renderOut   string
	renderDebug string
)

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "output/score.pdf", "PDF 输出路径")
	renderCmd.Flags().StringVar(&renderDebug, "debug", "", "布局调试 JSON 输出路径")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "排版并输出 PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := renderFlags.renderer()
		if err != nil {
			return fmt.Errorf("参数无效: %w", err)
		}
		p, err := renderFlags.pipeline(r)
		if err != nil {
			return fmt.Errorf("参数无效: %w", err)
		}
		if err := p.run(args[0], renderOut, renderDebug, r); err != nil {
			return fmt.Errorf("生成 PDF 失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", renderOut)
		return nil
	},
}
