package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	layoutCmdFlags layoutFlags
	layoutOut      string
)

func init() {
	layoutCmdFlags.register(layoutCmd)
	layoutCmd.Flags().StringVarP(&layoutOut, "out", "o", "output/layout.json", "布局 JSON 输出路径")
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "仅排版，输出布局 JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := layoutCmdFlags.renderer()
		if err != nil {
			return fmt.Errorf("参数无效: %w", err)
		}
		p, err := layoutCmdFlags.pipeline(r)
		if err != nil {
			return fmt.Errorf("参数无效: %w", err)
		}
		_, result, err := p.buildLayout(args[0], r)
		if err != nil {
			return fmt.Errorf("排版失败: %w", err)
		}
		if err := writeDebug(result, layoutOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成布局 JSON：%s\n", layoutOut)
		return nil
	},
}
