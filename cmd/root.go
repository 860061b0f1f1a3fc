package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/epotocko/vexmusicxml/config"
)

var (
	tablesPath string
	verbose    bool
)

// progress 输出处理过程，仅在 --verbose 时可见；错误始终写到 stderr。
var progress = log.New(os.Stderr, "", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:   "vexmusicxml",
	Short: "MusicXML 排版工具",
	Long:  `解析 score-partwise 格式的 MusicXML（含 .mxl 压缩包），分行排版后输出 PDF、布局 JSON 或 MIDI。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			progress.SetOutput(cmd.ErrOrStderr())
		} else {
			progress.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tablesPath, "tables", "", "覆盖默认映射表的 YAML 文件")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出处理过程")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute 运行命令，失败时把错误写到 stderr 并返回退出码。
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// loadTables 读取 --tables 指定的映射表；未指定时返回默认表。
func loadTables(path string) (*config.Tables, error) {
	if path == "" {
		return config.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开映射表 %s: %w", path, err)
	}
	defer f.Close()
	t, err := config.Load(f)
	if err != nil {
		return nil, fmt.Errorf("解析映射表失败: %w", err)
	}
	return t, nil
}
