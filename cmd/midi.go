package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/epotocko/vexmusicxml/midifile"
	"github.com/epotocko/vexmusicxml/musicxml"
)

var (
	midiOut      string
	midiTempo    float64
	midiVelocity uint8
)

func init() {
	midiCmd.Flags().StringVarP(&midiOut, "out", "o", "output/score.mid", "MIDI 输出路径")
	midiCmd.Flags().Float64Var(&midiTempo, "tempo", 120, "速度（每分钟四分音符数）")
	midiCmd.Flags().Uint8Var(&midiVelocity, "velocity", 80, "力度（1~127）")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <file>",
	Short: "导出 Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := exportMIDI(args[0], midiOut); err != nil {
			return fmt.Errorf("导出 MIDI 失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成 MIDI：%s\n", midiOut)
		return nil
	},
}

func exportMIDI(inputPath, outputPath string) error {
	tables, err := loadTables(tablesPath)
	if err != nil {
		return err
	}
	score, err := musicxml.ParseFile(inputPath)
	if err != nil {
		return fmt.Errorf("解析 MusicXML 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建 MIDI 文件失败: %w", err)
	}
	defer f.Close()
	err = midifile.Write(f, score,
		midifile.WithTables(tables),
		midifile.WithTempo(midiTempo),
		midifile.WithVelocity(midiVelocity),
	)
	if err != nil {
		return err
	}
	progress.Printf("已导出 %d 个声部", len(score.Parts))
	return f.Close()
}
