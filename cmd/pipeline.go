package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/epotocko/vexmusicxml/config"
	"github.com/epotocko/vexmusicxml/layout"
	"github.com/epotocko/vexmusicxml/musicxml"
	"github.com/epotocko/vexmusicxml/notation"
	"github.com/epotocko/vexmusicxml/renderer"
)

// pipeline 保存一次转换所需的全部参数。
type pipeline struct {
	tables  *config.Tables
	layout  layout.BuildOptions
	spacing float64
}

// buildLayout 串联解析、翻译与分行排版。
func (p pipeline) buildLayout(inputPath string, backend notation.Backend) (*musicxml.Score, *layout.Result, error) {
	if backend == nil {
		return nil, nil, fmt.Errorf("缺少排版后端")
	}
	score, err := musicxml.ParseFile(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("解析 MusicXML 失败: %w", err)
	}
	progress.Printf("已解析 %d 个声部、%d 个小节", len(score.Parts), len(score.Measures))

	tr := notation.NewTranslator(backend,
		notation.WithTables(p.tables),
		notation.WithMeasureSpacing(p.spacing),
	)
	measures, err := tr.Translate(score)
	if err != nil {
		return nil, nil, fmt.Errorf("翻译小节失败: %w", err)
	}

	opts := p.layout
	opts.Data = score.Meta.Data()
	result, err := layout.Build(measures, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("布局计算失败: %w", err)
	}
	progress.Printf("排版完成：%d 页", len(result.Pages))
	for _, l := range layout.Summarize(result) {
		progress.Printf("第 %d 页第 %d 行：小节 %v", l.Page, l.Line, l.Measures)
	}
	return score, result, nil
}

// run 生成 PDF，debugPath 非空时同时输出布局 JSON。
func (p pipeline) run(inputPath, outputPath, debugPath string, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	backend, ok := r.(notation.Backend)
	if !ok {
		return fmt.Errorf("renderer 未实现排版接口")
	}
	_, result, err := p.buildLayout(inputPath, backend)
	if err != nil {
		return err
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
