package cmd

import (
	"github.com/spf13/cobra"

	"github.com/epotocko/vexmusicxml/layout"
	"github.com/epotocko/vexmusicxml/notation"
	canvasrenderer "github.com/epotocko/vexmusicxml/renderer/canvas"
)

// layoutFlags 是 render 与 layout 子命令共用的排版参数。
type layoutFlags struct {
	page       string
	margin     string
	title      string
	spacing    float64
	staffSpace float64
	font       string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.page, "page", "A4", "纸张尺寸：A3/A4/A5/Letter/Legal 或 WxH，可追加 landscape")
	cmd.Flags().StringVar(&f.margin, "margin", "15mm", "页边距，1~4 个值，按 CSS 顺序")
	cmd.Flags().StringVar(&f.title, "title", "${title}", "标题模板，支持 ${work.title}、${creator.composer|默认值} 等占位符")
	cmd.Flags().Float64Var(&f.spacing, "spacing", notation.DefaultMeasureSpacing, "小节内容额外留白比例")
	cmd.Flags().Float64Var(&f.staffSpace, "staff-space", canvasrenderer.DefaultStaffSpace, "谱线间距（mm）")
	cmd.Flags().StringVar(&f.font, "font", "", "标题使用的 TTF/OTF 字体文件")
}

func (f *layoutFlags) renderer() (*canvasrenderer.Renderer, error) {
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		StaffSpace: f.staffSpace,
		Font:       canvasrenderer.Resource{Path: f.font},
	})
}

func (f *layoutFlags) pipeline(r *canvasrenderer.Renderer) (pipeline, error) {
	tables, err := loadTables(tablesPath)
	if err != nil {
		return pipeline{}, err
	}
	width, height, err := layout.ParsePageSize(f.page)
	if err != nil {
		return pipeline{}, err
	}
	margin, err := layout.ParseMargin(f.margin)
	if err != nil {
		return pipeline{}, err
	}
	opts := layout.BuildOptions{
		PageWidth:   width,
		PageHeight:  height,
		Margin:      margin,
		StaveHeight: r.StaveHeight(),
		Title:       f.title,
		Creator:     "vexmusicxml",
	}
	return pipeline{tables: tables, layout: opts, spacing: f.spacing}, nil
}
