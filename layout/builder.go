package layout

import (
	"fmt"

	"github.com/epotocko/vexmusicxml/binding"
	"github.com/epotocko/vexmusicxml/notation"
)

// Build 将翻译后的小节分行、分页，生成可直接渲染的布局结果。
func Build(measures []*notation.Measure, opts BuildOptions) (*Result, error) {
	opts.applyDefaults()
	if opts.PageWidth <= 0 || opts.PageHeight <= 0 {
		return nil, fmt.Errorf("layout: 页面尺寸无效 %gx%g", opts.PageWidth, opts.PageHeight)
	}
	lineWidth := opts.PageWidth - opts.Margin.Left - opts.Margin.Right
	if lineWidth <= 0 {
		return nil, fmt.Errorf("layout: 左右边距之和超过页面宽度")
	}

	boxes := make([]MeasureBox, 0, len(measures))
	for i, m := range measures {
		if m == nil {
			return nil, fmt.Errorf("layout: 第 %d 个小节为空", i)
		}
		b := NewMeasureBox(m)
		b.ShowTime = i == 0 || timeChanged(m)
		boxes = append(boxes, b)
	}

	title := ""
	if opts.Title != "" {
		title = binding.Interpolate(opts.Title, opts.Data)
	}

	collector := newPageCollector(opts.PageWidth, opts.PageHeight, opts.Margin)
	if title != "" {
		collector.title = &TitleBox{
			Content:  title,
			X:        opts.Margin.Left,
			Y:        opts.Margin.Top,
			Width:    lineWidth,
			Height:   opts.TitleFontSize * 2,
			FontSize: opts.TitleFontSize,
		}
	}

	cursorY := collector.contentTop()
	for _, measuresInLine := range BreakLines(lineWidth, boxes) {
		rows := staveKeys(measuresInLine)
		height := systemHeight(len(rows), opts)
		// 当前页放不下且已有内容时换页；单行超过页面高度时仍独占一页。
		if cursorY+height > collector.contentBottom() && len(collector.curr().lines) > 0 {
			collector.newPage()
			cursorY = collector.contentTop()
		}
		line := Line{
			X:        opts.Margin.Left,
			Y:        cursorY,
			Width:    LineWidth(measuresInLine),
			Height:   height,
			Measures: measuresInLine,
		}
		for i, r := range rows {
			r.Y = cursorY + float64(i)*(opts.StaveHeight+opts.StaveSpacing)
			line.Rows = append(line.Rows, r)
		}
		for i := range line.Measures {
			line.Measures[i].X += line.X
		}
		collector.curr().lines = append(collector.curr().lines, line)
		cursorY += height + opts.SystemSpacing
	}

	return &Result{
		Pages: collector.pages(),
		Meta:  DocumentMeta{Title: title, Creator: opts.Creator},
	}, nil
}

func timeChanged(m *notation.Measure) bool {
	for _, s := range m.Staves {
		if s.Changes.Time != nil {
			return true
		}
	}
	return false
}

// staveKeys 按出现顺序收集一行中所有小节的谱表。
func staveKeys(line []MeasureBox) []StaveRow {
	var rows []StaveRow
	seen := map[StaveRow]bool{}
	for _, b := range line {
		if b.Measure == nil {
			continue
		}
		for _, s := range b.Measure.Staves {
			key := StaveRow{PartID: s.PartID, Number: s.Number}
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, key)
		}
	}
	return rows
}

func systemHeight(staves int, opts BuildOptions) float64 {
	if staves <= 1 {
		return opts.StaveHeight
	}
	return float64(staves)*opts.StaveHeight + float64(staves-1)*opts.StaveSpacing
}

type pageAccumulator struct {
	lines []Line
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	accs    []*pageAccumulator
	current int
	// 标题只占用第一页的顶部空间
	title *TitleBox
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) contentTop() float64 {
	if pc.current == 0 && pc.title != nil {
		return pc.margin.Top + pc.title.Height
	}
	return pc.margin.Top
}

func (pc *pageCollector) contentBottom() float64 {
	return pc.height - pc.margin.Bottom
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Lines:  acc.lines,
		}
		if i == 0 {
			out[i].Title = pc.title
		}
	}
	return out
}
