package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/epotocko/vexmusicxml/keyspec"
	"github.com/epotocko/vexmusicxml/layout"
	"github.com/epotocko/vexmusicxml/notation"
	"github.com/epotocko/vexmusicxml/renderer"
)

const (
	// DefaultStaffSpace 为默认谱线间距（mm），五线谱高度为其 4 倍。
	DefaultStaffSpace = 2.0

	lineWidth   = 0.12
	stemLength  = 3.5
	heavyFactor = 4.0
)

var transparent = color.RGBA{0, 0, 0, 0}

// Renderer measures notation for layout and draws layout results via
// github.com/tdewolff/canvas.
type Renderer struct {
	space float64

	fontBytes []byte
	fontMu    sync.Mutex
	family    *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ notation.Backend  = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// StaffSpace is the distance between two staff lines in mm.
	StaffSpace float64
	// Font is used for the title; without one the title is skipped.
	Font Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer with the default staff space and no font.
func NewRenderer() *Renderer {
	r, _ := NewRendererWithOptions(Options{})
	return r
}

// NewRendererWithOptions creates a renderer with injected resources. A font
// path that cannot be read is an error.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := &Renderer{space: opts.StaffSpace}
	if r.space <= 0 {
		r.space = DefaultStaffSpace
	}
	switch {
	case len(opts.Font.Bytes) > 0:
		r.fontBytes = opts.Font.Bytes
	case opts.Font.Path != "":
		data, err := os.ReadFile(opts.Font.Path)
		if err != nil {
			return nil, fmt.Errorf("读取字体失败: %w", err)
		}
		r.fontBytes = data
	}
	return r, nil
}

// StaveHeight returns the height of a five-line staff in mm.
func (r *Renderer) StaveHeight() float64 { return 4 * r.space }

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(result.Meta.Title, "", "", "", result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if page.Title != nil {
		r.drawTitle(ctx, *page.Title)
	}
	for _, line := range page.Lines {
		r.drawStaffLines(ctx, line)
		for _, box := range line.Measures {
			if err := r.drawMeasure(ctx, line, box); err != nil {
				return fmt.Errorf("小节 %s: %w", box.Number, err)
			}
		}
	}
	return nil
}

func (r *Renderer) drawTitle(ctx *canvas.Context, title layout.TitleBox) {
	family := r.fontFamily()
	if family == nil || title.Content == "" {
		return
	}
	face := family.Face(title.FontSize*layout.MmToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	text := canvas.NewTextLine(face, title.Content, canvas.Center)
	ctx.DrawText(title.X+title.Width/2, title.Y+face.Metrics().Ascent, text)
}

func (r *Renderer) fontFamily() *canvas.FontFamily {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil || len(r.fontBytes) == 0 {
		return r.family
	}
	family := canvas.NewFontFamily("vexmusicxml-title")
	if err := family.LoadFont(r.fontBytes, 0, canvas.FontRegular); err != nil {
		r.fontBytes = nil
		return nil
	}
	r.family = family
	return family
}

func (r *Renderer) stroke(ctx *canvas.Context, x, y float64, p *canvas.Path, width float64) {
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(width)
	ctx.DrawPath(x, y, p)
}

func (r *Renderer) fill(ctx *canvas.Context, x, y float64, p *canvas.Path) {
	ctx.SetFillColor(canvas.Black)
	ctx.SetStrokeColor(transparent)
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(x, y, p)
}

// drawStaffLines 绘制整行的五线以及行首连接线。
func (r *Renderer) drawStaffLines(ctx *canvas.Context, line layout.Line) {
	s := r.space
	for _, row := range line.Rows {
		for i := 0; i < 5; i++ {
			y := row.Y + float64(i)*s
			r.stroke(ctx, line.X, y, segment(0, 0, line.Width, 0), lineWidth)
		}
	}
	if len(line.Rows) > 1 {
		top := line.Rows[0].Y
		bottom := line.Rows[len(line.Rows)-1].Y + 4*s
		r.stroke(ctx, line.X, top, segment(0, 0, 0, bottom-top), lineWidth)
	}
}

func (r *Renderer) drawMeasure(ctx *canvas.Context, line layout.Line, box layout.MeasureBox) error {
	m := box.Measure
	if m == nil {
		return nil
	}
	clefs := map[layout.StaveRow]string{}
	for _, st := range m.Staves {
		row, ok := line.Row(st.PartID, st.Number)
		if !ok {
			continue
		}
		clefs[layout.StaveRow{PartID: st.PartID, Number: st.Number}] = clefOf(st)
		r.drawModifiers(ctx, box, st, row.Y)
		r.drawBarline(ctx, box.X+box.Width, row.Y, st.EndBarline, true)
		if st.BeginBarline != "" && st.BeginBarline != "single" {
			r.drawBarline(ctx, box.X, row.Y, st.BeginBarline, false)
		}
	}

	xs, err := r.placement(box)
	if err != nil {
		return err
	}
	for _, v := range m.Voices {
		starts, durs, err := noteStarts(v)
		if err != nil {
			return err
		}
		for i, n := range v.Notes {
			row, ok := line.Row(v.PartID, n.Staff)
			if !ok {
				continue
			}
			clef := n.Clef
			if clef == "" {
				clef = clefs[layout.StaveRow{PartID: v.PartID, Number: n.Staff}]
			}
			if err := r.drawNote(ctx, xs[beatKey(starts[i])], row.Y, n, durs[i], clef); err != nil {
				return err
			}
		}
	}
	return nil
}

func clefOf(st notation.Stave) string {
	if st.Modifiers.Clef != nil {
		return st.Modifiers.Clef.Name
	}
	return "treble"
}

// drawModifiers 绘制谱首符号：行首重复谱号与调号，拍号仅在开头与变化处出现。
func (r *Renderer) drawModifiers(ctx *canvas.Context, box layout.MeasureBox, st notation.Stave, top float64) {
	s := r.space
	mods := st.Changes
	if box.FirstInLine {
		mods.Clef = st.Modifiers.Clef
		mods.Key = st.Modifiers.Key
	}
	if box.ShowTime {
		mods.Time = st.Modifiers.Time
	} else {
		mods.Time = nil
	}
	clef := clefOf(st)
	x := box.X + modifierPadding*s/2
	if mods.Clef != nil {
		r.stroke(ctx, x, top, clefPath(mods.Clef.Name, s), lineWidth*2)
		x += (clefWidth + modifierPadding) * s
	}
	if mods.Key != nil && mods.Key.Fifths != 0 {
		glyph := "#"
		if mods.Key.Fifths < 0 {
			glyph = "b"
		}
		for _, pos := range keyPositions(mods.Key.Fifths, clef) {
			x += keyAccWidth * s
			r.stroke(ctx, x, top+yOf(pos, s), accidentalPath(glyph, s), lineWidth)
		}
		x += modifierPadding * s
	}
	if mods.Time != nil {
		r.drawTime(ctx, x, top, mods.Time)
	}
}

func (r *Renderer) drawTime(ctx *canvas.Context, x, top float64, t *notation.TimeSignature) {
	s := r.space
	if t.Symbol {
		r.stroke(ctx, x, top, commonTimePath(t.Spec == "C|", s), lineWidth*2)
		return
	}
	for i, d := range t.Beats {
		r.stroke(ctx, x+float64(i)*timeDigitWidth*s, top, digitPath(d, s), lineWidth*2)
	}
	for i, d := range fmt.Sprint(t.BeatType) {
		r.stroke(ctx, x+float64(i)*timeDigitWidth*s, top+2*s, digitPath(d, s), lineWidth*2)
	}
}

func (r *Renderer) drawBarline(ctx *canvas.Context, x, top float64, style string, end bool) {
	s := r.space
	h := 4 * s
	switch style {
	case "none":
	case "double":
		r.stroke(ctx, x, top, segment(0, 0, 0, h), lineWidth)
		r.stroke(ctx, x-0.5*s, top, segment(0, 0, 0, h), lineWidth)
	case "end":
		r.fill(ctx, x-heavyFactor*lineWidth, top, rect(0, 0, heavyFactor*lineWidth, h))
		r.stroke(ctx, x-0.7*s, top, segment(0, 0, 0, h), lineWidth)
	case "begin":
		r.fill(ctx, x, top, rect(0, 0, heavyFactor*lineWidth, h))
		r.stroke(ctx, x+0.7*s, top, segment(0, 0, 0, h), lineWidth)
	default:
		if end {
			r.stroke(ctx, x, top, segment(0, 0, 0, h), lineWidth)
		}
	}
}

func (r *Renderer) drawNote(ctx *canvas.Context, x, top float64, n notation.Note, d *keyspec.Duration, clef string) error {
	s := r.space
	positions := make([]int, len(n.Keys))
	for i, key := range n.Keys {
		pos, err := position(key, clef)
		if err != nil {
			return err
		}
		positions[i] = pos
	}
	if len(positions) == 0 {
		return nil
	}
	hx := x
	for _, acc := range n.Accidentals {
		if acc != "" {
			hx += accidentalWidth * s
			break
		}
	}
	hx += headWidth * s / 2

	if n.Rest {
		y := top + yOf(positions[0], s)
		switch d.Value {
		case "w", "h":
			r.fill(ctx, hx, y, restPath(d.Value, s))
		case "q":
			r.stroke(ctx, hx, y, restPath(d.Value, s), lineWidth*3)
		default:
			r.stroke(ctx, hx, y, restPath(d.Value, s), lineWidth*1.5)
		}
		r.drawDots(ctx, hx, top, positions[0], n.Dots)
		return nil
	}

	lowest, highest := positions[0], positions[0]
	for i, pos := range positions {
		lowest = min(lowest, pos)
		highest = max(highest, pos)
		y := top + yOf(pos, s)
		for _, lp := range ledgerPositions(pos) {
			r.stroke(ctx, hx, top+yOf(lp, s), segment(-0.9*s, 0, 0.9*s, 0), lineWidth)
		}
		if d.Filled() {
			r.fill(ctx, hx, y, noteHead(s))
		} else {
			r.stroke(ctx, hx, y, noteHead(s), lineWidth*1.5)
		}
		if i < len(n.Accidentals) && n.Accidentals[i] != "" {
			r.stroke(ctx, hx-headWidth*s/2-0.15*s, y, accidentalPath(n.Accidentals[i], s), lineWidth)
		}
		r.drawDots(ctx, hx, top, pos, n.Dots)
	}

	if !d.HasStem() {
		return nil
	}
	// 音符整体位于中线（谱位 4）以下时符干朝上
	up := float64(lowest+highest)/2 < 4
	var stemX, y1, y2 float64
	if up {
		stemX = hx + headWidth*s/2
		y1 = top + yOf(lowest, s)
		y2 = top + yOf(highest, s) - stemLength*s
	} else {
		stemX = hx - headWidth*s/2
		y1 = top + yOf(highest, s)
		y2 = top + yOf(lowest, s) + stemLength*s
	}
	r.stroke(ctx, stemX, 0, segment(0, y1, 0, y2), lineWidth)
	dir := 1.0
	if !up {
		dir = -1
	}
	for i := 0; i < d.Flags(); i++ {
		fy := y2 + dir*float64(i)*0.8*s
		r.stroke(ctx, stemX, 0, segment(0, fy, 0.9*s, fy+dir*1.2*s), lineWidth*2)
	}
	return nil
}

func (r *Renderer) drawDots(ctx *canvas.Context, hx, top float64, pos, dots int) {
	s := r.space
	y := top + yOf(pos, s)
	if pos%2 == 0 {
		// 线上的音符把附点放到上方的间里
		y -= s / 2
	}
	for i := 0; i < dots; i++ {
		x := hx + headWidth*s/2 + (0.4+float64(i)*dotWidth)*s
		r.fill(ctx, x, y, ellipse(0.18*s, 0.18*s))
	}
}

// placement 返回小节内各时间列（按起始拍索引）的页面横坐标。
// 列间距按小节最终内容宽度等比缩放，与分行后的拉伸保持一致。
func (r *Renderer) placement(box layout.MeasureBox) (map[int64]float64, error) {
	cols, natural, err := timeline(box.Measure.Voices)
	if err != nil {
		return nil, err
	}
	scale := r.space
	if natural > 0 && box.ContentWidth > 0 {
		scale = box.ContentWidth / natural
	}
	start := box.X + box.ModifiersWidth()
	out := columnOffsets(cols, scale)
	for k := range out {
		out[k] += start
	}
	return out, nil
}
