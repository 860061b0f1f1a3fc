package layout

import "github.com/epotocko/vexmusicxml/notation"

// 该文件定义排版结果，供布局计算、渲染与调试 JSON 共用。所有长度单位均为毫米。

// Result 保存分行、分页后的乐谱。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// DocumentMeta 保存 PDF 元信息与标题。
type DocumentMeta struct {
	Title   string `json:"title"`
	Creator string `json:"creator"`
}

// Page 记录页面尺寸、边距以及落在该页的谱行。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	// Title 仅出现在第一页。
	Title *TitleBox `json:"title,omitempty"`
	Lines []Line    `json:"lines"`
}

// TitleBox 是第一页顶部的标题区域。
type TitleBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Line 是一行谱（system），包含若干小节与各谱表所在的纵向位置。
type Line struct {
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Rows     []StaveRow   `json:"rows"`
	Measures []MeasureBox `json:"measures"`
}

// Row 返回指定声部、谱表所在的行。
func (l Line) Row(partID string, number int) (StaveRow, bool) {
	for _, r := range l.Rows {
		if r.PartID == partID && r.Number == number {
			return r, true
		}
	}
	return StaveRow{}, false
}

// StaveRow 记录某一谱表在页面上的顶部坐标。
type StaveRow struct {
	PartID string  `json:"partId"`
	Number int     `json:"number"`
	Y      float64 `json:"y"`
}

// MeasureBox 是参与分行的小节。Width 为分行后的最终宽度。
type MeasureBox struct {
	Index             int     `json:"index"`
	Number            string  `json:"number"`
	X                 float64 `json:"x"`
	Width             float64 `json:"width"`
	ContentWidth      float64 `json:"contentWidth"`
	MinModifiersWidth float64 `json:"minModifiersWidth"`
	MaxModifiersWidth float64 `json:"maxModifiersWidth"`
	// FirstInLine 表示该小节位于行首，需要重新绘制谱号与调号。
	FirstInLine bool `json:"firstInLine"`
	// ShowTime 表示需要绘制拍号（乐谱开头或拍号变化处）。
	ShowTime bool              `json:"showTime"`
	Measure  *notation.Measure `json:"measure,omitempty"`
}

// ModifiersWidth 返回小节在当前位置所需的谱首符号宽度。
func (b MeasureBox) ModifiersWidth() float64 {
	if b.FirstInLine {
		return b.MaxModifiersWidth
	}
	return b.MinModifiersWidth
}

// NewMeasureBox 由翻译后的小节构造分行输入。
func NewMeasureBox(m *notation.Measure) MeasureBox {
	return MeasureBox{
		Index:             m.Index,
		Number:            m.Number,
		ContentWidth:      m.ContentWidth,
		MinModifiersWidth: m.MinModifiersWidth,
		MaxModifiersWidth: m.MaxModifiersWidth,
		Measure:           m,
	}
}
