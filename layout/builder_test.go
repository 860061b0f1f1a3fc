package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/epotocko/vexmusicxml/notation"
)

func grandStaffMeasure(index int, content float64) *notation.Measure {
	return &notation.Measure{
		Index:             index,
		Number:            string(rune('1' + index)),
		ContentWidth:      content,
		MinModifiersWidth: 0,
		MaxModifiersWidth: 12,
		Staves: []notation.Stave{
			{PartID: "P1", Number: 1},
			{PartID: "P1", Number: 2},
		},
	}
}

func measures(n int, content float64) []*notation.Measure {
	out := make([]*notation.Measure, n)
	for i := range out {
		out[i] = grandStaffMeasure(i, content)
	}
	return out
}

// TestBuildLinesAndRows 验证行宽、行首坐标以及谱表纵向位置。
func TestBuildLinesAndRows(t *testing.T) {
	opts := DefaultBuildOptions()
	res, err := Build(measures(6, 50), opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("期望 1 页，实际 %d", len(res.Pages))
	}
	lines := res.Pages[0].Lines
	if len(lines) < 2 {
		t.Fatalf("期望至少 2 行，实际 %d", len(lines))
	}
	lineWidth := opts.PageWidth - opts.Margin.Left - opts.Margin.Right
	if math.Abs(lines[0].Width-lineWidth) > 1e-9 {
		t.Fatalf("首行宽度 got=%g want=%g", lines[0].Width, lineWidth)
	}
	first := lines[0]
	if first.Measures[0].X != opts.Margin.Left {
		t.Fatalf("行首小节 X got=%g want=%g", first.Measures[0].X, opts.Margin.Left)
	}
	if len(first.Rows) != 2 {
		t.Fatalf("期望 2 个谱表，实际 %d", len(first.Rows))
	}
	lower, ok := first.Row("P1", 2)
	if !ok {
		t.Fatalf("缺少 P1 第 2 谱表")
	}
	if want := first.Y + defaultStaveHeight + defaultStaveSpacing; math.Abs(lower.Y-want) > 1e-9 {
		t.Fatalf("下方谱表 Y got=%g want=%g", lower.Y, want)
	}
	if want := 2*defaultStaveHeight + defaultStaveSpacing; math.Abs(first.Height-want) > 1e-9 {
		t.Fatalf("行高 got=%g want=%g", first.Height, want)
	}
	if !first.Measures[0].ShowTime || first.Measures[1].ShowTime {
		t.Fatalf("仅乐谱首个小节需要绘制拍号")
	}
}

// TestBuildPagination 验证放不下的行会换到新页，并从内容区域顶部开始。
func TestBuildPagination(t *testing.T) {
	opts := DefaultBuildOptions()
	opts.PageHeight = 100
	res, err := Build(measures(40, 60), opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("期望多页，实际 %d", len(res.Pages))
	}
	total := 0
	for i, p := range res.Pages {
		if len(p.Lines) == 0 {
			t.Fatalf("第 %d 页为空", i)
		}
		if p.Lines[0].Y != opts.Margin.Top {
			t.Fatalf("第 %d 页首行 Y got=%g want=%g", i, p.Lines[0].Y, opts.Margin.Top)
		}
		for _, l := range p.Lines {
			if l.Y+l.Height > p.Height-p.Margin.Bottom+1e-9 {
				t.Fatalf("第 %d 页的行超出下边距: y=%g h=%g", i, l.Y, l.Height)
			}
			total += len(l.Measures)
		}
	}
	if total != 40 {
		t.Fatalf("小节总数 got=%d want=40", total)
	}
}

// TestBuildTitle 验证标题插值以及第一页内容区域下移。
func TestBuildTitle(t *testing.T) {
	opts := DefaultBuildOptions()
	opts.Title = "${work.title}"
	opts.Data = map[string]any{"work": map[string]any{"title": "Minuet"}}
	res, err := Build(measures(2, 30), opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	if res.Meta.Title != "Minuet" {
		t.Fatalf("标题 got=%q want=%q", res.Meta.Title, "Minuet")
	}
	page := res.Pages[0]
	if page.Title == nil || page.Title.Content != "Minuet" {
		t.Fatalf("第一页缺少标题")
	}
	if got := page.Lines[0].Y; got <= opts.Margin.Top {
		t.Fatalf("标题下方的首行 Y 应大于上边距: %g", got)
	}
}

// TestBuildTimeChange 验证拍号变化的小节需要绘制拍号。
func TestBuildTimeChange(t *testing.T) {
	ms := measures(3, 30)
	ms[2].Staves[0].Changes.Time = &notation.TimeSignature{Spec: "3/4", Beats: "3", BeatType: 4}
	res, err := Build(ms, DefaultBuildOptions())
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	got := res.Pages[0].Lines[0].Measures
	if !got[2].ShowTime || got[1].ShowTime {
		t.Fatalf("ShowTime 标记错误: %v %v", got[1].ShowTime, got[2].ShowTime)
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	opts := DefaultBuildOptions()
	opts.Margin = Margin{Left: 150, Right: 100}
	if _, err := Build(measures(1, 10), opts); err == nil {
		t.Fatalf("期望边距超过页面宽度时报错")
	}
	if _, err := Build(measures(1, 10), BuildOptions{}); err == nil {
		t.Fatalf("期望页面尺寸为零时报错")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res, err := Build(measures(3, 30), DefaultBuildOptions())
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var decoded struct {
		Lines  []LineSummary `json:"lines"`
		Result struct {
			Pages []struct {
				Lines []struct {
					Measures []struct {
						Number string `json:"number"`
					} `json:"measures"`
				} `json:"lines"`
			} `json:"pages"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("调试 JSON 无效: %v", err)
	}
	if n := len(decoded.Result.Pages[0].Lines[0].Measures); n != 3 {
		t.Fatalf("调试 JSON 小节数 got=%d want=3", n)
	}
	if len(decoded.Lines) != 1 || len(decoded.Lines[0].Measures) != 3 || decoded.Lines[0].Measures[0] != "1" {
		t.Fatalf("分行摘要错误: %+v", decoded.Lines)
	}
}
