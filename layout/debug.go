package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// LineSummary 概括一行谱的分行结果，便于快速核对断行位置。
type LineSummary struct {
	Page     int      `json:"page"`
	Line     int      `json:"line"`
	Measures []string `json:"measures"`
	Width    float64  `json:"width"`
}

// Summarize 按页、行列出各行包含的小节编号。
func Summarize(res *Result) []LineSummary {
	if res == nil {
		return nil
	}
	var out []LineSummary
	for p, page := range res.Pages {
		for l, line := range page.Lines {
			s := LineSummary{Page: p + 1, Line: l + 1, Width: line.Width}
			for _, m := range line.Measures {
				s.Measures = append(s.Measures, m.Number)
			}
			out = append(out, s)
		}
	}
	return out
}

type debugDump struct {
	Lines  []LineSummary `json:"lines"`
	Result *Result       `json:"result"`
}

// WriteDebugJSON 将分行摘要与完整排版结果一并输出为 JSON。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugDump{Lines: Summarize(res), Result: res}, "", "  ")
	if err != nil {
		return fmt.Errorf("layout: 序列化调试 JSON 失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
