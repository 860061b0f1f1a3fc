package layout

import (
    "math"
    "testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
    samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
    for _, pt := range samples {
        back := Length{Value: pt, Unit: UnitPT}.ToMM() * MmToPt
        if diff := math.Abs(back-pt); diff > 1e-9 {
            t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
        }
    }
    for _, mm := range samples {
        back := Length{Value: mm, Unit: UnitMM}.ToPT() * PtToMm
        if diff := math.Abs(back-mm); diff > 1e-9 {
            t.Fatalf("mm→pt→mm 往返误差过大: in=%gmm back=%g diff=%g", mm, back, diff)
        }
    }
}

// TestParseLength 覆盖带单位与不带单位的长度解析。
func TestParseLength(t *testing.T) {
    cases := []struct {
        in   string
        want float64
    }{
        {"15mm", 15},
        {"1.5cm", 15},
        {"1in", 25.4},
        {" 12pt ", 12 * PtToMm},
        {"20", 20},
    }
    for _, tc := range cases {
        l, err := ParseLength(tc.in)
        if err != nil {
            t.Fatalf("解析 %q 失败: %v", tc.in, err)
        }
        if got := l.ToMM(); math.Abs(got-tc.want) > 1e-9 {
            t.Fatalf("%q 转 mm: got=%g want=%g", tc.in, got, tc.want)
        }
    }
    for _, bad := range []string{"", "abc", "-3mm", "mm"} {
        if _, err := ParseLength(bad); err == nil {
            t.Fatalf("期望 %q 解析失败", bad)
        }
    }
}

// TestParsePageSize 验证预设、横向与自定义尺寸。
func TestParsePageSize(t *testing.T) {
    cases := []struct {
        in   string
        w, h float64
    }{
        {"A4", 210, 297},
        {"a5", 148, 210},
        {"A4 landscape", 297, 210},
        {"Letter", 215.9, 279.4},
        {"200x300", 200, 300},
        {"8.5inx11in", 215.9, 279.4},
    }
    for _, tc := range cases {
        w, h, err := ParsePageSize(tc.in)
        if err != nil {
            t.Fatalf("解析纸张 %q 失败: %v", tc.in, err)
        }
        if math.Abs(w-tc.w) > 1e-9 || math.Abs(h-tc.h) > 1e-9 {
            t.Fatalf("纸张 %q: got=%gx%g want=%gx%g", tc.in, w, h, tc.w, tc.h)
        }
    }
    for _, bad := range []string{"", "B7", "A4 sideways", "0x100"} {
        if _, _, err := ParsePageSize(bad); err == nil {
            t.Fatalf("期望纸张 %q 解析失败", bad)
        }
    }
}

// TestParseMargin 验证 1~4 个值的边距语义。
func TestParseMargin(t *testing.T) {
    cases := []struct {
        in   string
        want Margin
    }{
        {"15mm", Margin{15, 15, 15, 15}},
        {"10 20", Margin{10, 20, 10, 20}},
        {"10 20 30", Margin{10, 20, 30, 20}},
        {"1cm 2cm 3cm 4cm", Margin{10, 20, 30, 40}},
    }
    for _, tc := range cases {
        got, err := ParseMargin(tc.in)
        if err != nil {
            t.Fatalf("解析边距 %q 失败: %v", tc.in, err)
        }
        if got != tc.want {
            t.Fatalf("边距 %q: got=%+v want=%+v", tc.in, got, tc.want)
        }
    }
    if _, err := ParseMargin("1 2 3 4 5"); err == nil {
        t.Fatalf("期望 5 个值的边距解析失败")
    }
}
