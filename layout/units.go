package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths and the paper/margin helpers used by the CLI.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as millimeters
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength parses strings like "15mm", "1.5cm", "1in", "12pt" or "20".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数：%q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// ParsePageSize 解析纸张尺寸，支持预设名称（A4、Letter 等）与 "WxH" 形式，
// 追加 "landscape" 时交换宽高。返回值单位为毫米。
func ParsePageSize(spec string) (float64, float64, error) {
	fields := strings.Fields(strings.ReplaceAll(spec, ",", " "))
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("纸张尺寸为空")
	}
	landscape := false
	if len(fields) > 1 {
		switch strings.ToLower(fields[len(fields)-1]) {
		case "landscape":
			landscape = true
		case "portrait":
		default:
			return 0, 0, fmt.Errorf("暂不支持的纸张方向：%s", fields[len(fields)-1])
		}
		fields = fields[:len(fields)-1]
	}
	if len(fields) != 1 {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec)
	}

	var width, height float64
	if base, ok := pagePresets[strings.ToUpper(fields[0])]; ok {
		width, height = base[0], base[1]
	} else {
		w, h, ok := strings.Cut(strings.ToLower(fields[0]), "x")
		if !ok {
			return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec)
		}
		wl, err := ParseLength(w)
		if err != nil {
			return 0, 0, err
		}
		hl, err := ParseLength(h)
		if err != nil {
			return 0, 0, err
		}
		width, height = wl.ToMM(), hl.ToMM()
		if width <= 0 || height <= 0 {
			return 0, 0, fmt.Errorf("纸张尺寸必须为正数：%s", spec)
		}
	}
	if landscape {
		width, height = height, width
	}
	return width, height, nil
}

// ParseMargin 按 CSS 语义解析 1~4 个边距值：
// 1 个值作用于四边；2 个值为上下/左右；3 个值为上/左右/下；4 个值为上/右/下/左。
func ParseMargin(spec string) (Margin, error) {
	fields := strings.Fields(strings.ReplaceAll(spec, ",", " "))
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("边距需要 1~4 个值：%q", spec)
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		l, err := ParseLength(f)
		if err != nil {
			return Margin{}, err
		}
		vals[i] = l.ToMM()
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
}
