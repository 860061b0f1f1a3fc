package canvasrenderer

import (
	"fmt"
	"math"
	"sort"

	"github.com/epotocko/vexmusicxml/keyspec"
	"github.com/epotocko/vexmusicxml/notation"
)

// 以下宽度均以谱线间距（staff space）为单位，使用时乘以 Renderer.space 得到毫米。
const (
	clefWidth       = 3.0
	keyAccWidth     = 1.0
	timeDigitWidth  = 1.6
	timeSymbolWidth = 2.2
	modifierPadding = 0.8

	headWidth       = 1.3
	accidentalWidth = 1.2
	dotWidth        = 0.7
	leadingPadding  = 1.0
	emptyMeasure    = 4.0
)

// column 是同一时刻开始的所有音符组成的时间列。
type column struct {
	start  float64
	offset float64
	width  float64
}

// ModifiersWidth 实现 notation.Backend：按谱号、调号、拍号依次累加宽度。
func (r *Renderer) ModifiersWidth(mods notation.Modifiers) (float64, error) {
	total := 0.0
	if mods.Clef != nil {
		total += clefWidth + modifierPadding
	}
	if mods.Key != nil && mods.Key.Fifths != 0 {
		total += keyWidth(mods.Key) + modifierPadding
	}
	if mods.Time != nil {
		total += timeWidth(mods.Time) + modifierPadding
	}
	return total * r.space, nil
}

// VoicesWidth 实现 notation.Backend：把所有声部对齐到公共时间列后求总宽度。
func (r *Renderer) VoicesWidth(voices []notation.Voice) (float64, error) {
	_, total, err := timeline(voices)
	if err != nil {
		return 0, err
	}
	return total * r.space, nil
}

func keyWidth(k *notation.KeySignature) float64 {
	n := k.Fifths
	if n < 0 {
		n = -n
	}
	return float64(n) * keyAccWidth
}

func timeWidth(t *notation.TimeSignature) float64 {
	if t.Symbol {
		return timeSymbolWidth
	}
	digits := len(t.Beats)
	if d := len(fmt.Sprint(t.BeatType)); d > digits {
		digits = d
	}
	return float64(digits) * timeDigitWidth
}

func noteWidth(n notation.Note) float64 {
	w := headWidth
	for _, acc := range n.Accidentals {
		if acc != "" {
			w += accidentalWidth
			break
		}
	}
	return w + float64(n.Dots)*dotWidth
}

// durationSpace 返回音符之后的留白，随时值增长但增幅递减。
func durationSpace(beats float64) float64 {
	return 1.2 + 1.8*math.Sqrt(beats)
}

func beatKey(b float64) int64 { return int64(math.Round(b * 1e6)) }

// noteStarts 返回声部中每个音符的起始拍与时值。Chord 音符与前一音符同拍开始，
// 同一时刻的一组音符按其中最长的时值推进。
func noteStarts(v notation.Voice) ([]float64, []*keyspec.Duration, error) {
	starts := make([]float64, len(v.Notes))
	durs := make([]*keyspec.Duration, len(v.Notes))
	at, longest := 0.0, 0.0
	for i, n := range v.Notes {
		d, err := keyspec.ParseDuration(n.Duration)
		if err != nil {
			return nil, nil, fmt.Errorf("canvas: voice %d of part %s: %w", v.Number, v.PartID, err)
		}
		if i == 0 || !n.Chord {
			at += longest
			longest = 0
		}
		starts[i] = at
		durs[i] = d
		longest = math.Max(longest, d.Beats())
	}
	return starts, durs, nil
}

// timeline 将各声部的音符按起始拍归并为时间列，返回各列的偏移与总宽度（谱线间距单位）。
func timeline(voices []notation.Voice) ([]column, float64, error) {
	cols := map[int64]*column{}
	for _, v := range voices {
		starts, durs, err := noteStarts(v)
		if err != nil {
			return nil, 0, err
		}
		for i, n := range v.Notes {
			k := beatKey(starts[i])
			c, ok := cols[k]
			if !ok {
				c = &column{start: starts[i]}
				cols[k] = c
			}
			c.width = math.Max(c.width, noteWidth(n)+durationSpace(durs[i].Beats()))
		}
	}
	if len(cols) == 0 {
		return nil, emptyMeasure, nil
	}
	out := make([]column, 0, len(cols))
	for _, c := range cols {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	x := leadingPadding
	for i := range out {
		out[i].offset = x
		x += out[i].width
	}
	return out, x, nil
}

// columnOffsets 返回起始拍到列偏移的映射，偏移按 scale 缩放。
func columnOffsets(cols []column, scale float64) map[int64]float64 {
	out := make(map[int64]float64, len(cols))
	for _, c := range cols {
		out[beatKey(c.start)] = c.offset * scale
	}
	return out
}
