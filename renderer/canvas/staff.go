package canvasrenderer

import (
	"github.com/epotocko/vexmusicxml/keyspec"
)

// bottomLine 为各谱号下加第一线（最底线）对应的音高，按 C0 起算的自然音级。
var bottomLine = map[string]int{
	"treble":     4*7 + 2, // e/4
	"bass":       2*7 + 4, // g/2
	"alto":       3*7 + 3, // f/3
	"tenor":      3*7 + 1, // d/3
	"percussion": 4*7 + 2,
}

// 高音谱号下调号的谱位（自然音级），其它谱号按八度平移。
var (
	sharpOrder = []string{"f/5", "c/5", "g/5", "d/5", "a/4", "e/5", "b/4"}
	flatOrder  = []string{"b/4", "e/5", "a/4", "d/5", "g/4", "c/5", "f/4"}
)

func clefShift(clef string) int {
	switch clef {
	case "bass":
		return -14
	case "alto", "tenor":
		return -7
	default:
		return 0
	}
}

// position 返回 key 相对最底线的自然音级差，0 为底线、8 为顶线。
func position(key, clef string) (int, error) {
	k, err := keyspec.ParseKey(key)
	if err != nil {
		return 0, err
	}
	base, ok := bottomLine[clef]
	if !ok {
		base = bottomLine["treble"]
	}
	return k.Diatonic() - base, nil
}

// keyPositions 返回调号各个变音记号的谱位。
func keyPositions(fifths int, clef string) []int {
	order := sharpOrder
	n := fifths
	if fifths < 0 {
		order = flatOrder
		n = -fifths
	}
	if n > len(order) {
		n = len(order)
	}
	base, ok := bottomLine[clef]
	if !ok {
		base = bottomLine["treble"]
	}
	out := make([]int, 0, n)
	for _, key := range order[:n] {
		k, err := keyspec.ParseKey(key)
		if err != nil {
			continue
		}
		out = append(out, k.Diatonic()+clefShift(clef)-base)
	}
	return out
}

// yOf 将谱位换算为相对谱表顶线的纵坐标（mm，向下为正）。
func yOf(pos int, s float64) float64 {
	return 4*s - float64(pos)*s/2
}

// ledgerPositions 返回谱位超出五线时需要补的加线谱位。
func ledgerPositions(pos int) []int {
	var out []int
	for p := -2; p >= pos; p -= 2 {
		out = append(out, p)
	}
	for p := 10; p <= pos; p += 2 {
		out = append(out, p)
	}
	return out
}
