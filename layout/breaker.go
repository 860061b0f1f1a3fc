package layout

// widthTolerance 吸收重复分行时的浮点误差，保证对已分好的行再次分行结果不变。
const widthTolerance = 1e-6

// BreakLines 按给定行宽对小节做贪心分行。
//
// 每个小节以“最小谱首宽度 + 内容宽度”参与累加，行首小节改用最大谱首宽度。
// 当加入下一个小节会超出行宽时，当前行按各小节宽度占比拉伸（或压缩）到恰好等于行宽，
// 并据此重新计算内容宽度。最后一行保持自然宽度。空行不会被提前结束，
// 因此单个超宽小节独占一行。返回的小节 X 为相对行首的偏移。
func BreakLines(width float64, boxes []MeasureBox) [][]MeasureBox {
	var lines [][]MeasureBox
	var line []MeasureBox
	current := 0.0
	for _, b := range boxes {
		normal := b.MinModifiersWidth + b.ContentWidth
		if len(line) > 0 && current+normal > width+widthTolerance {
			justify(line, width, current)
			lines = append(lines, line)
			line = nil
			current = 0
		}
		b.FirstInLine = len(line) == 0
		b.Width = b.ModifiersWidth() + b.ContentWidth
		b.X = current
		line = append(line, b)
		current += b.Width
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// justify 将一行小节按原宽度比例重新分配到 width。
func justify(line []MeasureBox, width, current float64) {
	if current <= 0 {
		return
	}
	shortfall := width - current
	x := 0.0
	for i := range line {
		b := &line[i]
		b.Width += b.Width / current * shortfall
		b.ContentWidth = b.Width - b.ModifiersWidth()
		b.X = x
		x += b.Width
	}
}

// LineWidth 返回一行小节的总宽度。
func LineWidth(line []MeasureBox) float64 {
	total := 0.0
	for _, b := range line {
		total += b.Width
	}
	return total
}
