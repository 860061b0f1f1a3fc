package canvasrenderer

import (
	"github.com/tdewolff/canvas"
)

// 所有字形都以路径绘制，不依赖音乐字体。坐标原点为锚点，y 轴向下，s 为谱线间距（mm）。

const kappa = 0.5522847498

// ellipse 返回以原点为中心的椭圆。
func ellipse(rx, ry float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(rx, 0)
	p.CubeTo(rx, ry*kappa, rx*kappa, ry, 0, ry)
	p.CubeTo(-rx*kappa, ry, -rx, ry*kappa, -rx, 0)
	p.CubeTo(-rx, -ry*kappa, -rx*kappa, -ry, 0, -ry)
	p.CubeTo(rx*kappa, -ry, rx, -ry*kappa, rx, 0)
	p.Close()
	return p
}

func segment(x1, y1, x2, y2 float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	return p
}

func rect(x, y, w, h float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// noteHead 以音头中心为原点。
func noteHead(s float64) *canvas.Path {
	return ellipse(headWidth*s/2, 0.5*s)
}

// accidentalPath 返回以音头所在高度为基准的变音记号，右边缘位于原点。
func accidentalPath(name string, s float64) *canvas.Path {
	p := &canvas.Path{}
	switch name {
	case "#":
		p = p.Append(segment(-0.8*s, -1.1*s, -0.8*s, 1.3*s))
		p = p.Append(segment(-0.4*s, -1.3*s, -0.4*s, 1.1*s))
		p = p.Append(segment(-1.0*s, -0.2*s, -0.2*s, -0.5*s))
		p = p.Append(segment(-1.0*s, 0.5*s, -0.2*s, 0.2*s))
	case "##":
		p = p.Append(segment(-0.9*s, -0.4*s, -0.2*s, 0.4*s))
		p = p.Append(segment(-0.9*s, 0.4*s, -0.2*s, -0.4*s))
	case "b":
		p = p.Append(flat(-0.3*s, s))
	case "bb":
		p = p.Append(flat(-0.9*s, s))
		p = p.Append(flat(-0.3*s, s))
	case "n":
		p = p.Append(segment(-0.8*s, -1.2*s, -0.8*s, 0.5*s))
		p = p.Append(segment(-0.3*s, -0.5*s, -0.3*s, 1.2*s))
		p = p.Append(segment(-0.8*s, -0.3*s, -0.3*s, -0.5*s))
		p = p.Append(segment(-0.8*s, 0.5*s, -0.3*s, 0.3*s))
	}
	return p
}

func flat(right, s float64) *canvas.Path {
	left := right - 0.6*s
	p := segment(left, -1.6*s, left, 0.5*s)
	bowl := &canvas.Path{}
	bowl.MoveTo(left, 0)
	bowl.CubeTo(left+0.5*s, -0.5*s, right+0.1*s, -0.2*s, left, 0.5*s)
	return p.Append(bowl)
}

// restPath 返回休止符，原点位于休止符对应的谱位。
func restPath(duration string, s float64) *canvas.Path {
	switch duration {
	case "w":
		return rect(-0.6*s, 0, 1.2*s, 0.5*s)
	case "h":
		return rect(-0.6*s, -0.5*s, 1.2*s, 0.5*s)
	case "q":
		p := &canvas.Path{}
		p.MoveTo(-0.3*s, -1.5*s)
		p.LineTo(0.3*s, -0.7*s)
		p.LineTo(-0.3*s, 0)
		p.LineTo(0.3*s, 0.7*s)
		p.LineTo(-0.2*s, 0.6*s)
		p.LineTo(0.1*s, 1.4*s)
		return p
	default:
		// 八分及更短：斜杆加对应数量的小钩
		flags := 1
		switch duration {
		case "16":
			flags = 2
		case "32":
			flags = 3
		case "64":
			flags = 4
		}
		p := segment(0.5*s, -1.0*s, -0.2*s, float64(flags)*s)
		for i := 0; i < flags; i++ {
			y := -1.0*s + float64(i)*s
			p = p.Append(segment(0.5*s-0.15*s*float64(i), y, -0.4*s-0.15*s*float64(i), y+0.2*s))
		}
		return p
	}
}

// clefPath 返回谱号轮廓，原点位于五线谱左上角，宽度约为 clefWidth 个间距。
func clefPath(name string, s float64) *canvas.Path {
	cx := clefWidth * s / 2
	switch name {
	case "treble":
		// 竖线贯穿并绕 G 线（第二线）画圈
		p := segment(cx, -1.5*s, cx-0.3*s, 5.2*s)
		loop := ellipse(0.9*s, 0.8*s)
		return p.Append(loop.Translate(cx, 3*s)).Append(segment(cx, -1.5*s, cx+0.6*s, -0.6*s))
	case "bass":
		// 绕 F 线（第四线）的弧线加两个点
		p := &canvas.Path{}
		p.MoveTo(cx-0.9*s, 1*s)
		p.CubeTo(cx-0.9*s, -0.2*s, cx+1.0*s, -0.2*s, cx+0.8*s, 1.2*s)
		p.CubeTo(cx+0.6*s, 2.6*s, cx-0.4*s, 3.4*s, cx-1.0*s, 3.8*s)
		p = p.Append(ellipse(0.15*s, 0.15*s).Translate(cx+1.3*s, 0.5*s))
		return p.Append(ellipse(0.15*s, 0.15*s).Translate(cx+1.3*s, 1.5*s))
	case "alto", "tenor":
		// 两条竖线加两段弧，中心对齐 C 线
		centre := 2 * s
		if name == "tenor" {
			centre = s
		}
		p := segment(cx-1.0*s, centre-2*s, cx-1.0*s, centre+2*s)
		p = p.Append(segment(cx-0.6*s, centre-2*s, cx-0.6*s, centre+2*s))
		upper := &canvas.Path{}
		upper.MoveTo(cx-0.6*s, centre)
		upper.CubeTo(cx+0.4*s, centre-0.4*s, cx+1.2*s, centre-1.0*s, cx+0.2*s, centre-2*s)
		lower := &canvas.Path{}
		lower.MoveTo(cx-0.6*s, centre)
		lower.CubeTo(cx+0.4*s, centre+0.4*s, cx+1.2*s, centre+1.0*s, cx+0.2*s, centre+2*s)
		return p.Append(upper).Append(lower)
	default:
		// 打击乐谱号：两条粗竖线
		p := rect(cx-0.6*s, s, 0.35*s, 2*s)
		return p.Append(rect(cx+0.25*s, s, 0.35*s, 2*s))
	}
}

// digitSegments 以七段方式描述数字：a 顶、b 右上、c 右下、d 底、e 左下、f 左上、g 中。
var digitSegments = map[rune]string{
	'0': "abcdef",
	'1': "bc",
	'2': "abged",
	'3': "abgcd",
	'4': "fgbc",
	'5': "afgcd",
	'6': "afgedc",
	'7': "abc",
	'8': "abcdefg",
	'9': "abcdfg",
}

// digitPath 绘制高 2 个间距的数字，原点为左上角。
func digitPath(d rune, s float64) *canvas.Path {
	w, h := (timeDigitWidth-0.4)*s, 2*s
	p := &canvas.Path{}
	for _, seg := range digitSegments[d] {
		switch seg {
		case 'a':
			p = p.Append(segment(0, 0, w, 0))
		case 'b':
			p = p.Append(segment(w, 0, w, h/2))
		case 'c':
			p = p.Append(segment(w, h/2, w, h))
		case 'd':
			p = p.Append(segment(0, h, w, h))
		case 'e':
			p = p.Append(segment(0, h/2, 0, h))
		case 'f':
			p = p.Append(segment(0, 0, 0, h/2))
		case 'g':
			p = p.Append(segment(0, h/2, w, h/2))
		}
	}
	return p
}

// commonTimePath 绘制 C（common time），cut 为 true 时加一条竖线。
func commonTimePath(cut bool, s float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(1.7*s, 1.2*s)
	p.CubeTo(1.4*s, 0.6*s, 0.2*s, 0.6*s, 0.2*s, 2*s)
	p.CubeTo(0.2*s, 3.4*s, 1.4*s, 3.4*s, 1.7*s, 2.8*s)
	if cut {
		p = p.Append(segment(1.0*s, 0.2*s, 1.0*s, 3.8*s))
	}
	return p
}
