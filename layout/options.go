package layout

// BuildOptions 配置分行与分页。长度单位均为毫米，零值字段取默认值。
type BuildOptions struct {
	PageWidth  float64
	PageHeight float64
	Margin     Margin
	// StaveHeight 为单个五线谱（四个间距）的高度。
	StaveHeight float64
	// StaveSpacing 为同一行内相邻谱表之间的距离。
	StaveSpacing float64
	// SystemSpacing 为相邻两行谱之间的距离。
	SystemSpacing float64
	// Title 支持 ${path} 占位符，由 Data 提供取值。
	Title         string
	TitleFontSize float64
	Data          any
	Creator       string
}

const (
	defaultStaveHeight   = 8.0
	defaultStaveSpacing  = 10.0
	defaultSystemSpacing = 14.0
	defaultTitleFontSize = 18 * PtToMm
)

// DefaultBuildOptions 返回 A4 纵向、四边 15mm 的默认配置。
func DefaultBuildOptions() BuildOptions {
	w, h := pagePresets["A4"][0], pagePresets["A4"][1]
	return BuildOptions{
		PageWidth:  w,
		PageHeight: h,
		Margin:     Margin{Top: 15, Right: 15, Bottom: 15, Left: 15},
	}
}

func (o *BuildOptions) applyDefaults() {
	if o.StaveHeight <= 0 {
		o.StaveHeight = defaultStaveHeight
	}
	if o.StaveSpacing <= 0 {
		o.StaveSpacing = defaultStaveSpacing
	}
	if o.SystemSpacing <= 0 {
		o.SystemSpacing = defaultSystemSpacing
	}
	if o.TitleFontSize <= 0 {
		o.TitleFontSize = defaultTitleFontSize
	}
}
