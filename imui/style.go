package imui

// Col indexes Style.Colors.
type Col int

// Style colors.
const (
	ColText Col = iota
	ColTextDisabled
	ColWindowBg
	ColChildBg
	ColPopupBg
	ColBorder
	ColBorderShadow
	ColFrameBg
	ColFrameBgHovered
	ColFrameBgActive
	ColTitleBg
	ColTitleBgActive
	ColTitleBgCollapsed
	ColMenuBarBg
	ColScrollbarBg
	ColScrollbarGrab
	ColScrollbarGrabHovered
	ColScrollbarGrabActive
	ColCheckMark
	ColSliderGrab
	ColSliderGrabActive
	ColButton
	ColButtonHovered
	ColButtonActive
	ColHeader
	ColHeaderHovered
	ColHeaderActive
	ColSeparator
	ColResizeGrip
	ColTab
	ColTabHovered
	ColTabActive
	ColTextSelectedBg
	ColModalWindowDimBg
	ColCount
)

// Style holds sizes and colors used by widgets.
//
// Style is a plain value: copying it yields an independent style. Scaled
// returns a scaled copy, which is how DPI or resolution changes should be
// applied to a reference style so that repeated changes do not compound.
type Style struct {
	Alpha                  float32
	WindowPadding          Vec2
	WindowRounding         float32
	WindowBorderSize       float32
	WindowMinSize          Vec2
	WindowTitleAlign       Vec2
	ChildRounding          float32
	ChildBorderSize        float32
	PopupRounding          float32
	PopupBorderSize        float32
	FramePadding           Vec2
	FrameRounding          float32
	FrameBorderSize        float32
	ItemSpacing            Vec2
	ItemInnerSpacing       Vec2
	CellPadding            Vec2
	TouchExtraPadding      Vec2
	IndentSpacing          float32
	ColumnsMinSpacing      float32
	ScrollbarSize          float32
	ScrollbarRounding      float32
	GrabMinSize            float32
	GrabRounding           float32
	LogSliderDeadzone      float32
	TabRounding            float32
	TabBorderSize          float32
	TabMinWidthForClose    float32
	ButtonTextAlign        Vec2
	SelectableTextAlign    Vec2
	DisplayWindowPadding   Vec2
	DisplaySafeAreaPadding Vec2
	MouseCursorScale       float32
	AntiAliasedLines       bool
	AntiAliasedFill        bool
	CurveTessellationTol   float32
	Colors                 [ColCount]Vec4
}

// DefaultStyle returns the default sizes with the dark color scheme.
func DefaultStyle() Style {
	s := Style{
		Alpha:                  1,
		WindowPadding:          Vec2{8, 8},
		WindowRounding:         0,
		WindowBorderSize:       1,
		WindowMinSize:          Vec2{32, 32},
		WindowTitleAlign:       Vec2{0, 0.5},
		ChildRounding:          0,
		ChildBorderSize:        1,
		PopupRounding:          0,
		PopupBorderSize:        1,
		FramePadding:           Vec2{4, 3},
		FrameRounding:          0,
		FrameBorderSize:        0,
		ItemSpacing:            Vec2{8, 4},
		ItemInnerSpacing:       Vec2{4, 4},
		CellPadding:            Vec2{4, 2},
		TouchExtraPadding:      Vec2{0, 0},
		IndentSpacing:          21,
		ColumnsMinSpacing:      6,
		ScrollbarSize:          14,
		ScrollbarRounding:      9,
		GrabMinSize:            10,
		GrabRounding:           0,
		LogSliderDeadzone:      4,
		TabRounding:            4,
		TabBorderSize:          0,
		TabMinWidthForClose:    0,
		ButtonTextAlign:        Vec2{0.5, 0.5},
		SelectableTextAlign:    Vec2{0, 0},
		DisplayWindowPadding:   Vec2{19, 19},
		DisplaySafeAreaPadding: Vec2{3, 3},
		MouseCursorScale:       1,
		AntiAliasedLines:       true,
		AntiAliasedFill:        true,
		CurveTessellationTol:   1.25,
	}
	s.Colors = darkColors()
	return s
}

// StyleColorsDark returns DefaultStyle. It exists to mirror the light and
// classic variants some callers expect.
func StyleColorsDark() Style {
	return DefaultStyle()
}

func darkColors() [ColCount]Vec4 {
	var c [ColCount]Vec4
	c[ColText] = Vec4{1.00, 1.00, 1.00, 1.00}
	c[ColTextDisabled] = Vec4{0.50, 0.50, 0.50, 1.00}
	c[ColWindowBg] = Vec4{0.06, 0.06, 0.06, 0.94}
	c[ColChildBg] = Vec4{0.00, 0.00, 0.00, 0.00}
	c[ColPopupBg] = Vec4{0.08, 0.08, 0.08, 0.94}
	c[ColBorder] = Vec4{0.43, 0.43, 0.50, 0.50}
	c[ColBorderShadow] = Vec4{0.00, 0.00, 0.00, 0.00}
	c[ColFrameBg] = Vec4{0.16, 0.29, 0.48, 0.54}
	c[ColFrameBgHovered] = Vec4{0.26, 0.59, 0.98, 0.40}
	c[ColFrameBgActive] = Vec4{0.26, 0.59, 0.98, 0.67}
	c[ColTitleBg] = Vec4{0.04, 0.04, 0.04, 1.00}
	c[ColTitleBgActive] = Vec4{0.16, 0.29, 0.48, 1.00}
	c[ColTitleBgCollapsed] = Vec4{0.00, 0.00, 0.00, 0.51}
	c[ColMenuBarBg] = Vec4{0.14, 0.14, 0.14, 1.00}
	c[ColScrollbarBg] = Vec4{0.02, 0.02, 0.02, 0.53}
	c[ColScrollbarGrab] = Vec4{0.31, 0.31, 0.31, 1.00}
	c[ColScrollbarGrabHovered] = Vec4{0.41, 0.41, 0.41, 1.00}
	c[ColScrollbarGrabActive] = Vec4{0.51, 0.51, 0.51, 1.00}
	c[ColCheckMark] = Vec4{0.26, 0.59, 0.98, 1.00}
	c[ColSliderGrab] = Vec4{0.24, 0.52, 0.88, 1.00}
	c[ColSliderGrabActive] = Vec4{0.26, 0.59, 0.98, 1.00}
	c[ColButton] = Vec4{0.26, 0.59, 0.98, 0.40}
	c[ColButtonHovered] = Vec4{0.26, 0.59, 0.98, 1.00}
	c[ColButtonActive] = Vec4{0.06, 0.53, 0.98, 1.00}
	c[ColHeader] = Vec4{0.26, 0.59, 0.98, 0.31}
	c[ColHeaderHovered] = Vec4{0.26, 0.59, 0.98, 0.80}
	c[ColHeaderActive] = Vec4{0.26, 0.59, 0.98, 1.00}
	c[ColSeparator] = Vec4{0.43, 0.43, 0.50, 0.50}
	c[ColResizeGrip] = Vec4{0.26, 0.59, 0.98, 0.20}
	c[ColTab] = Vec4{0.18, 0.35, 0.58, 0.86}
	c[ColTabHovered] = Vec4{0.26, 0.59, 0.98, 0.80}
	c[ColTabActive] = Vec4{0.20, 0.41, 0.68, 1.00}
	c[ColTextSelectedBg] = Vec4{0.26, 0.59, 0.98, 0.35}
	c[ColModalWindowDimBg] = Vec4{0.80, 0.80, 0.80, 0.35}
	return c
}

// Color returns the packed color for idx with Alpha applied.
func (s *Style) Color(idx Col) Color {
	c := s.Colors[idx]
	c.W *= s.Alpha
	return ColorFromVec4(c)
}

// ScaleAllSizes multiplies every size in s by factor, rounding down.
// Colors, alignments and Alpha are not sizes and are left untouched.
func (s *Style) ScaleAllSizes(factor float32) {
	s.WindowPadding = s.WindowPadding.Mul(factor).Floor()
	s.WindowRounding = floor32(s.WindowRounding * factor)
	s.WindowMinSize = s.WindowMinSize.Mul(factor).Floor()
	s.ChildRounding = floor32(s.ChildRounding * factor)
	s.PopupRounding = floor32(s.PopupRounding * factor)
	s.FramePadding = s.FramePadding.Mul(factor).Floor()
	s.FrameRounding = floor32(s.FrameRounding * factor)
	s.ItemSpacing = s.ItemSpacing.Mul(factor).Floor()
	s.ItemInnerSpacing = s.ItemInnerSpacing.Mul(factor).Floor()
	s.CellPadding = s.CellPadding.Mul(factor).Floor()
	s.TouchExtraPadding = s.TouchExtraPadding.Mul(factor).Floor()
	s.IndentSpacing = floor32(s.IndentSpacing * factor)
	s.ColumnsMinSpacing = floor32(s.ColumnsMinSpacing * factor)
	s.ScrollbarSize = floor32(s.ScrollbarSize * factor)
	s.ScrollbarRounding = floor32(s.ScrollbarRounding * factor)
	s.GrabMinSize = floor32(s.GrabMinSize * factor)
	s.GrabRounding = floor32(s.GrabRounding * factor)
	s.LogSliderDeadzone = floor32(s.LogSliderDeadzone * factor)
	s.TabRounding = floor32(s.TabRounding * factor)
	if s.TabMinWidthForClose < 3.4e38 {
		s.TabMinWidthForClose = floor32(s.TabMinWidthForClose * factor)
	}
	s.DisplayWindowPadding = s.DisplayWindowPadding.Mul(factor).Floor()
	s.DisplaySafeAreaPadding = s.DisplaySafeAreaPadding.Mul(factor).Floor()
	s.MouseCursorScale = floor32(s.MouseCursorScale * factor)
}

// Scaled returns a copy of s with ScaleAllSizes(factor) applied.
// s itself is not modified.
func (s Style) Scaled(factor float32) Style {
	s.ScaleAllSizes(factor)
	return s
}
