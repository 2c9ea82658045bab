package imui

// ConfigFlags configure a context.
type ConfigFlags uint32

const (
	// ConfigFlagsNone is the zero value.
	ConfigFlagsNone ConfigFlags = 0

	// ConfigFlagsNavEnableKeyboard enables keyboard navigation.
	ConfigFlagsNavEnableKeyboard ConfigFlags = 1 << 0

	// ConfigFlagsNoMouse tells backends to ignore mouse input.
	ConfigFlagsNoMouse ConfigFlags = 1 << 4

	// ConfigFlagsNoMouseCursorChange tells platform backends to leave the OS
	// cursor alone.
	ConfigFlagsNoMouseCursorChange ConfigFlags = 1 << 5
)

// MouseCursor is the cursor shape widgets request.
type MouseCursor int

// Mouse cursors.
const (
	MouseCursorNone MouseCursor = iota - 1
	MouseCursorArrow
	MouseCursorTextInput
	MouseCursorResizeAll
	MouseCursorResizeNS
	MouseCursorResizeEW
	MouseCursorResizeNESW
	MouseCursorResizeNWSE
	MouseCursorHand
	MouseCursorNotAllowed
)

// MouseButtonCount is the number of tracked mouse buttons.
const MouseButtonCount = 5

// IO is the input/output state exchanged with backends.
type IO struct {
	ConfigFlags ConfigFlags

	// DisplaySize is the size of the UI viewport in pixels, set by the
	// platform backend every frame.
	DisplaySize Vec2

	// DisplayFramebufferScale is framebuffer pixels per display unit.
	DisplayFramebufferScale Vec2

	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float32

	Fonts           *FontAtlas
	FontGlobalScale float32

	BackendPlatformName string
	BackendRendererName string

	MousePos    Vec2
	MouseDown   [MouseButtonCount]bool
	MouseWheel  float32
	MouseWheelH float32

	// InputQueueCharacters holds text input received since the last frame.
	InputQueueCharacters []rune

	// AppFocusLost is true while the host window is not focused.
	AppFocusLost bool

	// MouseCursor is the cursor requested for this frame.
	MouseCursor MouseCursor
}

func newIO() IO {
	return IO{
		DisplaySize:             Vec2{-1, -1},
		DisplayFramebufferScale: Vec2{1, 1},
		DeltaTime:               1.0 / 60.0,
		Fonts:                   NewFontAtlas(),
		FontGlobalScale:         1,
		MousePos:                Vec2{-math32Max, -math32Max},
		MouseCursor:             MouseCursorArrow,
	}
}

const math32Max = 3.4028234663852886e+38
