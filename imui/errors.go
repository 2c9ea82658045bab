package imui

import "errors"

// Sentinel errors returned by the font atlas and the context.
var (
	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("imui: invalid font data")

	// ErrNoBaseFont is returned when a merge-mode font is added to an atlas
	// that has no font to merge into.
	ErrNoBaseFont = errors.New("imui: merge mode requires a base font")

	// ErrInvalidFontSize is returned for non-positive font sizes.
	ErrInvalidFontSize = errors.New("imui: font size must be positive")

	// ErrAtlasTooLarge is returned when the glyphs do not fit the maximum
	// texture height.
	ErrAtlasTooLarge = errors.New("imui: font atlas exceeds maximum texture size")

	// ErrNoContext is returned by operations that need a current context.
	ErrNoContext = errors.New("imui: no current context")
)
