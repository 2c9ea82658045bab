package imui

// GlyphRanges is a list of inclusive [first, last] rune pairs.
type GlyphRanges []rune

// Contains reports whether r falls in one of the ranges.
func (gr GlyphRanges) Contains(r rune) bool {
	for i := 0; i+1 < len(gr); i += 2 {
		if r >= gr[i] && r <= gr[i+1] {
			return true
		}
	}
	return false
}

// Count returns the number of runes covered, counting overlaps twice.
func (gr GlyphRanges) Count() int {
	n := 0
	for i := 0; i+1 < len(gr); i += 2 {
		if gr[i+1] >= gr[i] {
			n += int(gr[i+1]-gr[i]) + 1
		}
	}
	return n
}

// Each calls fn for every rune in the ranges, in order.
func (gr GlyphRanges) Each(fn func(r rune)) {
	for i := 0; i+1 < len(gr); i += 2 {
		for r := gr[i]; r <= gr[i+1]; r++ {
			fn(r)
		}
	}
}

var (
	rangesDefault = GlyphRanges{
		0x0020, 0x00FF, // Basic Latin + Latin Supplement
	}

	rangesKorean = GlyphRanges{
		0x0020, 0x00FF,
		0x3131, 0x3163, // Korean alphabets
		0xAC00, 0xD7A3, // Korean characters
		0xFFFD, 0xFFFD,
	}

	rangesChineseFull = GlyphRanges{
		0x0020, 0x00FF,
		0x2000, 0x206F, // General Punctuation
		0x3000, 0x30FF, // CJK Symbols and Punctuations, Hiragana, Katakana
		0x31F0, 0x31FF, // Katakana Phonetic Extensions
		0xFF00, 0xFFEF, // Half-width characters
		0xFFFD, 0xFFFD,
		0x4E00, 0x9FAF, // CJK Ideograms
	}

	rangesJapanese = GlyphRanges{
		0x0020, 0x00FF,
		0x3000, 0x30FF,
		0x31F0, 0x31FF,
		0xFF00, 0xFFEF,
		0xFFFD, 0xFFFD,
		0x4E00, 0x9FAF,
	}

	rangesCyrillic = GlyphRanges{
		0x0020, 0x00FF,
		0x0400, 0x052F, // Cyrillic + Cyrillic Supplement
		0x2DE0, 0x2DFF, // Cyrillic Extended-A
		0xA640, 0xA69F, // Cyrillic Extended-B
	}

	rangesThai = GlyphRanges{
		0x0020, 0x00FF,
		0x2010, 0x205E, // Punctuations
		0x0E00, 0x0E7F, // Thai
	}

	rangesVietnamese = GlyphRanges{
		0x0020, 0x00FF,
		0x0102, 0x0103,
		0x0110, 0x0111,
		0x0128, 0x0129,
		0x0168, 0x0169,
		0x01A0, 0x01A1,
		0x01AF, 0x01B0,
		0x1EA0, 0x1EF9,
	}

	rangesIcons = GlyphRanges{
		IconRangeFirst, IconRangeLast,
	}
)

// Icon font code points (Material Design Icons).
const (
	IconRangeFirst rune = 0xF0001
	IconRangeLast  rune = 0xF1AF0
)

// GlyphRangesDefault returns Basic Latin and Latin-1 Supplement.
func GlyphRangesDefault() GlyphRanges { return rangesDefault }

// GlyphRangesKorean returns Latin plus Hangul.
func GlyphRangesKorean() GlyphRanges { return rangesKorean }

// GlyphRangesChineseFull returns Latin, CJK punctuation, kana and the full
// CJK Unified Ideographs block.
func GlyphRangesChineseFull() GlyphRanges { return rangesChineseFull }

// GlyphRangesChineseSimplifiedCommon returns the ranges used for
// Simplified Chinese. The whole CJK Unified Ideographs block is included;
// the font decides which ideographs actually exist.
func GlyphRangesChineseSimplifiedCommon() GlyphRanges { return rangesChineseFull }

// GlyphRangesJapanese returns Latin, kana, CJK punctuation and the CJK
// Unified Ideographs block.
func GlyphRangesJapanese() GlyphRanges { return rangesJapanese }

// GlyphRangesCyrillic returns Latin plus Cyrillic.
func GlyphRangesCyrillic() GlyphRanges { return rangesCyrillic }

// GlyphRangesThai returns Latin plus Thai.
func GlyphRangesThai() GlyphRanges { return rangesThai }

// GlyphRangesVietnamese returns Latin plus Vietnamese letters.
func GlyphRangesVietnamese() GlyphRanges { return rangesVietnamese }

// GlyphRangesIcons returns the icon font private use range.
func GlyphRangesIcons() GlyphRanges { return rangesIcons }
