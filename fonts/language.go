package fonts

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/gogpu/overlay/imui"
)

// Language selects the extra glyphs merged into the UI font.
type Language int

// Supported languages. Default covers Latin only.
const (
	Default Language = iota
	ChineseFull
	ChineseSimplifiedCommon
	Japanese
	Korean
	Cyrillic
	Thai
	Vietnamese
)

var languageNames = [...]string{
	Default:                 "Default",
	ChineseFull:             "ChineseFull",
	ChineseSimplifiedCommon: "ChineseSimplifiedCommon",
	Japanese:                "Japanese",
	Korean:                  "Korean",
	Cyrillic:                "Cyrillic",
	Thai:                    "Thai",
	Vietnamese:              "Vietnamese",
}

// String returns the configuration name of the language.
func (l Language) String() string {
	if l < 0 || int(l) >= len(languageNames) {
		return "Language(" + strconv.Itoa(int(l)) + ")"
	}
	return languageNames[l]
}

// ParseLanguage returns the language with the given configuration name,
// ignoring case. "Default" and unknown names report ok == false.
func ParseLanguage(name string) (Language, bool) {
	for i, n := range languageNames {
		if Language(i) != Default && strings.EqualFold(n, name) {
			return Language(i), true
		}
	}
	return Default, false
}

// FontFile returns the bundled font file providing the language's glyphs.
func (l Language) FontFile() string {
	switch l {
	case ChineseFull:
		return "NotoSansTC-Regular.otf"
	case ChineseSimplifiedCommon:
		return "NotoSansSC-Regular.otf"
	case Japanese:
		return "NotoSansJP-Regular.otf"
	case Korean:
		return "NotoSansKR-Regular.otf"
	case Thai:
		return "NotoSansThai-Regular.ttf"
	default:
		return DefaultFontFile
	}
}

// GlyphRanges returns the glyph ranges merged for the language.
func (l Language) GlyphRanges() imui.GlyphRanges {
	switch l {
	case ChineseFull:
		return imui.GlyphRangesChineseFull()
	case ChineseSimplifiedCommon:
		return imui.GlyphRangesChineseSimplifiedCommon()
	case Japanese:
		return imui.GlyphRangesJapanese()
	case Korean:
		return imui.GlyphRangesKorean()
	case Cyrillic:
		return imui.GlyphRangesCyrillic()
	case Thai:
		return imui.GlyphRangesThai()
	case Vietnamese:
		return imui.GlyphRangesVietnamese()
	default:
		return imui.GlyphRangesDefault()
	}
}

// FromLocale maps a locale name to a language. Both BCP 47 tags ("ja-JP",
// "zh-Hant") and POSIX locale names ("ko_KR.UTF-8") are accepted. Chinese
// picks the traditional or simplified variant from the tag's script, which
// is inferred from the region when absent. Locales without special glyph
// needs map to Default.
func FromLocale(locale string) Language {
	tag, ok := parseLocale(locale)
	if !ok {
		return Default
	}
	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		if script, _ := tag.Script(); script.String() == "Hant" {
			return ChineseFull
		}
		return ChineseSimplifiedCommon
	case "ja":
		return Japanese
	case "ko":
		return Korean
	case "ru", "be":
		return Cyrillic
	case "th":
		return Thai
	case "vi":
		return Vietnamese
	}
	return Default
}

// Resolve picks the language from an explicit configuration name, falling
// back to the locale when the name is empty or unknown.
func Resolve(explicit, locale string) Language {
	if l, ok := ParseLanguage(explicit); ok {
		return l
	}
	return FromLocale(locale)
}

func parseLocale(locale string) (language.Tag, bool) {
	s := locale
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "", "C", "POSIX":
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
