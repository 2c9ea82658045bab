//go:build windows

package fonts

import "golang.org/x/sys/windows"

// SystemLocale returns the user's preferred UI language as a BCP 47 tag,
// or "" if it cannot be determined.
func SystemLocale() string {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil || len(langs) == 0 {
		return ""
	}
	return langs[0]
}
