//go:build !windows

package fonts

import "os"

// SystemLocale returns the locale from LC_ALL, LC_MESSAGES or LANG, in that
// order, or "" if none is set.
func SystemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
