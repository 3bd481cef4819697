package logging

import (
	"strings"
	"unicode/utf8"
)

// Sanitize makes a remote or user-supplied value safe to embed in a single log line.
// Line breaks and tabs are escaped, other control characters dropped, and the result is
// cut to at most maxLen bytes on a rune boundary with a trailing "..." marker. maxLen <= 0 means no limit.
func Sanitize(s string, maxLen int) string {
	escaper := strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
	s = escaper.Replace(s)

	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)

	if maxLen > 0 && len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
