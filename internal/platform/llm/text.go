package llm

import "unicode/utf8"

// TruncateUTF8 caps s at n bytes without splitting a multi-byte rune, so
// truncated prompt content stays valid UTF-8.
func TruncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
