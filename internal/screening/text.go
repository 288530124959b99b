package screening

import "unicode/utf8"

// truncateUTF8 caps s at max bytes without splitting a rune, so capped
// text stays valid UTF-8 when persisted or sent in a prompt.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
