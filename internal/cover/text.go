package cover

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// glyphFilter drops check marks, dingbats and emoji that the bundled font
// cannot render.
var glyphFilter = runes.Remove(runes.Predicate(func(r rune) bool {
	switch {
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r == 0xFE0F || r == 0x200D:
		return true
	}
	return false
}))

// CleanSubtitle strips unsupported glyphs, falling back to fallback when
// nothing printable remains.
func CleanSubtitle(s, fallback string) string {
	cleaned, _, err := transform.String(glyphFilter, s)
	if err != nil {
		cleaned = s
	}
	cleaned = strings.TrimFunc(cleaned, unicode.IsSpace)
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
