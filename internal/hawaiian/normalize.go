// Package hawaiian folds Hawaiian and English text into a form suitable for
// forgiving substring search.
package hawaiian

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// foldReplacer deletes okina/apostrophe variants and folds macron (and breve)
// vowels. It runs after lowercasing, so only lowercase forms are listed.
var foldReplacer = strings.NewReplacer(
	"ʻ", "", // ʻokina
	"‘", "", // left single quotation mark
	"’", "", // right single quotation mark
	"`", "",
	"'", "",
	"ā", "a", "ă", "a",
	"ē", "e", "ĕ", "e",
	"ī", "i", "ĭ", "i",
	"ō", "o", "ŏ", "o",
	"ū", "u", "ŭ", "u",
)

// Normalize maps raw text to its search form: lowercase ASCII letters, digits
// and single spaces only. Glottal stops are deleted rather than replaced with
// a space, since typists frequently omit or substitute them.
//
// Normalize is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Compose first so "a" + U+0304 folds the same way as "ā"
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	text = foldReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return b.String()
}

// NormalizePtr normalizes an optional value; nil normalizes to "".
func NormalizePtr(text *string) string {
	if text == nil {
		return ""
	}
	return Normalize(*text)
}
