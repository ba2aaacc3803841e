// Package slug derives stable, URL-safe identifiers from free-text titles.
//
// Slugs double as storage path segments on the server, so the derivation
// must be deterministic: identical input always yields identical output.
// A slug is only minted when a recipe is first created; an existing ID is
// never recomputed from a changed title.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTable maps letters to ASCII spellings. It runs on lowercased,
// NFC-composed text before generic mark stripping, so å becomes "aa"
// rather than the bare "a" that stripping the ring would leave.
var foldTable = map[rune]string{
	'å': "aa",
	'ä': "aa",
	'à': "aa",
	'æ': "ae",
	'ö': "oe",
	'ø': "oe",
	'œ': "oe",
	'ü': "u",
	'é': "e",
	'í': "i",
	'ç': "c",
	'ñ': "n",
	'ß': "ss",
	'ð': "d",
	'đ': "d",
	'þ': "th",
	'ł': "l",
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Slugify maps a title to a lowercase, hyphen-separated ASCII identifier.
//
//	Slugify("Åpen Ørret Café")     // "aapen-oerret-cafe"
//	Slugify("  Hello, World!!  ")  // "hello-world"
//
// Slugify is idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(title string) string {
	s := strings.ToLower(norm.NFC.String(title))
	s = fold(s)
	s = stripMarks(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		// Any run of other characters collapses to one hyphen. Leading
		// runs are dropped because nothing has been written yet and
		// trailing runs because no letter follows them.
		pendingHyphen = true
	}
	return b.String()
}

// IsSlug reports whether s is already in slug form.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := foldTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripMarks decomposes s and removes combining marks. The transformer
// chain is stateful, so a fresh one is built per call.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
