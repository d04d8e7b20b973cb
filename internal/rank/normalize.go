package rank

import (
	"strings"
	"unicode"
)

// fold maps the six accented letters of the catalog's display language onto
// their unaccented base letters. Exactly these six; every other rune goes
// through plain unicode lowering.
var fold = map[rune]rune{
	'ı': 'i',
	'ğ': 'g',
	'ü': 'u',
	'ş': 's',
	'ö': 'o',
	'ç': 'c',
}

// Normalize folds text to its canonical comparable form: lowercased with
// accents folded, anything that is not a letter, digit, whitespace, or
// hyphen replaced by a space, and whitespace collapsed. Pure and total;
// empty in, empty out.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		r = unicode.ToLower(r)
		if f, ok := fold[r]; ok {
			r = f
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenize splits an already-normalized string into maximal runs of
// letters/digits. Hyphens separate tokens even though Normalize keeps them.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
