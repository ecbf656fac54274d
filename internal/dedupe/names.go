package dedupe

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes is the shortest managed-name token that counts as evidence
// of a shared name. Tokens of two runes or fewer are too generic.
const minTokenRunes = 3

// foldName lowercases a facility name for comparison. Lowercasing maps rune
// by rune, so "ß" stays one rune instead of folding to "ss". A Caser holds
// state, hence one per call.
func foldName(name string) string {
	return cases.Lower(language.Und).String(name)
}

// NamesMatch reports whether an external and a managed facility name look
// like the same place: either lowercased name contains the other, or any
// whitespace token of the managed name longer than two runes appears in the
// external name.
func NamesMatch(external, managed string) bool {
	return foldedNamesMatch(foldName(external), foldName(managed))
}

func foldedNamesMatch(external, managed string) bool {
	if strings.Contains(managed, external) || strings.Contains(external, managed) {
		return true
	}
	for _, tok := range strings.Fields(managed) {
		if utf8.RuneCountInString(tok) >= minTokenRunes && strings.Contains(external, tok) {
			return true
		}
	}
	return false
}
