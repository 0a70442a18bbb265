package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a mapping key or field name for fuzzy comparison:
// camel case and separators are dropped and everything is lowercased.
func NormalizeKey(s string) string {
	return strings.Join(Tokens(s), "")
}

// Tokens splits an identifier into lowercase words. Separators are '_', '-',
// '.' and spaces; case transitions split as well, keeping acronyms together
// ("getHTTPResponse" -> get, http, response).
func Tokens(s string) []string {
	var (
		tokens []string
		word   []rune
	)

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		word = append(word, r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', ' ':
		return true
	}

	return false
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
