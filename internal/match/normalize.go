package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase is split
// into tokens, tokens are lower-cased and joined without separators.
//
//	"UserRoles" -> "userroles"
//	"user_roles" -> "userroles"
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase tokens.
//
//	"OrderID"    -> ["order", "id"]
//	"XMLParser"  -> ["xml", "parser"]
//	"user_roles" -> ["user", "roles"]
func TokenizeIdent(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		cur.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower->Upper transition, or the last capital of an
// acronym that is followed by a lowercase letter ("XMLParser" splits before P).
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
