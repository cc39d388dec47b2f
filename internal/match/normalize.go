package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase and
// snake_case spellings of the same name normalize to the same key.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenizeCamelCase(s), ""))
}

// SnakeCase converts an identifier to snake_case.
// Examples:
//   - "MyUnitEnum" -> "my_unit_enum"
//   - "HTTPRequest" -> "http_request"
//   - "Nested2" -> "nested2"
//   - "already_snake" -> "already_snake"
func SnakeCase(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase, camelCase or snake_case string into
// tokens. Separators are dropped.
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "my_enum" -> ["my", "enum"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken reports whether a new token begins at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID": lower (or digit) to upper.
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser": end of an acronym before a lowercase run.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
