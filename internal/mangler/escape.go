package mangler

import "strings"

// singleQuoteEscape terminates the current single-quoted literal, emits a
// double-quoted single quote, and reopens the literal.
const singleQuoteEscape = `'"'"'`

// EscapeQuotes rewrites s so it can be embedded inside a bash single-quoted
// literal. Single quotes are the only character bash treats specially there.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", singleQuoteEscape)
}
