package mangler

import "strings"

// tokenKind identifies one instruction in a parsed line template.
type tokenKind int

const (
	// tokenLiteral emits its text verbatim.
	tokenLiteral tokenKind = iota
	// tokenWhitespace emits a random number of spaces within [minWS, maxWS].
	tokenWhitespace
	// tokenBinary emits an external binary name, optionally de-aliased.
	tokenBinary
	// tokenData emits the next literal data value supplied with the line.
	tokenData
	// tokenEndCommand terminates a command with either ';' or a newline.
	tokenEndCommand
	// tokenEndBlock terminates a line that continues a compound statement
	// (for/do blocks) and must end with a newline.
	tokenEndBlock
)

// token is one instruction of a parsed line template.
type token struct {
	kind  tokenKind
	text  string // literal text or binary name
	minWS int
	maxWS int
}

// Template markers. A line template is plain bash text interleaved with these
// markers; everything else is emitted verbatim.
//
//	* *     optional whitespace (zero to two spaces)
//	? ?     optional single space
//	^ ^     required whitespace (one or two spaces)
//	:name:  external binary invocation
//	DATA    slot for a literal data value supplied alongside the template
//	END0    command terminator, randomized between ';' and newline
//	END     block-continuation terminator, always a newline
const (
	markerAnyWS      = "* *"
	markerNarrowWS   = "? ?"
	markerRequiredWS = "^ ^"
	markerData       = "DATA"
	markerEndCommand = "END0"
	markerEndBlock   = "END"
)

// parseTemplate converts a line template into its token stream. Data values
// are never parsed; they flow through DATA slots untouched, which is what
// keeps payload data from ever being mistaken for a marker.
func parseTemplate(tpl string) []token {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(tpl) {
		rest := tpl[i:]
		switch {
		case strings.HasPrefix(rest, markerAnyWS):
			flush()
			tokens = append(tokens, token{kind: tokenWhitespace, minWS: 0, maxWS: 2})
			i += len(markerAnyWS)
		case strings.HasPrefix(rest, markerRequiredWS):
			flush()
			tokens = append(tokens, token{kind: tokenWhitespace, minWS: 1, maxWS: 2})
			i += len(markerRequiredWS)
		case strings.HasPrefix(rest, markerNarrowWS):
			flush()
			tokens = append(tokens, token{kind: tokenWhitespace, minWS: 0, maxWS: 1})
			i += len(markerNarrowWS)
		case strings.HasPrefix(rest, markerEndCommand):
			flush()
			tokens = append(tokens, token{kind: tokenEndCommand})
			i += len(markerEndCommand)
		case strings.HasPrefix(rest, markerEndBlock):
			flush()
			tokens = append(tokens, token{kind: tokenEndBlock})
			i += len(markerEndBlock)
		case strings.HasPrefix(rest, markerData):
			flush()
			tokens = append(tokens, token{kind: tokenData})
			i += len(markerData)
		case tpl[i] == ':':
			name, ok := scanBinary(rest)
			if !ok {
				lit.WriteByte(tpl[i])
				i++
				continue
			}
			flush()
			tokens = append(tokens, token{kind: tokenBinary, text: name})
			i += len(name) + 2
		default:
			lit.WriteByte(tpl[i])
			i++
		}
	}
	flush()

	return tokens
}

// scanBinary recognizes a ":name:" marker at the start of s and returns the
// binary name. Names are lowercase alphanumerics plus '-' and '_'.
func scanBinary(s string) (string, bool) {
	j := 1
	for j < len(s) && isBinaryNameChar(s[j]) {
		j++
	}
	if j == 1 || j >= len(s) || s[j] != ':' {
		return "", false
	}
	return s[1:j], true
}

func isBinaryNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
