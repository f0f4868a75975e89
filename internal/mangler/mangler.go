// Package mangler assembles payload lines into final bash source text. A
// payload line is written as a template carrying explicit spacing, binary and
// terminator markers (see token.go); the mangler fills the markers with
// randomized-but-equivalent renderings so that two payloads for the same
// command never share a byte-for-byte signature.
package mangler

import (
	"fmt"
	"strings"
)

// Padding bounds for AppendPadding.
const (
	minPaddingLines = 1
	maxPaddingLines = 3
	minPaddingLen   = 4
	maxPaddingLen   = 12
)

// Randomizer is the subset of the randomness provider the mangler needs.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
	VarName() string
	RandomString(minLen, maxLen int) string
}

// Line pairs a template with the literal data destined for its DATA slot.
// Lines without a DATA slot leave Data empty.
type Line struct {
	Template string
	Data     string
}

// Mangler accumulates rendered payload lines and serializes them.
type Mangler struct {
	rand  Randomizer
	lines []string
}

// New creates a Mangler drawing its rendering decisions from rand.
func New(rand Randomizer) *Mangler {
	return &Mangler{rand: rand}
}

// AppendLine renders a single template, substituting the supplied data values
// into its DATA slots in order. Templates are authored in this repository;
// a slot/value count mismatch is a programming error and panics.
func (m *Mangler) AppendLine(template string, data ...string) {
	m.lines = append(m.lines, m.render(template, data))
}

// AppendLinesShuffled renders the given lines in a random order. Used where
// line order carries no meaning (chunk writes, variable assignments) so that
// it cannot be signatured either.
func (m *Mangler) AppendLinesShuffled(lines []Line) {
	shuffled := make([]Line, len(lines))
	copy(shuffled, lines)
	m.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, l := range shuffled {
		if strings.Contains(l.Template, markerData) {
			m.AppendLine(l.Template, l.Data)
		} else {
			m.AppendLine(l.Template)
		}
	}
}

// AppendPadding appends a few junk variable assignments that have no effect
// on the reconstructed command.
func (m *Mangler) AppendPadding() {
	n := minPaddingLines + m.rand.Intn(maxPaddingLines-minPaddingLines+1)
	for range n {
		m.AppendLine("? ?"+m.rand.VarName()+"='DATA'* *END0",
			m.rand.RandomString(minPaddingLen, maxPaddingLen))
	}
}

// Finalize serializes all appended lines into the final payload text.
func (m *Mangler) Finalize() string {
	return strings.Join(m.lines, "")
}

// render turns one template into payload text.
func (m *Mangler) render(template string, data []string) string {
	var b strings.Builder
	di := 0
	for _, tk := range parseTemplate(template) {
		switch tk.kind {
		case tokenLiteral:
			b.WriteString(tk.text)
		case tokenWhitespace:
			n := tk.minWS + m.rand.Intn(tk.maxWS-tk.minWS+1)
			for range n {
				b.WriteByte(' ')
			}
		case tokenBinary:
			// A leading backslash suppresses alias expansion.
			if m.rand.Intn(2) == 0 {
				b.WriteByte('\\')
			}
			b.WriteString(tk.text)
		case tokenData:
			if di >= len(data) {
				panic(fmt.Sprintf("mangler: template %q has more DATA slots than values", template))
			}
			b.WriteString(data[di])
			di++
		case tokenEndCommand:
			if m.rand.Intn(2) == 0 {
				b.WriteByte(';')
			} else {
				b.WriteByte('\n')
			}
		case tokenEndBlock:
			b.WriteByte('\n')
		}
	}
	if di != len(data) {
		panic(fmt.Sprintf("mangler: template %q left %d DATA values unused", template, len(data)-di))
	}
	return b.String()
}
