// Package color provides small helpers for coloring terminal output with
// ANSI escape sequences. Coloring is decided per Palette so non-interactive
// output stays free of escape codes.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	cyanCode   = "\033[36m"
	grayCode   = "\033[90m"
)

// Palette wraps text in ANSI sequences when enabled and passes it through
// untouched otherwise.
type Palette struct {
	enabled bool
}

// NewPalette creates a palette; enabled selects colored output.
func NewPalette(enabled bool) *Palette {
	return &Palette{enabled: enabled}
}

func (p *Palette) wrap(code, text string) string {
	if !p.enabled {
		return text
	}
	return code + text + resetCode
}

// Green colors text green when enabled.
func (p *Palette) Green(text string) string { return p.wrap(greenCode, text) }

// Yellow colors text yellow when enabled.
func (p *Palette) Yellow(text string) string { return p.wrap(yellowCode, text) }

// Cyan colors text cyan when enabled.
func (p *Palette) Cyan(text string) string { return p.wrap(cyanCode, text) }

// Gray colors text gray when enabled.
func (p *Palette) Gray(text string) string { return p.wrap(grayCode, text) }
