// Package mutator defines the contract shared by all payload mutators: a
// plain metadata record describing each mutator, the per-invocation context
// that carries randomness and tuning knobs explicitly, and a registry that
// replaces any need for a type hierarchy over the variants.
package mutator

import (
	"errors"
	"strings"

	"github.com/Tim1512/Bashfuscator/internal/mangler"
	"github.com/Tim1512/Bashfuscator/internal/randomness"
)

// Error definitions for the mutator package
var (
	// ErrEmptyCommand is returned when a mutator requires a non-empty command
	ErrEmptyCommand = errors.New("command must not be empty")
	// ErrNullByte is returned when the input command contains an embedded null byte
	ErrNullByte = errors.New("command contains an embedded null byte")
)

// Rating bounds for Spec.SizeRating and Spec.TimeRating.
const (
	MinRating = 1
	MaxRating = 5
)

// Spec is the static metadata describing a mutator. It is consumed by the
// selection and reporting layer and has no effect on payload generation.
type Spec struct {
	// Name uniquely identifies the mutator in the registry.
	Name string
	// Description is a short human-readable summary.
	Description string
	// SizeRating rates (1-5) how much the mutator grows the payload.
	SizeRating int
	// TimeRating rates (1-5) how much the mutator slows payload execution.
	TimeRating int
	// Binaries lists the external binaries the generated payload invokes.
	Binaries []string
	// FileWrite reports whether the payload stages files on disk.
	FileWrite bool
	// Notes carries optional caveats shown alongside the description.
	Notes string
	// Credits names the origin of the technique, if any.
	Credits string
}

// Context carries everything a mutator invocation needs. It is created fresh
// per Mutate call; mutators hold no state between calls.
type Context struct {
	// Rand is the randomness source for all generation decisions.
	Rand *randomness.Provider
	// SizePref is the 1-3 size/obfuscation tradeoff knob.
	SizePref int
	// WriteDir is the writable base directory for staging payloads.
	WriteDir string
	// MaxAttempts bounds every generate-and-test search in a single
	// invocation. Zero selects the default bound.
	MaxAttempts int
}

// DefaultMaxAttempts bounds generate-and-test searches when the caller does
// not set an explicit limit. Digest searches succeed within a handful of
// attempts on average; anything near this bound indicates a defect.
const DefaultMaxAttempts = 16384

// AttemptBudget returns the effective search bound for this invocation.
func (c *Context) AttemptBudget() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

// NewMangler creates a payload assembler bound to this invocation's
// randomness source.
func (c *Context) NewMangler() *mangler.Mangler {
	return mangler.New(c.Rand)
}

// Mutator generates an alternate representation of a command that evaluates
// back to the original bytes under bash.
type Mutator interface {
	// Spec returns the mutator's static metadata.
	Spec() Spec
	// Mutate encodes command into payload text. The command must be free
	// of embedded null bytes.
	Mutate(ctx *Context, command string) (string, error)
}

// ValidateCommand rejects input no mutator can represent. Null bytes cannot
// survive bash string handling, so they must be caught before encoding.
func ValidateCommand(command string) error {
	if strings.IndexByte(command, 0) >= 0 {
		return ErrNullByte
	}
	return nil
}
