// Package stringobf implements the string mutators: encoders that split,
// encode and re-emit a command as bash reconstruction logic. Each mutator is
// a stateless function of (command, context, randomness) to payload text;
// everything it allocates, including on-disk staging directories referenced
// by the payload, lives and dies within one Mutate call of the generated
// payload's runtime.
package stringobf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tim1512/Bashfuscator/internal/mangler"
	"github.com/Tim1512/Bashfuscator/internal/mutator"
)

// Error definitions shared across the string mutators
var (
	// ErrInvalidSizePref is returned for a size preference outside 1..3
	ErrInvalidSizePref = errors.New("size preference must be 1, 2 or 3")
	// ErrKeyGenerationExhausted is returned when no null-byte-safe XOR key
	// exists within the attempt budget
	ErrKeyGenerationExhausted = errors.New("xor key generation exhausted")
	// ErrDigestSearchExhausted is returned when the digest search exceeds
	// the attempt budget
	ErrDigestSearchExhausted = errors.New("digest search exhausted")
	// ErrNonASCIICommand is returned by the digest mutator, whose runtime
	// decoder reconstructs exactly one byte per input character
	ErrNonASCIICommand = errors.New("command must contain only ASCII characters")
)

// DefaultWriteDir is the writable staging base used when the context does
// not name one.
const DefaultWriteDir = "/tmp/"

// encodingDirective is the per-invocation configuration the glob mutators
// derive from the caller's size preference. Never persisted.
type encodingDirective struct {
	sectionSize int
	startingDir string
}

// newEncodingDirective derives chunking and staging paths for one invocation.
// Section sizes target roughly 10 chunks (pref 1), roughly 100 chunks
// (pref 2), or one character per chunk (pref 3, maximum cost and maximum
// obfuscation).
func newEncodingDirective(ctx *mutator.Context, command string) (*encodingDirective, error) {
	var sectionSize int
	switch ctx.SizePref {
	case 1:
		sectionSize = len(command)/10 + 1
	case 2:
		sectionSize = len(command)/100 + 1
	case 3:
		sectionSize = 1
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSizePref, ctx.SizePref)
	}

	base := ctx.WriteDir
	if base == "" {
		base = DefaultWriteDir
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &encodingDirective{
		sectionSize: sectionSize,
		startingDir: mangler.EscapeQuotes(base + ctx.Rand.UniqueString()),
	}, nil
}

// splitChunks slices command into contiguous sectionSize pieces; the final
// piece may be shorter. An empty command yields no chunks.
func splitChunks(command string, sectionSize int) []string {
	var chunks []string
	for i := 0; i < len(command); i += sectionSize {
		end := i + sectionSize
		if end > len(command) {
			end = len(command)
		}
		chunks = append(chunks, command[i:end])
	}
	return chunks
}
