// Package randomness provides the seedable randomness source shared by all
// payload generators. Every random decision made while building a payload
// (chunk file names, variable names, whitespace widths, line ordering) is
// drawn from a Provider so that a fixed seed reproduces a payload exactly.
//
// Randomness here is not cryptographic and does not need to be: payloads are
// obfuscation, not confidentiality.
package randomness

import (
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// AllowedChars is the fixed character set that random strings, XOR keys and
// digest seeds are drawn from.
const AllowedChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Character classes used for generated bash identifiers. Identifiers are kept
// lowercase so they can never collide with assembler template markers.
const (
	varNameHead = "abcdefghijklmnopqrstuvwxyz"
	varNameTail = "abcdefghijklmnopqrstuvwxyz0123456789"

	minVarNameLen = 3
	maxVarNameLen = 8
)

// Provider supplies all randomness used during payload generation. It is not
// safe for concurrent use; payload generation is single-threaded.
type Provider struct {
	rng      *rand.Rand
	entropy  *ulid.MonotonicEntropy
	usedVars map[string]struct{}
}

// NewProvider creates a Provider seeded with the given value. A zero seed
// selects a time-based seed; any other value makes the provider fully
// deterministic, which is how tests reproduce payloads.
func NewProvider(seed int64) *Provider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- obfuscation does not need crypto randomness
	return &Provider{
		rng:      rng,
		entropy:  ulid.Monotonic(rng, 0),
		usedVars: make(map[string]struct{}),
	}
}

// AllowedSet returns the character set random strings are drawn from.
func (p *Provider) AllowedSet() string {
	return AllowedChars
}

// Intn returns a uniform random int in [0, n).
func (p *Provider) Intn(n int) int {
	return p.rng.Intn(n)
}

// Shuffle randomizes the order of n elements through the swap callback.
func (p *Provider) Shuffle(n int, swap func(i, j int)) {
	p.rng.Shuffle(n, swap)
}

// RandomString returns a random string from AllowedChars with a length chosen
// uniformly in [minLen, maxLen].
func (p *Provider) RandomString(minLen, maxLen int) string {
	n := minLen
	if maxLen > minLen {
		n += p.rng.Intn(maxLen - minLen + 1)
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(AllowedChars[p.rng.Intn(len(AllowedChars))])
	}
	return b.String()
}

// Choice returns one random character from the given non-empty set.
func (p *Provider) Choice(set string) byte {
	return set[p.rng.Intn(len(set))]
}

// UniqueString returns a string that never repeats within the provider's
// lifetime. It is a lowercase ULID driven by the provider's entropy, so the
// sequence is reproducible under a fixed seed while the monotonic entropy
// guarantees uniqueness. Used for staging directory names.
func (p *Provider) UniqueString() string {
	return strings.ToLower(ulid.MustNew(0, p.entropy).String())
}

// VarName returns a random bash identifier that has not been handed out by
// this provider before. Names are lowercase so they can be embedded in
// assembler templates verbatim.
func (p *Provider) VarName() string {
	for {
		n := minVarNameLen + p.rng.Intn(maxVarNameLen-minVarNameLen+1)
		var b strings.Builder
		b.Grow(n)
		b.WriteByte(varNameHead[p.rng.Intn(len(varNameHead))])
		for range n - 1 {
			b.WriteByte(varNameTail[p.rng.Intn(len(varNameTail))])
		}
		name := b.String()
		if _, used := p.usedVars[name]; !used {
			p.usedVars[name] = struct{}{}
			return name
		}
	}
}
