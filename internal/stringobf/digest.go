package stringobf

import (
	"crypto/md5"  // #nosec G501 -- matches the md5sum binary the payload invokes, not used for security
	"crypto/sha1" // #nosec G505 -- matches the sha1sum binary the payload invokes
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/Tim1512/Bashfuscator/internal/common"
	"github.com/Tim1512/Bashfuscator/internal/mutator"
)

// ErrUnknownDigest is returned for a digest binary with no local equivalent.
var ErrUnknownDigest = errors.New("unknown digest binary")

// Seed string length bounds for the digest search.
const (
	minSeedLen = 8
	maxSeedLen = 24
)

// digestFuncs maps each supported coreutils digest binary to the matching
// local hex digest. The local function must agree with the binary exactly:
// the payload recomputes the digest at runtime and slices it at offsets we
// determine here.
var digestFuncs = map[string]func([]byte) string{
	"md5sum": func(b []byte) string {
		s := md5.Sum(b) // #nosec G401 -- see package import note
		return hex.EncodeToString(s[:])
	},
	"sha1sum": func(b []byte) string {
		s := sha1.Sum(b) // #nosec G401
		return hex.EncodeToString(s[:])
	},
	"sha256sum": func(b []byte) string {
		s := sha256.Sum256(b)
		return hex.EncodeToString(s[:])
	},
	"b2sum": func(b []byte) string {
		s := blake2b.Sum512(b)
		return hex.EncodeToString(s[:])
	},
}

// DigestBinaries returns the supported digest binary names, sorted.
func DigestBinaries() []string {
	names := make([]string, 0, len(digestFuncs))
	for name := range digestFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HexHash encodes each command byte as a slice of a hash digest: it searches
// for a random seed whose digest contains the byte's two hex digits, then
// emits a line that recomputes the digest at runtime and cuts those two
// digits back out.
type HexHash struct {
	binary string
	sum    func([]byte) string
}

// NewHexHash creates the digest-search mutator using md5sum.
func NewHexHash() *HexHash {
	h, err := NewHexHashWithBinary("md5sum")
	if err != nil {
		// md5sum is always in digestFuncs.
		panic(err)
	}
	return h
}

// NewHexHashWithBinary creates the digest-search mutator for one of the
// binaries reported by DigestBinaries.
func NewHexHashWithBinary(binary string) (*HexHash, error) {
	sum, exists := digestFuncs[binary]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDigest, binary)
	}
	return &HexHash{binary: binary, sum: sum}, nil
}

// Spec returns the mutator metadata.
func (h *HexHash) Spec() mutator.Spec {
	return mutator.Spec{
		Name:        "hex_hash",
		Description: fmt.Sprintf("Uses the output of %s to encode strings", h.binary),
		SizeRating:  mutator.MaxRating,
		TimeRating:  mutator.MaxRating,
		Binaries:    []string{"cut", "printf", h.binary},
		Notes:       "ASCII commands only",
		Credits:     "Elijah-Barker",
	}
}

// seedDigest is one candidate from the digest search.
type seedDigest struct {
	seed   string
	digest string
}

// searchSeed finds a seed string whose digest contains hexPair and returns
// the seed together with the zero-based offset of the first occurrence.
func (h *HexHash) searchSeed(ctx *mutator.Context, hexPair string) (string, int, error) {
	found, err := common.Search(ctx.AttemptBudget(),
		func() seedDigest {
			seed := ctx.Rand.RandomString(minSeedLen, maxSeedLen)
			return seedDigest{seed: seed, digest: h.sum([]byte(seed))}
		},
		func(sd seedDigest) bool {
			return strings.Contains(sd.digest, hexPair)
		})
	if err != nil {
		return "", 0, fmt.Errorf("%w: no %s digest containing %q: %w",
			ErrDigestSearchExhausted, h.binary, hexPair, err)
	}
	return found.seed, strings.Index(found.digest, hexPair), nil
}

// Mutate encodes command one byte per payload line. The runtime decoder
// extracts exactly two hex digits per line, so only single-byte (ASCII)
// characters can be represented; anything else is rejected up front.
func (h *HexHash) Mutate(ctx *mutator.Context, command string) (string, error) {
	if err := mutator.ValidateCommand(command); err != nil {
		return "", err
	}
	if command == "" {
		return "", mutator.ErrEmptyCommand
	}
	for i := 0; i < len(command); i++ {
		if command[i] > 0x7f {
			return "", fmt.Errorf("%w: byte 0x%02x at offset %d", ErrNonASCIICommand, command[i], i)
		}
	}

	mg := ctx.NewMangler()
	for i := 0; i < len(command); i++ {
		hexPair := fmt.Sprintf("%02x", command[i])
		seed, offset, err := h.searchSeed(ctx, hexPair)
		if err != nil {
			return "", err
		}

		// cut -b is 1-based and inclusive on both ends.
		mg.AppendLine(fmt.Sprintf(
			`* *:printf:^ ^"\x$(:printf:^ ^%%s^ ^'DATA'* *|* *:%s:* *|* *:cut:^ ^-b^ ^%d-%d* *)"* *END0`,
			h.binary, offset+1, offset+2), seed)
	}
	mg.AppendPadding()

	return mg.Finalize(), nil
}
