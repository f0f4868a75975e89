// Package config loads obfuscation profiles from TOML files. A profile
// captures the knobs a caller would otherwise pass as flags: mutator choice,
// size preference, search bounds, staging directory and the randomness seed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Error definitions for the config package
var (
	// ErrInvalidConfigPath is returned when the profile file path is invalid
	ErrInvalidConfigPath = errors.New("invalid profile file path")
	// ErrInvalidSizePref is returned for a size preference outside 1..3
	ErrInvalidSizePref = errors.New("size_pref must be 1, 2 or 3")
	// ErrInvalidMaxAttempts is returned for a negative search bound
	ErrInvalidMaxAttempts = errors.New("max_attempts must not be negative")
	// ErrInvalidWriteDir is returned when write_dir is not an absolute path
	ErrInvalidWriteDir = errors.New("write_dir must be an absolute path")
)

// Default profile values.
const (
	DefaultSizePref = 2
	DefaultWriteDir = "/tmp/"
	DefaultDigest   = "md5sum"
)

// Profile is one obfuscation configuration.
type Profile struct {
	// Mutator names the mutator to apply; empty selects one at random.
	Mutator string `toml:"mutator"`
	// SizePref is the 1-3 payload size / obfuscation strength tradeoff.
	SizePref int `toml:"size_pref"`
	// Seed fixes the randomness source; zero means time-based.
	Seed int64 `toml:"seed"`
	// WriteDir is the writable base directory payloads stage files under.
	WriteDir string `toml:"write_dir"`
	// MaxAttempts bounds generate-and-test searches; zero keeps the default.
	MaxAttempts int `toml:"max_attempts"`
	// Digest selects the digest binary for the hex_hash mutator.
	Digest string `toml:"digest"`
}

// Loader handles loading and validating obfuscation profiles.
type Loader struct{}

// NewLoader creates a new profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the profile at path.
func (l *Loader) Load(path string) (*Profile, error) {
	if path == "" || filepath.Clean(path) != path {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConfigPath, path)
	}
	content, err := os.ReadFile(path) // #nosec G304 -- path is cleaned and user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return l.Parse(content)
}

// Parse parses and validates profile content.
func (l *Loader) Parse(content []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	ApplyDefaults(&p)
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyDefaults fills unset profile fields with their defaults.
func ApplyDefaults(p *Profile) {
	if p.SizePref == 0 {
		p.SizePref = DefaultSizePref
	}
	if p.WriteDir == "" {
		p.WriteDir = DefaultWriteDir
	}
	if p.Digest == "" {
		p.Digest = DefaultDigest
	}
}

// Validate checks profile field ranges. Mutator and digest names are
// validated where they are resolved, against the registry.
func Validate(p *Profile) error {
	if p.SizePref < 1 || p.SizePref > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidSizePref, p.SizePref)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, p.MaxAttempts)
	}
	if !filepath.IsAbs(p.WriteDir) {
		return fmt.Errorf("%w: got %q", ErrInvalidWriteDir, p.WriteDir)
	}
	return nil
}
