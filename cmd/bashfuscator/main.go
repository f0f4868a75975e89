// Package main provides the entry point for the bashfuscator CLI. It handles
// command-line arguments, profile loading, mutator selection and payload
// output; the payload itself goes to stdout (or a file) while all logging
// stays on stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Tim1512/Bashfuscator/internal/cmdcommon"
	"github.com/Tim1512/Bashfuscator/internal/color"
	"github.com/Tim1512/Bashfuscator/internal/config"
	"github.com/Tim1512/Bashfuscator/internal/logging"
	"github.com/Tim1512/Bashfuscator/internal/mutator"
	"github.com/Tim1512/Bashfuscator/internal/randomness"
	"github.com/Tim1512/Bashfuscator/internal/stringobf"
	"github.com/Tim1512/Bashfuscator/internal/terminal"
)

// Error definitions
var (
	ErrCommandRequired = errors.New("a command is required: pass -c or -f")
)

// outFilePerm keeps generated payloads private to the invoking user.
const outFilePerm = 0o600

var (
	command      = flag.String("c", "", "command to obfuscate")
	commandFile  = flag.String("f", "", "file to read the command from ('-' for stdin)")
	mutatorName  = flag.String("mutator", "", "mutator to apply (default: chosen at random)")
	sizePref     = flag.Int("size-pref", 0, "payload size/obfuscation tradeoff, 1-3")
	seed         = flag.Int64("seed", 0, "randomness seed (0 = time-based)")
	writeDir     = flag.String("write-dir", "", "writable directory for staged payloads")
	maxAttempts  = flag.Int("max-attempts", 0, "bound for generate-and-test searches")
	digest       = flag.String("digest", "", "digest binary for hex_hash ("+strings.Join(stringobf.DigestBinaries(), ", ")+")")
	profilePath  = flag.String("config", "", "path to a TOML obfuscation profile")
	outPath      = flag.String("o", "", "write the payload to a file instead of stdout")
	listMutators = flag.Bool("list", false, "list available mutators and exit")
	logLevel     = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logJSON      = flag.String("log-json", "", "path for a per-run JSON log")
	noColor      = flag.Bool("no-color", false, "disable colored listing output")
	showVersion  = flag.Bool("version", false, "print version and exit")
)

func main() {
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		slog.Error("bashfuscator failed", "error", err, "run_id", runID)
		os.Exit(cmdcommon.ExitFailure)
	}
}

func run(runID string) error {
	flag.Parse()

	if err := logging.Setup(*logLevel, *logJSON, runID); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	if *showVersion {
		fmt.Println(cmdcommon.Version)
		return nil
	}

	profile, err := loadProfile()
	if err != nil {
		return err
	}

	registry := mutator.NewRegistry()
	if err := stringobf.Register(registry, profile.Digest); err != nil {
		return err
	}

	if *listMutators {
		printMutatorList(registry)
		return nil
	}

	cmd, err := readCommand()
	if err != nil {
		return err
	}

	provider := randomness.NewProvider(profile.Seed)
	m, err := selectMutator(registry, provider, profile.Mutator)
	if err != nil {
		return err
	}

	ctx := &mutator.Context{
		Rand:        provider,
		SizePref:    profile.SizePref,
		WriteDir:    profile.WriteDir,
		MaxAttempts: profile.MaxAttempts,
	}
	payload, err := m.Mutate(ctx, cmd)
	if err != nil {
		return fmt.Errorf("mutator %s: %w", m.Spec().Name, err)
	}

	if err := writePayload(payload); err != nil {
		return err
	}

	slog.Info("payload generated",
		"mutator", m.Spec().Name,
		"input_size", humanize.Bytes(uint64(len(cmd))),
		"payload_size", humanize.Bytes(uint64(len(payload))),
		"growth", fmt.Sprintf("%.1fx", float64(len(payload))/float64(max(len(cmd), 1))),
		"run_id", runID)
	return nil
}

// loadProfile merges the optional TOML profile with command-line overrides;
// flags that were set explicitly win over the file.
func loadProfile() (*config.Profile, error) {
	profile := &config.Profile{}
	if *profilePath != "" {
		loaded, err := config.NewLoader().Load(*profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = loaded
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["mutator"] {
		profile.Mutator = *mutatorName
	}
	if set["size-pref"] {
		profile.SizePref = *sizePref
	}
	if set["seed"] {
		profile.Seed = *seed
	}
	if set["write-dir"] {
		profile.WriteDir = *writeDir
	}
	if set["max-attempts"] {
		profile.MaxAttempts = *maxAttempts
	}
	if set["digest"] {
		profile.Digest = *digest
	}

	config.ApplyDefaults(profile)
	if err := config.Validate(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// readCommand resolves the input command from -c, a file, or stdin.
func readCommand() (string, error) {
	switch {
	case *command != "":
		return *command, nil
	case *commandFile == "-":
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSuffix(string(content), "\n"), nil
	case *commandFile != "":
		content, err := os.ReadFile(*commandFile) // #nosec G304 -- user-chosen input file by design
		if err != nil {
			return "", fmt.Errorf("failed to read command file: %w", err)
		}
		return strings.TrimSuffix(string(content), "\n"), nil
	default:
		return "", ErrCommandRequired
	}
}

// selectMutator returns the named mutator, or a random one when unnamed.
func selectMutator(registry *mutator.Registry, provider *randomness.Provider, name string) (mutator.Mutator, error) {
	if name != "" {
		return registry.Get(name)
	}
	all := registry.All()
	return all[provider.Intn(len(all))], nil
}

// writePayload sends the payload to the chosen destination.
func writePayload(payload string) error {
	if *outPath == "" {
		_, err := io.WriteString(os.Stdout, payload)
		return err
	}
	if err := os.WriteFile(*outPath, []byte(payload), outFilePerm); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// printMutatorList writes a human-readable table of mutators to stdout.
func printMutatorList(registry *mutator.Registry) {
	detector := terminal.NewDetector(terminal.Options{ForceNonInteractive: *noColor})
	palette := color.NewPalette(detector.IsInteractive())

	for _, m := range registry.All() {
		spec := m.Spec()
		fmt.Printf("%s  %s\n", palette.Cyan(spec.Name), spec.Description)
		fmt.Printf("    %s size %d/%d, time %d/%d\n",
			palette.Gray("impact:"), spec.SizeRating, mutator.MaxRating, spec.TimeRating, mutator.MaxRating)
		if len(spec.Binaries) > 0 {
			fmt.Printf("    %s %s\n", palette.Gray("binaries:"), strings.Join(spec.Binaries, ", "))
		}
		if spec.FileWrite {
			fmt.Printf("    %s\n", palette.Yellow("writes files on the target"))
		}
		if spec.Notes != "" {
			fmt.Printf("    %s %s\n", palette.Gray("notes:"), spec.Notes)
		}
	}
}
