// Package terminal decides whether CLI output such as the mutator listing
// should use colors and interactive niceties, based on whether stdout is a
// real terminal and whether the process runs under a CI system.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"BUILDKITE",
	"TRAVIS",
	"CIRCLECI",
}

// Options force the interactivity decision regardless of the environment.
type Options struct {
	ForceInteractive    bool
	ForceNonInteractive bool
}

// Detector reports terminal capabilities for the current process.
type Detector struct {
	options Options
}

// NewDetector creates a detector with the given options.
func NewDetector(options Options) *Detector {
	return &Detector{options: options}
}

// IsInteractive reports whether output should be formatted for a human:
// explicit options win, CI environments are never interactive, otherwise the
// decision follows terminal detection.
func (d *Detector) IsInteractive() bool {
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}
	if d.IsCIEnvironment() {
		return false
	}
	return d.IsTerminal()
}

// IsTerminal reports whether stdout and stderr are connected to a terminal.
func (d *Detector) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// IsCIEnvironment reports whether a CI system's environment is detected.
func (d *Detector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if envVar == "CI" {
			return isTruthy(value)
		}
		return true
	}
	return false
}

// isTruthy treats CI=false / CI=0 / CI=no as not-CI.
func isTruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}
