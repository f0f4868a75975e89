// Package cmdcommon provides shared defaults for command-line tools.
package cmdcommon

// Exit codes used by the CLI tools.
const (
	// ExitSuccess signals normal completion.
	ExitSuccess = 0
	// ExitFailure signals any generation or configuration error.
	ExitFailure = 1
	// ExitUsage signals invalid command-line arguments.
	ExitUsage = 2
)

// Version is the build version (set via ldflags).
var Version = "dev"
