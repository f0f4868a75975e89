package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, v := range ciEnvVars {
		t.Setenv(v, "")
	}
}

func TestIsInteractive_ForcedOptions(t *testing.T) {
	assert.True(t, NewDetector(Options{ForceInteractive: true}).IsInteractive())
	assert.False(t, NewDetector(Options{ForceNonInteractive: true}).IsInteractive())
}

func TestIsCIEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{name: "github actions", key: "GITHUB_ACTIONS", value: "true", want: true},
		{name: "generic CI truthy", key: "CI", value: "1", want: true},
		{name: "generic CI false", key: "CI", value: "false", want: false},
		{name: "generic CI zero", key: "CI", value: "0", want: false},
		{name: "generic CI no", key: "CI", value: "no", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCIEnv(t)
			t.Setenv(tt.key, tt.value)

			assert.Equal(t, tt.want, NewDetector(Options{}).IsCIEnvironment())
		})
	}
}

func TestIsInteractive_CIWins(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("CI", "true")

	assert.False(t, NewDetector(Options{}).IsInteractive())
}
