package randomness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_SameSeedSameSequence(t *testing.T) {
	a := NewProvider(42)
	b := NewProvider(42)

	for range 32 {
		assert.Equal(t, a.RandomString(1, 16), b.RandomString(1, 16))
	}
	assert.Equal(t, a.UniqueString(), b.UniqueString())
	assert.Equal(t, a.VarName(), b.VarName())
}

func TestNewProvider_DifferentSeedsDiverge(t *testing.T) {
	a := NewProvider(1)
	b := NewProvider(2)

	assert.NotEqual(t, a.RandomString(16, 16), b.RandomString(16, 16))
}

func TestRandomString_LengthAndCharset(t *testing.T) {
	p := NewProvider(7)

	for range 100 {
		s := p.RandomString(3, 9)
		assert.GreaterOrEqual(t, len(s), 3)
		assert.LessOrEqual(t, len(s), 9)
		for i := 0; i < len(s); i++ {
			assert.Contains(t, AllowedChars, string(s[i]))
		}
	}
}

func TestRandomString_FixedLength(t *testing.T) {
	p := NewProvider(7)

	s := p.RandomString(5, 5)
	assert.Len(t, s, 5)
}

func TestChoice_MemberOfSet(t *testing.T) {
	p := NewProvider(11)
	set := "xyz"

	for range 50 {
		c := p.Choice(set)
		assert.Contains(t, set, string(c))
	}
}

func TestUniqueString_NeverRepeats(t *testing.T) {
	p := NewProvider(3)
	seen := make(map[string]struct{})

	for range 1000 {
		s := p.UniqueString()
		_, dup := seen[s]
		require.False(t, dup, "unique string %q repeated", s)
		seen[s] = struct{}{}

		assert.Equal(t, strings.ToLower(s), s, "unique strings must be lowercase")
		assert.NotContains(t, s, "END")
		assert.NotContains(t, s, "DATA")
	}
}

func TestVarName_ValidBashIdentifier(t *testing.T) {
	p := NewProvider(5)
	seen := make(map[string]struct{})

	for range 500 {
		name := p.VarName()
		_, dup := seen[name]
		require.False(t, dup, "variable name %q repeated", name)
		seen[name] = struct{}{}

		require.NotEmpty(t, name)
		assert.Contains(t, varNameHead, string(name[0]), "first character must be a letter")
		for i := 1; i < len(name); i++ {
			assert.Contains(t, varNameTail, string(name[i]))
		}
	}
}
