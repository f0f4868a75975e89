package stringobf

import (
	"fmt"

	"github.com/Tim1512/Bashfuscator/internal/common"
	"github.com/Tim1512/Bashfuscator/internal/mangler"
	"github.com/Tim1512/Bashfuscator/internal/mutator"
	"github.com/Tim1512/Bashfuscator/internal/randomness"
)

// XorNonNull encodes the whole command with a repeating-key XOR cipher whose
// key is chosen so that no cipher byte is ever zero, then emits a bash loop
// that decodes it one byte at a time through perl's xor operator.
type XorNonNull struct{}

// NewXorNonNull creates the stream-cipher mutator.
func NewXorNonNull() *XorNonNull {
	return &XorNonNull{}
}

// Spec returns the mutator metadata.
func (x *XorNonNull) Spec() mutator.Spec {
	return mutator.Spec{
		Name:        "xor_non_null",
		Description: "Uses the xor operator in perl to encode strings",
		SizeRating:  mutator.MaxRating,
		TimeRating:  mutator.MaxRating,
		Binaries:    []string{"perl"},
		Notes:       "May contain non-printable ascii characters",
		Credits:     "Elijah-Barker",
	}
}

// initialKeyLen derives the starting key length from the size preference:
// pref 3 uses one key byte per command byte for maximal obfuscation.
func initialKeyLen(sizePref int, commandLen int) (int, error) {
	switch sizePref {
	case 1:
		return commandLen/100 + 1, nil
	case 2:
		return commandLen/10 + 1, nil
	case 3:
		return commandLen, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSizePref, sizePref)
	}
}

// tryGenerateKey draws a random key of length keyLen and repairs it so that
// no key byte collides with any command byte at its stride (positions i,
// i+keyLen, i+2*keyLen, ...). A collision would XOR to a null byte, which
// bash strings cannot carry. Returns nil when some stride exhausts the whole
// allowed set, meaning no valid key of this length exists.
func tryGenerateKey(rand *randomness.Provider, command string, keyLen int) []byte {
	key := []byte(rand.RandomString(keyLen, keyLen))
	allowed := rand.AllowedSet()

	for i := range key {
		stride := make(map[byte]struct{})
		for j := i; j < len(command); j += keyLen {
			stride[command[j]] = struct{}{}
		}
		if _, collides := stride[key[i]]; !collides {
			continue
		}

		var candidates []byte
		for k := 0; k < len(allowed); k++ {
			if _, taken := stride[allowed[k]]; !taken {
				candidates = append(candidates, allowed[k])
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		key[i] = candidates[rand.Intn(len(candidates))]
	}

	return key
}

// generateKey retries tryGenerateKey with monotonically increasing lengths
// until one succeeds or the attempt budget runs out.
func generateKey(ctx *mutator.Context, command string, keyLen int) ([]byte, error) {
	attempt := 0
	key, err := common.Search(ctx.AttemptBudget(),
		func() []byte {
			k := tryGenerateKey(ctx.Rand, command, keyLen+attempt)
			attempt++
			return k
		},
		func(k []byte) bool { return k != nil })
	if err != nil {
		return nil, fmt.Errorf("%w: no null-byte-safe key up to length %d: %w",
			ErrKeyGenerationExhausted, keyLen+attempt-1, err)
	}
	return key, nil
}

// Mutate encodes command as cipher text plus a generated runtime decoder.
// Correctness rests on the decode loop mirroring the encode indexing exactly:
// cipher[i] XOR key[i mod len(key)] for every i.
func (x *XorNonNull) Mutate(ctx *mutator.Context, command string) (string, error) {
	if err := mutator.ValidateCommand(command); err != nil {
		return "", err
	}
	if command == "" {
		return "", mutator.ErrEmptyCommand
	}

	keyLen, err := initialKeyLen(ctx.SizePref, len(command))
	if err != nil {
		return "", err
	}
	key, err := generateKey(ctx, command, keyLen)
	if err != nil {
		return "", err
	}

	cipher := make([]byte, len(command))
	for i := 0; i < len(command); i++ {
		cipher[i] = command[i] ^ key[i%len(key)]
		if cipher[i] == 0 {
			return "", fmt.Errorf("%w: key produced a null cipher byte at offset %d",
				ErrKeyGenerationExhausted, i)
		}
	}

	cmdVar := ctx.Rand.VarName()
	keyVar := ctx.Rand.VarName()
	cmdCharVar := ctx.Rand.VarName()
	keyCharVar := ctx.Rand.VarName()
	iterVar := ctx.Rand.VarName()

	mg := ctx.NewMangler()
	mg.AppendLinesShuffled([]mangler.Line{
		{Template: "? ?" + cmdVar + "='DATA'* *END0", Data: mangler.EscapeQuotes(string(cipher))},
		{Template: "? ?" + keyVar + "='DATA'* *END0", Data: mangler.EscapeQuotes(string(key))},
	})

	mg.AppendLine("? ?for^ ^((* *" + iterVar + "=0* *;* *" + iterVar + "* *<* *${#" + cmdVar + "}* *;* *" + iterVar + "* *++* *))? ?END")
	mg.AppendLine("? ?do^ ^" + cmdCharVar + `="${` + cmdVar + ":$" + iterVar + `:1? ?}"* *END0`)
	mg.AppendLine("? ?" + keyCharVar + `="$((* *` + iterVar + "* *%* *${#" + keyVar + `}* *))"* *END0`)
	mg.AppendLine("? ?" + keyCharVar + `="${` + keyVar + ":$" + keyCharVar + `:1}"* *END0`)

	// The decode loop hands each character to perl inside single quotes; a
	// raw single quote or backslash would break that quoting, so both are
	// swapped for escaped literals first.
	mg.AppendLinesShuffled([]mangler.Line{
		{Template: `? ?[[^ ^"$` + cmdCharVar + `"^ ^==^ ^"'"^ ^]]? ?&&? ?` + cmdCharVar + `="\\'"* *END`},
		{Template: `? ?[[^ ^"$` + keyCharVar + `"^ ^==^ ^"'"^ ^]]? ?&&? ?` + keyCharVar + `="\\'"* *END`},
		{Template: `? ?[[^ ^"$` + cmdCharVar + `"^ ^==^ ^"\\"^ ^]]? ?&&? ?` + cmdCharVar + `='\\'* *END`},
		{Template: `? ?[[^ ^"$` + keyCharVar + `"^ ^==^ ^"\\"^ ^]]? ?&&? ?` + keyCharVar + `='\\'* *END`},
	})

	mg.AppendLine(`? ?:perl:^ ^-e^ ^"? ?print^ ^'$` + cmdCharVar + `'? ?^? ?'$` + keyCharVar + `'? ?"* *END`)
	mg.AppendLine("? ?done? ?END0")

	return mg.Finalize(), nil
}
