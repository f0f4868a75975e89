package stringobf

import "github.com/Tim1512/Bashfuscator/internal/mutator"

// Register adds every string mutator to reg. digestBinary selects the digest
// the hex_hash mutator builds its payloads around (see DigestBinaries).
func Register(reg *mutator.Registry, digestBinary string) error {
	hexHash, err := NewHexHashWithBinary(digestBinary)
	if err != nil {
		return err
	}

	for _, m := range []mutator.Mutator{
		NewFileGlob(),
		NewFolderGlob(),
		hexHash,
		NewXorNonNull(),
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}
