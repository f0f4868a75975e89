package stringobf

import (
	"math/bits"
	"strings"

	"github.com/Tim1512/Bashfuscator/internal/mangler"
	"github.com/Tim1512/Bashfuscator/internal/mutator"
)

// zeroDigitChar encodes binary digit '0' in chunk file names. Under bash
// globbing '?' matches exactly one arbitrary character, so a wildcard of the
// index width reads every chunk file back. The character for digit '1' is
// drawn from oneDigitChars, all of which sort strictly after '?' (0x3F) in
// byte order; together these make lexicographic glob expansion order equal
// numeric chunk order.
const zeroDigitChar = '?'

const oneDigitChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var globBinaries = []string{"cat", "mkdir", "printf", "rm", "rmdir"}

// indexWidth returns the file name width for chunkCount chunks:
// max(1, ceil(log2(chunkCount))).
func indexWidth(chunkCount int) int {
	if chunkCount <= 2 {
		return 1
	}
	return bits.Len(uint(chunkCount - 1))
}

// indexPattern renders a chunk index as a file name of the given width,
// mapping digit '0' to the glob wildcard and digit '1' to oneChar.
func indexPattern(index, width int, oneChar byte) string {
	name := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		if index&1 == 1 {
			name[i] = oneChar
		} else {
			name[i] = zeroDigitChar
		}
		index >>= 1
	}
	return string(name)
}

// stageChunks emits the lines that write command's chunks into workingDir and
// read them back in order: mkdir, one shuffled printf per chunk, a single
// wildcard cat sized to the index width, and the matching rm. The caller is
// responsible for removing workingDir itself. An empty command still creates
// the directory but stages nothing.
func stageChunks(ctx *mutator.Context, mg *mangler.Mangler, command, workingDir string, sectionSize int) {
	mg.AppendLine("* *:mkdir:^ ^-p^ ^'" + workingDir + "'* *END0")

	chunks := splitChunks(command, sectionSize)
	if len(chunks) == 0 {
		return
	}

	width := indexWidth(len(chunks))
	oneChar := ctx.Rand.Choice(oneDigitChars)

	lines := make([]mangler.Line, 0, len(chunks))
	for i, chunk := range chunks {
		name := indexPattern(i, width, oneChar)
		lines = append(lines, mangler.Line{
			Template: "* *:printf:^ ^%s^ ^'DATA'? ?>? ?'" + workingDir + "/" + name + "'* *END0",
			Data:     mangler.EscapeQuotes(chunk),
		})
	}
	mg.AppendLinesShuffled(lines)

	wildcard := strings.Repeat(string(zeroDigitChar), width)
	mg.AppendLine("* *:cat:^ ^'" + workingDir + "'/" + wildcard + "* *END0")
	mg.AppendLine("* *:rm:^ ^'" + workingDir + "'/" + wildcard + "* *END0")
}

// FileGlob reassembles a command from chunk files staged in a single
// throwaway directory, relying on sorted wildcard expansion for ordering.
type FileGlob struct{}

// NewFileGlob creates the flat glob mutator.
func NewFileGlob() *FileGlob {
	return &FileGlob{}
}

// Spec returns the mutator metadata.
func (f *FileGlob) Spec() mutator.Spec {
	return mutator.Spec{
		Name:        "file_glob",
		Description: "Uses files and glob sorting to reassemble a string",
		SizeRating:  mutator.MaxRating,
		TimeRating:  mutator.MaxRating,
		Binaries:    globBinaries,
		FileWrite:   true,
		Credits:     "Elijah-Barker",
	}
}

// Mutate encodes command as a staged chunk-file payload.
func (f *FileGlob) Mutate(ctx *mutator.Context, command string) (string, error) {
	if err := mutator.ValidateCommand(command); err != nil {
		return "", err
	}
	d, err := newEncodingDirective(ctx, command)
	if err != nil {
		return "", err
	}

	mg := ctx.NewMangler()
	stageChunks(ctx, mg, command, d.startingDir, d.sectionSize)
	mg.AppendLine("* *:rmdir:^ ^'" + d.startingDir + "'END0* *")

	return mg.Finalize(), nil
}

// FolderGlob applies the chunk-file scheme once more per top-level chunk,
// staging each one in its own uniquely named subdirectory. More directory
// churn, harder artifact to signature.
type FolderGlob struct{}

// NewFolderGlob creates the nested glob mutator.
func NewFolderGlob() *FolderGlob {
	return &FolderGlob{}
}

// Spec returns the mutator metadata.
func (f *FolderGlob) Spec() mutator.Spec {
	return mutator.Spec{
		Name:        "folder_glob",
		Description: "Same as file glob, but split across nested directories",
		SizeRating:  mutator.MaxRating,
		TimeRating:  mutator.MaxRating,
		Binaries:    globBinaries,
		FileWrite:   true,
		Credits:     "Elijah-Barker",
	}
}

// Mutate encodes command as per-chunk staged subdirectories under one
// starting directory.
func (f *FolderGlob) Mutate(ctx *mutator.Context, command string) (string, error) {
	if err := mutator.ValidateCommand(command); err != nil {
		return "", err
	}
	d, err := newEncodingDirective(ctx, command)
	if err != nil {
		return "", err
	}

	mg := ctx.NewMangler()
	mg.AppendLine("* *:mkdir:^ ^-p^ ^'" + d.startingDir + "'* *END0")

	for _, chunk := range splitChunks(command, d.sectionSize) {
		workingDir := d.startingDir + "/" + mangler.EscapeQuotes(ctx.Rand.UniqueString())
		stageChunks(ctx, mg, chunk, workingDir, d.sectionSize)
		mg.AppendLine("* *:rmdir:^ ^'" + workingDir + "'END0")
	}

	mg.AppendLine("* *:rmdir:^ ^'" + d.startingDir + "'END0* *")

	return mg.Finalize(), nil
}
