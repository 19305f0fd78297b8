package commands_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/temirov/cpai/internal/commands"
	"github.com/temirov/cpai/internal/types"
)

const soliditySource = "contract Vault {\n    function deposit(uint256 amount) public {}\n}\n"

func candidatesFor(rootDirectory string, relativePaths ...string) func(func(types.CandidateFile) bool) {
	return func(yield func(types.CandidateFile) bool) {
		for _, relativePath := range relativePaths {
			candidate := types.CandidateFile{
				AbsolutePath: filepath.Join(rootDirectory, filepath.FromSlash(relativePath)),
				RelativePath: relativePath,
				DisplayPath:  relativePath,
			}
			if !yield(candidate) {
				return
			}
		}
	}
}

func TestBuildDocumentContentMode(testingHandle *testing.T) {
	rootDirectory := resolvedTempDir(testingHandle)
	writeTree(testingHandle, rootDirectory, map[string]string{
		"src/app.js": "console.log('hi')",
		"empty.py":   "",
		"image.png":  "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR",
	})

	document, buildError := commands.BuildDocument(context.Background(), candidatesFor(rootDirectory, "empty.py", "image.png", "missing.js", "src/app.js"), commands.DocumentOptions{Concurrency: 2})
	if buildError != nil {
		testingHandle.Fatalf("BuildDocument error: %v", buildError)
	}
	if document.Mode != types.ModeContent {
		testingHandle.Fatalf("expected content mode, got %q", document.Mode)
	}

	var paths []string
	for _, fileOutput := range document.Files {
		paths = append(paths, fileOutput.Path)
	}
	if !slices.Equal(paths, []string{"empty.py", "image.png", "src/app.js"}) {
		testingHandle.Fatalf("unexpected file order %v", paths)
	}

	emptyFile := document.Files[0]
	if emptyFile.Type != types.NodeTypeFile || emptyFile.Content != "" || emptyFile.Extension != "py" {
		testingHandle.Fatalf("unexpected empty file output %+v", emptyFile)
	}
	binaryFile := document.Files[1]
	if binaryFile.Type != types.NodeTypeBinary || binaryFile.Content != "" || binaryFile.MimeType != "image/png" {
		testingHandle.Fatalf("unexpected binary file output %+v", binaryFile)
	}
	textFile := document.Files[2]
	if textFile.Content != "console.log('hi')" || textFile.Extension != "js" {
		testingHandle.Fatalf("unexpected text file output %+v", textFile)
	}

	if document.Tree == nil || len(document.Tree.Children) != 3 {
		testingHandle.Fatalf("expected three top-level tree entries, got %+v", document.Tree)
	}
}

func TestBuildDocumentOutlineMode(testingHandle *testing.T) {
	rootDirectory := resolvedTempDir(testingHandle)
	writeTree(testingHandle, rootDirectory, map[string]string{
		"Vault.sol": soliditySource,
		"README.md": "# Readme",
	})

	document, buildError := commands.BuildDocument(context.Background(), candidatesFor(rootDirectory, "README.md", "Vault.sol"), commands.DocumentOptions{Mode: types.ModeOutline})
	if buildError != nil {
		testingHandle.Fatalf("BuildDocument error: %v", buildError)
	}
	if len(document.Files) != 2 {
		testingHandle.Fatalf("expected 2 files, got %d", len(document.Files))
	}
	readme := document.Files[0]
	if readme.Content != "" || len(readme.Outline) != 0 {
		testingHandle.Fatalf("unsupported language should have no outline or content: %+v", readme)
	}
	vault := document.Files[1]
	if vault.Content != "" {
		testingHandle.Fatalf("outline mode must not carry content")
	}
	if len(vault.Outline) != 2 || vault.Outline[0].Name != "Vault" || vault.Outline[1].Name != "deposit" {
		testingHandle.Fatalf("unexpected outline %+v", vault.Outline)
	}
}

func TestBuildDocumentCountsTokens(testingHandle *testing.T) {
	rootDirectory := resolvedTempDir(testingHandle)
	writeTree(testingHandle, rootDirectory, map[string]string{"a.js": "abcd"})

	document, buildError := commands.BuildDocument(context.Background(), candidatesFor(rootDirectory, "a.js"), commands.DocumentOptions{TokenCounter: runeCounter{}})
	if buildError != nil {
		testingHandle.Fatalf("BuildDocument error: %v", buildError)
	}
	if document.Files[0].Tokens != 4 {
		testingHandle.Fatalf("expected 4 tokens, got %d", document.Files[0].Tokens)
	}
}

func TestBuildDocumentHonorsCancellation(testingHandle *testing.T) {
	rootDirectory := resolvedTempDir(testingHandle)
	writeTree(testingHandle, rootDirectory, map[string]string{"a.js": "a"})
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	if _, buildError := commands.BuildDocument(cancelledContext, candidatesFor(rootDirectory, "a.js"), commands.DocumentOptions{}); buildError == nil {
		testingHandle.Fatalf("expected cancellation error")
	}
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }
