package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/commands"
	"github.com/temirov/cpai/internal/config"
	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

type recordingCopier struct {
	parts []string
	err   error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.err != nil {
		return copier.err
	}
	copier.parts = append(copier.parts, text)
	return nil
}

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func writeProjectFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

func newSampleProject(t *testing.T) string {
	t.Helper()
	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, "main.py", "print('hello')\n")
	writeProjectFile(t, projectDirectory, "src/app.js", "export const answer = 42;\n")
	writeProjectFile(t, projectDirectory, "src/app.test.js", "test('answer')\n")
	writeProjectFile(t, projectDirectory, "node_modules/dep/index.js", "module.exports = {}\n")
	writeProjectFile(t, projectDirectory, "package.json", "{}\n")
	return projectDirectory
}

func executeCommand(t *testing.T, workingDirectory string, copier *recordingCopier, interactive bool, stdin string, arguments ...string) commandResult {
	t.Helper()
	t.Chdir(workingDirectory)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	app := &application{
		stdin:            strings.NewReader(stdin),
		stdout:           &stdout,
		stderr:           &stderr,
		copier:           copier,
		interactive:      func() bool { return interactive },
		workingDirectory: workingDirectory,
	}
	app.logger = zap.NewNop()
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeArguments(rootCommand, arguments))
	err := rootCommand.Execute()
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCommandWritesContentToStandardOutput(t *testing.T) {
	projectDirectory := newSampleProject(t)
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "-n")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "## Directory Structure\n```\n./\n") {
		t.Fatalf("unexpected output start:\n%s", result.stdout)
	}
	for _, expected := range []string{"\n## main.py\n```py\nprint('hello')\n\n```\n", "\n## src/app.js\n```js\n"} {
		if !strings.Contains(result.stdout, expected) {
			t.Fatalf("expected %q in output:\n%s", expected, result.stdout)
		}
	}
	for _, unexpected := range []string{"node_modules", "app.test.js", "package.json"} {
		if strings.Contains(result.stdout, unexpected) {
			t.Fatalf("did not expect %q in output:\n%s", unexpected, result.stdout)
		}
	}
	if !strings.Contains(result.stderr, "Summary: 2 files") {
		t.Fatalf("expected summary on stderr, got %q", result.stderr)
	}
}

func TestRootCommandHonorsIncludeAndConfigFlags(t *testing.T) {
	projectDirectory := newSampleProject(t)
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "-n", "-c", "-i", "**/*.test.js", "-x", "main.py")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	for _, expected := range []string{"## package.json", "## src/app.test.js", "## src/app.js"} {
		if !strings.Contains(result.stdout, expected) {
			t.Fatalf("expected %q in output:\n%s", expected, result.stdout)
		}
	}
	if strings.Contains(result.stdout, "## main.py") {
		t.Fatalf("main.py must be excluded:\n%s", result.stdout)
	}
}

func TestRootCommandAppliesConfigurationFile(t *testing.T) {
	projectDirectory := newSampleProject(t)
	writeProjectFile(t, projectDirectory, utils.ConfigFileName, `{"include": ["src"], "usePastebin": false, "format": "json"}`)
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	var document types.Document
	if err := json.Unmarshal([]byte(result.stdout), &document); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, result.stdout)
	}
	if len(document.Files) != 1 || document.Files[0].Path != "src/app.js" {
		t.Fatalf("unexpected files %+v", document.Files)
	}
}

func TestRootCommandWritesOutlineFile(t *testing.T) {
	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, "Token.sol", "contract Token {\n    function transfer(address to) public returns (bool) {\n        return true;\n    }\n}\n")
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "--tree", "-n", "-f")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	if result.stdout != "" {
		t.Fatalf("file output must not be echoed to stdout, got %q", result.stdout)
	}
	written, readErr := os.ReadFile(filepath.Join(projectDirectory, utils.DefaultOutputFileName))
	if readErr != nil {
		t.Fatalf("read output file: %v", readErr)
	}
	expectedSection := "\n## Token.sol\n```sol\nclass Token\n  method transfer(address to): bool\n```\n"
	if !strings.Contains(string(written), expectedSection) {
		t.Fatalf("expected outline section %q in:\n%s", expectedSection, written)
	}
	if strings.Contains(string(written), "return true") {
		t.Fatalf("outline must not contain file content")
	}
}

func TestRootCommandCopiesChunksInteractively(t *testing.T) {
	projectDirectory := newSampleProject(t)
	copier := &recordingCopier{}
	result := executeCommand(t, projectDirectory, copier, true, "\n\n\n\n\n\n\n\n", "--chunk-size", "40")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	if len(copier.parts) < 2 {
		t.Fatalf("expected several clipboard parts, got %d", len(copier.parts))
	}
	if strings.HasPrefix(copier.parts[0], "------") || !strings.HasPrefix(copier.parts[1], "------ 40 character chunk split ------") {
		t.Fatalf("unexpected part prefixes %q", copier.parts[:2])
	}
	if !strings.Contains(result.stderr, "Press Enter when ready for the next part...") {
		t.Fatalf("expected prompt on stderr, got %q", result.stderr)
	}
	if !strings.Contains(result.stderr, "exceeds the chunk size (40 characters)") {
		t.Fatalf("expected chunk warning, got %q", result.stderr)
	}
	if result.stdout != "" {
		t.Fatalf("clipboard output must not be echoed to stdout")
	}
}

func TestRootCommandCopiesOnceWithoutTerminal(t *testing.T) {
	projectDirectory := newSampleProject(t)
	copier := &recordingCopier{}
	result := executeCommand(t, projectDirectory, copier, false, "", "--chunk-size", "40")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	if len(copier.parts) != 1 || !strings.Contains(copier.parts[0], "------ 40 character chunk split ------") {
		t.Fatalf("expected a single joined part, got %d parts", len(copier.parts))
	}
}

func TestRootCommandFallsBackToStandardOutputWhenClipboardFails(t *testing.T) {
	projectDirectory := newSampleProject(t)
	copier := &recordingCopier{err: errors.New("no clipboard")}
	result := executeCommand(t, projectDirectory, copier, false, "")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	if !strings.Contains(result.stdout, "## main.py") {
		t.Fatalf("expected document on stdout, got %q", result.stdout)
	}
}

func TestRootCommandReportsEmptySelection(t *testing.T) {
	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, "image.bin", "\x00\x01")
	copier := &recordingCopier{}
	result := executeCommand(t, projectDirectory, copier, false, "")
	if result.err != nil {
		t.Fatalf("empty selection must not fail: %v", result.err)
	}
	if !strings.Contains(result.stderr, "No files found to process") || !strings.Contains(result.stderr, "Summary: 0 files") {
		t.Fatalf("unexpected stderr %q", result.stderr)
	}
	if len(copier.parts) != 0 {
		t.Fatalf("nothing must be copied")
	}
}

func TestRootCommandRejectsInvalidOptions(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expectedErr error
	}{
		{name: "zero_chunk_size", arguments: []string{"--chunk-size", "0"}, expectedErr: config.ErrInvalidChunkSize},
		{name: "unknown_format", arguments: []string{"--format", "xml"}, expectedErr: config.ErrUnsupportedFormat},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := executeCommand(t, newSampleProject(t), &recordingCopier{}, false, "", testCase.arguments...)
			var configurationError *config.ConfigurationError
			if !errors.As(result.err, &configurationError) || !errors.Is(result.err, testCase.expectedErr) {
				t.Fatalf("expected %v, got %v", testCase.expectedErr, result.err)
			}
		})
	}
}

func TestRootCommandFailsWithoutUsableRoots(t *testing.T) {
	projectDirectory := newSampleProject(t)
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "missing-directory")
	var pathError *commands.PathError
	if !errors.As(result.err, &pathError) || !errors.Is(result.err, commands.ErrNoUsableRoots) {
		t.Fatalf("expected PathError, got %v", result.err)
	}

	partial := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "-n", "missing-directory", "main.py")
	if partial.err != nil {
		t.Fatalf("a remaining root must keep the run going: %v", partial.err)
	}
	if !strings.Contains(partial.stdout, "## main.py") {
		t.Fatalf("expected main.py in output:\n%s", partial.stdout)
	}
}

func TestRootCommandKeepsExplicitFilesUnderDefaultExcludes(t *testing.T) {
	projectDirectory := newSampleProject(t)
	writeProjectFile(t, projectDirectory, "tests/unit/a.py", "assert True\n")
	result := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "-n", "tests/unit/a.py", "src/app.test.js")
	if result.err != nil {
		t.Fatalf("command failed: %v", result.err)
	}
	for _, expected := range []string{"## tests/unit/a.py", "## src/app.test.js"} {
		if !strings.Contains(result.stdout, expected) {
			t.Fatalf("expected %q in output:\n%s", expected, result.stdout)
		}
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	projectDirectory := t.TempDir()
	first := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "init")
	if first.err != nil {
		t.Fatalf("init failed: %v", first.err)
	}
	if _, statErr := os.Stat(filepath.Join(projectDirectory, utils.ConfigFileName)); statErr != nil {
		t.Fatalf("expected configuration file: %v", statErr)
	}
	if second := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "init"); second.err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	if forced := executeCommand(t, projectDirectory, &recordingCopier{}, false, "", "init", "--force"); forced.err != nil {
		t.Fatalf("forced init failed: %v", forced.err)
	}
}
