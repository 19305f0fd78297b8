package config

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"testing"

	"github.com/temirov/cpai/internal/filter"
	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

// writeTestFile creates a file with the specified content, creating parent directories.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirErr := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirErr != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, makeDirErr)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func TestLoadIgnoreFilePatterns(testingHandle *testing.T) {
	ignoreFilePath := filepath.Join(testingHandle.TempDir(), utils.GitIgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# generated\n\ndist/\n*.log\n!important.log\n!\n")

	rules, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	if !slices.Equal(rules.ExcludePatterns, []string{"dist/", "*.log"}) {
		testingHandle.Fatalf("unexpected exclude patterns %v", rules.ExcludePatterns)
	}
	if !slices.Equal(rules.IncludePatterns, []string{"important.log"}) {
		testingHandle.Fatalf("unexpected include patterns %v", rules.IncludePatterns)
	}

	missingRules, missingError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), "absent"))
	if missingError != nil || len(missingRules.ExcludePatterns) != 0 || len(missingRules.IncludePatterns) != 0 {
		testingHandle.Fatalf("missing ignore file must yield no patterns, got %+v %v", missingRules, missingError)
	}
}

// TestLoadRecursiveIgnoreRulesScopesNestedPatterns verifies that patterns of nested ignore files are prefixed with their directory.
func TestLoadRecursiveIgnoreRulesScopesNestedPatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "/secret.js\nbuild/\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", utils.IgnoreFileName), "gen.js\ncache/\n/local/only.js\n!gen/keep.js\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "dep", utils.GitIgnoreFileName), "index.js\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitDirectoryName, utils.GitIgnoreFileName), "tracked.js\n")

	base := DefaultSettings().FilterConfig()
	rules, loadError := LoadRecursiveIgnoreRules(rootDirectory, base)
	if loadError != nil {
		testingHandle.Fatalf("LoadRecursiveIgnoreRules failed: %v", loadError)
	}

	excludePatterns := append([]string(nil), rules.ExcludePatterns...)
	sort.Strings(excludePatterns)
	expectedExcludes := []string{"build/", "pkg/**/cache/**", "pkg/**/gen.js", "pkg/local/only.js", "secret.js"}
	sort.Strings(expectedExcludes)
	if !slices.Equal(excludePatterns, expectedExcludes) {
		testingHandle.Fatalf("unexpected exclude patterns: got %v want %v", excludePatterns, expectedExcludes)
	}
	if !slices.Equal(rules.IncludePatterns, []string{"pkg/gen/keep.js"}) {
		testingHandle.Fatalf("unexpected include patterns %v", rules.IncludePatterns)
	}
}

func TestConfigForRootAppliesIgnoreFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "*.gen.ts\n!keep.gen.ts\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pkg", utils.GitIgnoreFileName), "fixtures/\n")

	base := DefaultSettings().FilterConfig()
	extended, configError := ConfigForRoot(types.ValidatedPath{AbsolutePath: rootDirectory, IsDir: true}, base)
	if configError != nil {
		testingHandle.Fatalf("ConfigForRoot failed: %v", configError)
	}

	testCases := []struct {
		relativePath string
		included     bool
	}{
		{relativePath: "src/api.gen.ts", included: false},
		{relativePath: "src/keep.gen.ts", included: true},
		{relativePath: "src/api.ts", included: true},
		{relativePath: "pkg/fixtures/data.ts", included: false},
		{relativePath: "pkg/deep/fixtures/data.ts", included: false},
		{relativePath: "fixtures/data.ts", included: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.relativePath, func(subTestHandle *testing.T) {
			candidate := types.CandidateFile{RelativePath: testCase.relativePath}
			if actual := filter.ShouldInclude(candidate, extended); actual != testCase.included {
				subTestHandle.Fatalf("expected included=%v, got %v", testCase.included, actual)
			}
		})
	}

	if len(base.ExcludePatterns) == len(extended.ExcludePatterns) {
		testingHandle.Fatalf("base configuration must not be modified in place")
	}
}

func TestConfigForRootFileRootKeepsBase(testingHandle *testing.T) {
	base := DefaultSettings().FilterConfig()
	extended, configError := ConfigForRoot(types.ValidatedPath{AbsolutePath: filepath.Join(testingHandle.TempDir(), "main.go")}, base)
	if configError != nil {
		testingHandle.Fatalf("ConfigForRoot failed: %v", configError)
	}
	if !slices.Equal(extended.ExcludePatterns, base.ExcludePatterns) {
		testingHandle.Fatalf("file roots must keep the base configuration")
	}
}
