package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/cpai/internal/filter"
	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

const (
	ignoreCommentPrefix     = "#"
	anchoredPatternPrefix   = "/"
	directoryPatternSuffix  = "/"
	pathSegmentSeparator    = "/"
	anyDepthPrefix          = "**/"
	everythingBeneathSuffix = "/**"
	loadIgnoreFileFormat    = "loading %s from %s: %w"
)

// IgnoreRules are the patterns collected from ignore files. Plain lines
// exclude paths and lines starting with "!" re-include them.
type IgnoreRules struct {
	ExcludePatterns []string
	IncludePatterns []string
}

// LoadIgnoreFilePatterns reads one ignore file. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (IgnoreRules, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreRules{}, nil
		}
		return IgnoreRules{}, openFileError
	}
	defer fileHandle.Close()

	var rules IgnoreRules
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, ignoreCommentPrefix) {
			continue
		}
		if strings.HasPrefix(trimmedLine, utils.NegationPrefix) {
			negatedPattern := strings.TrimSpace(strings.TrimPrefix(trimmedLine, utils.NegationPrefix))
			if negatedPattern != "" {
				rules.IncludePatterns = append(rules.IncludePatterns, negatedPattern)
			}
			continue
		}
		rules.ExcludePatterns = append(rules.ExcludePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreRules{}, scanError
	}
	return rules, nil
}

// LoadRecursiveIgnoreRules walks rootDirectoryPath and aggregates the patterns
// of every utils.IgnoreFileName and utils.GitIgnoreFileName found. Patterns of
// a nested directory are scoped to that directory. Directories the base
// configuration prunes are not visited, and neither is the Git directory.
func LoadRecursiveIgnoreRules(rootDirectoryPath string, base types.FilterConfig) (IgnoreRules, error) {
	var aggregated IgnoreRules

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if directoryEntry != nil && directoryEntry.IsDir() && currentDirectoryPath != rootDirectoryPath {
				return filepath.SkipDir
			}
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		if relativeDirectory != "." && filter.ShouldPruneDirectory(relativeDirectory, base) {
			return filepath.SkipDir
		}

		for _, ignoreFileName := range []string{utils.GitIgnoreFileName, utils.IgnoreFileName} {
			rules, loadError := LoadIgnoreFilePatterns(filepath.Join(currentDirectoryPath, ignoreFileName))
			if loadError != nil {
				return fmt.Errorf(loadIgnoreFileFormat, ignoreFileName, currentDirectoryPath, loadError)
			}
			for _, pattern := range rules.ExcludePatterns {
				aggregated.ExcludePatterns = append(aggregated.ExcludePatterns, scopePattern(pattern, relativeDirectory))
			}
			for _, pattern := range rules.IncludePatterns {
				aggregated.IncludePatterns = append(aggregated.IncludePatterns, scopePattern(pattern, relativeDirectory))
			}
		}
		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return IgnoreRules{}, walkError
	}

	return IgnoreRules{
		ExcludePatterns: utils.DeduplicatePatterns(aggregated.ExcludePatterns),
		IncludePatterns: utils.DeduplicatePatterns(aggregated.IncludePatterns),
	}, nil
}

// ConfigForRoot extends base with the ignore file rules found beneath a
// directory root. File roots get base unchanged.
func ConfigForRoot(root types.ValidatedPath, base types.FilterConfig) (types.FilterConfig, error) {
	if !root.IsDir {
		return base, nil
	}
	rules, loadError := LoadRecursiveIgnoreRules(root.AbsolutePath, base)
	if loadError != nil {
		return base, loadError
	}
	if len(rules.ExcludePatterns) == 0 && len(rules.IncludePatterns) == 0 {
		return base, nil
	}
	extended := base
	extended.ExcludePatterns = utils.DeduplicatePatterns(append(append([]string(nil), base.ExcludePatterns...), rules.ExcludePatterns...))
	extended.IncludePatterns = utils.DeduplicatePatterns(append(append([]string(nil), base.IncludePatterns...), rules.IncludePatterns...))
	return extended, nil
}

// scopePattern rewrites a pattern read in relativeDirectory so it matches
// root-relative paths. Root patterns are kept except for a leading slash.
// Nested patterns without an inner slash match at any depth below their
// directory and directory patterns cover everything beneath.
func scopePattern(pattern string, relativeDirectory string) string {
	anchored := strings.HasPrefix(pattern, anchoredPatternPrefix)
	trimmedPattern := strings.TrimPrefix(pattern, anchoredPatternPrefix)
	if relativeDirectory == "." || relativeDirectory == "" {
		return trimmedPattern
	}
	isDirectoryPattern := strings.HasSuffix(trimmedPattern, directoryPatternSuffix)
	body := strings.TrimSuffix(trimmedPattern, directoryPatternSuffix)
	if !anchored && !strings.Contains(body, pathSegmentSeparator) {
		body = anyDepthPrefix + body
	}
	scoped := relativeDirectory + pathSegmentSeparator + body
	if isDirectoryPattern {
		scoped += everythingBeneathSuffix
	}
	return scoped
}
