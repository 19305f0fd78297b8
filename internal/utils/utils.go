// Package utils contains general helper functions used across cpai.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's own ignore file.
	IgnoreFileName = ".cpaiignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// NegationPrefix marks ignore file lines that re-include paths.
	NegationPrefix = "!"
	// ConfigFileName is the project configuration file looked up in the working directory.
	ConfigFileName = "cpai.config.json"
	// DefaultOutputFileName is written when the file flag is given without a name.
	DefaultOutputFileName = "output-cpai.md"
)

const (
	pathSegmentSeparator = "/"
	parentDirectoryMark  = ".."
)

// DeduplicatePatterns removes duplicate and blank patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == EmptyString {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the slash separated relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// DisplayPath returns absolutePath relative to workingDirectory when it lies
// beneath it, and the slash separated absolute path otherwise.
func DisplayPath(absolutePath string, workingDirectory string) string {
	relativePath := RelativePathOrSelf(absolutePath, workingDirectory)
	if relativePath == parentDirectoryMark || strings.HasPrefix(relativePath, parentDirectoryMark+pathSegmentSeparator) || filepath.IsAbs(relativePath) {
		return filepath.ToSlash(filepath.Clean(absolutePath))
	}
	return relativePath
}
