// Package filter decides which files take part in a run.
package filter

import (
	"path"
	"strings"
)

const (
	pathSegmentSeparator = "/"
	recursiveWildcard    = "**"
	currentDirectoryMark = "./"
	globMetacharacters   = "*?["
)

// MatchesPattern reports whether a relative path matches a glob-style pattern.
//
// A pattern ending in "/" matches any path containing that directory as a
// run of segments. "**" matches zero or more whole segments and "*" matches
// within a segment. A pattern without a slash is also tried against the base
// name, so "*.log" and "package.json" match at any depth. Empty patterns never
// match and comparison is case-sensitive.
func MatchesPattern(relativePath string, pattern string) bool {
	normalizedPattern := normalizePattern(pattern)
	if normalizedPattern == "" {
		return false
	}
	normalizedPath := normalizePath(relativePath)
	if normalizedPath == "" {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	if strings.HasSuffix(normalizedPattern, pathSegmentSeparator) {
		directoryName := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if directoryName == "" {
			return false
		}
		return containsSegmentRun(pathSegments, strings.Split(directoryName, pathSegmentSeparator))
	}

	if !strings.ContainsAny(normalizedPattern, globMetacharacters) {
		return normalizedPath == normalizedPattern || path.Base(normalizedPath) == normalizedPattern
	}

	patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
	if len(patternSegments) == 1 {
		return matchSegment(pathSegments[len(pathSegments)-1], normalizedPattern) || matchSegments(pathSegments, patternSegments)
	}
	return matchSegments(pathSegments, patternSegments)
}

// CouldMatchBeneath reports whether the pattern might match some path located
// below relativeDirectory. The answer errs on the side of true.
func CouldMatchBeneath(relativeDirectory string, pattern string) bool {
	normalizedPattern := normalizePattern(pattern)
	if normalizedPattern == "" {
		return false
	}
	trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
	if strings.HasSuffix(normalizedPattern, pathSegmentSeparator) || !strings.Contains(trimmedPattern, pathSegmentSeparator) {
		return true
	}
	normalizedDirectory := normalizePath(relativeDirectory)
	if normalizedDirectory == "" {
		return true
	}
	directorySegments := strings.Split(normalizedDirectory, pathSegmentSeparator)
	patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)
	for segmentIndex, directorySegment := range directorySegments {
		if segmentIndex >= len(patternSegments) {
			return false
		}
		patternSegment := patternSegments[segmentIndex]
		if patternSegment == recursiveWildcard {
			return true
		}
		if !matchSegment(directorySegment, patternSegment) {
			return false
		}
	}
	return len(patternSegments) > len(directorySegments)
}

// CoversDirectory reports whether the pattern matches every path below
// relativeDirectory. Only directory patterns ("name/") and patterns ending in
// "/**" can cover a directory; a pattern that happens to match the directory
// name itself says nothing about the files inside it.
func CoversDirectory(relativeDirectory string, pattern string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedDirectory := normalizePath(relativeDirectory)
	if normalizedPattern == "" || normalizedDirectory == "" {
		return false
	}
	if strings.HasSuffix(normalizedPattern, pathSegmentSeparator) {
		return MatchesPattern(normalizedDirectory, normalizedPattern)
	}
	patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
	if len(patternSegments) < 2 || patternSegments[len(patternSegments)-1] != recursiveWildcard {
		return false
	}
	return matchSegments(strings.Split(normalizedDirectory, pathSegmentSeparator), patternSegments[:len(patternSegments)-1])
}

func normalizePath(relativePath string) string {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	for strings.HasPrefix(normalizedPath, currentDirectoryMark) {
		normalizedPath = strings.TrimPrefix(normalizedPath, currentDirectoryMark)
	}
	normalizedPath = strings.Trim(normalizedPath, pathSegmentSeparator)
	if normalizedPath == "." {
		return ""
	}
	return normalizedPath
}

func normalizePattern(pattern string) string {
	normalizedPattern := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", pathSegmentSeparator)
	for strings.HasPrefix(normalizedPattern, currentDirectoryMark) {
		normalizedPattern = strings.TrimPrefix(normalizedPattern, currentDirectoryMark)
	}
	return strings.TrimPrefix(normalizedPattern, pathSegmentSeparator)
}

// matchSegments matches path segments against pattern segments where a "**"
// segment consumes zero or more path segments.
func matchSegments(pathSegments []string, patternSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	headPattern := patternSegments[0]
	if headPattern == recursiveWildcard {
		for skippedSegments := 0; skippedSegments <= len(pathSegments); skippedSegments++ {
			if matchSegments(pathSegments[skippedSegments:], patternSegments[1:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 || !matchSegment(pathSegments[0], headPattern) {
		return false
	}
	return matchSegments(pathSegments[1:], patternSegments[1:])
}

// matchSegment applies glob matching to a single segment. Malformed glob
// syntax degrades to literal comparison.
func matchSegment(segment string, patternSegment string) bool {
	if patternSegment == recursiveWildcard {
		return true
	}
	isMatched, matchError := path.Match(patternSegment, segment)
	if matchError != nil {
		return segment == patternSegment
	}
	return isMatched
}

func containsSegmentRun(pathSegments []string, directorySegments []string) bool {
	for startIndex := 0; startIndex+len(directorySegments) <= len(pathSegments); startIndex++ {
		runMatches := true
		for offset, directorySegment := range directorySegments {
			if !matchSegment(pathSegments[startIndex+offset], directorySegment) {
				runMatches = false
				break
			}
		}
		if runMatches {
			return true
		}
	}
	return false
}
