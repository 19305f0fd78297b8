package filter

import (
	"path"
	"strings"

	"github.com/temirov/cpai/internal/types"
)

// configFileNames lists manifests, lockfiles and build descriptors matched by base name.
var configFileNames = map[string]struct{}{
	"package.json":      {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"tsconfig.json":     {},
	"jsconfig.json":     {},
	"pyproject.toml":    {},
	"setup.py":          {},
	"setup.cfg":         {},
	"requirements.txt":  {},
	"Pipfile":           {},
	"Pipfile.lock":      {},
	"poetry.lock":       {},
	"bower.json":        {},
	"composer.json":     {},
	"composer.lock":     {},
	"Cargo.toml":        {},
	"Cargo.lock":        {},
	"go.mod":            {},
	"go.sum":            {},
	"Gemfile":           {},
	"Gemfile.lock":      {},
	"Makefile":          {},
	"Dockerfile":        {},
	".gitlab-ci.yml":    {},
	".travis.yml":       {},
	"cpai.config.json":  {},
}

// configFilePatterns lists config files recognized by pattern rather than name.
var configFilePatterns = []string{
	"*.config.js",
	"*.config.ts",
	"*.config.mjs",
	"*.config.cjs",
	".github/workflows/",
	".circleci/",
}

// IsConfigFile reports whether the relative path names a build, package or CI configuration file.
func IsConfigFile(relativePath string) bool {
	baseName := path.Base(normalizePath(relativePath))
	if _, found := configFileNames[baseName]; found {
		return true
	}
	for _, pattern := range configFilePatterns {
		if MatchesPattern(relativePath, pattern) {
			return true
		}
	}
	return false
}

// ShouldInclude decides whether a candidate file takes part in the run.
// A path named by an include pattern is never dropped by an exclude pattern.
func ShouldInclude(candidate types.CandidateFile, filterConfig types.FilterConfig) bool {
	return shouldIncludePath(candidate.RelativePath, filterConfig, filterConfig.ExcludePatterns)
}

// ShouldIncludeFileRoot decides about a file named on the command line. The
// built-in default excludes do not apply to it; extensions, user patterns and
// the config file switch still do.
func ShouldIncludeFileRoot(candidate types.CandidateFile, filterConfig types.FilterConfig) bool {
	return shouldIncludePath(candidate.RelativePath, filterConfig, filterConfig.UserExcludePatterns())
}

func shouldIncludePath(relativePath string, filterConfig types.FilterConfig, excludePatterns []string) bool {
	if !filterConfig.IncludeAll && !filterConfig.HasExtension(fileExtension(relativePath)) {
		return false
	}
	if matchesAny(relativePath, filterConfig.IncludePatterns) {
		return true
	}
	if matchesAny(relativePath, excludePatterns) {
		return false
	}
	if !filterConfig.IncludeConfigs && IsConfigFile(relativePath) {
		return false
	}
	return true
}

// ShouldPruneDirectory reports whether a whole directory can be skipped: an
// exclude pattern covers every path below it and no include pattern could
// select anything there.
func ShouldPruneDirectory(relativeDirectory string, filterConfig types.FilterConfig) bool {
	covered := false
	for _, excludePattern := range filterConfig.ExcludePatterns {
		if CoversDirectory(relativeDirectory, excludePattern) {
			covered = true
			break
		}
	}
	if !covered {
		return false
	}
	for _, includePattern := range filterConfig.IncludePatterns {
		if CouldMatchBeneath(relativeDirectory, includePattern) {
			return false
		}
	}
	return true
}

func matchesAny(relativePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(relativePath, pattern) {
			return true
		}
	}
	return false
}

// fileExtension returns the extension of the base name including the dot.
// Dot files such as ".env" have no extension.
func fileExtension(relativePath string) string {
	baseName := path.Base(normalizePath(relativePath))
	dotIndex := strings.LastIndex(baseName, ".")
	if dotIndex <= 0 {
		return ""
	}
	return baseName[dotIndex:]
}
