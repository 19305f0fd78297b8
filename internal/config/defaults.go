package config

import (
	"github.com/temirov/cpai/internal/tokenizer"
	"github.com/temirov/cpai/internal/types"
)

const (
	// DefaultChunkSize is the largest part, in characters, delivered at once.
	DefaultChunkSize = 90000
	defaultRoot      = "."
)

// defaultExcludePatterns are always applied; user excludes are appended after them.
// Build manifests and lockfiles are not listed here because the config file
// switch decides about them.
var defaultExcludePatterns = []string{
	// build and cache
	"**/build/**", "**/dist/**", "**/__pycache__/**", "**/.cache/**",
	"**/coverage/**", "**/.next/**", "**/out/**", "**/.nuxt/**",
	"**/.output/**", "**/*.egg-info/**",

	// dependencies
	"**/node_modules/**", "**/venv/**", "**/virtualenv/**",
	"**/env/**", "**/.env/**", "**/.venv/**",

	// tests
	"**/test/**", "**/tests/**", "**/__tests__/**",
	"**/*.test.*", "**/*.spec.*",

	"**/.idea/**", "**/.vscode/**", "**/.DS_Store",

	"**/.git/**", "**/.svn/**", "**/.hg/**",

	"**/*.log", "**/npm-debug.log*", "**/yarn-debug.log*", "**/yarn-error.log*",

	"**/.env", "**/.envrc", "**/.env.*",
	"**/.python-version", "**/.ruby-version", "**/.node-version",

	"**/*.min.js", "**/*.min.css", "**/*.map", "**/target/**",

	// media and archives
	"**/*.jpg", "**/*.jpeg", "**/*.png", "**/*.gif", "**/*.ico",
	"**/*.pdf", "**/*.zip", "**/*.tar.gz", "**/*.tgz",
	"**/*.woff", "**/*.woff2", "**/*.ttf", "**/*.eot",
	"**/*.mp3", "**/*.mp4", "**/*.mov", "**/*.avi",
}

var defaultFileExtensions = []string{
	".ts", ".js", ".py", ".rs", ".sol", ".go", ".jsx", ".tsx",
	".css", ".scss", ".svelte", ".html", ".java", ".c", ".cpp",
	".h", ".hpp", ".rb", ".php", ".swift", ".kt", ".scala", ".sh",
	".bash", ".md", ".json", ".yaml", ".yml", ".toml",
}

// DefaultExcludePatterns returns a copy of the built-in exclude patterns.
func DefaultExcludePatterns() []string {
	return append([]string(nil), defaultExcludePatterns...)
}

// DefaultFileExtensions returns a copy of the built-in extension set.
func DefaultFileExtensions() []string {
	return append([]string(nil), defaultFileExtensions...)
}

// DefaultSettings returns the settings used when neither a configuration file
// nor flags say otherwise.
func DefaultSettings() Settings {
	return Settings{
		Roots:           []string{defaultRoot},
		ExcludePatterns: DefaultExcludePatterns(),
		FileExtensions:  DefaultFileExtensions(),
		UsePastebin:     true,
		ChunkSize:       DefaultChunkSize,
		Format:          types.FormatMarkdown,
		Model:           tokenizer.DefaultModel,
	}
}
