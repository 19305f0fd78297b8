// Package types defines every cross‑package data structure used by the cpai CLI.
package types

import "strings"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"

	ModeContent = "content"
	ModeOutline = "outline"

	FormatMarkdown = "markdown"
	FormatJSON     = "json"

	extensionPrefix = "."
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	InputPath    string
	IsDir        bool
}

// FilterConfig is the fully resolved selection rule set for one run.
// Include patterns always win over exclude patterns.
type FilterConfig struct {
	IncludePatterns []string
	ExcludePatterns []string
	// DefaultExcludeCount is the number of leading ExcludePatterns that are
	// built-in defaults rather than user patterns.
	DefaultExcludeCount int
	FileExtensions      map[string]struct{}
	IncludeAll          bool
	IncludeConfigs      bool
}

// NewFilterConfig builds a FilterConfig. Extensions are stored with a leading dot.
func NewFilterConfig(includePatterns []string, excludePatterns []string, fileExtensions []string, includeAll bool, includeConfigs bool) FilterConfig {
	extensionSet := make(map[string]struct{}, len(fileExtensions))
	for _, extension := range fileExtensions {
		trimmedExtension := strings.TrimSpace(extension)
		if trimmedExtension == "" {
			continue
		}
		if !strings.HasPrefix(trimmedExtension, extensionPrefix) {
			trimmedExtension = extensionPrefix + trimmedExtension
		}
		extensionSet[trimmedExtension] = struct{}{}
	}
	return FilterConfig{
		IncludePatterns: append([]string(nil), includePatterns...),
		ExcludePatterns: append([]string(nil), excludePatterns...),
		FileExtensions:  extensionSet,
		IncludeAll:      includeAll,
		IncludeConfigs:  includeConfigs,
	}
}

// UserExcludePatterns returns the exclude patterns that follow the built-in defaults.
func (filterConfig FilterConfig) UserExcludePatterns() []string {
	if filterConfig.DefaultExcludeCount <= 0 {
		return filterConfig.ExcludePatterns
	}
	if filterConfig.DefaultExcludeCount >= len(filterConfig.ExcludePatterns) {
		return nil
	}
	return filterConfig.ExcludePatterns[filterConfig.DefaultExcludeCount:]
}

// HasExtension reports whether the extension (with leading dot) is selected.
func (filterConfig FilterConfig) HasExtension(extension string) bool {
	_, found := filterConfig.FileExtensions[extension]
	return found
}

// CandidateFile is one file considered for output.
// RelativePath is slash separated and relative to the root that produced it.
// DisplayPath is the path shown in rendered output.
type CandidateFile struct {
	AbsolutePath string
	RelativePath string
	DisplayPath  string
}

// OutlineKind names the declaration kind of an OutlineRecord.
type OutlineKind string

const (
	OutlineKindFunction OutlineKind = "function"
	OutlineKindMethod   OutlineKind = "method"
	OutlineKindClass    OutlineKind = "class"
)

// OutlineRecord describes one structural declaration of a source file.
// A method record always directly follows its class record or a sibling method.
type OutlineRecord struct {
	Name            string      `json:"name"`
	Kind            OutlineKind `json:"kind"`
	Line            int         `json:"line"`
	Parameters      string      `json:"parameters"`
	ReturnType      string      `json:"returnType,omitempty"`
	IsAsync         bool        `json:"isAsync,omitempty"`
	IsExport        bool        `json:"isExport,omitempty"`
	IsDefaultExport bool        `json:"isDefaultExport,omitempty"`
	LeadingComment  string      `json:"leadingComment,omitempty"`
}

// FileOutput represents one selected file in the assembled document.
type FileOutput struct {
	Path      string          `json:"path"`
	Type      string          `json:"type"`
	Extension string          `json:"extension,omitempty"`
	Content   string          `json:"content,omitempty"`
	MimeType  string          `json:"mimeType,omitempty"`
	Size      string          `json:"size,omitempty"`
	SizeBytes int64           `json:"-"`
	Outline   []OutlineRecord `json:"outline,omitempty"`
	Tokens    int             `json:"tokens,omitempty"`
}

// TreeOutputNode represents a node of the directory structure section.
type TreeOutputNode struct {
	Path     string            `json:"path"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Children []*TreeOutputNode `json:"children,omitempty"`
}

// Document is everything the assembler renders for one run.
type Document struct {
	Mode  string          `json:"mode"`
	Tree  *TreeOutputNode `json:"tree,omitempty"`
	Files []FileOutput    `json:"files"`
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles"`
	TotalSize   string `json:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty"`
}
