// Package outline extracts structural declarations (classes, methods and
// functions) from source files. Each supported language is a tag mapped to an
// independent parsing strategy; Extract dispatches on the file extension.
package outline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/temirov/cpai/internal/types"
)

// Language identifies a grammar-specific parsing strategy.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguagePython     Language = "python"
	LanguageSolidity   Language = "solidity"
	LanguageRust       Language = "rust"
)

const (
	parseErrorFormat   = "outline %s (%s): %v"
	parameterListOpen  = "("
	parameterListClose = ")"
	commentLineJoiner  = "\n"
)

var (
	errInvalidEncoding    = errors.New("content is not valid UTF-8")
	errEmptySyntaxTree    = errors.New("parser returned no syntax tree")
	errStrategyUnassigned = errors.New("no parser registered for language")
)

var extensionLanguages = map[string]Language{
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
	".tsx": LanguageTSX,
	".py":  LanguagePython,
	".sol": LanguageSolidity,
	".rs":  LanguageRust,
}

// ParseError reports that the parser for a file's language could not process its content.
type ParseError struct {
	Path     string
	Language Language
	Err      error
}

func (parseError *ParseError) Error() string {
	return fmt.Sprintf(parseErrorFormat, parseError.Path, parseError.Language, parseError.Err)
}

func (parseError *ParseError) Unwrap() error {
	return parseError.Err
}

// strategy parses one file's content into outline records.
type strategy func(content []byte) ([]types.OutlineRecord, error)

// Extractor dispatches file content to the strategy registered for its language.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	strategies map[Language]strategy
}

// NewExtractor returns an Extractor with every available language registered.
func NewExtractor() *Extractor {
	extractor := &Extractor{strategies: make(map[Language]strategy)}
	extractor.register(LanguageSolidity, extractSolidity)
	for language, grammarStrategy := range grammarStrategies() {
		extractor.register(language, grammarStrategy)
	}
	return extractor
}

func (extractor *Extractor) register(language Language, languageStrategy strategy) {
	extractor.strategies[language] = languageStrategy
}

// LanguageForPath returns the language tag selected by the file's extension.
func LanguageForPath(filePath string) (Language, bool) {
	language, found := extensionLanguages[strings.ToLower(filepath.Ext(filePath))]
	return language, found
}

// Supports reports whether filePath has a registered outline strategy.
func (extractor *Extractor) Supports(filePath string) bool {
	language, found := LanguageForPath(filePath)
	if !found {
		return false
	}
	_, registered := extractor.strategies[language]
	return registered
}

// Extract returns the outline records of content. Unsupported extensions and
// empty content yield no records and no error. Failures are returned as *ParseError.
func (extractor *Extractor) Extract(filePath string, content []byte) ([]types.OutlineRecord, error) {
	language, found := LanguageForPath(filePath)
	if !found || len(content) == 0 {
		return nil, nil
	}
	languageStrategy, registered := extractor.strategies[language]
	if !registered {
		return nil, &ParseError{Path: filePath, Language: language, Err: errStrategyUnassigned}
	}
	if !utf8.Valid(content) {
		return nil, &ParseError{Path: filePath, Language: language, Err: errInvalidEncoding}
	}
	records, strategyError := languageStrategy(content)
	if strategyError != nil {
		return nil, &ParseError{Path: filePath, Language: language, Err: strategyError}
	}
	return records, nil
}

// recordAccumulator collects records for a single Extract call.
type recordAccumulator struct {
	records []types.OutlineRecord
}

func (accumulator *recordAccumulator) add(record types.OutlineRecord) {
	accumulator.records = append(accumulator.records, record)
}

func (accumulator *recordAccumulator) result() []types.OutlineRecord {
	return accumulator.records
}
