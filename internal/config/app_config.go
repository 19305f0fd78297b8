// Package config resolves the settings of a run from defaults, the project
// configuration file and ignore files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

const (
	configurationErrorFormat         = "configuration %s: %v"
	configurationErrorWithoutPath    = "configuration: %v"
	determineWorkingDirectoryFormat  = "determine working directory: %w"
	resolveConfigurationPathFormat   = "resolve configuration path %s: %w"
	statConfigurationFormat          = "stat configuration: %w"
	readConfigurationFormat          = "read configuration: %w"
	chunkSizeValueFormat             = "%w: %d"
	formatValueFormat                = "%w: %q"
	logMessageUnexpectedSettingType  = "ignoring configuration value with unexpected type, default kept"
	logFieldPath                     = "path"
	logFieldKey                      = "key"
	logFieldValue                    = "value"
	configurationKeyInclude          = "include"
	configurationKeyExclude          = "exclude"
	configurationKeyIncludePatterns  = "includePatterns"
	configurationKeyOutputFile       = "outputFile"
	configurationKeyUsePastebin      = "usePastebin"
	configurationKeyFileExtensions   = "fileExtensions"
	configurationKeyChunkSize        = "chunkSize"
	configurationKeyIncludeAll       = "includeAll"
	configurationKeyIncludeConfigs   = "includeConfigs"
	configurationKeyOutline          = "outline"
	configurationKeyFormat           = "format"
	configurationKeyModel            = "model"
	configurationKeyTokens           = "tokens"
	configurationPathIsDirectoryText = "is a directory"
)

var (
	// ErrInvalidChunkSize reports a chunk size that is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrUnsupportedFormat reports an output format other than markdown or json.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	errConfigurationPathIsDirectory = errors.New(configurationPathIsDirectoryText)
)

// ConfigurationError reports a malformed configuration file or conflicting
// options. It is fatal before any file is selected.
type ConfigurationError struct {
	Path string
	Err  error
}

func (configurationError *ConfigurationError) Error() string {
	if configurationError.Path == "" {
		return fmt.Sprintf(configurationErrorWithoutPath, configurationError.Err)
	}
	return fmt.Sprintf(configurationErrorFormat, configurationError.Path, configurationError.Err)
}

func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Err
}

// LoadOptions controls how the configuration file is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	Logger           *zap.Logger
}

// Settings is the resolved configuration of one run.
type Settings struct {
	Roots           []string
	ExcludePatterns []string
	IncludePatterns []string
	FileExtensions  []string
	IncludeAll      bool
	IncludeConfigs  bool
	// OutputFile is the file the document is written to; empty disables file output.
	OutputFile  string
	UsePastebin bool
	ChunkSize   int
	Outline     bool
	Format      string
	Tokens      bool
	Model       string
}

// ApplicationConfiguration mirrors the keys of the configuration file. Keys
// absent from the file stay nil or empty.
type ApplicationConfiguration struct {
	Include         []string
	Exclude         []string
	IncludePatterns []string
	OutputFile      *string
	UsePastebin     *bool
	FileExtensions  []string
	ChunkSize       *int
	IncludeAll      *bool
	IncludeConfigs  *bool
	Outline         *bool
	Format          string
	Model           string
	Tokens          *bool
}

// LoadSettings applies the configuration file found through options on top of
// DefaultSettings. A missing file is not an error.
func LoadSettings(options LoadOptions) (Settings, error) {
	applicationConfiguration, loadError := LoadApplicationConfiguration(options)
	if loadError != nil {
		return Settings{}, loadError
	}
	return DefaultSettings().Apply(applicationConfiguration), nil
}

// LoadApplicationConfiguration reads the configuration file of the working
// directory, or the explicitly named one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, &ConfigurationError{Err: fmt.Errorf(determineWorkingDirectoryFormat, err)}
		}
		workingDirectory = currentDirectory
	}

	configurationPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, &ConfigurationError{Path: options.ExplicitFilePath, Err: resolveErr}
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return loadConfigurationFromPath(configurationPath, options.ExplicitFilePath != "", logger)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(resolveConfigurationPathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

// loadConfigurationFromPath decodes one file. An explicitly requested file
// must exist; the implicit one may be absent.
func loadConfigurationFromPath(path string, required bool, logger *zap.Logger) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, &ConfigurationError{Path: path, Err: fmt.Errorf(statConfigurationFormat, statErr)}
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, &ConfigurationError{Path: path, Err: errConfigurationPathIsDirectory}
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, &ConfigurationError{Path: path, Err: fmt.Errorf(readConfigurationFormat, readErr)}
	}

	values := settingReader{reader: reader, path: path, logger: logger}
	return ApplicationConfiguration{
		Include:         values.stringList(configurationKeyInclude),
		Exclude:         values.stringList(configurationKeyExclude),
		IncludePatterns: values.stringList(configurationKeyIncludePatterns),
		OutputFile:      values.outputFile(configurationKeyOutputFile),
		UsePastebin:     values.boolean(configurationKeyUsePastebin),
		FileExtensions:  values.stringList(configurationKeyFileExtensions),
		ChunkSize:       values.integer(configurationKeyChunkSize),
		IncludeAll:      values.boolean(configurationKeyIncludeAll),
		IncludeConfigs:  values.boolean(configurationKeyIncludeConfigs),
		Outline:         values.boolean(configurationKeyOutline),
		Format:          values.text(configurationKeyFormat),
		Model:           values.text(configurationKeyModel),
		Tokens:          values.boolean(configurationKeyTokens),
	}, nil
}

// Apply overlays the values present in the configuration file onto settings.
// Configured excludes extend the current ones instead of replacing them.
func (settings Settings) Apply(configuration ApplicationConfiguration) Settings {
	result := settings
	if len(configuration.Include) > 0 {
		result.Roots = append([]string(nil), configuration.Include...)
	}
	if len(configuration.Exclude) > 0 {
		result.ExcludePatterns = utils.DeduplicatePatterns(append(append([]string(nil), settings.ExcludePatterns...), configuration.Exclude...))
	}
	if len(configuration.IncludePatterns) > 0 {
		result.IncludePatterns = utils.DeduplicatePatterns(configuration.IncludePatterns)
	}
	if configuration.OutputFile != nil {
		result.OutputFile = *configuration.OutputFile
	}
	if configuration.UsePastebin != nil {
		result.UsePastebin = *configuration.UsePastebin
	}
	if len(configuration.FileExtensions) > 0 {
		result.FileExtensions = append([]string(nil), configuration.FileExtensions...)
	}
	if configuration.ChunkSize != nil {
		result.ChunkSize = *configuration.ChunkSize
	}
	if configuration.IncludeAll != nil {
		result.IncludeAll = *configuration.IncludeAll
	}
	if configuration.IncludeConfigs != nil {
		result.IncludeConfigs = *configuration.IncludeConfigs
	}
	if configuration.Outline != nil {
		result.Outline = *configuration.Outline
	}
	if configuration.Format != "" {
		result.Format = configuration.Format
	}
	if configuration.Model != "" {
		result.Model = configuration.Model
	}
	if configuration.Tokens != nil {
		result.Tokens = *configuration.Tokens
	}
	return result
}

// Validate rejects option combinations the run cannot honor.
func (settings Settings) Validate() error {
	if settings.ChunkSize <= 0 {
		return &ConfigurationError{Err: fmt.Errorf(chunkSizeValueFormat, ErrInvalidChunkSize, settings.ChunkSize)}
	}
	switch settings.Format {
	case types.FormatMarkdown, types.FormatJSON:
	default:
		return &ConfigurationError{Err: fmt.Errorf(formatValueFormat, ErrUnsupportedFormat, settings.Format)}
	}
	return nil
}

// Mode returns the document mode selected by the settings.
func (settings Settings) Mode() string {
	if settings.Outline {
		return types.ModeOutline
	}
	return types.ModeContent
}

// FilterConfig builds the selection rules of the run.
func (settings Settings) FilterConfig() types.FilterConfig {
	excludePatterns := utils.DeduplicatePatterns(settings.ExcludePatterns)
	filterConfig := types.NewFilterConfig(
		utils.DeduplicatePatterns(settings.IncludePatterns),
		excludePatterns,
		settings.FileExtensions,
		settings.IncludeAll,
		settings.IncludeConfigs,
	)
	filterConfig.DefaultExcludeCount = countDefaultExcludePrefix(excludePatterns)
	return filterConfig
}

// countDefaultExcludePrefix counts the leading patterns that are built-in
// defaults. User patterns are always appended after them.
func countDefaultExcludePrefix(excludePatterns []string) int {
	defaults := make(map[string]struct{}, len(defaultExcludePatterns))
	for _, pattern := range defaultExcludePatterns {
		defaults[pattern] = struct{}{}
	}
	count := 0
	for _, pattern := range excludePatterns {
		if _, isDefault := defaults[pattern]; !isDefault {
			break
		}
		count++
	}
	return count
}

// settingReader extracts typed values from a decoded configuration file. A
// value of the wrong type is reported and treated as absent.
type settingReader struct {
	reader *viper.Viper
	path   string
	logger *zap.Logger
}

func (values settingReader) warnUnexpectedType(key string, raw any) {
	values.logger.Warn(logMessageUnexpectedSettingType,
		zap.String(logFieldPath, values.path),
		zap.String(logFieldKey, key),
		zap.Any(logFieldValue, raw),
	)
}

func (values settingReader) boolean(key string) *bool {
	raw := values.reader.Get(key)
	if raw == nil {
		return nil
	}
	value, isBool := raw.(bool)
	if !isBool {
		values.warnUnexpectedType(key, raw)
		return nil
	}
	return &value
}

func (values settingReader) text(key string) string {
	raw := values.reader.Get(key)
	if raw == nil {
		return ""
	}
	value, isString := raw.(string)
	if !isString {
		values.warnUnexpectedType(key, raw)
		return ""
	}
	return value
}

func (values settingReader) integer(key string) *int {
	raw := values.reader.Get(key)
	if raw == nil {
		return nil
	}
	var value int
	switch typed := raw.(type) {
	case int:
		value = typed
	case int64:
		value = int(typed)
	case float64:
		if typed != math.Trunc(typed) {
			values.warnUnexpectedType(key, raw)
			return nil
		}
		value = int(typed)
	default:
		values.warnUnexpectedType(key, raw)
		return nil
	}
	return &value
}

func (values settingReader) stringList(key string) []string {
	raw := values.reader.Get(key)
	if raw == nil {
		return nil
	}
	switch typed := raw.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		list := make([]string, 0, len(typed))
		for _, element := range typed {
			text, isString := element.(string)
			if !isString {
				values.warnUnexpectedType(key, raw)
				return nil
			}
			list = append(list, text)
		}
		return list
	default:
		values.warnUnexpectedType(key, raw)
		return nil
	}
}

// outputFile accepts a file name, or a boolean where true selects the default
// file name and false disables file output.
func (values settingReader) outputFile(key string) *string {
	raw := values.reader.Get(key)
	if raw == nil {
		return nil
	}
	var fileName string
	switch typed := raw.(type) {
	case bool:
		if typed {
			fileName = utils.DefaultOutputFileName
		}
	case string:
		fileName = typed
	default:
		values.warnUnexpectedType(key, raw)
		return nil
	}
	return &fileName
}
