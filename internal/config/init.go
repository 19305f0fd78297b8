package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/cpai/internal/utils"
)

const (
	configurationFilePermissions        = 0o600
	determineInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	configurationExistsFormat           = "configuration file already exists at %s"
	inspectConfigurationPathFormat      = "inspect configuration path %s: %w"
	encodeConfigurationFormat           = "encode default configuration: %w"
	writeConfigurationFormat            = "write configuration to %s: %w"
	jsonIndent                          = "  "
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Force            bool
	WorkingDirectory string
}

// defaultConfigurationDocument is the content written by InitializeConfiguration.
type defaultConfigurationDocument struct {
	Include        []string `json:"include"`
	Exclude        []string `json:"exclude"`
	OutputFile     bool     `json:"outputFile"`
	UsePastebin    bool     `json:"usePastebin"`
	FileExtensions []string `json:"fileExtensions"`
	ChunkSize      int      `json:"chunkSize"`
}

// InitializeConfiguration writes a default configuration file into the
// working directory and returns its path. An existing file is only replaced
// when Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		current, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf(determineInitWorkingDirectoryFormat, err)
		}
		workingDirectory = current
	}
	destinationPath := filepath.Join(workingDirectory, utils.ConfigFileName)

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(configurationExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(inspectConfigurationPathFormat, destinationPath, err)
	}

	defaults := DefaultSettings()
	encoded, encodeErr := json.MarshalIndent(defaultConfigurationDocument{
		Include:        defaults.Roots,
		Exclude:        []string{},
		OutputFile:     false,
		UsePastebin:    defaults.UsePastebin,
		FileExtensions: defaults.FileExtensions,
		ChunkSize:      defaults.ChunkSize,
	}, "", jsonIndent)
	if encodeErr != nil {
		return "", fmt.Errorf(encodeConfigurationFormat, encodeErr)
	}

	if err := os.WriteFile(destinationPath, append(encoded, '\n'), configurationFilePermissions); err != nil {
		return "", fmt.Errorf(writeConfigurationFormat, destinationPath, err)
	}

	return destinationPath, nil
}
