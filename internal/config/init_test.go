package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/cpai/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}

	settings, loadErr := LoadSettings(LoadOptions{WorkingDirectory: workingDirectory})
	if loadErr != nil {
		t.Fatalf("written configuration does not load: %v", loadErr)
	}
	if settings.ChunkSize != DefaultChunkSize || !settings.UsePastebin || settings.OutputFile != "" {
		t.Fatalf("written configuration differs from defaults: %+v", settings)
	}
	if len(settings.FileExtensions) != len(DefaultFileExtensions()) {
		t.Fatalf("unexpected extensions %v", settings.FileExtensions)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil || string(content) != "existing" {
		t.Fatalf("existing configuration was modified: %q %v", content, readErr)
	}

	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Force: true}); err != nil {
		t.Fatalf("forced initialization failed: %v", err)
	}
	content, readErr = os.ReadFile(path)
	if readErr != nil || string(content) == "existing" {
		t.Fatalf("forced initialization did not replace the file")
	}
}
