package cli

import (
	"io"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/temirov/cpai/internal/utils"
)

func TestRegisterFileFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expected          string
		expectedPositions []string
	}{
		{
			name:      "defaults_to_no_file",
			arguments: []string{},
			expected:  "",
		},
		{
			name:      "uses_default_name_without_value",
			arguments: []string{"--file"},
			expected:  utils.DefaultOutputFileName,
		},
		{
			name:      "uses_default_name_before_flag",
			arguments: []string{"-f", "-n"},
			expected:  utils.DefaultOutputFileName,
		},
		{
			name:      "takes_following_name",
			arguments: []string{"-f", "prompt.md"},
			expected:  "prompt.md",
		},
		{
			name:      "takes_attached_name",
			arguments: []string{"--file=notes.md"},
			expected:  "notes.md",
		},
		{
			name:      "false_literal_disables",
			arguments: []string{"--file", "no"},
			expected:  "",
		},
		{
			name:              "keeps_arguments_after_terminator",
			arguments:         []string{"-f", "--", "src"},
			expected:          utils.DefaultOutputFileName,
			expectedPositions: []string{"src"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue string
			var noClipboard bool
			flagSet := pflag.NewFlagSet("file-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerFileFlag(flagSet, &flagValue)
			flagSet.BoolVarP(&noClipboard, "noclipboard", "n", false, "")
			parseErr := flagSet.Parse(normalizeFileFlagArguments(testCase.arguments))
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %q, got %q", testCase.expected, flagValue)
			}
			if testCase.expectedPositions != nil && !slices.Equal(flagSet.Args(), testCase.expectedPositions) {
				t.Fatalf("expected positional arguments %v, got %v", testCase.expectedPositions, flagSet.Args())
			}
		})
	}
}
