package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{
			name:      "defaults_to_false",
			arguments: []string{},
			expected:  false,
		},
		{
			name:      "sets_true_without_value",
			arguments: []string{"--feature"},
			expected:  true,
		},
		{
			name:      "sets_true_with_shorthand",
			arguments: []string{"-z"},
			expected:  true,
		},
		{
			name:      "sets_false_with_equals",
			arguments: []string{"--feature=false"},
			expected:  false,
		},
		{
			name:      "sets_false_with_no_literal",
			arguments: []string{"--feature", "no"},
			expected:  false,
		},
		{
			name:      "sets_false_with_shorthand_literal",
			arguments: []string{"-z", "off"},
			expected:  false,
		},
		{
			name:      "sets_true_with_on_literal",
			arguments: []string{"--feature", "on"},
			expected:  true,
		},
		{
			name:      "ignores_non_boolean_trailing_value",
			arguments: []string{"--feature", "maybe"},
			expected:  true,
		},
		{
			name:        "rejects_invalid_attached_value",
			arguments:   []string{"--feature=maybe"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagSet := command.Flags()
			flagValue := true
			registerBooleanFlag(flagSet, &flagValue, "feature", "z", "toggle feature behaviour")
			normalizedArguments := normalizeBooleanFlagArguments(command, testCase.arguments)
			parseErr := command.ParseFlags(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}
