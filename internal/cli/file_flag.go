package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temirov/cpai/internal/utils"
)

const (
	fileFlagTypeName            = "file"
	invalidFileFlagValueMessage = "invalid file flag value '%s'"
	flagValueFormat             = "--%s=%s"
	longFlagPrefix              = "--"
	shortFlagPrefix             = "-"
	endOfFlagsMarker            = "--"
)

var (
	enableFileFlagLiterals = map[string]struct{}{
		"":     {},
		"true": {},
		"yes":  {},
		"on":   {},
	}
	disableFileFlagLiterals = map[string]struct{}{
		"false": {},
		"no":    {},
		"off":   {},
	}
)

// interpretFileFlagValue maps the flag value to an output file name. Boolean
// literals select the default file name or disable file output.
func interpretFileFlagValue(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if _, matches := enableFileFlagLiterals[normalized]; matches {
		return utils.DefaultOutputFileName
	}
	if _, matches := disableFileFlagLiterals[normalized]; matches {
		return ""
	}
	return strings.TrimSpace(input)
}

type fileFlagValue struct {
	target *string
}

func (value *fileFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidFileFlagValueMessage, input)
	}
	*value.target = interpretFileFlagValue(input)
	return nil
}

func (value *fileFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *fileFlagValue) Type() string {
	return fileFlagTypeName
}

// registerFileFlag adds the file flag whose value is optional: given alone it
// selects utils.DefaultOutputFileName.
func registerFileFlag(flagSet *pflag.FlagSet, target *string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = ""
	flagSet.VarP(&fileFlagValue{target: target}, fileFlagName, fileFlagShorthand, fileFlagDescription)
	if lookup := flagSet.Lookup(fileFlagName); lookup != nil {
		lookup.NoOptDefVal = utils.DefaultOutputFileName
	}
}

// normalizeFileFlagArguments joins the file flag with a following argument
// that does not look like a flag, so "-f prompt.md" names the output file.
func normalizeFileFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		current := arguments[index]
		if current == endOfFlagsMarker {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if current == longFlagPrefix+fileFlagName || current == shortFlagPrefix+fileFlagShorthand {
			nextIndex := index + 1
			if nextIndex < len(arguments) && !strings.HasPrefix(arguments[nextIndex], shortFlagPrefix) {
				normalized = append(normalized, fmt.Sprintf(flagValueFormat, fileFlagName, arguments[nextIndex]))
				index += 2
				continue
			}
		}
		normalized = append(normalized, current)
		index++
	}
	return normalized
}
