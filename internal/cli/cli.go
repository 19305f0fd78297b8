// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/config"
	"github.com/temirov/cpai/internal/services/clipboard"
	"github.com/temirov/cpai/internal/utils"
)

const (
	rootUse              = "cpai [paths...]"
	rootShortDescription = "concatenate source files into a prompt for a language model"
	rootLongDescription  = `cpai collects the source files below the given paths (the current directory by default),
renders a directory tree followed by each file in a fenced block, and copies the result to the clipboard.
Use --outline to render function and class signatures instead of full content.`
	rootUsageExample = `  # Copy the current project to the clipboard
  cpai

  # Write an outline of src to output-cpai.md without touching the clipboard
  cpai --outline -n -f src

  # Include build manifests and skip generated code
  cpai -c -x "**/generated/**" .`
	versionTemplate = "cpai version: {{.Version}}\n"

	initUse              = "init"
	initShortDescription = "write a default " + utils.ConfigFileName
	initCreatedFormat    = "Configuration written to %s\n"

	fileFlagName              = "file"
	fileFlagShorthand         = "f"
	fileFlagDescription       = "write the output to a file, " + utils.DefaultOutputFileName + " unless a name is given"
	noClipboardFlagName       = "noclipboard"
	noClipboardFlagShorthand  = "n"
	noClipboardDescription    = "do not copy the output to the clipboard"
	allFlagName               = "all"
	allFlagShorthand          = "a"
	allFlagDescription        = "include files of every extension"
	configsFlagName           = "configs"
	configsFlagShorthand      = "c"
	configsFlagDescription    = "include build, package and CI configuration files"
	excludeFlagName           = "exclude"
	excludeFlagShorthand      = "x"
	excludeFlagDescription    = "additional exclude pattern (repeatable)"
	includeFlagName           = "include"
	includeFlagShorthand      = "i"
	includeFlagDescription    = "include pattern that overrides excludes (repeatable)"
	outlineFlagName           = "outline"
	outlineFlagDescription    = "render function and class signatures instead of content"
	treeFlagName              = "tree"
	treeFlagDescription       = "alias for --outline"
	chunkSizeFlagName         = "chunk-size"
	chunkSizeFlagDescription  = "maximum characters per clipboard part"
	formatFlagName            = "format"
	formatFlagDescription     = "output format: markdown or json"
	tokensFlagName            = "tokens"
	tokensFlagDescription     = "estimate the token count of the output"
	modelFlagName             = "model"
	modelFlagDescription      = "tokenizer model used with --tokens"
	configFlagName            = "config"
	configFlagDescription     = "configuration file to use instead of " + utils.ConfigFileName
	debugFlagName             = "debug"
	debugFlagDescription      = "enable debug logging"
	forceFlagName             = "force"
	forceFlagDescription      = "overwrite an existing configuration file"
	workingDirectoryErrorText = "unable to determine working directory: %w"
)

// application carries the process resources a command run uses.
type application struct {
	logger           *zap.Logger
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	copier           clipboard.Copier
	interactive      func() bool
	workingDirectory string
}

func (app *application) resolveWorkingDirectory() (string, error) {
	if app.workingDirectory != "" {
		return app.workingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorText, err)
	}
	return workingDirectory, nil
}

func (app *application) warn(format string, arguments ...any) {
	fmt.Fprintf(app.stderr, utils.WarningMessagePrefix+format+"\n", arguments...)
}

// Execute runs the cpai application with the process arguments.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &application{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		copier: clipboard.NewService(),
		interactive: func() bool {
			return clipboard.IsInteractive(os.Stdin) && clipboard.IsInteractive(os.Stderr)
		},
	}
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

func normalizeArguments(rootCommand *cobra.Command, arguments []string) []string {
	return normalizeBooleanFlagArguments(rootCommand, normalizeFileFlagArguments(arguments))
}

// runFlags holds the raw flag values of the root command.
type runFlags struct {
	outputFile        string
	noClipboard       bool
	includeAll        bool
	includeConfigs    bool
	excludePatterns   []string
	includePatterns   []string
	outline           bool
	chunkSize         int
	format            string
	tokens            bool
	model             string
	configurationPath string
	debug             bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	var flags runFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !flags.debug {
				return nil
			}
			debugLogger, loggerError := utils.NewApplicationLogger(true)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			app.logger = debugLogger
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := app.resolveWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			settings, loadError := config.LoadSettings(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: flags.configurationPath,
				Logger:           app.logger,
			})
			if loadError != nil {
				return loadError
			}
			settings = applyFlags(command, settings, flags, arguments)
			if validationError := settings.Validate(); validationError != nil {
				return validationError
			}
			return run(command.Context(), app, settings, workingDirectory)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(app.stdout)
	rootCommand.SetErr(app.stderr)

	flagSet := rootCommand.Flags()
	registerFileFlag(flagSet, &flags.outputFile)
	registerBooleanFlag(flagSet, &flags.noClipboard, noClipboardFlagName, noClipboardFlagShorthand, noClipboardDescription)
	registerBooleanFlag(flagSet, &flags.includeAll, allFlagName, allFlagShorthand, allFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeConfigs, configsFlagName, configsFlagShorthand, configsFlagDescription)
	flagSet.StringArrayVarP(&flags.excludePatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	flagSet.StringArrayVarP(&flags.includePatterns, includeFlagName, includeFlagShorthand, nil, includeFlagDescription)
	registerBooleanFlag(flagSet, &flags.outline, outlineFlagName, "", outlineFlagDescription)
	registerBooleanFlag(flagSet, &flags.outline, treeFlagName, "", treeFlagDescription)
	_ = flagSet.MarkHidden(treeFlagName)
	flagSet.IntVar(&flags.chunkSize, chunkSizeFlagName, config.DefaultChunkSize, chunkSizeFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, "", formatFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, "", tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, "", modelFlagDescription)
	flagSet.StringVar(&flags.configurationPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &flags.debug, debugFlagName, "", debugFlagDescription)

	rootCommand.AddCommand(createInitCommand(app))
	return rootCommand
}

// applyFlags overlays the flags given on the command line onto settings.
func applyFlags(command *cobra.Command, settings config.Settings, flags runFlags, arguments []string) config.Settings {
	result := settings
	changed := command.Flags().Changed
	if len(arguments) > 0 {
		result.Roots = append([]string(nil), arguments...)
	}
	if changed(fileFlagName) {
		result.OutputFile = flags.outputFile
	}
	if changed(noClipboardFlagName) {
		result.UsePastebin = !flags.noClipboard
	}
	if changed(allFlagName) {
		result.IncludeAll = flags.includeAll
	}
	if changed(configsFlagName) {
		result.IncludeConfigs = flags.includeConfigs
	}
	if len(flags.excludePatterns) > 0 {
		result.ExcludePatterns = utils.DeduplicatePatterns(append(append([]string(nil), settings.ExcludePatterns...), flags.excludePatterns...))
	}
	if len(flags.includePatterns) > 0 {
		result.IncludePatterns = utils.DeduplicatePatterns(append(append([]string(nil), settings.IncludePatterns...), flags.includePatterns...))
	}
	if changed(outlineFlagName) || changed(treeFlagName) {
		result.Outline = flags.outline
	}
	if changed(chunkSizeFlagName) {
		result.ChunkSize = flags.chunkSize
	}
	if changed(formatFlagName) {
		result.Format = strings.ToLower(strings.TrimSpace(flags.format))
	}
	if changed(tokensFlagName) {
		result.Tokens = flags.tokens
	}
	if changed(modelFlagName) && flags.model != "" {
		result.Model = flags.model
	}
	return result
}

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := app.resolveWorkingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(app.stderr, initCreatedFormat, path)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", forceFlagDescription)
	return initCommand
}
