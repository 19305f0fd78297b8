package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/commands"
	"github.com/temirov/cpai/internal/config"
	"github.com/temirov/cpai/internal/outline"
	"github.com/temirov/cpai/internal/output"
	"github.com/temirov/cpai/internal/services/clipboard"
	"github.com/temirov/cpai/internal/tokenizer"
	"github.com/temirov/cpai/internal/types"
)

const (
	outputFilePermissions       = 0o644
	noFilesFoundMessage         = "No files found to process"
	chunkSizeExceededFormat     = "Output size (%d characters) exceeds the chunk size (%d characters). It will be split into %d parts."
	nonInteractiveClipboardText = "standard input is not a terminal, copying all %d parts to the clipboard at once"
	outputWrittenFormat         = "Output written to %s\n"
	writeOutputFileErrorFormat  = "write output file %s: %w"
	renderJSONErrorFormat       = "render json output: %w"
	logMessageClipboardFailed   = "clipboard unavailable, writing output to standard output"
	logMessageTokenTotalFailed  = "failed to count output tokens"
	logMessageSelection         = "files selected"
	logFieldFiles               = "files"
	logFieldRoots               = "roots"
)

// run selects the files described by settings, renders them and delivers the
// text to the configured destinations.
func run(ctx context.Context, app *application, settings config.Settings, workingDirectory string) error {
	roots, rootsError := commands.ResolveRoots(settings.Roots, app.logger)
	if rootsError != nil {
		return rootsError
	}

	var tokenCounter tokenizer.Counter
	if settings.Tokens {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.Model})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		settings.Model = resolvedModel
	}

	candidates := commands.Walk(roots, settings.FilterConfig(), commands.WalkOptions{
		WorkingDirectory: workingDirectory,
		ConfigForRoot:    config.ConfigForRoot,
		Logger:           app.logger,
	})
	document, documentError := commands.BuildDocument(ctx, candidates, commands.DocumentOptions{
		Mode:         settings.Mode(),
		Extractor:    outline.NewExtractor(),
		TokenCounter: tokenCounter,
		Logger:       app.logger,
	})
	if documentError != nil {
		return documentError
	}
	app.logger.Debug(logMessageSelection, zap.Int(logFieldRoots, len(roots)), zap.Int(logFieldFiles, len(document.Files)))

	summary := output.Summarize(document)
	if len(document.Files) == 0 {
		app.warn(noFilesFoundMessage)
		fmt.Fprintln(app.stderr, output.FormatSummaryLine(summary))
		return nil
	}

	renderedText, chunks, renderError := renderDocument(document, settings)
	if renderError != nil {
		return renderError
	}
	if len(chunks) > 1 {
		app.warn(chunkSizeExceededFormat, len([]rune(renderedText)), settings.ChunkSize, len(chunks))
	}

	if tokenCounter != nil {
		totalTokens, countError := tokenizer.CountTotal(tokenCounter, chunks, runtime.NumCPU())
		if countError != nil {
			app.logger.Warn(logMessageTokenTotalFailed, zap.Error(countError))
		} else {
			summary.TotalTokens = totalTokens
			summary.Model = settings.Model
		}
	}

	if deliveryError := deliver(app, settings, workingDirectory, chunks); deliveryError != nil {
		return deliveryError
	}
	fmt.Fprintln(app.stderr, output.FormatSummaryLine(summary))
	return nil
}

// renderDocument returns the rendered text and its parts. Only markdown is
// split into chunks; JSON stays one part so it remains decodable.
func renderDocument(document types.Document, settings config.Settings) (string, []string, error) {
	if settings.Format == types.FormatJSON {
		renderedJSON, jsonError := output.RenderJSON(document)
		if jsonError != nil {
			return "", nil, fmt.Errorf(renderJSONErrorFormat, jsonError)
		}
		return renderedJSON, []string{renderedJSON}, nil
	}
	renderedMarkdown := output.RenderMarkdown(document)
	return renderedMarkdown, output.Chunk(renderedMarkdown, settings.ChunkSize), nil
}

// deliver writes the parts to the output file and the clipboard as configured,
// falling back to standard output when neither is requested or the clipboard
// cannot be reached.
func deliver(app *application, settings config.Settings, workingDirectory string, chunks []string) error {
	joinedText := output.JoinChunks(chunks, settings.ChunkSize)

	if settings.OutputFile != "" {
		outputPath := settings.OutputFile
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(workingDirectory, outputPath)
		}
		if writeError := os.WriteFile(outputPath, []byte(joinedText), outputFilePermissions); writeError != nil {
			return fmt.Errorf(writeOutputFileErrorFormat, outputPath, writeError)
		}
		fmt.Fprintf(app.stderr, outputWrittenFormat, settings.OutputFile)
	}

	if !settings.UsePastebin {
		if settings.OutputFile == "" {
			fmt.Fprint(app.stdout, joinedText)
		}
		return nil
	}

	parts := output.ClipboardParts(chunks, settings.ChunkSize)
	delivery := clipboard.Delivery{Copier: app.copier, Output: app.stderr}
	if app.interactive != nil && app.interactive() {
		delivery.Input = app.stdin
	} else if len(parts) > 1 {
		app.warn(nonInteractiveClipboardText, len(parts))
		parts = []string{joinedText}
	}
	if deliveryError := delivery.Deliver(parts); deliveryError != nil {
		app.logger.Warn(logMessageClipboardFailed, zap.Error(deliveryError))
		if settings.OutputFile == "" {
			fmt.Fprint(app.stdout, joinedText)
		}
	}
	return nil
}
