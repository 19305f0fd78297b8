package commands

import (
	"context"
	"iter"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/cpai/internal/outline"
	"github.com/temirov/cpai/internal/tokenizer"
	"github.com/temirov/cpai/internal/types"
)

// DocumentOptions configures BuildDocument.
type DocumentOptions struct {
	// Mode is types.ModeContent or types.ModeOutline.
	Mode string
	// Extractor parses outline records; a default extractor is used when nil.
	Extractor *outline.Extractor
	// TokenCounter, when set, records per-file token estimates.
	TokenCounter tokenizer.Counter
	// Concurrency bounds the number of files read at once.
	Concurrency int
	Logger      *zap.Logger
}

// BuildDocument reads every candidate and assembles the document. Files are
// inspected concurrently and kept in candidate order. Unreadable files and
// outline failures are logged and do not stop the run.
func BuildDocument(ctx context.Context, candidates iter.Seq[types.CandidateFile], options DocumentOptions) (types.Document, error) {
	inspection := fileInspectionConfig{
		Mode:         options.Mode,
		Extractor:    options.Extractor,
		TokenCounter: options.TokenCounter,
		Logger:       options.Logger,
	}
	if inspection.Mode == "" {
		inspection.Mode = types.ModeContent
	}
	if inspection.Extractor == nil {
		inspection.Extractor = outline.NewExtractor()
	}
	if inspection.Logger == nil {
		inspection.Logger = zap.NewNop()
	}
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	var selected []types.CandidateFile
	for candidate := range candidates {
		selected = append(selected, candidate)
	}

	inspected := make([]types.FileOutput, len(selected))
	readable := make([]bool, len(selected))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for candidateIndex, candidate := range selected {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			inspected[candidateIndex], readable[candidateIndex] = inspectFile(candidate, inspection)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return types.Document{}, waitError
	}

	document := types.Document{Mode: inspection.Mode}
	displayPaths := make([]string, 0, len(selected))
	for fileIndex, fileOutput := range inspected {
		if !readable[fileIndex] {
			continue
		}
		document.Files = append(document.Files, fileOutput)
		displayPaths = append(displayPaths, fileOutput.Path)
	}
	document.Tree = BuildTree(displayPaths)
	return document, nil
}
