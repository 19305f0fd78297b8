package commands

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/outline"
	"github.com/temirov/cpai/internal/tokenizer"
	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

type fileInspectionConfig struct {
	Mode         string
	Extractor    *outline.Extractor
	TokenCounter tokenizer.Counter
	Logger       *zap.Logger
}

// inspectFile reads one candidate and produces its document entry. The boolean
// is false when the file could not be read and must be left out.
func inspectFile(candidate types.CandidateFile, config fileInspectionConfig) (types.FileOutput, bool) {
	fileBytes, readError := os.ReadFile(candidate.AbsolutePath)
	if readError != nil {
		config.Logger.Warn(logMessageReadFile, zap.String(logFieldPath, candidate.DisplayPath), zap.Error(readError))
		return types.FileOutput{}, false
	}

	result := types.FileOutput{
		Path:      candidate.DisplayPath,
		Type:      types.NodeTypeFile,
		Extension: strings.TrimPrefix(filepath.Ext(candidate.AbsolutePath), "."),
		Size:      utils.FormatFileSize(int64(len(fileBytes))),
		SizeBytes: int64(len(fileBytes)),
	}
	if utils.IsBinary(fileBytes) {
		result.Type = types.NodeTypeBinary
		result.MimeType = utils.DetectMimeType(fileBytes)
		return result, true
	}

	if config.Mode == types.ModeOutline {
		records, extractError := config.Extractor.Extract(candidate.DisplayPath, fileBytes)
		if extractError != nil {
			config.Logger.Warn(logMessageOutlineFailed, zap.String(logFieldPath, candidate.DisplayPath), zap.Error(extractError))
		}
		result.Outline = records
	} else {
		result.Content = string(fileBytes)
	}

	if config.TokenCounter != nil {
		countResult, tokenError := tokenizer.CountBytes(config.TokenCounter, fileBytes)
		if tokenError != nil {
			config.Logger.Warn(logMessageTokenCount, zap.String(logFieldPath, candidate.DisplayPath), zap.Error(tokenError))
		} else if countResult.Counted {
			result.Tokens = countResult.Tokens
		}
	}
	return result, true
}
