package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/types"
)

// ErrNoUsableRoots is wrapped by the PathError returned when every root was rejected.
var ErrNoUsableRoots = errors.New("no usable root paths")

// PathError reports a root path that does not exist or cannot be read.
type PathError struct {
	Path string
	Err  error
}

func (pathError *PathError) Error() string {
	return fmt.Sprintf(pathErrorFormat, pathError.Path, pathError.Err)
}

func (pathError *PathError) Unwrap() error {
	return pathError.Err
}

// ResolveRoots converts input paths to absolute, symlink-free form and checks
// that each can be read. Unusable roots are skipped with a warning; an error is
// returned only when no root remains. Duplicate roots are kept once.
func ResolveRoots(inputs []string, logger *zap.Logger) ([]types.ValidatedPath, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		validatedPath, validationError := validateRoot(inputPath)
		if validationError != nil {
			logger.Warn(logMessageSkipRoot, zap.String(logFieldPath, inputPath), zap.Error(validationError))
			continue
		}
		if _, duplicate := seen[validatedPath.AbsolutePath]; duplicate {
			continue
		}
		seen[validatedPath.AbsolutePath] = struct{}{}
		result = append(result, validatedPath)
	}
	if len(result) == 0 {
		return nil, &PathError{Path: strings.Join(inputs, ", "), Err: ErrNoUsableRoots}
	}
	return result, nil
}

func validateRoot(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, &PathError{Path: inputPath, Err: fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)}
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(filepath.Clean(absolutePath))
	if resolveError != nil {
		if os.IsNotExist(resolveError) {
			return types.ValidatedPath{}, &PathError{Path: inputPath, Err: os.ErrNotExist}
		}
		return types.ValidatedPath{}, &PathError{Path: inputPath, Err: fmt.Errorf(errorResolveSymlinksFormat, inputPath, resolveError)}
	}
	fileInfo, statError := os.Stat(resolvedPath)
	if statError != nil {
		return types.ValidatedPath{}, &PathError{Path: inputPath, Err: statError}
	}
	handle, openError := os.Open(resolvedPath)
	if openError != nil {
		return types.ValidatedPath{}, &PathError{Path: inputPath, Err: openError}
	}
	handle.Close()
	return types.ValidatedPath{
		AbsolutePath: resolvedPath,
		InputPath:    inputPath,
		IsDir:        fileInfo.IsDir(),
	}, nil
}
