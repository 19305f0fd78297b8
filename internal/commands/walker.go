// Package commands selects the files of a run and turns them into a document.
package commands

import (
	"io/fs"
	"iter"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/cpai/internal/filter"
	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

// WalkOptions tunes how roots are enumerated.
type WalkOptions struct {
	// WorkingDirectory anchors display paths and the relative paths of file roots.
	WorkingDirectory string
	// ConfigForRoot returns the filter configuration used beneath a directory
	// root, typically the base configuration extended by the root's ignore files.
	ConfigForRoot func(root types.ValidatedPath, base types.FilterConfig) (types.FilterConfig, error)
	Logger        *zap.Logger
}

func (options WalkOptions) logger() *zap.Logger {
	if options.Logger == nil {
		return zap.NewNop()
	}
	return options.Logger
}

// Walk returns the lazy sequence of candidate files selected beneath roots.
// File roots are checked against the filter without the built-in default
// excludes. Directory roots are enumerated in lexicographic order, pruning
// subdirectories whose whole content is excluded and no include pattern reaches. Symbolic links inside a root are not followed and a
// file reachable from several roots is yielded once. Every range over the
// sequence walks the file system again.
func Walk(roots []types.ValidatedPath, filterConfig types.FilterConfig, options WalkOptions) iter.Seq[types.CandidateFile] {
	return func(yield func(types.CandidateFile) bool) {
		walk := &walkState{
			options: options,
			logger:  options.logger(),
			yield:   yield,
			yielded: make(map[string]struct{}),
		}
		for _, root := range roots {
			if !walk.walkRoot(root, filterConfig) {
				return
			}
		}
	}
}

type walkState struct {
	options WalkOptions
	logger  *zap.Logger
	yield   func(types.CandidateFile) bool
	yielded map[string]struct{}
}

// walkRoot reports false once the consumer stopped the sequence.
func (walk *walkState) walkRoot(root types.ValidatedPath, filterConfig types.FilterConfig) bool {
	if !root.IsDir {
		candidate := types.CandidateFile{
			AbsolutePath: root.AbsolutePath,
			RelativePath: fileRootRelativePath(root.AbsolutePath, walk.options.WorkingDirectory),
			DisplayPath:  utils.DisplayPath(root.AbsolutePath, walk.options.WorkingDirectory),
		}
		if !filter.ShouldIncludeFileRoot(candidate, filterConfig) {
			return true
		}
		return walk.emit(candidate)
	}

	rootConfig := filterConfig
	if walk.options.ConfigForRoot != nil {
		extendedConfig, configError := walk.options.ConfigForRoot(root, filterConfig)
		if configError != nil {
			walk.logger.Warn(logMessageIgnoreFiles, zap.String(logFieldPath, root.AbsolutePath), zap.Error(configError))
		} else {
			rootConfig = extendedConfig
		}
	}

	stopped := false
	walkError := filepath.WalkDir(root.AbsolutePath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			walk.logger.Warn(logMessageAccessPath, zap.String(logFieldPath, walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() && walkedPath != root.AbsolutePath {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, root.AbsolutePath)
		if relativePath == "." {
			return nil
		}
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if directoryEntry.IsDir() {
			if filter.ShouldPruneDirectory(relativePath, rootConfig) {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		candidate := types.CandidateFile{
			AbsolutePath: walkedPath,
			RelativePath: relativePath,
			DisplayPath:  utils.DisplayPath(walkedPath, walk.options.WorkingDirectory),
		}
		if !filter.ShouldInclude(candidate, rootConfig) {
			return nil
		}
		if !walk.emit(candidate) {
			stopped = true
			return filepath.SkipAll
		}
		return nil
	})
	if walkError != nil {
		walk.logger.Warn(logMessageAccessPath, zap.String(logFieldPath, root.AbsolutePath), zap.Error(walkError))
	}
	return !stopped
}

func (walk *walkState) emit(candidate types.CandidateFile) bool {
	if _, duplicate := walk.yielded[candidate.AbsolutePath]; duplicate {
		return true
	}
	walk.yielded[candidate.AbsolutePath] = struct{}{}
	return walk.yield(candidate)
}

// fileRootRelativePath is the path a file root is matched with: relative to the
// working directory when beneath it, otherwise its base name.
func fileRootRelativePath(absolutePath string, workingDirectory string) string {
	displayPath := utils.DisplayPath(absolutePath, workingDirectory)
	if path.IsAbs(displayPath) || filepath.IsAbs(displayPath) {
		return filepath.Base(absolutePath)
	}
	return displayPath
}
