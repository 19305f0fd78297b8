package commands

const (
	pathErrorFormat            = "path %s: %v"
	errorAbsolutePathFormat    = "getting absolute path for %s: %w"
	errorResolveSymlinksFormat = "resolving symbolic links for %s: %w"

	logMessageSkipRoot      = "skipping root path"
	logMessageAccessPath    = "unable to access path"
	logMessageReadFile      = "skipping unreadable file"
	logMessageIgnoreFiles   = "ignore files not applied"
	logMessageOutlineFailed = "outline unavailable"
	logMessageTokenCount    = "failed to count tokens"
	logFieldPath            = "path"
)
