//go:build !cgo

package outline

// grammarStrategies registers nothing when cgo is unavailable. JavaScript,
// TypeScript, Python and Rust files then report a ParseError instead of an outline.
func grammarStrategies() map[Language]strategy {
	return nil
}
