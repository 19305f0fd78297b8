package output

import (
	"strings"

	"github.com/temirov/cpai/internal/types"
)

const (
	outlineIndent        = "  "
	markerAsync          = "async"
	markerExport         = "export"
	markerDefault        = "default"
	commentContinuation  = "*"
	returnTypeSeparator  = ": "
	markerListOpen       = " ["
	markerListClose      = "]"
	markerListSeparator  = " "
	parameterListOpening = "("
	parameterListClosing = ")"
)

// RenderOutline renders records one per line. Methods are indented one level
// below their class and each record's leading comment sits on the lines
// directly above it at the same indentation.
func RenderOutline(records []types.OutlineRecord) string {
	var lines []string
	for _, record := range records {
		indent := ""
		if record.Kind == types.OutlineKindMethod {
			indent = outlineIndent
		}
		lines = append(lines, commentLines(record.LeadingComment, indent)...)
		lines = append(lines, indent+signature(record))
	}
	return strings.Join(lines, "\n")
}

// signature renders kind, name, parameters, return type and markers in that order.
func signature(record types.OutlineRecord) string {
	var builder strings.Builder
	builder.WriteString(string(record.Kind))
	builder.WriteString(" ")
	builder.WriteString(record.Name)
	if record.Kind != types.OutlineKindClass {
		builder.WriteString(parameterListOpening + collapseLines(record.Parameters) + parameterListClosing)
	}
	if record.ReturnType != "" {
		builder.WriteString(returnTypeSeparator + collapseLines(record.ReturnType))
	}

	var markers []string
	if record.IsAsync {
		markers = append(markers, markerAsync)
	}
	if record.IsExport {
		markers = append(markers, markerExport)
	}
	if record.IsDefaultExport {
		markers = append(markers, markerDefault)
	}
	if len(markers) > 0 {
		builder.WriteString(markerListOpen + strings.Join(markers, markerListSeparator) + markerListClose)
	}
	return builder.String()
}

// commentLines trims every comment line and keeps block comment continuation
// stars aligned one column in.
func commentLines(comment string, indent string) []string {
	if strings.TrimSpace(comment) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}
		if strings.HasPrefix(trimmedLine, commentContinuation) {
			trimmedLine = " " + trimmedLine
		}
		lines = append(lines, indent+trimmedLine)
	}
	return lines
}

// collapseLines joins multi-line parameter lists onto one line.
func collapseLines(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
