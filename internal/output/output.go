// Package output renders an assembled document as prompt text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/cpai/internal/types"
	"github.com/temirov/cpai/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	directoryStructureHeading = "## Directory Structure\n"
	codeFence                 = "```"
	fileSectionFormat         = "\n## %s\n```%s\n%s\n```\n"
	binaryPlaceholderFormat   = "[binary file omitted: %s, %s]"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	treeDirectorySuffix = "/"
)

// RenderMarkdown returns the document as markdown: a fenced directory tree
// followed by one fenced section per file. In outline mode each section holds
// the rendered outline records instead of the file content.
func RenderMarkdown(document types.Document) string {
	var builder strings.Builder
	builder.WriteString(directoryStructureHeading)
	builder.WriteString(codeFence + "\n")
	WriteTree(&builder, document.Tree)
	builder.WriteString(codeFence + "\n\n")

	for _, file := range document.Files {
		fmt.Fprintf(&builder, fileSectionFormat, file.Path, file.Extension, fileSectionBody(file, document.Mode))
	}
	return builder.String()
}

func fileSectionBody(file types.FileOutput, mode string) string {
	if file.Type == types.NodeTypeBinary {
		return fmt.Sprintf(binaryPlaceholderFormat, file.MimeType, file.Size)
	}
	if mode == types.ModeOutline {
		return RenderOutline(file.Outline)
	}
	return file.Content
}

// RenderJSON marshals the document as indented JSON.
func RenderJSON(document types.Document) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded) + "\n", nil
}

// WriteTree renders a directory tree with box-drawing connectors. Directories
// carry a trailing slash.
func WriteTree(writer io.Writer, node *types.TreeOutputNode) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", true, true)
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	if node.Type != types.NodeTypeDirectory {
		fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
		return
	}
	fmt.Fprintf(writer, "%s%s\n", linePrefix, directoryLabel(node.Name))
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}

func directoryLabel(name string) string {
	if strings.HasSuffix(name, treeDirectorySuffix) {
		return name
	}
	return name + treeDirectorySuffix
}

// Summarize aggregates the file count and size of a document.
func Summarize(document types.Document) *types.OutputSummary {
	var totalBytes int64
	for _, file := range document.Files {
		totalBytes += file.SizeBytes
	}
	return &types.OutputSummary{
		TotalFiles: len(document.Files),
		TotalSize:  utils.FormatFileSize(totalBytes),
	}
}

// FormatSummaryLine formats an OutputSummary into the summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := utils.Pluralize(summary.TotalFiles, "file", "files")
	extra := ""
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, summary.TotalSize, extra, modelSuffix)
}
