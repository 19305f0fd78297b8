//go:build cgo

package outline

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const typeAnnotationMark = ":"

func grammarStrategies() map[Language]strategy {
	return map[Language]strategy{
		LanguageJavaScript: javascriptStrategy(javascript.GetLanguage()),
		LanguageTypeScript: javascriptStrategy(typescript.GetLanguage()),
		LanguageTSX:        javascriptStrategy(tsx.GetLanguage()),
		LanguagePython:     extractPython,
		LanguageRust:       extractRust,
	}
}

// parseSource parses content with a parser owned by this call only.
func parseSource(language *sitter.Language, content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)
	tree, parseError := parser.ParseCtx(context.Background(), nil, content)
	if parseError != nil {
		return nil, parseError
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, errEmptySyntaxTree
	}
	return tree, nil
}

func lineNumber(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// lastRow returns the row of the node's final character. Line comments in some
// grammars include the trailing newline, which would otherwise shift the row.
func lastRow(node *sitter.Node) uint32 {
	endPoint := node.EndPoint()
	if endPoint.Column == 0 && endPoint.Row > node.StartPoint().Row {
		return endPoint.Row - 1
	}
	return endPoint.Row
}

func hasChildOfType(node *sitter.Node, nodeType string) bool {
	for childIndex := 0; childIndex < int(node.ChildCount()); childIndex++ {
		child := node.Child(childIndex)
		if child != nil && child.Type() == nodeType {
			return true
		}
	}
	return false
}

func fieldText(node *sitter.Node, fieldName string, source []byte) string {
	fieldNode := node.ChildByFieldName(fieldName)
	if fieldNode == nil {
		return ""
	}
	return fieldNode.Content(source)
}

// parameterText strips the surrounding parentheses of a parameter list.
func parameterText(parameters *sitter.Node, source []byte) string {
	if parameters == nil {
		return ""
	}
	text := strings.TrimSpace(parameters.Content(source))
	if strings.HasPrefix(text, parameterListOpen) && strings.HasSuffix(text, parameterListClose) {
		text = text[len(parameterListOpen) : len(text)-len(parameterListClose)]
	}
	return strings.TrimSpace(text)
}

// annotationText strips the leading colon of a type annotation.
func annotationText(annotation *sitter.Node, source []byte) string {
	if annotation == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(annotation.Content(source)), typeAnnotationMark))
}

// commentScan describes which preceding siblings count as comments and which
// may sit between a comment and its declaration (decorators, attributes).
type commentScan struct {
	isComment   func(*sitter.Node) bool
	isSkippable func(*sitter.Node) bool
}

// leadingComment collects the contiguous comments immediately above anchor.
// A blank line or a comment trailing code on its own line ends the block.
func (scan commentScan) leadingComment(anchor *sitter.Node, source []byte) string {
	var commentTexts []string
	following := anchor
	for sibling := anchor.PrevSibling(); sibling != nil; sibling = sibling.PrevSibling() {
		if scan.isSkippable != nil && scan.isSkippable(sibling) {
			following = sibling
			continue
		}
		if !scan.isComment(sibling) {
			break
		}
		if lastRow(sibling)+1 < following.StartPoint().Row {
			break
		}
		if preceding := sibling.PrevSibling(); preceding != nil && !scan.isComment(preceding) && lastRow(preceding) == sibling.StartPoint().Row {
			break
		}
		commentTexts = append(commentTexts, strings.TrimRight(sibling.Content(source), "\r\n"))
		following = sibling
	}
	for left, right := 0, len(commentTexts)-1; left < right; left, right = left+1, right-1 {
		commentTexts[left], commentTexts[right] = commentTexts[right], commentTexts[left]
	}
	return strings.Join(commentTexts, commentLineJoiner)
}

func nodeTypeIn(nodeTypes ...string) func(*sitter.Node) bool {
	typeSet := make(map[string]struct{}, len(nodeTypes))
	for _, nodeType := range nodeTypes {
		typeSet[nodeType] = struct{}{}
	}
	return func(node *sitter.Node) bool {
		_, found := typeSet[node.Type()]
		return found
	}
}
