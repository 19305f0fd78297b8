//go:build cgo

package outline

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/temirov/cpai/internal/types"
)

const (
	pyClassDefinition     = "class_definition"
	pyFunctionDefinition  = "function_definition"
	pyDecoratedDefinition = "decorated_definition"
	pyExpressionStatement = "expression_statement"
	pyString              = "string"
	pyComment             = "comment"
	pyAsyncKeyword        = "async"
	pyDefinitionField     = "definition"
	pyNameField           = "name"
	pyBodyField           = "body"
	pyParametersField     = "parameters"
	pyReturnTypeField     = "return_type"
	pyPrivatePrefix       = "_"
)

var (
	pyTestLifecycleNames = map[string]struct{}{
		"setUp":         {},
		"tearDown":      {},
		"setUpClass":    {},
		"tearDownClass": {},
	}
	pyDocstringQuotes = []string{`"""`, `'''`, `"`, `'`}
	pyComments        = commentScan{isComment: nodeTypeIn(pyComment)}
)

// pythonDeclaration pairs a definition with the node that anchors its position,
// which is the decorated wrapper when decorators are present.
type pythonDeclaration struct {
	anchor     *sitter.Node
	definition *sitter.Node
}

func extractPython(content []byte) ([]types.OutlineRecord, error) {
	tree, parseError := parseSource(python.GetLanguage(), content)
	if parseError != nil {
		return nil, parseError
	}
	defer tree.Close()

	var accumulator recordAccumulator
	root := tree.RootNode()
	for _, declaration := range pythonDeclarations(root) {
		switch declaration.definition.Type() {
		case pyClassDefinition:
			emitPythonClass(&accumulator, declaration, content)
		case pyFunctionDefinition:
			emitPythonFunction(&accumulator, declaration, types.OutlineKindFunction, content)
		}
	}
	return accumulator.result(), nil
}

// pythonDeclarations lists the class and function definitions directly inside container.
func pythonDeclarations(container *sitter.Node) []pythonDeclaration {
	var declarations []pythonDeclaration
	for childIndex := 0; childIndex < int(container.NamedChildCount()); childIndex++ {
		child := container.NamedChild(childIndex)
		if child == nil {
			continue
		}
		switch child.Type() {
		case pyClassDefinition, pyFunctionDefinition:
			declarations = append(declarations, pythonDeclaration{anchor: child, definition: child})
		case pyDecoratedDefinition:
			if definition := child.ChildByFieldName(pyDefinitionField); definition != nil {
				declarations = append(declarations, pythonDeclaration{anchor: child, definition: definition})
			}
		}
	}
	return declarations
}

func isPublicPythonName(name string) bool {
	if name == "" || strings.HasPrefix(name, pyPrivatePrefix) {
		return false
	}
	_, isLifecycle := pyTestLifecycleNames[name]
	return !isLifecycle
}

func emitPythonClass(accumulator *recordAccumulator, declaration pythonDeclaration, source []byte) {
	name := fieldText(declaration.definition, pyNameField, source)
	if !isPublicPythonName(name) {
		return
	}
	accumulator.add(types.OutlineRecord{
		Name:           name,
		Kind:           types.OutlineKindClass,
		Line:           lineNumber(declaration.anchor),
		LeadingComment: pythonComment(declaration, source),
	})
	body := declaration.definition.ChildByFieldName(pyBodyField)
	if body == nil {
		return
	}
	for _, member := range pythonDeclarations(body) {
		if member.definition.Type() == pyFunctionDefinition {
			emitPythonFunction(accumulator, member, types.OutlineKindMethod, source)
		}
	}
}

func emitPythonFunction(accumulator *recordAccumulator, declaration pythonDeclaration, kind types.OutlineKind, source []byte) {
	definition := declaration.definition
	name := fieldText(definition, pyNameField, source)
	if !isPublicPythonName(name) {
		return
	}
	accumulator.add(types.OutlineRecord{
		Name:           name,
		Kind:           kind,
		Line:           lineNumber(declaration.anchor),
		Parameters:     parameterText(definition.ChildByFieldName(pyParametersField), source),
		ReturnType:     strings.TrimSpace(fieldText(definition, pyReturnTypeField, source)),
		IsAsync:        hasChildOfType(definition, pyAsyncKeyword),
		LeadingComment: pythonComment(declaration, source),
	})
}

// pythonComment prefers the comment block above the declaration and falls back
// to the first line of its docstring.
func pythonComment(declaration pythonDeclaration, source []byte) string {
	if comment := pyComments.leadingComment(declaration.anchor, source); comment != "" {
		return comment
	}
	return docstringSummary(declaration.definition, source)
}

func docstringSummary(definition *sitter.Node, source []byte) string {
	body := definition.ChildByFieldName(pyBodyField)
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	firstStatement := body.NamedChild(0)
	if firstStatement == nil || firstStatement.Type() != pyExpressionStatement || firstStatement.NamedChildCount() == 0 {
		return ""
	}
	literal := firstStatement.NamedChild(0)
	if literal == nil || literal.Type() != pyString {
		return ""
	}
	text := literal.Content(source)
	text = strings.TrimLeft(text, "rRuUbB")
	for _, quote := range pyDocstringQuotes {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			text = text[len(quote) : len(text)-len(quote)]
			break
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if trimmedLine := strings.TrimSpace(line); trimmedLine != "" {
			return trimmedLine
		}
	}
	return ""
}
