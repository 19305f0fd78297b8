//go:build cgo

package outline

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/temirov/cpai/internal/types"
)

const (
	jsClassDeclaration           = "class_declaration"
	jsAbstractClassDeclaration   = "abstract_class_declaration"
	jsClassExpression            = "class"
	jsFunctionDeclaration        = "function_declaration"
	jsGeneratorDeclaration       = "generator_function_declaration"
	jsFunctionExpression         = "function_expression"
	jsLegacyFunctionExpression   = "function"
	jsGeneratorFunction          = "generator_function"
	jsArrowFunction              = "arrow_function"
	jsMethodDefinition           = "method_definition"
	jsAbstractMethodSignature    = "abstract_method_signature"
	jsFieldDefinition            = "field_definition"
	jsPublicFieldDefinition      = "public_field_definition"
	jsVariableDeclarator         = "variable_declarator"
	jsLexicalDeclaration         = "lexical_declaration"
	jsVariableDeclaration        = "variable_declaration"
	jsExportStatement            = "export_statement"
	jsExportClause               = "export_clause"
	jsExportSpecifier            = "export_specifier"
	jsReturnStatement            = "return_statement"
	jsParenthesizedExpression    = "parenthesized_expression"
	jsStatementBlock             = "statement_block"
	jsIdentifier                 = "identifier"
	jsComment                    = "comment"
	jsDecorator                  = "decorator"
	jsElement                    = "jsx_element"
	jsSelfClosingElement         = "jsx_self_closing_element"
	jsFragment                   = "jsx_fragment"
	jsDefaultKeyword             = "default"
	jsAsyncKeyword               = "async"
	jsNameField                  = "name"
	jsAliasField                 = "alias"
	jsValueField                 = "value"
	jsBodyField                  = "body"
	jsParametersField            = "parameters"
	jsParameterField             = "parameter"
	jsReturnTypeField            = "return_type"
	jsPropertyField              = "property"
	jsElementReturnType          = "JSX.Element"
	jsDefaultExportSpecifierName = "default"
)

var (
	jsClassNodeTypes = nodeTypeIn(jsClassDeclaration, jsAbstractClassDeclaration)
	jsFunctionNodes  = nodeTypeIn(jsFunctionDeclaration, jsGeneratorDeclaration)
	jsExpressionFunc = nodeTypeIn(jsFunctionExpression, jsLegacyFunctionExpression, jsGeneratorFunction, jsArrowFunction)
	jsMemberFunction = nodeTypeIn(jsMethodDefinition, jsAbstractMethodSignature)
	jsFieldNodes     = nodeTypeIn(jsFieldDefinition, jsPublicFieldDefinition)
	jsJSXNodes       = nodeTypeIn(jsElement, jsSelfClosingElement, jsFragment)
	jsScopeBoundary  = nodeTypeIn(
		jsFunctionDeclaration, jsGeneratorDeclaration, jsFunctionExpression, jsLegacyFunctionExpression,
		jsGeneratorFunction, jsArrowFunction, jsMethodDefinition, jsClassDeclaration, jsAbstractClassDeclaration,
		jsClassExpression,
	)
	jsComments = commentScan{
		isComment:   nodeTypeIn(jsComment),
		isSkippable: nodeTypeIn(jsDecorator),
	}
)

// javascriptWalk is the traversal state of one JS/TS extraction.
type javascriptWalk struct {
	source         []byte
	defaultExports map[string]struct{}
	accumulator    recordAccumulator
}

func javascriptStrategy(language *sitter.Language) strategy {
	return func(content []byte) ([]types.OutlineRecord, error) {
		tree, parseError := parseSource(language, content)
		if parseError != nil {
			return nil, parseError
		}
		defer tree.Close()

		root := tree.RootNode()
		walk := &javascriptWalk{
			source:         content,
			defaultExports: collectDefaultExports(root, content),
		}
		walk.visit(root)
		return walk.accumulator.result(), nil
	}
}

// collectDefaultExports records identifiers named by "export default name" and
// "export { name as default }" statements. Matching is by name only.
func collectDefaultExports(root *sitter.Node, source []byte) map[string]struct{} {
	defaultExports := make(map[string]struct{})
	for childIndex := 0; childIndex < int(root.NamedChildCount()); childIndex++ {
		statement := root.NamedChild(childIndex)
		if statement == nil || statement.Type() != jsExportStatement {
			continue
		}
		if value := statement.ChildByFieldName(jsValueField); value != nil && value.Type() == jsIdentifier && hasChildOfType(statement, jsDefaultKeyword) {
			defaultExports[value.Content(source)] = struct{}{}
			continue
		}
		for clauseIndex := 0; clauseIndex < int(statement.NamedChildCount()); clauseIndex++ {
			clause := statement.NamedChild(clauseIndex)
			if clause == nil || clause.Type() != jsExportClause {
				continue
			}
			for specifierIndex := 0; specifierIndex < int(clause.NamedChildCount()); specifierIndex++ {
				specifier := clause.NamedChild(specifierIndex)
				if specifier == nil || specifier.Type() != jsExportSpecifier {
					continue
				}
				if fieldText(specifier, jsAliasField, source) == jsDefaultExportSpecifierName {
					defaultExports[fieldText(specifier, jsNameField, source)] = struct{}{}
				}
			}
		}
	}
	return defaultExports
}

// visit walks depth-first. Class and function nodes are handled whole so their
// bodies never contribute records.
func (walk *javascriptWalk) visit(node *sitter.Node) {
	switch {
	case jsClassNodeTypes(node):
		walk.emitClass(node, node.ChildByFieldName(jsNameField))
		return
	case node.Type() == jsClassExpression:
		if nameNode := boundName(node); nameNode != nil {
			walk.emitClass(node, nameNode)
		}
		return
	case jsFunctionNodes(node):
		walk.emitFunction(node, node.ChildByFieldName(jsNameField))
		return
	case jsExpressionFunc(node):
		if nameNode := boundName(node); nameNode != nil {
			walk.emitFunction(node, nameNode)
		}
		return
	case node.Type() == jsMethodDefinition:
		return
	}
	for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
		if child := node.NamedChild(childIndex); child != nil {
			walk.visit(child)
		}
	}
}

// boundName returns the identifier an expression is attributed to: the binding
// of its enclosing variable declarator, or its own name when it is the value of
// an export default statement. Nil means anonymous.
func boundName(expression *sitter.Node) *sitter.Node {
	parent := expression.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Type() {
	case jsVariableDeclarator:
		value := parent.ChildByFieldName(jsValueField)
		nameNode := parent.ChildByFieldName(jsNameField)
		if value != nil && sameNode(value, expression) && nameNode != nil && nameNode.Type() == jsIdentifier {
			return nameNode
		}
	case jsExportStatement:
		return expression.ChildByFieldName(jsNameField)
	}
	return nil
}

func sameNode(left *sitter.Node, right *sitter.Node) bool {
	return left.StartByte() == right.StartByte() && left.EndByte() == right.EndByte() && left.Type() == right.Type()
}

// anchorOf returns the statement that carries a declaration's comments and
// export modifier: the declaration itself, its variable statement, or the
// export statement wrapping either.
func anchorOf(declaration *sitter.Node) *sitter.Node {
	anchor := declaration
	if parent := anchor.Parent(); parent != nil && parent.Type() == jsVariableDeclarator {
		if statement := parent.Parent(); statement != nil && (statement.Type() == jsLexicalDeclaration || statement.Type() == jsVariableDeclaration) {
			anchor = statement
		}
	}
	if parent := anchor.Parent(); parent != nil && parent.Type() == jsExportStatement {
		anchor = parent
	}
	return anchor
}

func (walk *javascriptWalk) exportFlags(anchor *sitter.Node, name string) (bool, bool) {
	if anchor.Type() == jsExportStatement {
		return true, hasChildOfType(anchor, jsDefaultKeyword)
	}
	if _, isDefault := walk.defaultExports[name]; isDefault {
		return true, true
	}
	return false, false
}

func (walk *javascriptWalk) emitFunction(function *sitter.Node, nameNode *sitter.Node) {
	if nameNode == nil {
		return
	}
	name := nameNode.Content(walk.source)
	anchor := anchorOf(function)
	isExport, isDefaultExport := walk.exportFlags(anchor, name)
	walk.accumulator.add(types.OutlineRecord{
		Name:            name,
		Kind:            types.OutlineKindFunction,
		Line:            lineNumber(anchor),
		Parameters:      walk.parameters(function),
		ReturnType:      walk.returnType(function),
		IsAsync:         hasChildOfType(function, jsAsyncKeyword),
		IsExport:        isExport,
		IsDefaultExport: isDefaultExport,
		LeadingComment:  jsComments.leadingComment(anchor, walk.source),
	})
}

// emitClass records the class followed by each of its methods in source order.
func (walk *javascriptWalk) emitClass(class *sitter.Node, nameNode *sitter.Node) {
	if nameNode == nil {
		return
	}
	name := nameNode.Content(walk.source)
	anchor := anchorOf(class)
	isExport, isDefaultExport := walk.exportFlags(anchor, name)
	walk.accumulator.add(types.OutlineRecord{
		Name:            name,
		Kind:            types.OutlineKindClass,
		Line:            lineNumber(anchor),
		IsExport:        isExport,
		IsDefaultExport: isDefaultExport,
		LeadingComment:  jsComments.leadingComment(anchor, walk.source),
	})

	body := class.ChildByFieldName(jsBodyField)
	if body == nil {
		return
	}
	for memberIndex := 0; memberIndex < int(body.NamedChildCount()); memberIndex++ {
		member := body.NamedChild(memberIndex)
		if member == nil {
			continue
		}
		switch {
		case jsMemberFunction(member):
			walk.emitMethod(member, member, member.ChildByFieldName(jsNameField))
		case jsFieldNodes(member):
			value := member.ChildByFieldName(jsValueField)
			if value == nil || !jsExpressionFunc(value) {
				continue
			}
			nameNode := member.ChildByFieldName(jsPropertyField)
			if nameNode == nil {
				nameNode = member.ChildByFieldName(jsNameField)
			}
			walk.emitMethod(member, value, nameNode)
		}
	}
}

func (walk *javascriptWalk) emitMethod(member *sitter.Node, function *sitter.Node, nameNode *sitter.Node) {
	if nameNode == nil {
		return
	}
	walk.accumulator.add(types.OutlineRecord{
		Name:           nameNode.Content(walk.source),
		Kind:           types.OutlineKindMethod,
		Line:           lineNumber(member),
		Parameters:     walk.parameters(function),
		ReturnType:     walk.returnType(function),
		IsAsync:        hasChildOfType(function, jsAsyncKeyword),
		LeadingComment: jsComments.leadingComment(member, walk.source),
	})
}

func (walk *javascriptWalk) parameters(function *sitter.Node) string {
	if parameters := function.ChildByFieldName(jsParametersField); parameters != nil {
		return parameterText(parameters, walk.source)
	}
	if parameter := function.ChildByFieldName(jsParameterField); parameter != nil {
		return parameter.Content(walk.source)
	}
	return ""
}

// returnType prefers the explicit annotation and otherwise reports JSX.Element
// when the function body returns JSX.
func (walk *javascriptWalk) returnType(function *sitter.Node) string {
	if annotation := function.ChildByFieldName(jsReturnTypeField); annotation != nil {
		return annotationText(annotation, walk.source)
	}
	body := function.ChildByFieldName(jsBodyField)
	if body == nil {
		return ""
	}
	if body.Type() != jsStatementBlock {
		if isJSXExpression(body) {
			return jsElementReturnType
		}
		return ""
	}
	if returnsJSX(body) {
		return jsElementReturnType
	}
	return ""
}

// returnsJSX scans return statements of a block without entering nested functions or classes.
func returnsJSX(block *sitter.Node) bool {
	for childIndex := 0; childIndex < int(block.NamedChildCount()); childIndex++ {
		child := block.NamedChild(childIndex)
		if child == nil || jsScopeBoundary(child) {
			continue
		}
		if child.Type() == jsReturnStatement {
			for argumentIndex := 0; argumentIndex < int(child.NamedChildCount()); argumentIndex++ {
				if isJSXExpression(child.NamedChild(argumentIndex)) {
					return true
				}
			}
			continue
		}
		if returnsJSX(child) {
			return true
		}
	}
	return false
}

func isJSXExpression(expression *sitter.Node) bool {
	for expression != nil && expression.Type() == jsParenthesizedExpression {
		expression = expression.NamedChild(0)
	}
	return expression != nil && jsJSXNodes(expression)
}
