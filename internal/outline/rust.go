//go:build cgo

package outline

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/temirov/cpai/internal/types"
)

const (
	rsFunctionItem          = "function_item"
	rsFunctionSignatureItem = "function_signature_item"
	rsStructItem            = "struct_item"
	rsEnumItem              = "enum_item"
	rsUnionItem             = "union_item"
	rsTraitItem             = "trait_item"
	rsImplItem              = "impl_item"
	rsModItem               = "mod_item"
	rsVisibilityModifier    = "visibility_modifier"
	rsFunctionModifiers     = "function_modifiers"
	rsLineComment           = "line_comment"
	rsBlockComment          = "block_comment"
	rsAttributeItem         = "attribute_item"
	rsAsyncKeyword          = "async"
	rsNameField             = "name"
	rsBodyField             = "body"
	rsTypeField             = "type"
	rsTraitField            = "trait"
	rsParametersField       = "parameters"
	rsReturnTypeField       = "return_type"
	rsImplPrefix            = "impl "
	rsImplTraitSeparator    = " for "
	rsPrivatePrefix         = "_"
)

var (
	rsTypeItems = nodeTypeIn(rsStructItem, rsEnumItem, rsUnionItem)
	rsComments  = commentScan{
		isComment:   nodeTypeIn(rsLineComment, rsBlockComment),
		isSkippable: nodeTypeIn(rsAttributeItem),
	}
)

func extractRust(content []byte) ([]types.OutlineRecord, error) {
	tree, parseError := parseSource(rust.GetLanguage(), content)
	if parseError != nil {
		return nil, parseError
	}
	defer tree.Close()

	var accumulator recordAccumulator
	visitRustItems(&accumulator, tree.RootNode(), content)
	return accumulator.result(), nil
}

// visitRustItems emits records for the items of a source file or inline module.
func visitRustItems(accumulator *recordAccumulator, container *sitter.Node, source []byte) {
	for childIndex := 0; childIndex < int(container.NamedChildCount()); childIndex++ {
		item := container.NamedChild(childIndex)
		if item == nil {
			continue
		}
		switch {
		case item.Type() == rsFunctionItem:
			emitRustFunction(accumulator, item, types.OutlineKindFunction, source)
		case rsTypeItems(item):
			emitRustType(accumulator, item, fieldText(item, rsNameField, source), source)
		case item.Type() == rsTraitItem:
			if emitRustType(accumulator, item, fieldText(item, rsNameField, source), source) {
				emitRustMethods(accumulator, item.ChildByFieldName(rsBodyField), source)
			}
		case item.Type() == rsImplItem:
			if emitRustType(accumulator, item, implName(item, source), source) {
				emitRustMethods(accumulator, item.ChildByFieldName(rsBodyField), source)
			}
		case item.Type() == rsModItem:
			if body := item.ChildByFieldName(rsBodyField); body != nil {
				visitRustItems(accumulator, body, source)
			}
		}
	}
}

// implName renders "impl Type" or "impl Trait for Type".
func implName(impl *sitter.Node, source []byte) string {
	implementedType := fieldText(impl, rsTypeField, source)
	if implementedTrait := fieldText(impl, rsTraitField, source); implementedTrait != "" {
		return rsImplPrefix + implementedTrait + rsImplTraitSeparator + implementedType
	}
	return rsImplPrefix + implementedType
}

func emitRustType(accumulator *recordAccumulator, item *sitter.Node, name string, source []byte) bool {
	if name == "" || strings.HasPrefix(name, rsPrivatePrefix) {
		return false
	}
	accumulator.add(types.OutlineRecord{
		Name:           name,
		Kind:           types.OutlineKindClass,
		Line:           lineNumber(item),
		IsExport:       hasChildOfType(item, rsVisibilityModifier),
		LeadingComment: rsComments.leadingComment(item, source),
	})
	return true
}

func emitRustMethods(accumulator *recordAccumulator, body *sitter.Node, source []byte) {
	if body == nil {
		return
	}
	for memberIndex := 0; memberIndex < int(body.NamedChildCount()); memberIndex++ {
		member := body.NamedChild(memberIndex)
		if member == nil {
			continue
		}
		if member.Type() == rsFunctionItem || member.Type() == rsFunctionSignatureItem {
			emitRustFunction(accumulator, member, types.OutlineKindMethod, source)
		}
	}
}

func emitRustFunction(accumulator *recordAccumulator, function *sitter.Node, kind types.OutlineKind, source []byte) {
	name := fieldText(function, rsNameField, source)
	if name == "" || strings.HasPrefix(name, rsPrivatePrefix) {
		return
	}
	accumulator.add(types.OutlineRecord{
		Name:           name,
		Kind:           kind,
		Line:           lineNumber(function),
		Parameters:     parameterText(function.ChildByFieldName(rsParametersField), source),
		ReturnType:     strings.TrimSpace(fieldText(function, rsReturnTypeField, source)),
		IsAsync:        isAsyncRustFunction(function, source),
		IsExport:       hasChildOfType(function, rsVisibilityModifier),
		LeadingComment: rsComments.leadingComment(function, source),
	})
}

func isAsyncRustFunction(function *sitter.Node, source []byte) bool {
	for childIndex := 0; childIndex < int(function.ChildCount()); childIndex++ {
		child := function.Child(childIndex)
		if child == nil || child.Type() != rsFunctionModifiers {
			continue
		}
		for _, modifier := range strings.Fields(child.Content(source)) {
			if modifier == rsAsyncKeyword {
				return true
			}
		}
	}
	return false
}
