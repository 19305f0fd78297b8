package commands

import (
	"sort"
	"strings"

	"github.com/temirov/cpai/internal/types"
)

const (
	treeRootName         = "."
	treeSegmentSeparator = "/"
)

// BuildTree arranges slash separated display paths into a directory tree rooted
// at ".". Absolute paths hang off a "/" directory. Children are sorted by name.
func BuildTree(displayPaths []string) *types.TreeOutputNode {
	rootNode := &types.TreeOutputNode{
		Path: treeRootName,
		Name: treeRootName,
		Type: types.NodeTypeDirectory,
	}
	for _, displayPath := range displayPaths {
		insertTreePath(rootNode, displayPath)
	}
	sortTree(rootNode)
	return rootNode
}

func insertTreePath(rootNode *types.TreeOutputNode, displayPath string) {
	trimmedPath := strings.TrimPrefix(displayPath, treeSegmentSeparator)
	if trimmedPath == "" {
		return
	}
	segments := strings.Split(trimmedPath, treeSegmentSeparator)
	if strings.HasPrefix(displayPath, treeSegmentSeparator) {
		segments = append([]string{treeSegmentSeparator}, segments...)
	}

	currentNode := rootNode
	var pathSoFar string
	for segmentIndex, segment := range segments {
		if segment == "" {
			continue
		}
		pathSoFar = joinTreePath(pathSoFar, segment)
		isLeaf := segmentIndex == len(segments)-1
		currentNode = childNamed(currentNode, segment, pathSoFar, isLeaf)
	}
}

func joinTreePath(parentPath string, segment string) string {
	switch {
	case parentPath == "":
		return segment
	case parentPath == treeSegmentSeparator:
		return treeSegmentSeparator + segment
	default:
		return parentPath + treeSegmentSeparator + segment
	}
}

func childNamed(parentNode *types.TreeOutputNode, name string, nodePath string, isLeaf bool) *types.TreeOutputNode {
	for _, child := range parentNode.Children {
		if child.Name == name {
			return child
		}
	}
	nodeType := types.NodeTypeDirectory
	if isLeaf {
		nodeType = types.NodeTypeFile
	}
	child := &types.TreeOutputNode{Path: nodePath, Name: name, Type: nodeType}
	parentNode.Children = append(parentNode.Children, child)
	return child
}

func sortTree(node *types.TreeOutputNode) {
	sort.SliceStable(node.Children, func(left, right int) bool {
		return node.Children[left].Name < node.Children[right].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}
