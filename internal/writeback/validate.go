package writeback

import (
	"context"
	"fmt"

	"github.com/agentic-research/jsxz/internal/hostast"
	sitter "github.com/smacker/go-tree-sitter"
)

// ValidationError contains structured information about a syntax error.
type ValidationError struct {
	FilePath string
	Line     uint32 // 0-indexed
	Column   uint32 // 0-indexed
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line+1, e.Column+1, e.Message)
}

// Validate re-parses generated code with the grammar of filePath and
// returns an error if the tree contains syntax errors.
func Validate(content []byte, filePath string) error {
	parser := sitter.NewParser()
	parser.SetLanguage(hostast.LanguageFor(filePath))

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed for %s: %w", filePath, err)
	}

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("tree-sitter returned nil root for %s", filePath)
	}

	if !root.HasError() {
		return nil
	}

	// Walk tree to find first ERROR node for a useful error message
	errNode := findFirstError(root)
	if errNode != nil {
		return &ValidationError{
			FilePath: filePath,
			Line:     errNode.StartPoint().Row,
			Column:   errNode.StartPoint().Column,
			Message:  "syntax error in generated code",
		}
	}

	return &ValidationError{
		FilePath: filePath,
		Message:  "generated code contains errors",
	}
}

// findFirstError does a depth-first search for the first ERROR node.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			found := findFirstError(child)
			if found != nil {
				return found
			}
		}
	}
	return nil
}
