// Package directive finds JSXZ directives in host source and parses them
// into transform specs.
package directive

import (
	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/hostast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Site is an outermost directive occurrence in a compilation unit.
type Site struct {
	Node *sitter.Node
	// ChildPosition is set when the directive sits between JSX tags rather
	// than in an expression position.
	ChildPosition bool
}

// FindSites walks the syntax tree once and returns outermost directives in
// source order. It does not descend into a directive it has found; nested
// directives are expanded from the arena by Collect.
func FindSites(src *hostast.Source) []Site {
	var sites []Site
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if hostast.IsJSXElement(n) && hostast.ElementName(n, src.Src) == api.DirectiveTag {
			parent := n.Parent()
			child := parent != nil && (parent.Type() == "jsx_element" || parent.Type() == "jsx_fragment")
			sites = append(sites, Site{Node: n, ChildPosition: child})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(src.Root())
	return sites
}

// Collect returns every directive node in the subtree at root, inner ones
// before the directives that contain them. The list is fixed before any
// expansion, so content produced by a directive is never scanned again.
func Collect(t *hostast.Tree, root hostast.NodeID) []hostast.NodeID {
	var found []hostast.NodeID
	t.Walk(root, nil, func(id hostast.NodeID) {
		if t.Node(id).IsElement(api.DirectiveTag) {
			found = append(found, id)
		}
	})
	return found
}
