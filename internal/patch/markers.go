package patch

import (
	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/hostast"
)

// expandMarkers replaces every ChildrenZ marker found under parent with a
// fresh clone of saved. Markers may sit at any depth of the template,
// including inside elements embedded in expressions. Clones are not
// scanned again, so markers inside the original children stay as they are.
func (a *Applicator) expandMarkers(parent hostast.NodeID, saved []hostast.NodeID) {
	t := a.tree
	for _, c := range append([]hostast.NodeID(nil), t.Node(parent).Children...) {
		if t.Node(c).IsElement(api.ChildrenMarker) {
			t.ReplaceChild(c, t.CloneAll(saved)...)
			continue
		}
		a.expandWithin(c, saved)
	}
}

func (a *Applicator) expandWithin(id hostast.NodeID, saved []hostast.NodeID) {
	t := a.tree
	n := t.Node(id)
	attrs, expr := n.Attrs, n.Expr
	for _, at := range attrs {
		a.expandExpr(at.Expr, saved)
	}
	a.expandExpr(expr, saved)
	if t.Node(id).Kind == hostast.KindElement {
		a.expandMarkers(id, saved)
	}
}

func (a *Applicator) expandExpr(e *hostast.Expr, saved []hostast.NodeID) {
	if e == nil {
		return
	}
	t := a.tree
	for i, s := range e.Segments {
		if s.Kind != hostast.SegElement {
			continue
		}
		if t.Node(s.Elem).IsElement(api.ChildrenMarker) {
			frag := t.NewElement("", nil)
			t.SetChildren(frag, t.CloneAll(saved))
			e.Segments[i].Elem = frag
			continue
		}
		a.expandWithin(s.Elem, saved)
	}
}
