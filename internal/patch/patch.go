// Package patch applies resolved sub-directives to a converted fragment.
package patch

import (
	"strconv"

	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/directive"
	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/resolve"
	"golang.org/x/net/html"
)

// Applicator walks one converted fragment and patches matched elements.
type Applicator struct {
	tree *hostast.Tree
	res  *resolve.Resolution
	// Applied counts patches per traversal index.
	Applied map[int]int
}

func NewApplicator(t *hostast.Tree, res *resolve.Resolution) *Applicator {
	return &Applicator{tree: t, res: res, Applied: make(map[int]int)}
}

// Apply patches the fragment at root and returns what replaces it: usually
// root itself, a conditional wrapper, or root's children when inlined.
// Remaining traversal indices are cleared before returning.
func (a *Applicator) Apply(root hostast.NodeID) []hostast.NodeID {
	t := a.tree
	holder := t.NewElement("", nil)
	t.AppendChild(holder, root)
	for _, c := range append([]hostast.NodeID(nil), t.Node(holder).Children...) {
		a.visit(c)
	}
	out := t.Detach(holder)
	for _, id := range out {
		t.Walk(id, func(c hostast.NodeID) bool {
			t.Node(c).Index = 0
			return true
		}, nil)
	}
	return out
}

func (a *Applicator) visit(id hostast.NodeID) {
	t := a.tree
	for _, c := range append([]hostast.NodeID(nil), t.Node(id).Children...) {
		a.visit(c)
	}
	n := t.Node(id)
	if n.Kind != hostast.KindElement || n.Index == 0 {
		return
	}
	idx := n.Index
	rec, ok := a.res.Take(idx)
	if !ok {
		return
	}
	// cleared first: the conditional step moves the node out of the child
	// lists this walk iterates
	n.Index = 0
	a.Applied[idx]++
	a.patch(id, rec)
}

func (a *Applicator) patch(id hostast.NodeID, rec resolve.Record) {
	t := a.tree
	sub := rec.Directive
	swap := swapMap(t.Node(id).Attrs, rec.Ordinal)

	patchAttrs(t, id, sub, swap)

	if sub.Tag != "" {
		t.Node(id).Tag = sub.Tag
	}

	if sub.HasChildren {
		saved := t.Detach(id)
		t.SetChildren(id, sub.Children)
		for _, c := range sub.Children {
			t.SubstituteTree(c, swap)
		}
		a.expandMarkers(id, saved)
	}

	if sub.Guard != nil {
		t.Substitute(sub.Guard, swap)
		if sub.Inline {
			n := t.Node(id)
			n.Tag = ""
			n.Attrs = nil
		}
		wrapper := t.NewExpr(conditional(sub.Guard, id))
		t.ReplaceChild(id, wrapper)
		return
	}

	if sub.Inline {
		kids := t.Detach(id)
		t.ReplaceChild(id, kids...)
	}
}

// swapMap exposes the node's current attribute values as <name>Z and the
// match ordinal as indexZ.
func swapMap(attrs []hostast.Attr, ordinal int) map[string]*hostast.Expr {
	swap := make(map[string]*hostast.Expr, len(attrs)+1)
	for _, at := range attrs {
		if at.Kind == hostast.AttrSpread {
			continue
		}
		swap[at.Name+api.SwapSuffix] = valueOf(at)
	}
	swap[api.SwapIndexKey] = hostast.Number(strconv.Itoa(ordinal))
	return swap
}

func valueOf(at hostast.Attr) *hostast.Expr {
	switch at.Kind {
	case hostast.AttrString:
		return hostast.String(html.UnescapeString(at.Str))
	case hostast.AttrExpr:
		return at.Expr
	}
	return hostast.Code("true")
}

func patchAttrs(t *hostast.Tree, id hostast.NodeID, sub *directive.SubDirective, swap map[string]*hostast.Expr) {
	if len(sub.Attrs) == 0 {
		return
	}
	overridden := make(map[string]bool, len(sub.Attrs))
	for _, r := range sub.Attrs {
		if r.Kind != hostast.AttrSpread {
			overridden[r.Name] = true
		}
	}
	n := t.Node(id)
	attrs := make([]hostast.Attr, 0, len(n.Attrs)+len(sub.Attrs))
	for _, at := range n.Attrs {
		if at.Kind == hostast.AttrSpread || !overridden[at.Name] {
			attrs = append(attrs, at)
		}
	}
	for _, r := range sub.Attrs {
		t.Substitute(r.Expr, swap)
		if r.Kind == hostast.AttrExpr && r.Expr.IsIdent(api.UndefinedLiteral) {
			continue
		}
		attrs = append(attrs, r)
	}
	t.Node(id).Attrs = attrs
}

// conditional builds `guard ? <elem> : null`.
func conditional(guard *hostast.Expr, elem hostast.NodeID) *hostast.Expr {
	e := &hostast.Expr{}
	if guard.IsSimple() {
		e.Segments = append(e.Segments, guard.Segments...)
	} else {
		e.Segments = append(e.Segments, hostast.Segment{Kind: hostast.SegCode, Text: "("})
		e.Segments = append(e.Segments, guard.Segments...)
		e.Segments = append(e.Segments, hostast.Segment{Kind: hostast.SegCode, Text: ")"})
	}
	e.Segments = append(e.Segments,
		hostast.Segment{Kind: hostast.SegCode, Text: " ? "},
		hostast.Segment{Kind: hostast.SegElement, Elem: elem},
		hostast.Segment{Kind: hostast.SegCode, Text: " : null"},
	)
	return e
}
