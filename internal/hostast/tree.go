// Package hostast is the arena representation of the JSX host tree.
//
// Nodes live in a Tree and are addressed by NodeID handles. Structural edits
// go through Tree methods (ReplaceChild, SetChildren, ...) so that parent
// links always agree with child lists.
package hostast

import (
	"github.com/agentic-research/jsxz/internal/diag"
)

// NodeID addresses a node in a Tree. NoNode is the zero value.
type NodeID int32

const NoNode NodeID = 0

type Kind uint8

const (
	// KindElement is a JSX element. An empty Tag is a fragment (<>...</>).
	KindElement Kind = iota + 1
	// KindText holds JSX text exactly as it appears in source.
	KindText
	// KindExpr is an expression container ({...}) or, with Comment set, {/*...*/}.
	KindExpr
)

type AttrKind uint8

const (
	AttrBool AttrKind = iota + 1
	AttrString
	AttrExpr
	AttrSpread
)

// Attr is one JSX attribute. Str holds the raw string value for AttrString,
// Expr the expression for AttrExpr and AttrSpread.
type Attr struct {
	Kind AttrKind
	Name string
	Str  string
	Expr *Expr
	Pos  diag.Pos
}

// Node is one arena slot.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Children []NodeID
	Parent   NodeID
	Text     string
	Expr     *Expr
	Comment  bool
	// Index is the traversal index assigned by the converter; 0 means none.
	Index int
	Pos   diag.Pos
	// NamePos is the location of the element name (opening tag).
	NamePos diag.Pos
}

// Tree is an arena of host nodes.
type Tree struct {
	nodes []Node
}

func NewTree() *Tree {
	// slot 0 is reserved for NoNode
	return &Tree{nodes: make([]Node, 1, 64)}
}

// Node returns a pointer to the slot for id. The pointer is invalidated by the next New* call.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of allocated slots, including the reserved one.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// NewElement allocates a detached element.
func (t *Tree) NewElement(tag string, attrs []Attr) NodeID {
	return t.alloc(Node{Kind: KindElement, Tag: tag, Attrs: attrs})
}

// NewText allocates a detached text node. text must already be valid JSX text.
func (t *Tree) NewText(text string) NodeID {
	return t.alloc(Node{Kind: KindText, Text: text})
}

// NewExpr allocates a detached expression container.
func (t *Tree) NewExpr(e *Expr) NodeID {
	return t.alloc(Node{Kind: KindExpr, Expr: e})
}

// NewComment allocates a {/* body */} container.
func (t *Tree) NewComment(body string) NodeID {
	return t.alloc(Node{Kind: KindExpr, Comment: true, Text: body})
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.nodes[child].Parent = parent
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// SetChildren replaces the child list of parent, reparenting every entry.
func (t *Tree) SetChildren(parent NodeID, children []NodeID) {
	for _, c := range t.nodes[parent].Children {
		if t.nodes[c].Parent == parent {
			t.nodes[c].Parent = NoNode
		}
	}
	list := make([]NodeID, len(children))
	copy(list, children)
	for _, c := range list {
		t.nodes[c].Parent = parent
	}
	t.nodes[parent].Children = list
}

// Detach removes all children of id and returns them.
func (t *Tree) Detach(id NodeID) []NodeID {
	old := t.nodes[id].Children
	for _, c := range old {
		t.nodes[c].Parent = NoNode
	}
	t.nodes[id].Children = nil
	return old
}

// ChildIndex returns the position of child in its parent's child list, or -1.
func (t *Tree) ChildIndex(child NodeID) int {
	p := t.nodes[child].Parent
	if p == NoNode {
		return -1
	}
	for i, c := range t.nodes[p].Children {
		if c == child {
			return i
		}
	}
	return -1
}

// ReplaceChild swaps old for repl in old's parent child list. repl may be
// empty (old is removed) or hold several nodes (old is spliced away).
// It reports false when old has no parent.
func (t *Tree) ReplaceChild(old NodeID, repl ...NodeID) bool {
	p := t.nodes[old].Parent
	i := t.ChildIndex(old)
	if i < 0 {
		return false
	}
	cur := t.nodes[p].Children
	next := make([]NodeID, 0, len(cur)-1+len(repl))
	next = append(next, cur[:i]...)
	next = append(next, repl...)
	next = append(next, cur[i+1:]...)
	t.nodes[old].Parent = NoNode
	for _, r := range repl {
		t.nodes[r].Parent = p
	}
	t.nodes[p].Children = next
	return true
}

// Clone deep-copies the subtree at id, including elements referenced from
// expressions, and returns the detached copy.
func (t *Tree) Clone(id NodeID) NodeID {
	src := t.nodes[id]
	n := src
	n.Parent = NoNode
	n.Children = nil
	n.Attrs = t.CloneAttrs(src.Attrs)
	n.Expr = t.CloneExpr(src.Expr)
	cp := t.alloc(n)
	for _, c := range src.Children {
		t.AppendChild(cp, t.Clone(c))
	}
	return cp
}

// CloneAll clones each id in order.
func (t *Tree) CloneAll(ids []NodeID) []NodeID {
	out := make([]NodeID, len(ids))
	for i, id := range ids {
		out[i] = t.Clone(id)
	}
	return out
}

// CloneAttrs deep-copies an attribute list.
func (t *Tree) CloneAttrs(attrs []Attr) []Attr {
	if attrs == nil {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = a
		out[i].Expr = t.CloneExpr(a.Expr)
	}
	return out
}

// CloneExpr deep-copies e, cloning embedded elements.
func (t *Tree) CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := &Expr{Segments: make([]Segment, len(e.Segments))}
	for i, s := range e.Segments {
		out.Segments[i] = s
		if s.Kind == SegElement {
			out.Segments[i].Elem = t.Clone(s.Elem)
		}
	}
	return out
}

// Walk visits id and its descendants depth-first. Elements embedded in
// expressions are visited too. pre is called on entry, post on exit; either
// may be nil. Returning false from pre skips the subtree.
func (t *Tree) Walk(id NodeID, pre func(NodeID) bool, post func(NodeID)) {
	if pre != nil && !pre(id) {
		return
	}
	attrs, expr := t.nodes[id].Attrs, t.nodes[id].Expr
	for _, a := range attrs {
		t.walkExpr(a.Expr, pre, post)
	}
	t.walkExpr(expr, pre, post)
	// snapshot: callbacks may edit the child list
	kids := append([]NodeID(nil), t.nodes[id].Children...)
	for _, c := range kids {
		t.Walk(c, pre, post)
	}
	if post != nil {
		post(id)
	}
}

func (t *Tree) walkExpr(e *Expr, pre func(NodeID) bool, post func(NodeID)) {
	if e == nil {
		return
	}
	for _, s := range e.Segments {
		if s.Kind == SegElement {
			t.Walk(s.Elem, pre, post)
		}
	}
}

// Attr returns the first non-spread attribute called name.
func (n *Node) Attr(name string) (Attr, bool) {
	for _, a := range n.Attrs {
		if a.Kind != AttrSpread && a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// IsElement reports whether n is an element with the given tag.
func (n *Node) IsElement(tag string) bool {
	return n.Kind == KindElement && n.Tag == tag
}

// IsBlank reports whether n is a text node made only of whitespace.
func (n *Node) IsBlank() bool {
	if n.Kind != KindText {
		return false
	}
	for _, r := range n.Text {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// NearestPos returns the first known position found on id or its
// descendants. The boolean is false when id itself had no position.
func (t *Tree) NearestPos(id NodeID) (diag.Pos, bool) {
	if p := t.nodes[id].Pos; p.Known() {
		return p, true
	}
	var found diag.Pos
	t.Walk(id, func(c NodeID) bool {
		if found.Known() {
			return false
		}
		if p := t.nodes[c].Pos; p.Known() {
			found = p
			return false
		}
		return true
	}, nil)
	return found, false
}
