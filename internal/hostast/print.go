package hostast

import "strings"

// PrintChildren renders ids as they would appear between JSX tags.
func (t *Tree) PrintChildren(ids []NodeID) string {
	var b strings.Builder
	for _, id := range ids {
		t.printChild(&b, id)
	}
	return b.String()
}

// PrintExprPosition renders ids where a single JS expression is expected.
// Several nodes are wrapped in a fragment; no nodes print as null.
func (t *Tree) PrintExprPosition(ids []NodeID) string {
	switch len(ids) {
	case 0:
		return "null"
	case 1:
		n := &t.nodes[ids[0]]
		switch {
		case n.Kind == KindElement:
			var b strings.Builder
			t.printElement(&b, ids[0])
			return b.String()
		case n.Kind == KindExpr && !n.Comment:
			return t.PrintExpr(n.Expr)
		}
	}
	return "<>" + t.PrintChildren(ids) + "</>"
}

// PrintExpr renders an expression.
func (t *Tree) PrintExpr(e *Expr) string {
	var b strings.Builder
	t.printExpr(&b, e)
	return b.String()
}

func (t *Tree) printExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		return
	}
	for _, s := range e.Segments {
		if s.Kind == SegElement {
			t.printElement(b, s.Elem)
			continue
		}
		b.WriteString(s.Text)
	}
}

func (t *Tree) printChild(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindExpr:
		b.WriteByte('{')
		if n.Comment {
			b.WriteString("/*")
			b.WriteString(n.Text)
			b.WriteString("*/")
		} else {
			t.printExpr(b, n.Expr)
		}
		b.WriteByte('}')
	case KindElement:
		t.printElement(b, id)
	}
}

func (t *Tree) printElement(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	if n.Kind != KindElement {
		t.printChild(b, id)
		return
	}
	tag, attrs, kids := n.Tag, n.Attrs, n.Children
	if tag == "" {
		b.WriteString("<>")
		for _, c := range kids {
			t.printChild(b, c)
		}
		b.WriteString("</>")
		return
	}
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		t.printAttr(b, a)
	}
	if len(kids) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	for _, c := range kids {
		t.printChild(b, c)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func (t *Tree) printAttr(b *strings.Builder, a Attr) {
	switch a.Kind {
	case AttrBool:
		b.WriteString(a.Name)
	case AttrString:
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Str)
		b.WriteByte('"')
	case AttrExpr:
		b.WriteString(a.Name)
		b.WriteString("={")
		t.printExpr(b, a.Expr)
		b.WriteByte('}')
	case AttrSpread:
		b.WriteString("{...")
		t.printExpr(b, a.Expr)
		b.WriteByte('}')
	}
}
