package hostast

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentic-research/jsxz/internal/diag"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Source is a parsed compilation unit.
type Source struct {
	Name string
	Src  []byte
	Lang *sitter.Language
	Tree *sitter.Tree
}

// Root returns the root syntax node.
func (s *Source) Root() *sitter.Node { return s.Tree.RootNode() }

// LanguageFor maps a file name to its tree-sitter grammar. Everything that
// is not TypeScript is read as JavaScript with JSX.
func LanguageFor(filename string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// ParseSource parses src with the grammar matching filename.
func ParseSource(ctx context.Context, filename string, src []byte) (*Source, error) {
	lang := LanguageFor(filename)
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &Source{Name: filename, Src: src, Lang: lang, Tree: tree}, nil
}

// PosOf converts a tree-sitter start point to a 1-based position.
func PosOf(n *sitter.Node) diag.Pos {
	p := n.StartPoint()
	return diag.Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// ContentStart returns the offset and 1-based position of the first
// non-whitespace byte of n. JSX children carry the whitespace that precedes
// them in their range, so StartByte is not where the element begins.
func ContentStart(n *sitter.Node, src []byte) (uint32, diag.Pos) {
	p := n.StartPoint()
	line, col := int(p.Row)+1, int(p.Column)+1
	for i := n.StartByte(); i < n.EndByte() && int(i) < len(src); i++ {
		switch src[i] {
		case '\n':
			line++
			col = 1
		case ' ', '\t', '\r':
			col++
		default:
			return i, diag.Pos{Line: line, Column: col}
		}
	}
	return n.StartByte(), PosOf(n)
}

// IsJSXElement reports whether n is any JSX element form.
func IsJSXElement(n *sitter.Node) bool {
	switch n.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// ElementName returns the tag name of a JSX element syntax node, "" for fragments.
func ElementName(n *sitter.Node, src []byte) string {
	open := n
	if n.Type() == "jsx_element" {
		open = openTag(n)
		if open == nil {
			return ""
		}
	}
	if name := open.ChildByFieldName("name"); name != nil {
		return strings.TrimSpace(name.Content(src))
	}
	return ""
}

func openTag(n *sitter.Node) *sitter.Node {
	if o := n.ChildByFieldName("open_tag"); o != nil {
		return o
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "jsx_opening_element" {
			return c
		}
	}
	return nil
}

// Lift copies the JSX element syntax node n into the arena and returns its id.
func (t *Tree) Lift(n *sitter.Node, src []byte) NodeID {
	l := lifter{t: t, src: src}
	return l.element(n)
}

type lifter struct {
	t   *Tree
	src []byte
}

func (l *lifter) pos(n *sitter.Node) diag.Pos {
	_, p := ContentStart(n, l.src)
	return p
}

func (l *lifter) start(n *sitter.Node) uint32 {
	off, _ := ContentStart(n, l.src)
	return off
}

// text returns the source of n without its leading whitespace.
func (l *lifter) text(n *sitter.Node) string {
	return string(l.src[l.start(n):n.EndByte()])
}

func (l *lifter) element(n *sitter.Node) NodeID {
	switch n.Type() {
	case "jsx_self_closing_element":
		id := l.t.NewElement("", nil)
		l.tag(id, n)
		return id
	case "jsx_fragment":
		id := l.t.NewElement("", nil)
		l.t.nodes[id].Pos = l.pos(n)
		l.children(id, n, nil)
		return id
	}
	id := l.t.NewElement("", nil)
	open := openTag(n)
	if open != nil {
		l.tag(id, open)
	}
	l.t.nodes[id].Pos = l.pos(n)
	l.children(id, n, open)
	return id
}

func (l *lifter) tag(id NodeID, open *sitter.Node) {
	name := open.ChildByFieldName("name")
	var attrs []Attr
	for i := 0; i < int(open.NamedChildCount()); i++ {
		c := open.NamedChild(i)
		if name != nil && sameNode(c, name) {
			continue
		}
		switch c.Type() {
		case "jsx_attribute":
			attrs = append(attrs, l.attr(c))
		case "jsx_expression":
			attrs = append(attrs, l.spread(c))
		}
	}
	n := &l.t.nodes[id]
	n.Attrs = attrs
	n.Pos = l.pos(open)
	n.NamePos = n.Pos
	if name != nil {
		n.Tag = l.text(name)
		n.NamePos = l.pos(name)
	}
}

func (l *lifter) attr(c *sitter.Node) Attr {
	a := Attr{Kind: AttrBool, Pos: l.pos(c)}
	if c.NamedChildCount() == 0 {
		a.Name = l.text(c)
		return a
	}
	a.Name = l.text(c.NamedChild(0))
	if c.NamedChildCount() < 2 {
		return a
	}
	v := c.NamedChild(1)
	a.Pos = l.pos(v)
	switch v.Type() {
	case "string":
		a.Kind = AttrString
		raw := l.text(v)
		if len(raw) >= 2 {
			raw = raw[1 : len(raw)-1]
		}
		a.Str = raw
	case "jsx_expression":
		a.Kind = AttrExpr
		a.Expr = l.container(v)
	default:
		a.Kind = AttrExpr
		if IsJSXElement(v) {
			a.Expr = Element(l.element(v))
		} else {
			a.Expr = Code(l.text(v))
		}
	}
	return a
}

func (l *lifter) spread(c *sitter.Node) Attr {
	a := Attr{Kind: AttrSpread, Pos: l.pos(c)}
	for i := 0; i < int(c.NamedChildCount()); i++ {
		s := c.NamedChild(i)
		if s.Type() == "spread_element" && s.NamedChildCount() > 0 {
			arg := s.NamedChild(0)
			a.Expr = l.expr(s, l.start(arg), arg.EndByte())
			return a
		}
	}
	// {...x} in grammars without spread_element wrapping
	a.Expr = l.container(c)
	if len(a.Expr.Segments) > 0 && a.Expr.Segments[0].Kind == SegCode {
		a.Expr.Segments[0].Text = strings.TrimPrefix(strings.TrimSpace(a.Expr.Segments[0].Text), "...")
	}
	return a
}

func (l *lifter) children(id NodeID, n *sitter.Node, open *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if open != nil && sameNode(c, open) {
			continue
		}
		switch c.Type() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		case "jsx_expression":
			var e NodeID
			if body, ok := commentBody(c, l.src); ok {
				e = l.t.NewComment(body)
			} else {
				e = l.t.NewExpr(l.container(c))
			}
			l.t.nodes[e].Pos = l.pos(c)
			l.t.AppendChild(id, e)
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			l.t.AppendChild(id, l.element(c))
		default:
			// jsx_text, html_character_reference and anything unknown stay verbatim
			txt := l.t.NewText(c.Content(l.src))
			l.t.nodes[txt].Pos = l.pos(c)
			l.t.AppendChild(id, txt)
		}
	}
	l.fillGaps(id, n)
}

// fillGaps restores whitespace tree-sitter leaves out of jsx_text nodes so
// printing a lifted element reproduces its children byte for byte.
func (l *lifter) fillGaps(id NodeID, n *sitter.Node) {
	var inner []*sitter.Node
	var lo, hi uint32
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "jsx_opening_element":
			lo = c.EndByte()
			continue
		case "jsx_closing_element":
			hi = l.start(c)
			continue
		}
		inner = append(inner, c)
	}
	if lo == 0 || hi == 0 || len(inner) == 0 {
		return
	}
	kids := l.t.nodes[id].Children
	if len(kids) != len(inner) {
		return
	}
	var out []NodeID
	pos := lo
	for i, c := range inner {
		// lifted text keeps its own leading whitespace
		start := c.StartByte()
		if c.Type() != "jsx_text" {
			start = l.start(c)
		}
		if start > pos {
			out = append(out, l.t.NewText(string(l.src[pos:start])))
		}
		out = append(out, kids[i])
		pos = c.EndByte()
	}
	if hi > pos {
		out = append(out, l.t.NewText(string(l.src[pos:hi])))
	}
	l.t.SetChildren(id, out)
}

// container builds the expression inside a {...} node.
func (l *lifter) container(c *sitter.Node) *Expr {
	start, end := l.start(c)+1, c.EndByte()-1
	if end < start {
		end = start
	}
	return l.expr(c, start, end)
}

// expr segments the source range [start, end) found under parent.
func (l *lifter) expr(parent *sitter.Node, start, end uint32) *Expr {
	e := &Expr{}
	pos := start
	flush := func(upto uint32) {
		if upto > pos {
			e.Segments = append(e.Segments, Segment{Kind: SegCode, Text: string(l.src[pos:upto])})
			pos = upto
		}
	}
	emit := func(n *sitter.Node, s Segment) {
		flush(l.start(n))
		e.Segments = append(e.Segments, s)
		pos = n.EndByte()
	}
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.EndByte() <= start || n.StartByte() >= end {
			return
		}
		text := l.text(n)
		switch n.Type() {
		case "identifier", "undefined":
			emit(n, Segment{Kind: SegIdent, Text: text})
			return
		case "shorthand_property_identifier":
			emit(n, Segment{Kind: SegIdent, Text: text, Shorthand: true})
			return
		case "number":
			emit(n, Segment{Kind: SegNumber, Text: text, Value: text})
			return
		case "string":
			emit(n, Segment{Kind: SegString, Text: text, Value: unquoteJS(text)})
			return
		case "template_string":
			if !hasChildType(n, "template_substitution") {
				emit(n, Segment{Kind: SegString, Text: text, Value: strings.Trim(text, "`")})
				return
			}
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			emit(n, Segment{Kind: SegElement, Elem: l.element(n)})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		visit(parent.Child(i))
	}
	flush(end)
	return e
}

// commentBody returns the text inside /* */ when the container c holds
// nothing but one block comment.
func commentBody(c *sitter.Node, src []byte) (string, bool) {
	if c.NamedChildCount() != 1 || c.NamedChild(0).Type() != "comment" {
		return "", false
	}
	text := strings.TrimSpace(c.NamedChild(0).Content(src))
	if !strings.HasPrefix(text, "/*") || !strings.HasSuffix(text, "*/") || len(text) < 4 {
		return "", false
	}
	return text[2 : len(text)-2], true
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func hasChildType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

// unquoteJS decodes a single- or double-quoted JS string literal.
func unquoteJS(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'u':
			if i+4 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
