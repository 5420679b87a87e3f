package hostast

import (
	"strconv"
	"strings"
)

type SegKind uint8

const (
	// SegCode is opaque source text.
	SegCode SegKind = iota + 1
	// SegIdent is an identifier reference.
	SegIdent
	// SegString is a string literal; Text is the source form, Value the decoded value.
	SegString
	// SegNumber is a numeric literal.
	SegNumber
	// SegElement embeds a JSX element held in the arena.
	SegElement
)

// Segment is one piece of an expression.
type Segment struct {
	Kind  SegKind
	Text  string
	Value string
	Elem  NodeID
	// Shorthand marks an identifier used as `{name}` in an object literal.
	Shorthand bool
}

// Expr is a host expression kept as a sequence of segments. Only
// identifiers, literals and embedded elements are typed; everything else is
// opaque code, which is all the substitution pass needs.
type Expr struct {
	Segments []Segment
}

// Code builds an expression of opaque source text.
func Code(src string) *Expr {
	return &Expr{Segments: []Segment{{Kind: SegCode, Text: src}}}
}

// Ident builds a single identifier reference.
func Ident(name string) *Expr {
	return &Expr{Segments: []Segment{{Kind: SegIdent, Text: name}}}
}

// Number builds a numeric literal.
func Number(src string) *Expr {
	return &Expr{Segments: []Segment{{Kind: SegNumber, Text: src, Value: src}}}
}

// String builds a double-quoted string literal with value v.
func String(v string) *Expr {
	return &Expr{Segments: []Segment{{Kind: SegString, Text: strconv.Quote(v), Value: v}}}
}

// Element builds an expression made of one embedded element.
func Element(id NodeID) *Expr {
	return &Expr{Segments: []Segment{{Kind: SegElement, Elem: id}}}
}

// significant returns the segments with blank code removed.
func (e *Expr) significant() []Segment {
	var out []Segment
	for _, s := range e.Segments {
		if s.Kind == SegCode && strings.TrimSpace(s.Text) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Literal returns the value of e when it is a single string or number literal.
func (e *Expr) Literal() (string, bool) {
	if e == nil {
		return "", false
	}
	sig := e.significant()
	if len(sig) != 1 {
		return "", false
	}
	switch sig[0].Kind {
	case SegString, SegNumber:
		return sig[0].Value, true
	}
	return "", false
}

// IsIdent reports whether e is exactly the identifier name.
func (e *Expr) IsIdent(name string) bool {
	if e == nil {
		return false
	}
	sig := e.significant()
	return len(sig) == 1 && sig[0].Kind == SegIdent && sig[0].Text == name
}

// IsSimple reports whether e is a single identifier, literal or element and
// so never needs parentheses.
func (e *Expr) IsSimple() bool {
	if e == nil {
		return false
	}
	sig := e.significant()
	if len(sig) != 1 {
		return false
	}
	if sig[0].Kind == SegCode {
		return isPath(strings.TrimSpace(sig[0].Text))
	}
	return true
}

func isPath(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '.' && r != '_' && r != '$' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

// Substitute rewrites every identifier reference in e (and in elements it
// embeds) whose name is a key of swap with a copy of the mapped expression.
// Shorthand object properties keep their key: {idZ} becomes {idZ: "a"}.
func (t *Tree) Substitute(e *Expr, swap map[string]*Expr) {
	if e == nil || len(swap) == 0 {
		return
	}
	out := make([]Segment, 0, len(e.Segments))
	for _, s := range e.Segments {
		switch s.Kind {
		case SegIdent:
			repl, ok := swap[s.Text]
			if !ok {
				out = append(out, s)
				continue
			}
			r := t.CloneExpr(repl)
			wrap := !r.IsSimple()
			if s.Shorthand {
				out = append(out, Segment{Kind: SegCode, Text: s.Text + ": "})
			}
			if wrap {
				out = append(out, Segment{Kind: SegCode, Text: "("})
			}
			out = append(out, r.Segments...)
			if wrap {
				out = append(out, Segment{Kind: SegCode, Text: ")"})
			}
		case SegElement:
			t.SubstituteTree(s.Elem, swap)
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	e.Segments = out
}

// SubstituteTree applies Substitute to every attribute and expression in the
// subtree at id.
func (t *Tree) SubstituteTree(id NodeID, swap map[string]*Expr) {
	if len(swap) == 0 {
		return
	}
	attrs, expr := t.nodes[id].Attrs, t.nodes[id].Expr
	for i := range attrs {
		t.Substitute(attrs[i].Expr, swap)
	}
	t.Substitute(expr, swap)
	kids := append([]NodeID(nil), t.nodes[id].Children...)
	for _, c := range kids {
		t.SubstituteTree(c, swap)
	}
}
