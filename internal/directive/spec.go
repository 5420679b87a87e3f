package directive

import (
	"path/filepath"

	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/diag"
	"github.com/agentic-research/jsxz/internal/hostast"
)

// Spec is the parsed form of one directive node.
type Spec struct {
	Node        hostast.NodeID
	Path        string
	PathPos     diag.Pos
	Selector    string
	SelectorPos diag.Pos
	// Subs holds the Z entries in declaration order; the last one is always
	// the implicit root entry.
	Subs []*SubDirective
}

// Root returns the implicit trailing entry.
func (s *Spec) Root() *SubDirective { return s.Subs[len(s.Subs)-1] }

// SubDirective is one patch rule.
type SubDirective struct {
	// Selector is empty only for the implicit root entry.
	Selector    string
	SelectorPos diag.Pos
	Pos         diag.Pos
	Tag         string
	Attrs       []hostast.Attr
	// Children is the template; HasChildren distinguishes "leave children
	// alone" from an explicitly installed template.
	Children    []hostast.NodeID
	HasChildren bool
	Guard       *hostast.Expr
	Inline      bool
}

// IsRoot reports whether d targets the directive's document root.
func (d *SubDirective) IsRoot() bool { return d.Selector == "" }

// Clone deep-copies d. Attribute expressions and the children template are
// duplicated in the arena so the copy can be rewritten independently.
func (d *SubDirective) Clone(t *hostast.Tree) *SubDirective {
	cp := *d
	cp.Attrs = t.CloneAttrs(d.Attrs)
	cp.Guard = t.CloneExpr(d.Guard)
	if d.Children != nil {
		cp.Children = t.CloneAll(d.Children)
	}
	return &cp
}

// Parser builds Specs from directive nodes.
type Parser struct {
	Options api.Options
	// WorkDir resolves relative paths when Options.BaseDir is empty.
	WorkDir string
}

func NewParser(opts api.Options, workDir string) *Parser {
	return &Parser{Options: opts, WorkDir: workDir}
}

// Parse reads the directive at id.
func (p *Parser) Parse(t *hostast.Tree, id hostast.NodeID) (*Spec, error) {
	n := t.Node(id)
	pos, _ := t.NearestPos(id)
	spec := &Spec{Node: id}

	pathAttr, ok := n.Attr(api.AttrPath)
	if !ok {
		return nil, diag.Errorf(diag.MissingRequiredAttribute, pos, "<%s> requires a %q attribute", api.DirectiveTag, api.AttrPath)
	}
	path, err := literal(pathAttr, pos)
	if err != nil {
		return nil, err
	}
	spec.Path = p.normalize(path)
	spec.PathPos = posOr(pathAttr.Pos, pos)

	if a, ok := n.Attr(api.AttrSelector); ok {
		sel, err := literal(a, pos)
		if err != nil {
			return nil, err
		}
		spec.Selector = sel
		spec.SelectorPos = posOr(a.Pos, pos)
	}

	root := &SubDirective{Pos: pos}
	if err := readPatch(root, n.Attrs, pos, api.AttrPath, api.AttrSelector); err != nil {
		return nil, err
	}

	var content []hostast.NodeID
	for _, c := range n.Children {
		child := t.Node(c)
		switch {
		case child.IsElement(api.SubDirectiveTag):
			sub, err := p.parseSub(t, c)
			if err != nil {
				return nil, err
			}
			spec.Subs = append(spec.Subs, sub)
		case child.IsBlank() || (child.Kind == hostast.KindExpr && child.Comment):
		case p.Options.AllowContent:
			content = append(content, c)
		default:
			cpos, exact := t.NearestPos(c)
			if !cpos.Known() {
				cpos = pos
			}
			return nil, &diag.Error{
				Kind:      diag.InvalidChildTag,
				Pos:       cpos,
				Estimated: !exact,
				Message:   "only <" + api.SubDirectiveTag + "> children are allowed inside <" + api.DirectiveTag + ">",
			}
		}
	}
	if len(content) > 0 {
		root.Children = content
		root.HasChildren = true
	}
	spec.Subs = append(spec.Subs, root)
	return spec, nil
}

func (p *Parser) parseSub(t *hostast.Tree, id hostast.NodeID) (*SubDirective, error) {
	n := t.Node(id)
	pos, _ := t.NearestPos(id)
	sub := &SubDirective{Pos: pos}

	a, ok := n.Attr(api.AttrSelector)
	if !ok {
		return nil, diag.Errorf(diag.MissingRequiredAttribute, pos, "<%s> requires a %q attribute", api.SubDirectiveTag, api.AttrSelector)
	}
	sel, err := literal(a, pos)
	if err != nil {
		return nil, err
	}
	sub.Selector = sel
	sub.SelectorPos = posOr(a.Pos, pos)

	if err := readPatch(sub, n.Attrs, pos, api.AttrSelector); err != nil {
		return nil, err
	}
	for _, c := range n.Children {
		if !t.Node(c).IsBlank() {
			sub.Children = append([]hostast.NodeID(nil), n.Children...)
			sub.HasChildren = true
			break
		}
	}
	return sub, nil
}

// readPatch fills tag, guard, inline flag and replacement attributes from
// attrs, skipping the names listed in skip.
func readPatch(sub *SubDirective, attrs []hostast.Attr, pos diag.Pos, skip ...string) error {
outer:
	for _, a := range attrs {
		if a.Kind == hostast.AttrSpread {
			sub.Attrs = append(sub.Attrs, a)
			continue
		}
		for _, s := range skip {
			if a.Name == s {
				continue outer
			}
		}
		switch a.Name {
		case api.AttrTag:
			tag, err := literal(a, pos)
			if err != nil {
				return err
			}
			sub.Tag = tag
		case api.AttrGuard:
			sub.Guard = valueExpr(a)
		case api.AttrInline:
			sub.Inline = true
		default:
			sub.Attrs = append(sub.Attrs, a)
		}
	}
	return nil
}

// literal returns the compile-time constant value of a.
func literal(a hostast.Attr, fallback diag.Pos) (string, error) {
	switch a.Kind {
	case hostast.AttrString:
		return a.Str, nil
	case hostast.AttrExpr:
		if v, ok := a.Expr.Literal(); ok {
			return v, nil
		}
	}
	return "", diag.Errorf(diag.NonLiteralAttribute, posOr(a.Pos, fallback), "attribute %q must be a literal string", a.Name)
}

// valueExpr returns the expression an attribute evaluates to.
func valueExpr(a hostast.Attr) *hostast.Expr {
	switch a.Kind {
	case hostast.AttrString:
		return hostast.String(a.Str)
	case hostast.AttrExpr:
		return a.Expr
	}
	return hostast.Code("true")
}

func (p *Parser) normalize(path string) string {
	if filepath.Ext(path) == "" {
		path += p.Options.Ext()
	}
	if !filepath.IsAbs(path) {
		base := p.Options.BaseDir
		if base == "" {
			base = p.WorkDir
		}
		path = filepath.Join(base, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

func posOr(p, fallback diag.Pos) diag.Pos {
	if p.Known() {
		return p
	}
	return fallback
}
