// Package engine drives directive expansion for one compilation unit.
package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/convert"
	"github.com/agentic-research/jsxz/internal/diag"
	"github.com/agentic-research/jsxz/internal/directive"
	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/markup"
	"github.com/agentic-research/jsxz/internal/patch"
	"github.com/agentic-research/jsxz/internal/resolve"
	"github.com/go-git/go-billy/v5"
)

// Result is the output of one compilation unit.
type Result struct {
	Code []byte
	// Deps lists the absolute paths of every document consumed, first use order.
	Deps []string
}

// Engine expands directives. It is not safe for concurrent use; create one
// per compilation unit.
type Engine struct {
	Options  api.Options
	Loader   *markup.Loader
	Parser   *directive.Parser
	Resolver *resolve.Resolver
	Logger   *slog.Logger
}

// New builds an engine reading documents from fs. A nil logger discards output.
func New(opts api.Options, fs billy.Filesystem, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}
	loader := markup.NewLoader(fs)
	return &Engine{
		Options:  opts,
		Loader:   loader,
		Parser:   directive.NewParser(opts, wd),
		Resolver: resolve.NewResolver(loader.Matcher, opts.Permissive, logger),
		Logger:   logger,
	}
}

type edit struct {
	start, end uint32
	text       string
}

// Transform replaces every directive in src with its patched fragment.
// Directives are processed one at a time in source order; the first error
// stops the unit. With Options.PartialResult the returned Result carries the
// source with every directive expanded before the failure.
func (e *Engine) Transform(ctx context.Context, filename string, src []byte) (*Result, error) {
	source, err := hostast.ParseSource(ctx, filename, src)
	if err != nil {
		return e.fail(src, nil, nil, err)
	}
	u := &unit{engine: e, tree: hostast.NewTree(), seen: make(map[string]bool)}
	var edits []edit
	for _, site := range directive.FindSites(source) {
		root := u.tree.Lift(site.Node, src)
		roots, err := u.expand(root)
		if err != nil {
			return e.fail(src, edits, u.deps, diag.WithFile(err, filename))
		}
		text := u.tree.PrintExprPosition(roots)
		if site.ChildPosition {
			text = u.tree.PrintChildren(roots)
		}
		start, _ := hostast.ContentStart(site.Node, src)
		edits = append(edits, edit{start: start, end: site.Node.EndByte(), text: text})
	}
	e.Logger.Debug("transformed unit", "file", filename, "directives", len(edits), "documents", len(u.deps))
	return &Result{Code: applyEdits(src, edits), Deps: u.deps}, nil
}

// fail reports err. With Options.PartialResult the directives expanded
// before the failure are still spliced into the returned code.
func (e *Engine) fail(src []byte, done []edit, deps []string, err error) (*Result, error) {
	if e.Options.PartialResult {
		return &Result{Code: applyEdits(src, done), Deps: deps}, err
	}
	return nil, err
}

// applyEdits splices non-overlapping edits, last first so earlier offsets hold.
func applyEdits(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	out := append([]byte(nil), src...)
	for _, ed := range edits {
		next := make([]byte, 0, len(out)-int(ed.end-ed.start)+len(ed.text))
		next = append(next, out[:ed.start]...)
		next = append(next, ed.text...)
		next = append(next, out[ed.end:]...)
		out = next
	}
	return out
}

// unit holds the state of one compilation unit.
type unit struct {
	engine *Engine
	tree   *hostast.Tree
	deps   []string
	seen   map[string]bool
}

// expand processes every directive under root, innermost first.
func (u *unit) expand(root hostast.NodeID) ([]hostast.NodeID, error) {
	t := u.tree
	holder := t.NewElement("", nil)
	t.AppendChild(holder, root)
	for _, d := range directive.Collect(t, root) {
		out, err := u.expandOne(d)
		if err != nil {
			return nil, err
		}
		if !t.ReplaceChild(d, out...) {
			replaceEmbedded(t, holder, d, out)
		}
	}
	return t.Detach(holder), nil
}

func (u *unit) expandOne(id hostast.NodeID) ([]hostast.NodeID, error) {
	e := u.engine
	spec, err := e.Parser.Parse(u.tree, id)
	if err != nil {
		return nil, err
	}
	doc, err := e.Loader.Load(markup.Request{
		Path:        spec.Path,
		PathPos:     spec.PathPos,
		Selector:    spec.Selector,
		SelectorPos: spec.SelectorPos,
	})
	if err != nil {
		return nil, err
	}
	if !u.seen[spec.Path] {
		u.seen[spec.Path] = true
		u.deps = append(u.deps, spec.Path)
	}
	root, indexed := convert.Convert(u.tree, doc)
	res, err := e.Resolver.Resolve(u.tree, doc, spec)
	if err != nil {
		return nil, err
	}
	app := patch.NewApplicator(u.tree, res)
	out := app.Apply(root)
	e.reportPending(spec.Path, res)
	e.Logger.Debug("expanded directive",
		"document", spec.Path,
		"selector", spec.Selector,
		"nodes", indexed,
		"patches", len(app.Applied))
	return out, nil
}

// reportPending warns about match records no patch consumed. Every matched
// node is visited by Apply, so a leftover record means the converted
// fragment and the resolution disagree.
func (e *Engine) reportPending(path string, res *resolve.Resolution) {
	if pending := res.Pending(); len(pending) > 0 {
		e.Logger.Warn("match records left unapplied", "document", path, "indices", pending)
	}
}

// replaceEmbedded swaps a directive held in an expression segment (an
// attribute value or {cond && <JSXZ/>}) for its expansion.
func replaceEmbedded(t *hostast.Tree, scope, old hostast.NodeID, repl []hostast.NodeID) {
	fix := func(ex *hostast.Expr) {
		if ex == nil {
			return
		}
		var segs []hostast.Segment
		for _, s := range ex.Segments {
			if s.Kind != hostast.SegElement || s.Elem != old {
				segs = append(segs, s)
				continue
			}
			segs = append(segs, embeddable(t, repl)...)
		}
		ex.Segments = segs
	}
	t.Walk(scope, func(id hostast.NodeID) bool {
		attrs, expr := t.Node(id).Attrs, t.Node(id).Expr
		for _, a := range attrs {
			fix(a.Expr)
		}
		fix(expr)
		return true
	}, nil)
}

// embeddable renders repl as expression segments.
func embeddable(t *hostast.Tree, repl []hostast.NodeID) []hostast.Segment {
	if len(repl) == 1 {
		n := t.Node(repl[0])
		switch {
		case n.Kind == hostast.KindElement:
			return []hostast.Segment{{Kind: hostast.SegElement, Elem: repl[0]}}
		case n.Kind == hostast.KindExpr && !n.Comment:
			segs := []hostast.Segment{{Kind: hostast.SegCode, Text: "("}}
			segs = append(segs, n.Expr.Segments...)
			return append(segs, hostast.Segment{Kind: hostast.SegCode, Text: ")"})
		}
	}
	frag := t.NewElement("", nil)
	t.SetChildren(frag, repl)
	return []hostast.Segment{{Kind: hostast.SegElement, Elem: frag}}
}
