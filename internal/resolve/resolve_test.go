package resolve

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/agentic-research/jsxz/internal/convert"
	"github.com/agentic-research/jsxz/internal/diag"
	"github.com/agentic-research/jsxz/internal/directive"
	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listDoc = `<ul class="list"><li class="a">A</li><li class="b">B</li><li class="c">C</li></ul>`

func setup(t *testing.T, src string) (*hostast.Tree, *markup.Document) {
	t.Helper()
	root, err := markup.Parse([]byte(src))
	require.NoError(t, err)
	doc := &markup.Document{Path: "/tpl/list.html", Root: root}
	tree := hostast.NewTree()
	convert.Convert(tree, doc)
	return tree, doc
}

func specOf(subs ...*directive.SubDirective) *directive.Spec {
	return &directive.Spec{Subs: append(subs, &directive.SubDirective{})}
}

func TestResolve_Ordinals(t *testing.T) {
	tree, doc := setup(t, listDoc)
	r := NewResolver(markup.NewCSSMatcher(), false, nil)

	res, err := r.Resolve(tree, doc, specOf(&directive.SubDirective{Selector: "li", Tag: "p"}))
	require.NoError(t, err)

	// ul=1, li=2, A=3, li=4, B=5, li=6, C=7
	assert.Equal(t, []int{1, 2, 4, 6}, res.Pending())
	for i, idx := range []int{2, 4, 6} {
		rec, ok := res.Peek(idx)
		require.True(t, ok)
		assert.Equal(t, i, rec.Ordinal)
		assert.Equal(t, "p", rec.Directive.Tag)
	}

	root, ok := res.Peek(1)
	require.True(t, ok)
	assert.True(t, root.Directive.IsRoot())
	assert.Equal(t, 0, root.Ordinal)
}

func TestResolve_LastWriteWins(t *testing.T) {
	tree, doc := setup(t, listDoc)
	r := NewResolver(markup.NewCSSMatcher(), false, nil)

	res, err := r.Resolve(tree, doc, specOf(
		&directive.SubDirective{Selector: "li", Tag: "first"},
		&directive.SubDirective{Selector: ".b, .c", Tag: "second"},
	))
	require.NoError(t, err)

	rec, _ := res.Peek(2)
	assert.Equal(t, "first", rec.Directive.Tag)
	rec, _ = res.Peek(4)
	assert.Equal(t, "second", rec.Directive.Tag)
	assert.Equal(t, 0, rec.Ordinal)
	rec, _ = res.Peek(6)
	assert.Equal(t, "second", rec.Directive.Tag)
	assert.Equal(t, 1, rec.Ordinal)
}

func TestResolve_RootEntryOverridesEarlierMatch(t *testing.T) {
	tree, doc := setup(t, listDoc)
	r := NewResolver(markup.NewCSSMatcher(), false, nil)

	res, err := r.Resolve(tree, doc, specOf(&directive.SubDirective{Selector: "ul", Tag: "ol"}))
	require.NoError(t, err)
	rec, ok := res.Peek(1)
	require.True(t, ok)
	assert.True(t, rec.Directive.IsRoot())
}

func TestResolve_NoMatch(t *testing.T) {
	tree, doc := setup(t, listDoc)
	sub := &directive.SubDirective{Selector: "table", SelectorPos: diag.Pos{Line: 4, Column: 9}}

	_, err := NewResolver(markup.NewCSSMatcher(), false, nil).Resolve(tree, doc, specOf(sub))
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.SelectorNotFound, de.Kind)
	assert.Equal(t, diag.Pos{Line: 4, Column: 9}, de.Pos)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	res, err := NewResolver(markup.NewCSSMatcher(), true, logger).Resolve(tree, doc, specOf(sub))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.Contains(t, logs.String(), "selector matched nothing")
	assert.Contains(t, logs.String(), "table")
}

func TestResolve_InvalidSelector(t *testing.T) {
	tree, doc := setup(t, listDoc)
	_, err := NewResolver(markup.NewCSSMatcher(), true, nil).Resolve(tree, doc, specOf(&directive.SubDirective{Selector: "li["}))
	assert.ErrorIs(t, err, diag.ErrInvalidSelector)
}

func TestResolution_TakeOnce(t *testing.T) {
	tree, doc := setup(t, listDoc)
	res, err := NewResolver(markup.NewCSSMatcher(), false, nil).Resolve(tree, doc, specOf(&directive.SubDirective{Selector: "li"}))
	require.NoError(t, err)

	_, ok := res.Take(4)
	assert.True(t, ok)
	_, ok = res.Take(4)
	assert.False(t, ok)
	_, ok = res.Take(0)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 6}, res.Pending())
}

func TestResolve_RecordsAreIndependentCopies(t *testing.T) {
	tree, doc := setup(t, listDoc)
	attr := hostast.Attr{Kind: hostast.AttrExpr, Name: "title", Expr: hostast.Ident("classNameZ")}
	sub := &directive.SubDirective{Selector: "li", Attrs: []hostast.Attr{attr}}
	res, err := NewResolver(markup.NewCSSMatcher(), false, nil).Resolve(tree, doc, specOf(sub))
	require.NoError(t, err)

	a, _ := res.Peek(2)
	b, _ := res.Peek(4)
	tree.Substitute(a.Directive.Attrs[0].Expr, map[string]*hostast.Expr{"classNameZ": hostast.String("a")})
	assert.Equal(t, `"a"`, tree.PrintExpr(a.Directive.Attrs[0].Expr))
	assert.Equal(t, "classNameZ", tree.PrintExpr(b.Directive.Attrs[0].Expr))
	assert.Equal(t, "classNameZ", tree.PrintExpr(sub.Attrs[0].Expr))
}

func TestResolve_RootAttributesOnSeveralTopLevelNodes(t *testing.T) {
	tree, doc := setup(t, `<a>1</a><b>2</b>`)
	r := NewResolver(markup.NewCSSMatcher(), false, nil)
	attr := hostast.Attr{Kind: hostast.AttrString, Name: "className", Str: "x"}
	pos := diag.Pos{Line: 2, Column: 5}

	spec := &directive.Spec{Subs: []*directive.SubDirective{{Pos: pos, Attrs: []hostast.Attr{attr}}}}
	_, err := r.Resolve(tree, doc, spec)
	require.Error(t, err)
	var de *diag.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diag.MissingRequiredAttribute, de.Kind)
	assert.Equal(t, pos, de.Pos)

	// with a tag the fragment becomes a real element
	spec = &directive.Spec{Subs: []*directive.SubDirective{{Pos: pos, Tag: "div", Attrs: []hostast.Attr{attr}}}}
	_, err = r.Resolve(tree, doc, spec)
	assert.NoError(t, err)
}
