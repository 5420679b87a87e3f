package hostast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tr := NewTree()
	root := tr.NewElement("div", nil)
	a := tr.NewElement("a", []Attr{{Kind: AttrString, Name: "href", Str: "/x"}})
	txt := tr.NewText("hi")
	tr.AppendChild(root, a)
	tr.AppendChild(root, txt)
	return tr, root, a, txt
}

func TestTree_ReplaceChild(t *testing.T) {
	tr, root, a, txt := sample(t)

	x := tr.NewText("x")
	y := tr.NewText("y")
	require.True(t, tr.ReplaceChild(a, x, y))
	assert.Equal(t, []NodeID{x, y, txt}, tr.Node(root).Children)
	assert.Equal(t, root, tr.Node(x).Parent)
	assert.Equal(t, NoNode, tr.Node(a).Parent)

	require.True(t, tr.ReplaceChild(x))
	assert.Equal(t, []NodeID{y, txt}, tr.Node(root).Children)

	assert.False(t, tr.ReplaceChild(root), "detached node cannot be replaced")
}

func TestTree_CloneIsIndependent(t *testing.T) {
	tr, root, _, _ := sample(t)
	cp := tr.Clone(root)

	require.NotEqual(t, root, cp)
	require.Len(t, tr.Node(cp).Children, 2)
	orig := tr.Node(root).Children
	for i, c := range tr.Node(cp).Children {
		assert.NotEqual(t, orig[i], c)
		assert.Equal(t, cp, tr.Node(c).Parent)
	}

	tr.Node(tr.Node(cp).Children[0]).Attrs[0].Str = "/changed"
	assert.Equal(t, "/x", tr.Node(orig[0]).Attrs[0].Str)
	assert.Equal(t, `<div><a href="/x" />hi</div>`, tr.PrintExprPosition([]NodeID{root}))
	assert.Equal(t, `<div><a href="/changed" />hi</div>`, tr.PrintExprPosition([]NodeID{cp}))
}

func TestTree_DetachAndSetChildren(t *testing.T) {
	tr, root, a, txt := sample(t)
	kids := tr.Detach(root)
	assert.Equal(t, []NodeID{a, txt}, kids)
	assert.Empty(t, tr.Node(root).Children)

	other := tr.NewElement("p", nil)
	tr.SetChildren(other, kids)
	assert.Equal(t, other, tr.Node(a).Parent)
	assert.Equal(t, `<p><a href="/x" />hi</p>`, tr.PrintExprPosition([]NodeID{other}))
}

func TestTree_WalkOrder(t *testing.T) {
	tr, root, a, txt := sample(t)
	inner := tr.NewElement("i", nil)
	e := tr.NewExpr(Element(inner))
	tr.AppendChild(root, e)

	var pre, post []NodeID
	tr.Walk(root, func(id NodeID) bool {
		pre = append(pre, id)
		return true
	}, func(id NodeID) {
		post = append(post, id)
	})
	assert.Equal(t, []NodeID{root, a, txt, e, inner}, pre)
	assert.Equal(t, []NodeID{a, txt, inner, e, root}, post)
}

func TestTree_NearestPos(t *testing.T) {
	tr, root, a, _ := sample(t)
	tr.Node(a).Pos.Line, tr.Node(a).Pos.Column = 4, 2

	pos, exact := tr.NearestPos(root)
	assert.False(t, exact)
	assert.Equal(t, 4, pos.Line)

	pos, exact = tr.NearestPos(a)
	assert.True(t, exact)
	assert.Equal(t, 2, pos.Column)
}

func TestPrint_Positions(t *testing.T) {
	tr := NewTree()
	assert.Equal(t, "null", tr.PrintExprPosition(nil))

	x := tr.NewText("a")
	y := tr.NewElement("b", nil)
	assert.Equal(t, "<>a<b /></>", tr.PrintExprPosition([]NodeID{x, y}))
	assert.Equal(t, "a<b />", tr.PrintChildren([]NodeID{x, y}))

	e := tr.NewExpr(Ident("v"))
	assert.Equal(t, "v", tr.PrintExprPosition([]NodeID{e}))
	assert.Equal(t, "{v}", tr.PrintChildren([]NodeID{e}))

	c := tr.NewComment(" note ")
	assert.Equal(t, "{/* note */}", tr.PrintChildren([]NodeID{c}))

	el := tr.NewElement("input", []Attr{
		{Kind: AttrBool, Name: "disabled"},
		{Kind: AttrExpr, Name: "size", Expr: Number("3")},
		{Kind: AttrSpread, Expr: Ident("rest")},
	})
	assert.Equal(t, "<input disabled size={3} {...rest} />", tr.PrintExprPosition([]NodeID{el}))
}
