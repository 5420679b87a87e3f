package convert

import (
	"testing"

	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func convertString(t *testing.T, src string) (*hostast.Tree, *markup.Document, hostast.NodeID, int) {
	t.Helper()
	root, err := markup.Parse([]byte(src))
	require.NoError(t, err)
	doc := &markup.Document{Root: root}
	tree := hostast.NewTree()
	id, n := Convert(tree, doc)
	return tree, doc, id, n
}

func TestConvert_Output(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "attributes, comments and text",
			in:   `<div class="card" tabindex="0" data-x="a&quot;b"><!-- c */ --><p style="margin-top: 4px; --gap: 2; color: red">a &lt; b {x}</p><input value="v" checked></div>`,
			want: `<div className="card" tabIndex={0} data-x="a&quot;b">{/* c * / */}<p style={{marginTop: 4, "--gap": 2, color: "red"}}>a &lt; b &#123;x&#125;</p><input defaultValue="v" defaultChecked /></div>`,
		},
		{
			name: "several top-level nodes",
			in:   `<h1>a</h1><p>b</p>`,
			want: `<><h1>a</h1><p>b</p></>`,
		},
		{
			name: "leading zero stays a string",
			in:   `<span tabindex="2" data-code="007">x</span>`,
			want: `<span tabIndex={2} data-code="007">x</span>`,
		},
		{
			name: "svg keeps case",
			in:   `<svg viewBox="0 0 1 1" stroke-width="2"><foreignObject></foreignObject></svg>`,
			want: `<svg viewBox="0 0 1 1" strokeWidth={2}><foreignObject /></svg>`,
		},
		{
			name: "tags are lowercased",
			in:   `<SECTION ID="x">y</SECTION>`,
			want: `<section id="x">y</section>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, _, id, _ := convertString(t, tc.in)
			assert.Equal(t, tc.want, tree.PrintExprPosition([]hostast.NodeID{id}))
		})
	}
}

func TestConvert_IndicesAreDenseAndShared(t *testing.T) {
	tree, doc, id, n := convertString(t, `<ul><li>a</li><!-- skip --><li><b>b</b> c</li></ul>`)
	// ul, li, "a", li, b, "b", " c"
	require.Equal(t, 7, n)
	assert.Equal(t, 7, doc.Indexed())

	seen := map[int]bool{}
	tree.Walk(id, func(c hostast.NodeID) bool {
		if i := tree.Node(c).Index; i > 0 {
			assert.False(t, seen[i], "index %d assigned twice", i)
			seen[i] = true
		}
		return true
	}, nil)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "index %d missing", i)
	}

	// pre-order: the root is 1, its first child 2
	assert.Equal(t, 1, tree.Node(id).Index)
	i, ok := doc.Index(doc.Root)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	i, ok = doc.Index(doc.Root.FirstChild)
	require.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestConvert_DoctypeOnly(t *testing.T) {
	tree := hostast.NewTree()
	c := &html.Node{Type: html.DoctypeNode, Data: "html"}
	id, n := Convert(tree, &markup.Document{Root: c})
	assert.Equal(t, 1, n)
	assert.Equal(t, "<></>", tree.PrintExprPosition([]hostast.NodeID{id}))
}

func TestStyleExpr(t *testing.T) {
	tree := hostast.NewTree()
	assert.Equal(t, `{backgroundColor: "#fff", zIndex: 3, width: 0}`,
		tree.PrintExpr(styleExpr("background-color: #fff; z-index: 3;; width: 0px")))
	assert.Equal(t, `{}`, tree.PrintExpr(styleExpr(" ")))
	assert.Equal(t, `{margin: "1.5px"}`, tree.PrintExpr(styleExpr("margin:1.5px")))
}

func TestPropName(t *testing.T) {
	assert.Equal(t, "className", propName("div", "class"))
	assert.Equal(t, "htmlFor", propName("label", "for"))
	assert.Equal(t, "defaultValue", propName("input", "value"))
	assert.Equal(t, "value", propName("option", "value"))
	assert.Equal(t, "onClick", propName("button", "onclick"))
	assert.Equal(t, "aria-label", propName("button", "aria-label"))
}
