// Package convert maps a markup tree onto host JSX nodes, assigning the
// traversal indices that correlate the two.
package convert

import (
	"strings"

	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/markup"
	"golang.org/x/net/html"
)

// Converter carries the traversal counter for one conversion pass.
type Converter struct {
	tree *hostast.Tree
	doc  *markup.Document
	next int
}

// Convert maps doc.Root into tree. Indices start at 1 and are written both
// onto the host node and, through doc.SetIndex, onto the markup node.
// It returns the root id and the number of indices assigned.
func Convert(tree *hostast.Tree, doc *markup.Document) (hostast.NodeID, int) {
	c := &Converter{tree: tree, doc: doc, next: 1}
	root := c.node(doc.Root)
	if root == hostast.NoNode {
		// a lone doctype: keep an empty fragment as root
		root = c.container(doc.Root)
	}
	return root, c.next - 1
}

func (c *Converter) assign(id hostast.NodeID, n *html.Node) {
	c.tree.Node(id).Index = c.next
	c.doc.SetIndex(n, c.next)
	c.next++
}

func (c *Converter) node(n *html.Node) hostast.NodeID {
	switch n.Type {
	case html.ElementNode:
		return c.element(n)
	case html.DocumentNode:
		return c.container(n)
	case html.TextNode:
		id := c.tree.NewText(escapeText(n.Data))
		c.assign(id, n)
		return id
	case html.CommentNode:
		return c.tree.NewComment(strings.ReplaceAll(n.Data, "*/", "* /"))
	}
	return hostast.NoNode
}

func (c *Converter) container(n *html.Node) hostast.NodeID {
	id := c.tree.NewElement("", nil)
	c.assign(id, n)
	c.children(id, n)
	return id
}

func (c *Converter) element(n *html.Node) hostast.NodeID {
	tag := n.Data
	if n.Namespace == "" {
		tag = strings.ToLower(tag)
	}
	attrs := make([]hostast.Attr, 0, len(n.Attr))
	for _, a := range n.Attr {
		attrs = append(attrs, attribute(tag, a))
	}
	id := c.tree.NewElement(tag, attrs)
	c.assign(id, n)
	c.children(id, n)
	return id
}

func (c *Converter) children(id hostast.NodeID, n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if k := c.node(ch); k != hostast.NoNode {
			c.tree.AppendChild(id, k)
		}
	}
}

func attribute(tag string, a html.Attribute) hostast.Attr {
	name := a.Key
	if a.Namespace != "" {
		name = a.Namespace + ":" + a.Key
	}
	if name == "style" {
		return hostast.Attr{Kind: hostast.AttrExpr, Name: "style", Expr: styleExpr(a.Val)}
	}
	name = propName(tag, name)
	switch {
	case isNumeric(a.Val):
		return hostast.Attr{Kind: hostast.AttrExpr, Name: name, Expr: hostast.Number(a.Val)}
	case a.Val == "":
		return hostast.Attr{Kind: hostast.AttrBool, Name: name}
	}
	return hostast.Attr{Kind: hostast.AttrString, Name: name, Str: escapeAttr(a.Val)}
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"{", "&#123;",
		"}", "&#125;",
	)
)

func escapeAttr(v string) string { return attrEscaper.Replace(v) }

func escapeText(v string) string { return textEscaper.Replace(v) }
