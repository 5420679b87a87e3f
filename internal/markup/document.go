// Package markup loads external markup documents and keeps the traversal
// index side table used to correlate them with converted host nodes.
package markup

import (
	"bytes"
	"errors"
	"strings"

	"github.com/agentic-research/jsxz/internal/diag"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is one loaded markup file, possibly narrowed to a sub-tree.
type Document struct {
	Path string
	// Root is the node conversion starts from. It is either an element or
	// a DocumentNode container holding several top-level nodes.
	Root  *html.Node
	index map[*html.Node]int
}

// SetIndex records the traversal index assigned to n.
func (d *Document) SetIndex(n *html.Node, i int) {
	if d.index == nil {
		d.index = make(map[*html.Node]int)
	}
	d.index[n] = i
}

// Index returns the traversal index of n.
func (d *Document) Index(n *html.Node) (int, bool) {
	i, ok := d.index[n]
	return i, ok
}

// Indexed returns how many nodes carry an index.
func (d *Document) Indexed() int { return len(d.index) }

// Request names a document and an optional root selector, with the host
// positions used when reporting errors about them.
type Request struct {
	Path        string
	PathPos     diag.Pos
	Selector    string
	SelectorPos diag.Pos
}

// Loader reads and parses documents from a billy filesystem.
type Loader struct {
	FS      billy.Filesystem
	Matcher Matcher
}

func NewLoader(fs billy.Filesystem) *Loader {
	return &Loader{FS: fs, Matcher: NewCSSMatcher()}
}

// Load reads req.Path, parses it leniently and narrows it to req.Selector.
func (l *Loader) Load(req Request) (*Document, error) {
	content, err := util.ReadFile(l.FS, req.Path)
	if err != nil {
		return nil, diag.Wrap(diag.UnreadableDocument, req.PathPos, err, "cannot read document %s", req.Path)
	}
	root, err := Parse(content)
	if err != nil {
		return nil, diag.Wrap(diag.MalformedDocument, req.PathPos, err, "cannot parse document %s", req.Path)
	}
	doc := &Document{Path: req.Path, Root: root}
	if req.Selector == "" {
		return doc, nil
	}
	matches, err := l.Matcher.Query(root, req.Selector)
	if err != nil {
		return nil, diag.Wrap(diag.InvalidSelector, req.SelectorPos, err, "root selector of %s", req.Path)
	}
	if len(matches) == 0 {
		return nil, diag.Errorf(diag.SelectorNotFound, req.SelectorPos, "selector %q matches nothing in %s", req.Selector, req.Path)
	}
	doc.Root = matches[0]
	return doc, nil
}

var errEmpty = errors.New("document has no content")

// Parse turns markup into a node tree. Fragments are parsed in a <body>
// context; full documents (doctype or <html> prefix) with html.Parse.
// A single top-level element becomes the root, otherwise the top-level
// nodes stay under a DocumentNode container.
func Parse(content []byte) (*html.Node, error) {
	head := strings.ToLower(strings.TrimSpace(string(content[:min(len(content), 64)])))
	container := &html.Node{Type: html.DocumentNode}
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		container = doc
	} else {
		ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		nodes, err := html.ParseFragment(bytes.NewReader(content), ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			container.AppendChild(n)
		}
	}
	var only *html.Node
	count := 0
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			only = c
			count++
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				count += 2
			}
		}
	}
	switch {
	case count == 1:
		return only, nil
	case count == 0:
		return nil, errEmpty
	}
	return container, nil
}
