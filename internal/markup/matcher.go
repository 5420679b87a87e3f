package markup

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Matcher evaluates a selector against a markup tree.
// Implementations must return matches in a stable order; callers treat the
// order as opaque.
type Matcher interface {
	// Query returns the nodes under root (root included) matching selector.
	Query(root *html.Node, selector string) ([]*html.Node, error)
}

// CSSMatcher implements Matcher with CSS selector groups.
type CSSMatcher struct{}

func NewCSSMatcher() *CSSMatcher {
	return &CSSMatcher{}
}

// Query implements Matcher.
func (m *CSSMatcher) Query(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector '%s': %w", selector, err)
	}
	var matches []*html.Node
	if root.Type == html.ElementNode && sel.Match(root) {
		matches = append(matches, root)
	}
	return append(matches, cascadia.QueryAll(root, sel)...), nil
}
