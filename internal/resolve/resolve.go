// Package resolve evaluates sub-directive selectors against a converted
// document and keys the resulting match records by traversal index.
package resolve

import (
	"io"
	"log/slog"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/diag"
	"github.com/agentic-research/jsxz/internal/directive"
	"github.com/agentic-research/jsxz/internal/hostast"
	"github.com/agentic-research/jsxz/internal/markup"
	"golang.org/x/net/html"
)

// Record is the patch owed to one matched node.
type Record struct {
	// Ordinal is the node's position among the matches of its own sub-directive.
	Ordinal int
	// Directive is a private deep copy of the sub-directive.
	Directive *directive.SubDirective
}

// Resolution maps traversal indices to match records. Each record can be
// taken once.
type Resolution struct {
	records map[int]Record
	pending *roaring.Bitmap
}

func newResolution() *Resolution {
	return &Resolution{records: make(map[int]Record), pending: roaring.New()}
}

func (r *Resolution) put(index int, rec Record) {
	r.records[index] = rec
	r.pending.Add(uint32(index))
}

// Take returns and consumes the record for index.
func (r *Resolution) Take(index int) (Record, bool) {
	if index <= 0 || !r.pending.CheckedRemove(uint32(index)) {
		return Record{}, false
	}
	rec := r.records[index]
	delete(r.records, index)
	return rec, true
}

// Peek returns the record for index without consuming it.
func (r *Resolution) Peek(index int) (Record, bool) {
	rec, ok := r.records[index]
	return rec, ok
}

// Pending lists the indices whose records were never taken.
func (r *Resolution) Pending() []int {
	out := make([]int, 0, r.pending.GetCardinality())
	it := r.pending.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Len returns the number of untaken records.
func (r *Resolution) Len() int { return int(r.pending.GetCardinality()) }

// Resolver matches sub-directives against documents.
type Resolver struct {
	Matcher markup.Matcher
	// Permissive downgrades an empty sub-directive match to a warning.
	Permissive bool
	Logger     *slog.Logger
}

func NewResolver(m markup.Matcher, permissive bool, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{Matcher: m, Permissive: permissive, Logger: logger}
}

// Resolve evaluates every sub-directive of spec in declaration order. When
// two sub-directives match the same node the later one wins.
func (r *Resolver) Resolve(t *hostast.Tree, doc *markup.Document, spec *directive.Spec) (*Resolution, error) {
	res := newResolution()
	for _, sub := range spec.Subs {
		nodes := []*html.Node{doc.Root}
		if sub.IsRoot() && doc.Root.Type != html.ElementNode && sub.Tag == "" && len(sub.Attrs) > 0 {
			// a fragment cannot carry attributes
			return nil, diag.Errorf(diag.MissingRequiredAttribute, sub.Pos,
				"%s has several top-level nodes; attributes on the directive need a %q attribute", doc.Path, api.AttrTag)
		}
		if !sub.IsRoot() {
			found, err := r.Matcher.Query(doc.Root, sub.Selector)
			if err != nil {
				return nil, diag.Wrap(diag.InvalidSelector, sub.SelectorPos, err, "sub-directive in %s", doc.Path)
			}
			if len(found) == 0 {
				if r.Permissive {
					r.Logger.Warn("selector matched nothing",
						"selector", sub.Selector,
						"document", doc.Path,
						"pos", sub.SelectorPos.String())
					continue
				}
				return nil, diag.Errorf(diag.SelectorNotFound, sub.SelectorPos, "selector %q matches nothing in %s", sub.Selector, doc.Path)
			}
			nodes = found
		}
		ordinal := 0
		for _, m := range nodes {
			idx, ok := doc.Index(m)
			if !ok {
				continue
			}
			res.put(idx, Record{Ordinal: ordinal, Directive: sub.Clone(t)})
			ordinal++
		}
	}
	return res, nil
}
