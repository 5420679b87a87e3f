package convert

import (
	"regexp"
	"strings"

	"github.com/agentic-research/jsxz/internal/hostast"
)

var (
	integerRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	pixelRe   = regexp.MustCompile(`^(0|[1-9][0-9]*)px$`)
	hyphenRe  = regexp.MustCompile(`-(.)`)
)

func isNumeric(v string) bool { return integerRe.MatchString(v) }

func hyphenToCamel(s string) string {
	return hyphenRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

type styleDecl struct {
	key, value string
}

// parseStyle splits "a: b; c: d" into ordered declarations.
func parseStyle(raw string) []styleDecl {
	var decls []styleDecl
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(part[:colon])
		if key == "" {
			continue
		}
		decls = append(decls, styleDecl{key: key, value: strings.TrimSpace(part[colon+1:])})
	}
	return decls
}

// styleExpr renders declarations as an object literal expression.
// Custom properties (--x) keep their name as a quoted key.
func styleExpr(raw string) *hostast.Expr {
	e := &hostast.Expr{}
	code := func(s string) {
		e.Segments = append(e.Segments, hostast.Segment{Kind: hostast.SegCode, Text: s})
	}
	code("{")
	for i, d := range parseStyle(raw) {
		if i > 0 {
			code(", ")
		}
		if strings.HasPrefix(d.key, "--") {
			code(hostast.String(d.key).Segments[0].Text + ": ")
		} else {
			code(hyphenToCamel(d.key) + ": ")
		}
		switch {
		case isNumeric(d.value):
			e.Segments = append(e.Segments, hostast.Number(d.value).Segments...)
		case pixelRe.MatchString(d.value):
			e.Segments = append(e.Segments, hostast.Number(strings.TrimSuffix(d.value, "px")).Segments...)
		default:
			e.Segments = append(e.Segments, hostast.String(d.value).Segments...)
		}
	}
	code("}")
	return e
}
