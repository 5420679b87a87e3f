// Package diag holds the structured errors surfaced by the transform engine.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	MissingRequiredAttribute Kind = iota + 1
	NonLiteralAttribute
	InvalidChildTag
	MalformedDocument
	SelectorNotFound
	UnreadableDocument
	InvalidSelector
)

var kindNames = map[Kind]string{
	MissingRequiredAttribute: "MissingRequiredAttribute",
	NonLiteralAttribute:      "NonLiteralAttribute",
	InvalidChildTag:          "InvalidChildTag",
	MalformedDocument:        "MalformedDocument",
	SelectorNotFound:         "SelectorNotFound",
	UnreadableDocument:       "UnreadableDocument",
	InvalidSelector:          "InvalidSelector",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels usable with errors.Is.
var (
	ErrMissingRequiredAttribute = &Error{Kind: MissingRequiredAttribute}
	ErrNonLiteralAttribute      = &Error{Kind: NonLiteralAttribute}
	ErrInvalidChildTag          = &Error{Kind: InvalidChildTag}
	ErrMalformedDocument        = &Error{Kind: MalformedDocument}
	ErrSelectorNotFound         = &Error{Kind: SelectorNotFound}
	ErrUnreadableDocument       = &Error{Kind: UnreadableDocument}
	ErrInvalidSelector          = &Error{Kind: InvalidSelector}
)

// Pos is a 1-based source location. The zero value means unknown.
type Pos struct {
	Line   int
	Column int
}

// Known reports whether the position carries a real location.
func (p Pos) Known() bool { return p.Line > 0 }

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is a fatal directive error attached to a host source location.
type Error struct {
	Kind    Kind
	Message string
	File    string
	Pos     Pos
	// Estimated is set when Pos was borrowed from a nearby node.
	Estimated bool
	Err       error
}

func (e *Error) Error() string {
	loc := e.Pos.String()
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	if e.Estimated {
		loc += " (estimated)"
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an Error at pos.
func Errorf(kind Kind, pos Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error at pos wrapping cause.
func Wrap(kind Kind, pos Pos, cause error, format string, args ...any) *Error {
	e := Errorf(kind, pos, format, args...)
	e.Err = cause
	if cause != nil {
		e.Message += ": " + cause.Error()
	}
	return e
}

// WithFile stamps the compilation unit name onto err when it is an *Error.
func WithFile(err error, file string) error {
	var de *Error
	if errors.As(err, &de) && de.File == "" {
		de.File = file
	}
	return err
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
