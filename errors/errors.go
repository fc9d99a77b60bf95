// Package errors defines the error taxonomy of the morexml module.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of morexml errors.
type ErrorCode string

const (
	// ErrNSLookup indicates an XML namespace prefix with no definition in scope.
	ErrNSLookup ErrorCode = "ns-prefix-unbound"
	// ErrParse indicates XML input that could not be parsed into a tree.
	ErrParse ErrorCode = "xml-parse"
	// ErrBadName indicates an invalid XML tag or attribute name.
	ErrBadName ErrorCode = "xml-bad-name"
	// ErrPath indicates an invalid path construction or rendering.
	ErrPath ErrorCode = "path-invalid"
	// ErrAttrMissing indicates an attribute absent from a collection member.
	ErrAttrMissing ErrorCode = "attr-missing"
	// ErrAttached indicates a subtree that already has a parent.
	ErrAttached ErrorCode = "tree-attached"
)

// NSLookupError reports an XML namespace prefix that is not defined during
// tree creation.
type NSLookupError struct {
	Prefix string
	Tag    string
}

// Error formats the lookup failure with the offending prefix and tag.
func (e *NSLookupError) Error() string {
	return fmt.Sprintf("[%s] unknown prefix %q in XML tag %q", ErrNSLookup, e.Prefix, e.Tag)
}

// ParseError reports malformed XML input with line/column context.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse failure, including position when known.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %v at line %d, column %d", ErrParse, e.Err, e.Line, e.Column)
	}
	return fmt.Sprintf("[%s] %v", ErrParse, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// PathError reports an invalid path operation.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error formats the failing operation and the path it was applied to.
func (e *PathError) Error() string {
	return fmt.Sprintf("[%s] %s %q: %v", ErrPath, e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PathError) Unwrap() error {
	return e.Err
}

// AttrError reports an attribute missing from a collection member.
type AttrError struct {
	Name string
}

// Error names the missing attribute.
func (e *AttrError) Error() string {
	return fmt.Sprintf("[%s] missing XML attribute %q", ErrAttrMissing, e.Name)
}

// AsNSLookup extracts an NSLookupError from err.
func AsNSLookup(err error) (*NSLookupError, bool) {
	var e *NSLookupError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsParse extracts a ParseError from err.
func AsParse(err error) (*ParseError, bool) {
	var e *ParseError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsPath extracts a PathError from err.
func AsPath(err error) (*PathError, bool) {
	var e *PathError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsAttr extracts an AttrError from err.
func AsAttr(err error) (*AttrError, bool) {
	var e *AttrError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
