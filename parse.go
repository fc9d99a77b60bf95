package morexml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	xmlerrors "github.com/advaoptical/morexml/errors"
)

var errUnboundPrefix = errors.New("unbound namespace prefix")

// Parse builds a tree from XML text. The decoder is charset-aware, so
// non-UTF-8 documents with an encoding declaration parse as well.
//
// encoding/xml reports element and attribute namespaces as resolved URIs
// and drops the written prefixes; Parse keeps its own stack of namespace
// declarations and maps the URIs back to the innermost declared prefix, so
// trees round-trip through serialization with their prefixes intact.
//
// A node holds one text slot, rendered before its children. Mixed content
// does not fit that model: non-whitespace character data after a child
// element fails the parse, and whitespace-only layout text around child
// elements is discarded.
func Parse(r io.Reader, opts ...ParseOption) (*Tree, error) {
	cfg, err := resolveParseConfig(opts)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var stack []*Tree
	var frames [][]nsBinding
	var root *Tree
	rootClosed := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, parseError(dec, fmt.Errorf(
					"unexpected element %s after document end", t.Name.Local))
			}
			if len(stack) >= cfg.maxDepth {
				return nil, parseError(dec, fmt.Errorf(
					"element depth exceeds limit of %d", cfg.maxDepth))
			}
			if len(t.Attr) > cfg.maxAttrs {
				return nil, parseError(dec, fmt.Errorf(
					"element %s has more than %d attributes", t.Name.Local, cfg.maxAttrs))
			}

			decls, attrs, err := splitTokenAttrs(t.Attr, frames, cfg)
			if err != nil {
				return nil, parseError(dec, err)
			}
			frames = append(frames, decls)

			prefix, err := elementPrefix(t.Name.Space, frames)
			if err != nil {
				return nil, parseError(dec, err)
			}
			uri := t.Name.Space
			if uri == "xml" {
				uri = XMLNamespace
			}

			elem := &Tree{
				prefix: prefix,
				local:  t.Name.Local,
				uri:    uri,
				attrs:  attrs,
				decls:  decls,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.sub = append(parent.sub, elem)
				elem.parent = parent
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				elem := stack[len(stack)-1]
				if len(elem.sub) > 0 && isXMLWhitespace(elem.text) {
					elem.text = ""
				}
				stack = stack[:len(stack)-1]
				frames = frames[:len(frames)-1]
				if len(stack) == 0 && root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, parseError(dec, errors.New(
						"unexpected character data outside root element"))
				}
				continue
			}
			if len(t) > cfg.maxTokenSize {
				return nil, parseError(dec, fmt.Errorf(
					"character data exceeds token size limit of %d", cfg.maxTokenSize))
			}
			top := stack[len(stack)-1]
			if len(top.sub) > 0 {
				if !isXMLWhitespace(string(t)) {
					return nil, parseError(dec, fmt.Errorf(
						"mixed content in element %s: character data after a child element",
						top.Tag()))
				}
				continue
			}
			top.text += string(t)
		}
	}

	if root == nil {
		return nil, parseError(dec, io.ErrUnexpectedEOF)
	}
	return root, nil
}

// ParseString builds a tree from an XML string.
func ParseString(s string, opts ...ParseOption) (*Tree, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseFile builds a tree from an XML file.
func ParseFile(path string, opts ...ParseOption) (t *Tree, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xml file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			t, err = nil, fmt.Errorf("close xml file %s: %w", path, closeErr)
		}
	}()

	t, err = Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse xml file %s: %w", path, err)
	}
	return t, nil
}

// splitTokenAttrs separates namespace declarations from regular attributes
// and rebuilds the written prefix of each attribute name.
func splitTokenAttrs(tokenAttrs []xml.Attr, frames [][]nsBinding, cfg parseConfig) ([]nsBinding, []Attr, error) {
	var decls []nsBinding
	var attrs []Attr
	for _, a := range tokenAttrs {
		if len(a.Value) > cfg.maxTokenSize {
			return nil, nil, fmt.Errorf(
				"attribute %s exceeds token size limit of %d", a.Name.Local, cfg.maxTokenSize)
		}
		switch {
		case a.Name.Space == "xmlns":
			decls = append(decls, nsBinding{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			decls = append(decls, nsBinding{prefix: "", uri: a.Value})
		case a.Name.Space == "":
			attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
		case a.Name.Space == "xml":
			attrs = append(attrs, Attr{Name: "xml:" + a.Name.Local, Value: a.Value})
		default:
			prefix, ok := attrPrefixFor(a.Name.Space, frames, decls)
			if !ok {
				return nil, nil, fmt.Errorf("%w in attribute %s", errUnboundPrefix, a.Name.Local)
			}
			attrs = append(attrs, Attr{Name: prefix + ":" + a.Name.Local, Value: a.Value})
		}
	}
	return decls, attrs, nil
}

// elementPrefix maps a resolved element namespace back to the prefix it was
// written with, preferring the innermost declaration and, within one scope,
// the default namespace.
func elementPrefix(space string, frames [][]nsBinding) (string, error) {
	if space == "" {
		return "", nil
	}
	if space == "xml" {
		return "xml", nil
	}
	for i := len(frames) - 1; i >= 0; i-- {
		prefixed := ""
		foundPrefixed := false
		for _, b := range frames[i] {
			if b.uri != space {
				continue
			}
			if b.prefix == "" {
				return "", nil
			}
			if !foundPrefixed {
				prefixed, foundPrefixed = b.prefix, true
			}
		}
		if foundPrefixed {
			return prefixed, nil
		}
	}
	return "", fmt.Errorf("%w %q", errUnboundPrefix, space)
}

// attrPrefixFor maps a resolved attribute namespace back to a non-empty
// prefix; unprefixed attributes never take the default namespace.
func attrPrefixFor(space string, frames [][]nsBinding, decls []nsBinding) (string, bool) {
	for _, b := range decls {
		if b.prefix != "" && b.uri == space {
			return b.prefix, true
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for _, b := range frames[i] {
			if b.prefix != "" && b.uri == space {
				return b.prefix, true
			}
		}
	}
	return "", false
}

func isXMLWhitespace(data string) bool {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func parseError(dec *xml.Decoder, err error) error {
	var parseErr *xmlerrors.ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	line, column := dec.InputPos()
	return &xmlerrors.ParseError{Line: line, Column: column, Err: err}
}
