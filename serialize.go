package morexml

import (
	"encoding/xml"
	"io"
	"strings"
)

// String renders the (sub-)tree as pretty-printed XML text with two-space
// indentation.
func (t *Tree) String() string {
	var b strings.Builder
	_ = t.WriteIndent(&b, "", "  ")
	return strings.TrimSuffix(b.String(), "\n")
}

// Write writes the (sub-)tree as compact XML text.
func (t *Tree) Write(w io.Writer) error {
	x := &xmlWriter{w: w}
	t.write(x, map[string]string{}, "", "")
	return x.err
}

// WriteIndent writes the (sub-)tree as indented XML text, each line
// starting with prefix and nested one indent per level. A trailing newline
// is written after the root.
func (t *Tree) WriteIndent(w io.Writer, prefix, indent string) error {
	x := &xmlWriter{w: w, pretty: true}
	x.writeString(prefix)
	t.write(x, map[string]string{}, prefix, indent)
	x.writeString("\n")
	return x.err
}

type xmlWriter struct {
	w      io.Writer
	pretty bool
	err    error
}

func (x *xmlWriter) writeString(s string) {
	if x.err != nil {
		return
	}
	_, x.err = io.WriteString(x.w, s)
}

func (x *xmlWriter) writeEscaped(s string) {
	if x.err != nil {
		return
	}
	x.err = xml.EscapeText(x.w, []byte(s))
}

// write renders one node. scope holds the prefix bindings in effect above
// this node; declarations repeating an in-scope binding are suppressed, and
// a binding required by the node's own prefix but missing from its
// declarations is emitted as a safety net (subtrees detached from the scope
// that declared their prefix stay well-formed this way).
func (t *Tree) write(x *xmlWriter, scope map[string]string, linePrefix, indent string) {
	tag := t.Tag()
	x.writeString("<" + tag)

	childScope := scope
	if len(t.decls) > 0 || t.needsOwnBinding(scope) {
		childScope = make(map[string]string, len(scope)+len(t.decls)+1)
		for prefix, uri := range scope {
			childScope[prefix] = uri
		}
	}
	for _, b := range t.decls {
		if uri, ok := childScope[b.prefix]; ok && uri == b.uri {
			continue
		}
		childScope[b.prefix] = b.uri
		x.writeString(" " + declAttr(b.prefix) + `="`)
		x.writeEscaped(b.uri)
		x.writeString(`"`)
	}
	if uri, ok := childScope[t.prefix]; t.prefix != "xml" && (!ok && t.uri != "" || ok && uri != t.uri) {
		childScope[t.prefix] = t.uri
		x.writeString(" " + declAttr(t.prefix) + `="`)
		x.writeEscaped(t.uri)
		x.writeString(`"`)
	}

	for _, a := range t.attrs {
		x.writeString(" " + a.Name + `="`)
		x.writeEscaped(a.Value)
		x.writeString(`"`)
	}

	if t.text == "" && len(t.sub) == 0 {
		x.writeString("/>")
		return
	}

	x.writeString(">")
	if t.text != "" {
		x.writeEscaped(t.text)
	}
	if len(t.sub) > 0 {
		subPrefix := linePrefix + indent
		for _, sub := range t.sub {
			if x.pretty {
				x.writeString("\n" + subPrefix)
			}
			sub.write(x, childScope, subPrefix, indent)
		}
		if x.pretty {
			x.writeString("\n" + linePrefix)
		}
	}
	x.writeString("</" + tag + ">")
}

// needsOwnBinding reports whether the node's prefix resolution differs from
// what the surrounding scope provides.
func (t *Tree) needsOwnBinding(scope map[string]string) bool {
	if t.prefix == "xml" {
		return false
	}
	uri, ok := scope[t.prefix]
	if !ok {
		return t.uri != ""
	}
	return uri != t.uri
}

func declAttr(prefix string) string {
	if prefix == "" {
		return "xmlns"
	}
	return "xmlns:" + prefix
}
