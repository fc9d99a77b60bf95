package morexml

import (
	"fmt"
	"sort"

	xmlerrors "github.com/advaoptical/morexml/errors"
	"github.com/advaoptical/morexml/internal/xmlname"
)

// Attr is a single XML attribute. Attribute order on an element is creation
// order.
type Attr struct {
	Name  string
	Value string
}

// Attrs maps XML attribute names to values. When applied to a node, entries
// are added in lexical key order so output stays deterministic.
type Attrs map[string]string

// Tree is one node of an XML (sub-)tree: the simple tree abstraction over
// element data. A Tree is created with New, Build, or Parse and always knows
// its resolved namespace.
type Tree struct {
	prefix string
	local  string
	uri    string
	attrs  []Attr
	decls  []nsBinding
	text   string
	parent *Tree
	sub    []*Tree
}

type nodeConfig struct {
	attrs []Attr
	ns    []nsBinding
	text  string
}

// NodeOption configures a node during creation.
type NodeOption func(*nodeConfig)

// WithAttrs adds the given attributes in lexical key order. Names are taken
// literally.
func WithAttrs(attrs Attrs) NodeOption {
	return func(cfg *nodeConfig) {
		keys := make([]string, 0, len(attrs))
		for name := range attrs {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			cfg.attrs = setAttr(cfg.attrs, name, attrs[name])
		}
	}
}

// WithAttr adds one attribute. The name is given in Go identifier style:
// underscores are converted to hyphens.
func WithAttr(name, value string) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.attrs = setAttr(cfg.attrs, xmlname.ToXML(name), value)
	}
}

// WithText sets the direct text content of the node.
func WithText(text string) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.text = text
	}
}

// WithNamespaces declares prefix bindings on the node. Declarations given
// here take priority over scope bindings.
func WithNamespaces(ns NS) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.ns = mergeBindings(cfg.ns, sortedBindings(ns))
	}
}

// New is the single entry point for standalone node creation. The tag is
// given as "name" or "prefix:name"; a prefixed tag needs its prefix bound by
// a WithNamespaces option, or the call fails with an NSLookupError.
func New(tag string, opts ...NodeOption) (*Tree, error) {
	return newNode(tag, nil, nil, opts)
}

func newNode(tag string, parent *Tree, scope *Scope, opts []NodeOption) (*Tree, error) {
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	t, err := newNodeRaw(tag, cfg.attrs, mergeBindings(scope.flatten(), cfg.ns), parent)
	if err != nil {
		return nil, err
	}
	t.text = cfg.text
	return t, nil
}

// newNodeRaw creates a node from already-ordered attributes and
// declarations, resolves its namespace, and attaches it to parent when one
// is given.
func newNodeRaw(tag string, attrs []Attr, decls []nsBinding, parent *Tree) (*Tree, error) {
	prefix, local, err := xmlname.SplitQName(tag)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", xmlerrors.ErrBadName, err)
	}
	for _, a := range attrs {
		if err := validAttrName(a.Name); err != nil {
			return nil, err
		}
	}

	t := &Tree{
		prefix: prefix,
		local:  local,
		attrs:  attrs,
		decls:  decls,
	}
	uri, ok := t.resolvePrefix(prefix, parent)
	if prefix != "" && !ok {
		return nil, nsLookupError(prefix, local)
	}
	t.uri = uri

	if parent != nil {
		t.parent = parent
		parent.sub = append(parent.sub, t)
	}
	return t, nil
}

func validAttrName(name string) error {
	if _, _, err := xmlname.SplitQName(name); err != nil {
		return fmt.Errorf("[%s] invalid XML attribute name %q", xmlerrors.ErrBadName, name)
	}
	return nil
}

// resolvePrefix looks a prefix up in the node's own declarations, then in
// the ancestor chain starting at parent. The empty prefix resolves to the
// innermost default namespace declaration, or to no namespace.
func (t *Tree) resolvePrefix(prefix string, parent *Tree) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	if uri, ok := lookupBinding(t.decls, prefix); ok {
		return uri, true
	}
	for p := parent; p != nil; p = p.parent {
		if uri, ok := lookupBinding(p.decls, prefix); ok {
			return uri, true
		}
	}
	return "", prefix == ""
}

// Tag returns the node's tag in "name" or "prefix:name" form.
func (t *Tree) Tag() string {
	if t.prefix != "" {
		return t.prefix + ":" + t.local
	}
	return t.local
}

// LocalName returns the tag without its prefix.
func (t *Tree) LocalName() string { return t.local }

// Prefix returns the tag prefix, empty for unprefixed tags.
func (t *Tree) Prefix() string { return t.prefix }

// NamespaceURI returns the resolved namespace of the node, empty when the
// node is in no namespace.
func (t *Tree) NamespaceURI() string { return t.uri }

// Attr returns the value of an attribute and whether it is present.
func (t *Tree) Attr(name string) (string, bool) {
	for _, a := range t.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute value, keeping creation order for existing
// attributes and appending new ones.
func (t *Tree) SetAttr(name, value string) error {
	if err := validAttrName(name); err != nil {
		return err
	}
	t.attrs = setAttr(t.attrs, name, value)
	return nil
}

// RemoveAttr deletes an attribute and reports whether it was present.
func (t *Tree) RemoveAttr(name string) bool {
	for i, a := range t.attrs {
		if a.Name == name {
			t.attrs = append(t.attrs[:i], t.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attrs returns a copy of the attribute list in creation order.
func (t *Tree) Attrs() []Attr {
	attrs := make([]Attr, len(t.attrs))
	copy(attrs, t.attrs)
	return attrs
}

// Text returns the direct text content of the node.
func (t *Tree) Text() string { return t.text }

// SetText sets the direct text content of the node.
func (t *Tree) SetText(text string) { t.text = text }

// Parent returns the parent tree, nil for a root.
func (t *Tree) Parent() *Tree { return t.parent }

// Root walks up to the root of the tree.
func (t *Tree) Root() *Tree {
	root := t
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Sub returns the direct subtrees as a List.
func (t *Tree) Sub() List {
	sub := make(List, len(t.sub))
	copy(sub, t.sub)
	return sub
}

// Namespaces returns the effective prefix bindings of the node: its own
// declarations plus those inherited from ancestors, innermost winning.
func (t *Tree) Namespaces() NS {
	ns := make(NS)
	for node := t; node != nil; node = node.parent {
		for _, b := range node.decls {
			if _, ok := ns[b.prefix]; !ok {
				ns[b.prefix] = b.uri
			}
		}
	}
	return ns
}

// Append attaches a subtree. The child must not already have a parent.
func (t *Tree) Append(child *Tree) error {
	if child == nil {
		return fmt.Errorf("append to %q: nil subtree", t.Tag())
	}
	if child.parent != nil {
		return fmt.Errorf("[%s] subtree %q is already attached to %q",
			xmlerrors.ErrAttached, child.Tag(), child.parent.Tag())
	}
	child.parent = t
	t.sub = append(t.sub, child)
	return nil
}

// AppendNew creates a node and attaches it in one step. The tag prefix
// resolves against the node's own declarations and the receiver's effective
// bindings.
func (t *Tree) AppendNew(tag string, opts ...NodeOption) (*Tree, error) {
	return newNode(tag, t, nil, opts)
}

// Equal reports deep structural equality: resolved names, attributes
// (order-insensitive), direct text, and subtrees in order.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.uri != other.uri || t.local != other.local || t.text != other.text {
		return false
	}
	if len(t.attrs) != len(other.attrs) || len(t.sub) != len(other.sub) {
		return false
	}
	for _, a := range t.attrs {
		if value, ok := other.Attr(a.Name); !ok || value != a.Value {
			return false
		}
	}
	for i, sub := range t.sub {
		if !sub.Equal(other.sub[i]) {
			return false
		}
	}
	return true
}

// Copy returns a detached deep copy of the subtree. Bindings inherited from
// ancestors are declared on the copy's root so it stays resolvable on its
// own.
func (t *Tree) Copy() *Tree {
	c := t.copyNode()
	c.decls = sortedBindings(t.Namespaces())
	return c
}

func (t *Tree) copyNode() *Tree {
	c := &Tree{
		prefix: t.prefix,
		local:  t.local,
		uri:    t.uri,
		text:   t.text,
		attrs:  append([]Attr(nil), t.attrs...),
		decls:  append([]nsBinding(nil), t.decls...),
	}
	for _, sub := range t.sub {
		subCopy := sub.copyNode()
		subCopy.parent = c
		c.sub = append(c.sub, subCopy)
	}
	return c
}

func setAttr(attrs []Attr, name, value string) []Attr {
	for i, a := range attrs {
		if a.Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}
