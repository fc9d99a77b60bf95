package morexml

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	xmlerrors "github.com/advaoptical/morexml/errors"
	"github.com/advaoptical/morexml/internal/xmlname"
)

type segKind int

const (
	segRoot segKind = iota
	segDeep
	segAny
	segTagged
)

type segment struct {
	kind   segKind
	prefix string
	local  string
	index  int
	hasIdx bool
	attrs  []Attr
	ns     []nsBinding
}

func (seg segment) tag() string {
	switch seg.kind {
	case segAny:
		return "*"
	case segTagged:
		if seg.prefix != "" {
			return seg.prefix + ":" + seg.local
		}
		return seg.local
	}
	return ""
}

// Path is an immutable chain of location segments: an optional root, deep
// descents, wildcards, and tagged steps with attribute predicates, indexes,
// and namespace bindings. Construction errors are carried along the chain
// and surface from the terminal operations.
type Path struct {
	segs []segment
	err  error
}

type segmentConfig struct {
	index  int
	hasIdx bool
	attrs  []Attr
	ns     []nsBinding
}

// SegmentOption configures one path segment.
type SegmentOption func(*segmentConfig)

// At selects the n-th match of the segment within its parent, counting from
// zero; negative indexes count from the end.
func At(index int) SegmentOption {
	return func(cfg *segmentConfig) {
		cfg.index = index
		cfg.hasIdx = true
	}
}

// Where adds attribute predicates to the segment, in lexical key order.
func Where(attrs Attrs) SegmentOption {
	return func(cfg *segmentConfig) {
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

// WithNS binds namespace prefixes for this and all following segments.
func WithNS(ns NS) SegmentOption {
	return func(cfg *segmentConfig) {
		cfg.ns = mergeBindings(cfg.ns, sortedBindings(ns))
	}
}

// RootPath starts an absolute path with the given namespace bindings.
func RootPath(ns NS) *Path {
	return &Path{segs: []segment{{kind: segRoot, ns: sortedBindings(ns)}}}
}

// RootPath starts an absolute path carrying the scope's bindings.
func (s *Scope) RootPath() *Path {
	return &Path{segs: []segment{{kind: segRoot, ns: s.flatten()}}}
}

// NewPath starts a relative path with a tagged or wildcard ("*") segment.
func NewPath(tag string, opts ...SegmentOption) *Path {
	return (&Path{}).step(tag, opts)
}

// NewPath starts a relative path carrying the scope's bindings.
func (s *Scope) NewPath(tag string, opts ...SegmentOption) *Path {
	p := &Path{segs: []segment{{kind: segRoot, ns: s.flatten()}}}
	p = p.step(tag, opts)
	if p.err != nil {
		return p
	}
	// drop the helper root segment again, keeping its bindings
	return &Path{segs: p.segs[1:]}
}

// Child appends a tagged or wildcard ("*") segment.
func (p *Path) Child(tag string, opts ...SegmentOption) *Path {
	return p.step(tag, opts)
}

// Any appends a wildcard segment matching every tag.
func (p *Path) Any(opts ...SegmentOption) *Path {
	return p.step("*", opts)
}

// Deep appends a deep-descent segment, so that the following segment
// matches at any depth.
func (p *Path) Deep() *Path {
	if p.err != nil {
		return p
	}
	return p.extend(segment{kind: segDeep})
}

func (p *Path) step(tag string, opts []SegmentOption) *Path {
	if p.err != nil {
		return p
	}
	var cfg segmentConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	// Predicate values render single-quoted and the syntax has no escape
	// form, so a quote-bearing value could never parse back.
	for _, a := range cfg.attrs {
		if strings.Contains(a.Value, "'") {
			return &Path{err: &xmlerrors.PathError{
				Op: "step", Path: p.String(),
				Err: fmt.Errorf("attribute %s value %q contains a single quote", a.Name, a.Value),
			}}
		}
	}
	seg := segment{
		kind:   segTagged,
		index:  cfg.index,
		hasIdx: cfg.hasIdx,
		attrs:  cfg.attrs,
		ns:     cfg.ns,
	}
	if tag == "*" {
		seg.kind = segAny
	} else {
		prefix, local, err := xmlname.SplitQName(tag)
		if err != nil {
			return &Path{err: &xmlerrors.PathError{Op: "step", Path: p.String(), Err: err}}
		}
		seg.prefix, seg.local = prefix, local
	}
	return p.extend(seg)
}

// extend copies the chain and appends seg, accumulating the namespace
// bindings of the previous segment (explicit segment bindings win).
func (p *Path) extend(seg segment) *Path {
	if len(p.segs) > 0 {
		seg.ns = mergeBindings(p.segs[len(p.segs)-1].ns, seg.ns)
	}
	segs := make([]segment, len(p.segs), len(p.segs)+1)
	copy(segs, p.segs)
	return &Path{segs: append(segs, seg)}
}

// ParentPath returns the path without its last segment, or nil for a
// single-segment path.
func (p *Path) ParentPath() *Path {
	if p.err != nil || len(p.segs) <= 1 {
		return nil
	}
	segs := make([]segment, len(p.segs)-1)
	copy(segs, p.segs)
	return &Path{segs: segs}
}

// Join appends a relative path to the receiver. Joining a rooted path is an
// error.
func (p *Path) Join(other *Path) *Path {
	switch {
	case p.err != nil:
		return p
	case other == nil:
		return p
	case other.err != nil:
		return other
	}
	if len(other.segs) > 0 && other.segs[0].kind == segRoot {
		return &Path{err: &xmlerrors.PathError{
			Op: "join", Path: p.String(), Err: errors.New("cannot join a rooted path"),
		}}
	}
	segs := make([]segment, 0, len(p.segs)+len(other.segs))
	segs = append(segs, p.segs...)
	segs = append(segs, other.segs...)
	return &Path{segs: segs}
}

// Err returns the first error recorded while building the path.
func (p *Path) Err() error {
	return p.err
}

// String renders the path in slash-joined form, with "[attr='value']" and
// "[index]" suffixes and empty steps for root and deep segments.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, len(p.segs))
	for i, seg := range p.segs {
		parts[i] = seg.String()
	}
	return strings.Join(parts, "/")
}

// String renders one path segment.
func (seg segment) String() string {
	var b strings.Builder
	b.WriteString(seg.tag())
	if len(seg.attrs) > 0 {
		pairs := make([]string, len(seg.attrs))
		for i, a := range seg.attrs {
			pairs[i] = fmt.Sprintf("%s='%s'", a.Name, a.Value)
		}
		fmt.Fprintf(&b, "[%s]", strings.Join(pairs, ","))
	}
	if seg.hasIdx {
		fmt.Fprintf(&b, "[%d]", seg.index)
	}
	return b.String()
}

// XPath renders an all-tagged path as a chain of name and namespace-uri
// filtered wildcard steps.
func (p *Path) XPath() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	steps := make([]string, len(p.segs))
	for i, seg := range p.segs {
		if seg.kind != segTagged {
			return "", &xmlerrors.PathError{
				Op: "xpath", Path: p.String(),
				Err: fmt.Errorf("segment %d is not a tagged element", i),
			}
		}
		filters := fmt.Sprintf("name()='%s'", seg.local)
		if seg.prefix != "" {
			uri, ok := lookupBinding(seg.ns, seg.prefix)
			if seg.prefix == "xml" {
				uri, ok = XMLNamespace, true
			}
			if !ok {
				return "", &xmlerrors.PathError{
					Op: "xpath", Path: p.String(),
					Err: nsLookupError(seg.prefix, seg.local),
				}
			}
			filters += fmt.Sprintf(" and namespace-uri()='%s'", uri)
		}
		steps[i] = fmt.Sprintf("*[%s]", filters)
	}
	return strings.Join(steps, "/"), nil
}

// Tree materializes an all-tagged path as a nested tree and returns its
// root.
func (p *Path) Tree() (*Tree, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.segs) == 0 {
		return nil, &xmlerrors.PathError{Op: "tree", Path: "", Err: errors.New("empty path")}
	}
	var root, parent *Tree
	for i, seg := range p.segs {
		if seg.kind != segTagged {
			return nil, &xmlerrors.PathError{
				Op: "tree", Path: p.String(),
				Err: fmt.Errorf("segment %d is not a tagged element", i),
			}
		}
		node, err := newNodeRaw(seg.tag(), append([]Attr(nil), seg.attrs...), seg.ns, parent)
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = node
		}
		parent = node
	}
	return root, nil
}

// Find evaluates the path against a tree. A rooted path matches t itself
// with its first step; a relative path starts matching at t's subtrees.
func (p *Path) Find(t *Tree) (List, error) {
	if p.err != nil {
		return nil, p.err
	}
	if t == nil || len(p.segs) == 0 {
		return nil, nil
	}

	segs := p.segs
	matchSelf := false
	if segs[0].kind == segRoot {
		segs = segs[1:]
		matchSelf = true
	}

	contexts := []*Tree{t}
	deep := false
	for _, seg := range segs {
		if seg.kind == segDeep {
			deep = true
			continue
		}
		match, err := seg.matcher()
		if err != nil {
			return nil, &xmlerrors.PathError{Op: "find", Path: p.String(), Err: err}
		}

		var next []*Tree
		seen := make(map[*Tree]bool)
		for _, ctx := range contexts {
			var candidates []*Tree
			switch {
			case matchSelf && deep:
				candidates = collectDescendants([]*Tree{ctx}, ctx)
			case matchSelf:
				candidates = []*Tree{ctx}
			case deep:
				candidates = collectDescendants(nil, ctx)
			default:
				candidates = ctx.sub
			}

			var matched []*Tree
			for _, c := range candidates {
				if match(c) && c.hasAttrs(attrsAsMap(seg.attrs)) {
					matched = append(matched, c)
				}
			}
			if seg.hasIdx {
				matched = pickIndex(matched, seg.index)
			}
			for _, m := range matched {
				if !seen[m] {
					seen[m] = true
					next = append(next, m)
				}
			}
		}
		contexts = next
		matchSelf = false
		deep = false
	}
	if deep {
		return nil, &xmlerrors.PathError{
			Op: "find", Path: p.String(), Err: errors.New("path ends with a deep segment"),
		}
	}
	return List(contexts), nil
}

// matcher resolves the segment into a node predicate. A prefixed tag
// matches on resolved namespace and local name, an unprefixed tag on local
// name of unprefixed elements, a wildcard on everything.
func (seg segment) matcher() (func(*Tree) bool, error) {
	if seg.kind == segAny {
		return func(*Tree) bool { return true }, nil
	}
	if seg.prefix == "" {
		local := seg.local
		return func(t *Tree) bool { return t.prefix == "" && t.local == local }, nil
	}
	uri, ok := lookupBinding(seg.ns, seg.prefix)
	if seg.prefix == "xml" {
		uri, ok = XMLNamespace, true
	}
	if !ok {
		return nil, nsLookupError(seg.prefix, seg.local)
	}
	local := seg.local
	return func(t *Tree) bool { return t.uri == uri && t.local == local }, nil
}

func collectDescendants(into []*Tree, t *Tree) []*Tree {
	for _, sub := range t.sub {
		into = append(into, sub)
		into = collectDescendants(into, sub)
	}
	return into
}

func pickIndex(matched []*Tree, index int) []*Tree {
	if index < 0 {
		index += len(matched)
	}
	if index < 0 || index >= len(matched) {
		return nil
	}
	return matched[index : index+1]
}

func attrsAsMap(attrs []Attr) Attrs {
	if len(attrs) == 0 {
		return nil
	}
	m := make(Attrs, len(attrs))
	for _, a := range attrs {
		m[a.Name] = a.Value
	}
	return m
}
