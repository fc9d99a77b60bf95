package morexml

import (
	"sort"

	xmlerrors "github.com/advaoptical/morexml/errors"
)

// Common XML namespaces.
const (
	// XMLNamespace is bound to the "xml" prefix in every document.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XMLNSNamespace is the namespace of namespace declarations themselves.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// NS maps namespace prefixes to URIs. The empty prefix stands for the
// default namespace.
type NS map[string]string

type nsBinding struct {
	prefix string
	uri    string
}

// sortedBindings turns an NS map into a deterministic binding list, default
// namespace first, remaining prefixes in lexical order.
func sortedBindings(ns NS) []nsBinding {
	if len(ns) == 0 {
		return nil
	}
	bindings := make([]nsBinding, 0, len(ns))
	for prefix, uri := range ns {
		bindings = append(bindings, nsBinding{prefix: prefix, uri: uri})
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].prefix < bindings[j].prefix
	})
	return bindings
}

// mergeBindings overlays higher-priority bindings onto base, keeping the
// default-first lexical order of sortedBindings.
func mergeBindings(base, override []nsBinding) []nsBinding {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(NS, len(base)+len(override))
	for _, b := range base {
		merged[b.prefix] = b.uri
	}
	for _, b := range override {
		merged[b.prefix] = b.uri
	}
	return sortedBindings(merged)
}

func lookupBinding(bindings []nsBinding, prefix string) (string, bool) {
	for _, b := range bindings {
		if b.prefix == prefix {
			return b.uri, true
		}
	}
	return "", false
}

// Scope is an immutable set of namespace bindings for tree creation. It is
// the explicit counterpart of a scoped namespace context: deriving a scope
// with With nests definitions, and inner definitions shadow outer ones.
type Scope struct {
	parent   *Scope
	bindings []nsBinding
}

// NewScope returns a scope holding the given bindings.
func NewScope(ns NS) *Scope {
	return &Scope{bindings: sortedBindings(ns)}
}

// With derives a nested scope whose bindings shadow the receiver's. A nil
// receiver behaves like an empty outer scope.
func (s *Scope) With(ns NS) *Scope {
	return &Scope{parent: s, bindings: sortedBindings(ns)}
}

// Lookup resolves a prefix against the scope chain, innermost first.
func (s *Scope) Lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	for scope := s; scope != nil; scope = scope.parent {
		if uri, ok := lookupBinding(scope.bindings, prefix); ok {
			return uri, true
		}
	}
	return "", false
}

// Namespaces returns the effective bindings of the scope chain.
func (s *Scope) Namespaces() NS {
	ns := make(NS)
	for scope := s; scope != nil; scope = scope.parent {
		for _, b := range scope.bindings {
			if _, ok := ns[b.prefix]; !ok {
				ns[b.prefix] = b.uri
			}
		}
	}
	return ns
}

// flatten returns the effective bindings of the scope chain as a sorted
// binding list, for use as element declarations.
func (s *Scope) flatten() []nsBinding {
	if s == nil {
		return nil
	}
	return sortedBindings(s.Namespaces())
}

// New creates a standalone tree whose tag prefix resolves against the scope.
func (s *Scope) New(tag string, opts ...NodeOption) (*Tree, error) {
	return newNode(tag, nil, s, opts)
}

// nsLookupError builds the canonical unknown-prefix error for a tag.
func nsLookupError(prefix, local string) error {
	tag := local
	if prefix != "" {
		tag = prefix + ":" + local
	}
	return &xmlerrors.NSLookupError{Prefix: prefix, Tag: tag}
}
