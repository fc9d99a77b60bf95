package morexml

// Builder creates nested subtrees under one parent. It is handed to the
// body callbacks of Build and Nest and records the first error, which the
// enclosing Build returns.
type Builder struct {
	parent *Tree
	scope  *Scope
	err    error
}

// Build creates a tree and runs body to populate it with subtrees.
//
//	root, err := morexml.Build("name", func(b *morexml.Builder) {
//		b.Nest("sub-name", func(b *morexml.Builder) {
//			b.Element("sub-sub-name")
//		})
//		b.Element("other-name", morexml.WithAttr("other_attr", "other value"))
//	}, morexml.WithAttr("attr", "value"))
func Build(tag string, body func(*Builder), opts ...NodeOption) (*Tree, error) {
	return buildScoped(nil, tag, body, opts)
}

// Build creates a tree under the scope's namespace bindings and runs body to
// populate it.
func (s *Scope) Build(tag string, body func(*Builder), opts ...NodeOption) (*Tree, error) {
	return buildScoped(s, tag, body, opts)
}

func buildScoped(scope *Scope, tag string, body func(*Builder), opts []NodeOption) (*Tree, error) {
	root, err := newNode(tag, nil, scope, opts)
	if err != nil {
		return nil, err
	}
	if body != nil {
		b := &Builder{parent: root, scope: scope}
		body(b)
		if b.err != nil {
			return nil, b.err
		}
	}
	return root, nil
}

// Element creates a leaf subtree under the builder's parent. It returns nil
// after the first error.
func (b *Builder) Element(tag string, opts ...NodeOption) *Tree {
	if b.err != nil {
		return nil
	}
	t, err := newNode(tag, b.parent, b.scope, opts)
	if err != nil {
		b.err = err
		return nil
	}
	return t
}

// Nest creates a subtree and runs body with a builder positioned on it.
func (b *Builder) Nest(tag string, body func(*Builder), opts ...NodeOption) *Tree {
	t := b.Element(tag, opts...)
	if t == nil || body == nil {
		return t
	}
	nested := &Builder{parent: t, scope: b.scope}
	body(nested)
	if nested.err != nil && b.err == nil {
		b.err = nested.err
	}
	return t
}

// WithNS runs body with additional namespace bindings in scope. Inner
// bindings shadow outer ones for the nested region only.
func (b *Builder) WithNS(ns NS, body func(*Builder)) {
	if b.err != nil || body == nil {
		return
	}
	scoped := &Builder{parent: b.parent, scope: b.scope.With(ns)}
	body(scoped)
	if scoped.err != nil {
		b.err = scoped.err
	}
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}
