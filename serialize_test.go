package morexml

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteCompact(t *testing.T) {
	root, err := Build("name", func(b *Builder) {
		b.Nest("sub-name", func(b *Builder) {
			b.Element("sub-sub-name")
		}, WithAttr("attr", "value"))
		b.Element("other-name", WithText("text"))
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var b strings.Builder
	if err := root.Write(&b); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	want := `<name><sub-name attr="value"><sub-sub-name/></sub-name><other-name>text</other-name></name>`
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("Write() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteIndent(t *testing.T) {
	root, err := Build("name", func(b *Builder) {
		b.Nest("sub-name", func(b *Builder) {
			b.Element("sub-sub-name")
		})
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var b strings.Builder
	if err := root.WriteIndent(&b, "\t", "\t"); err != nil {
		t.Fatalf("WriteIndent() error: %v", err)
	}
	want := "\t<name>\n\t\t<sub-name>\n\t\t\t<sub-sub-name/>\n\t\t</sub-name>\n\t</name>\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("WriteIndent() mismatch (-want +got):\n%s", diff)
	}
}

func TestStringEscaping(t *testing.T) {
	root, err := New("name",
		WithAttr("quote", `say "hi"`),
		WithText("Fish & Chips <deal>"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	want := `<name quote="say &#34;hi&#34;">Fish &amp; Chips &lt;deal&gt;</name>`
	if diff := cmp.Diff(want, root.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSuppressesInheritedDeclarations(t *testing.T) {
	scope := NewScope(NS{"pfx": "urn:some:namespace"})
	root, err := scope.Build("pfx:name", func(b *Builder) {
		b.Nest("pfx:sub-name", func(b *Builder) {
			b.Element("pfx:sub-sub-name")
		})
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// Every node carries the scope bindings as declarations, but only
	// the root writes them.
	want := `<pfx:name xmlns:pfx="urn:some:namespace">
  <pfx:sub-name>
    <pfx:sub-sub-name/>
  </pfx:sub-name>
</pfx:name>`
	if diff := cmp.Diff(want, root.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteShadowedRedeclaration(t *testing.T) {
	scope := NewScope(NS{"pfx": "urn:outer"})
	root, err := scope.Build("pfx:name", func(b *Builder) {
		b.Element("pfx:sub-name", WithNamespaces(NS{"pfx": "urn:inner"}))
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := `<pfx:name xmlns:pfx="urn:outer">
  <pfx:sub-name xmlns:pfx="urn:inner"/>
</pfx:name>`
	if diff := cmp.Diff(want, root.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDetachedSubtree(t *testing.T) {
	// A subtree whose prefix is declared on an ancestor serializes with
	// its own safety-net declaration.
	root, err := ParseString(`<root xmlns:p="urn:p"><p:child><p:leaf/></p:child></root>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	child := root.Sub()[0]

	var b strings.Builder
	if err := child.Write(&b); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	want := `<p:child xmlns:p="urn:p"><p:leaf/></p:child>`
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("Write() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDefaultNamespaceUndeclared(t *testing.T) {
	root, err := ParseString(`<root xmlns="urn:d"><child xmlns=""><leaf/></child></root>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	var b strings.Builder
	if err := root.Write(&b); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	want := `<root xmlns="urn:d"><child xmlns=""><leaf/></child></root>`
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("Write() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReportsWriterError(t *testing.T) {
	root, err := New("name", WithText("text"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := root.Write(failingWriter{}); err == nil {
		t.Error("Write() to a failing writer: expected error")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}
