package morexml

import (
	"testing"

	xmlerrors "github.com/advaoptical/morexml/errors"
)

func catalogFixture(t *testing.T) *Tree {
	t.Helper()
	root, err := Build("catalog", func(b *Builder) {
		b.Element("entry", WithAttr("id", "1"), WithAttr("status", "open"), WithText("first"))
		b.Element("entry", WithAttr("id", "2"), WithAttr("status", "closed"), WithText("second"))
		b.Element("note", WithText("aside"))
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return root
}

func TestListFilter(t *testing.T) {
	sub := catalogFixture(t).Sub()

	entries := sub.Filter("entry")
	if got, want := len(entries), 2; got != want {
		t.Fatalf("Filter(%q) returned %d members, want %d", "entry", got, want)
	}

	all := sub.Filter()
	if got, want := len(all), 3; got != want {
		t.Errorf("Filter() returned %d members, want %d", got, want)
	}

	if got := sub.Filter("missing"); len(got) != 0 {
		t.Errorf("Filter(%q) returned %d members, want none", "missing", len(got))
	}

	both := sub.Filter("entry", "note")
	if got, want := len(both), 3; got != want {
		t.Errorf("Filter(%q, %q) returned %d members, want %d", "entry", "note", got, want)
	}
}

func TestListWhere(t *testing.T) {
	sub := catalogFixture(t).Sub()

	open := sub.Where(Attrs{"status": "open"})
	if len(open) != 1 {
		t.Fatalf("Where() returned %d members, want 1", len(open))
	}
	if id, _ := open[0].Attr("id"); id != "1" {
		t.Errorf("matched entry id = %q, want %q", id, "1")
	}

	exact := sub.Where(Attrs{"id": "2", "status": "closed"})
	if len(exact) != 1 {
		t.Errorf("Where() with two attributes returned %d members, want 1", len(exact))
	}

	if got := sub.Where(Attrs{"status": "pending"}); len(got) != 0 {
		t.Errorf("Where() returned %d members, want none", len(got))
	}
}

func TestListAttr(t *testing.T) {
	sub := catalogFixture(t).Sub()

	ids, err := sub.Filter("entry").Attr("id")
	if err != nil {
		t.Fatalf("Attr() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("Attr(%q) = %v, want [1 2]", "id", ids)
	}

	// The note member has no id, which fails the whole lookup.
	_, err = sub.Attr("id")
	if err == nil {
		t.Fatal("Attr() over a member without the attribute: expected error")
	}
	attrErr, ok := xmlerrors.AsAttr(err)
	if !ok {
		t.Fatalf("expected AttrError, got %T: %v", err, err)
	}
	if attrErr.Name != "id" {
		t.Errorf("AttrError.Name = %q, want %q", attrErr.Name, "id")
	}
}

func TestListSetAttr(t *testing.T) {
	sub := catalogFixture(t).Sub()
	entries := sub.Filter("entry")

	if err := entries.SetAttr("status", "done"); err != nil {
		t.Fatalf("SetAttr() error: %v", err)
	}
	statuses, err := entries.Attr("status")
	if err != nil {
		t.Fatalf("Attr() error: %v", err)
	}
	for i, status := range statuses {
		if status != "done" {
			t.Errorf("entry %d status = %q, want %q", i, status, "done")
		}
	}

	if err := entries.SetAttr("bad name", "x"); err == nil {
		t.Error("SetAttr with invalid name: expected error")
	}
}

func TestListSetText(t *testing.T) {
	entries := catalogFixture(t).Sub().Filter("entry")
	entries.SetText("updated")
	for i, text := range entries.Texts() {
		if text != "updated" {
			t.Errorf("entry %d text = %q, want %q", i, text, "updated")
		}
	}
}

func TestListTextsAndTags(t *testing.T) {
	sub := catalogFixture(t).Sub()

	texts := sub.Texts()
	want := []string{"first", "second", "aside"}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("Texts()[%d] = %q, want %q", i, texts[i], want[i])
		}
	}

	tags := sub.Tags()
	wantTags := []string{"entry", "entry", "note"}
	for i := range wantTags {
		if tags[i] != wantTags[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, tags[i], wantTags[i])
		}
	}
}

func TestListEqual(t *testing.T) {
	a := catalogFixture(t).Sub()
	b := catalogFixture(t).Sub()

	if !a.Equal(b) {
		t.Error("identical lists are not Equal")
	}
	if a.Equal(b.Filter("entry")) {
		t.Error("lists of different length are Equal")
	}
	b[0].SetText("changed")
	if a.Equal(b) {
		t.Error("lists with differing members are Equal")
	}
}
