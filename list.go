package morexml

import (
	xmlerrors "github.com/advaoptical/morexml/errors"
)

// List is an ordered collection of XML (sub-)trees. Getters and setters
// operate on all members at once; indexing and slicing are plain Go slice
// operations.
type List []*Tree

// Filter returns the members whose tag matches one of the given tags. With
// no tags, every member matches.
func (l List) Filter(tags ...string) List {
	if len(tags) == 0 {
		return append(List(nil), l...)
	}
	var selected List
	for _, t := range l {
		for _, tag := range tags {
			if t.Tag() == tag {
				selected = append(selected, t)
				break
			}
		}
	}
	return selected
}

// Where returns the members carrying all given attribute values.
func (l List) Where(attrs Attrs) List {
	var selected List
	for _, t := range l {
		if t.hasAttrs(attrs) {
			selected = append(selected, t)
		}
	}
	return selected
}

func (t *Tree) hasAttrs(attrs Attrs) bool {
	for name, want := range attrs {
		if value, ok := t.Attr(name); !ok || value != want {
			return false
		}
	}
	return true
}

// Attr returns the value of the named attribute for every member. A member
// missing the attribute makes the whole lookup fail with an AttrError.
func (l List) Attr(name string) ([]string, error) {
	values := make([]string, 0, len(l))
	for _, t := range l {
		value, ok := t.Attr(name)
		if !ok {
			return nil, &xmlerrors.AttrError{Name: name}
		}
		values = append(values, value)
	}
	return values, nil
}

// SetAttr sets the named attribute on every member.
func (l List) SetAttr(name, value string) error {
	for _, t := range l {
		if err := t.SetAttr(name, value); err != nil {
			return err
		}
	}
	return nil
}

// SetText sets the direct text content of every member.
func (l List) SetText(text string) {
	for _, t := range l {
		t.SetText(text)
	}
}

// Texts returns the direct text content of every member.
func (l List) Texts() []string {
	texts := make([]string, len(l))
	for i, t := range l {
		texts[i] = t.Text()
	}
	return texts
}

// Tags returns the tag of every member.
func (l List) Tags() []string {
	tags := make([]string, len(l))
	for i, t := range l {
		tags[i] = t.Tag()
	}
	return tags
}

// Equal reports element-wise equality of two lists.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i, t := range l {
		if !t.Equal(other[i]) {
			return false
		}
	}
	return true
}
