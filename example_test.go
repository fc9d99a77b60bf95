package morexml_test

import (
	"fmt"
	"log"

	"github.com/advaoptical/morexml"
)

func ExampleBuild() {
	root, err := morexml.Build("name", func(b *morexml.Builder) {
		b.Nest("sub-name", func(b *morexml.Builder) {
			b.Element("sub-sub-name", morexml.WithAttr("sub_sub_attr", "sub sub value"))
		}, morexml.WithAttr("sub_attr", "sub value"))
		b.Element("other-name", morexml.WithAttr("other_attr", "other value"))
	}, morexml.WithAttr("attr", "value"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(root)
	// Output:
	// <name attr="value">
	//   <sub-name sub-attr="sub value">
	//     <sub-sub-name sub-sub-attr="sub sub value"/>
	//   </sub-name>
	//   <other-name other-attr="other value"/>
	// </name>
}

func ExampleScope_Build() {
	scope := morexml.NewScope(morexml.NS{"pfx": "urn:some:namespace"})
	root, err := scope.Build("pfx:name", func(b *morexml.Builder) {
		b.Element("pfx:sub-name", morexml.WithText("some text"))
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(root)
	// Output:
	// <pfx:name xmlns:pfx="urn:some:namespace">
	//   <pfx:sub-name>some text</pfx:sub-name>
	// </pfx:name>
}

func ExampleParsePath() {
	tree, err := morexml.ParseString(`<catalog>` +
		`<entry status="open"><name>alpha</name></entry>` +
		`<entry status="closed"><name>beta</name></entry>` +
		`</catalog>`)
	if err != nil {
		log.Fatal(err)
	}

	path, err := morexml.ParsePath("//entry[status='open']/name", nil)
	if err != nil {
		log.Fatal(err)
	}
	matches, err := path.Find(tree)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(matches.Texts())
	// Output:
	// [alpha]
}

func ExamplePath_XPath() {
	path := morexml.NewPath("pfx:name", morexml.WithNS(morexml.NS{"pfx": "urn:some:namespace"})).
		Child("sub-name")
	xpath, err := path.XPath()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(xpath)
	// Output:
	// *[name()='name' and namespace-uri()='urn:some:namespace']/*[name()='sub-name']
}
