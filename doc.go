// Package morexml combines efficient XML parsing and serialization with a
// simplified generic tree abstraction, behind a single access point for
// creating and processing XML trees.
//
// Trees are created with New, nested with Build, read from text with Parse,
// and written back with String, Write, or WriteIndent. Namespace prefixes
// resolve against per-node declarations, Scope bindings, and ancestors;
// subtree collections (List) and location chains (Path) cover selection and
// bulk manipulation.
package morexml
