// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ooxml

import (
	"slices"

	"github.com/beevik/etree"
)

// Attr is a key/value pair for CreateChild.
type Attr struct {
	Key, Value string
}

// FindChild returns the first child element of parent with the local name tag
// whose attribute key equals value, or nil.
func FindChild(parent *etree.Element, tag, key, value string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, e := range parent.ChildElements() {
		if e.Tag != tag {
			continue
		}
		if a := e.SelectAttr(key); a != nil && a.Value == value {
			return e
		}
	}
	return nil
}

// ChildElements returns the child elements of parent with the local name tag.
func ChildElements(parent *etree.Element, tag string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, e := range parent.ChildElements() {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// FirstChild returns the first child element of parent with the local name tag.
func FirstChild(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, e := range parent.ChildElements() {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

// NewChild builds a detached element named tag, using the namespace prefix
// of parent so that it lands in the same namespace.
func NewChild(parent *etree.Element, tag string, attrs ...Attr) *etree.Element {
	full := tag
	if parent != nil && parent.Space != "" {
		full = parent.Space + ":" + tag
	}
	e := etree.NewElement(full)
	for _, a := range attrs {
		e.CreateAttr(a.Key, a.Value)
	}
	return e
}

// CreateChild appends a new element named tag to parent.
func CreateChild(parent *etree.Element, tag string, attrs ...Attr) *etree.Element {
	e := NewChild(parent, tag, attrs...)
	parent.AddChild(e)
	return e
}

// RemoveChild removes child from parent. It reports whether child was there.
func RemoveChild(parent, child *etree.Element) bool {
	return parent != nil && child != nil && parent.RemoveChild(child) != nil
}

// AttrValue returns the value of the attribute key, or "" when absent.
func AttrValue(e *etree.Element, key string) string {
	if e == nil {
		return ""
	}
	return e.SelectAttrValue(key, "")
}

// AttrNS returns the value of the attribute with local name key in the
// namespace uri, whatever prefix the document binds to it.
func AttrNS(e *etree.Element, uri, key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attr {
		if a.Key == key && a.Space != "" && a.NamespaceURI() == uri {
			return a.Value, true
		}
	}
	return "", false
}

// Attached reports whether e still hangs in a document tree.
func Attached(e *etree.Element) bool { return e != nil && e.Parent() != nil }

// The functions below change the tree and return the closure that undoes the change.

// Detach removes e from its parent.
func Detach(e *etree.Element) (undo func()) {
	parent, idx := e.Parent(), e.Index()
	if parent == nil {
		return func() {}
	}
	parent.RemoveChildAt(idx)
	return func() { parent.InsertChildAt(idx, e) }
}

// Attach inserts e into parent before the element before, or at the end
// when before is nil or not a child of parent.
func Attach(parent, e, before *etree.Element) (undo func()) {
	if before != nil && before.Parent() == parent {
		parent.InsertChildAt(before.Index(), e)
	} else {
		parent.AddChild(e)
	}
	return func() { RemoveChild(parent, e) }
}

// SetAttr sets the attribute key of e to value.
func SetAttr(e *etree.Element, key, value string) (undo func()) {
	saved := slices.Clone(e.Attr)
	e.CreateAttr(key, value)
	return func() { e.Attr = saved }
}

// RemoveAttr removes the attribute key from e.
func RemoveAttr(e *etree.Element, key string) (undo func()) {
	saved := slices.Clone(e.Attr)
	e.RemoveAttr(key)
	return func() { e.Attr = saved }
}

// SetText replaces the character data of e.
func SetText(e *etree.Element, text string) (undo func()) {
	old := e.Text()
	e.SetText(text)
	return func() { e.SetText(old) }
}
