// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ooxml

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// NamespaceRelationships is the namespace of .rels parts.
const NamespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

// RelsPathFor returns the name of the relationships part of part:
// xl/workbook.xml -> xl/_rels/workbook.xml.rels.
func RelsPathFor(part string) string {
	part = CleanName(part)
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// Relationships is a view of one .rels part.
type Relationships struct {
	doc  *etree.Document
	root *etree.Element
	// base is the directory of the source part; relative targets resolve against it.
	base string
}

// LoadRelationships returns the relationships of source, or ErrNoPart.
func LoadRelationships(pkg *Package, source string) (*Relationships, error) {
	doc, err := pkg.Document(RelsPathFor(source))
	if err != nil {
		return nil, err
	}
	return NewRelationships(doc, source)
}

// NewRelationships wraps an already parsed .rels document of source.
func NewRelationships(doc *etree.Document, source string) (*Relationships, error) {
	root := doc.Root()
	if root == nil || root.Tag != "Relationships" {
		return nil, fmt.Errorf("ooxml: relationships of %q: root is not <Relationships>", source)
	}
	return &Relationships{doc: doc, root: root, base: path.Dir(CleanName(source))}, nil
}

// Root is the <Relationships> element.
func (r *Relationships) Root() *etree.Element { return r.root }

// All returns the <Relationship> elements in document order.
func (r *Relationships) All() []*etree.Element { return ChildElements(r.root, "Relationship") }

// FindByID returns the relationship with the given Id, or nil.
func (r *Relationships) FindByID(id string) *etree.Element {
	return FindChild(r.root, "Relationship", "Id", id)
}

// FindByTarget returns the first internal relationship whose target resolves
// to the part name, or nil. except is skipped.
func (r *Relationships) FindByTarget(part string, except *etree.Element) *etree.Element {
	part = CleanName(part)
	for _, e := range r.All() {
		if e == except || IsExternal(e) {
			continue
		}
		if strings.EqualFold(r.Resolve(AttrValue(e, "Target")), part) {
			return e
		}
	}
	return nil
}

// IsExternal reports whether the relationship points outside the package.
func IsExternal(e *etree.Element) bool { return AttrValue(e, "TargetMode") == "External" }

// Resolve turns a Target attribute into a part name.
func (r *Relationships) Resolve(target string) string {
	if strings.HasPrefix(target, "/") {
		return CleanName(target)
	}
	return CleanName(path.Join(r.base, target))
}

// TargetFor returns the Target attribute value that points at part from the
// source of these relationships.
func (r *Relationships) TargetFor(part string) string {
	part = CleanName(part)
	if r.base == "." || r.base == "" {
		return part
	}
	dirs, segs := strings.Split(r.base, "/"), strings.Split(part, "/")
	i := 0
	for i < len(dirs) && i < len(segs)-1 && dirs[i] == segs[i] {
		i++
	}
	return strings.Repeat("../", len(dirs)-i) + strings.Join(segs[i:], "/")
}

// NextID returns an unused relationship id of the form rIdN.
func (r *Relationships) NextID() string {
	var max int
	for _, e := range r.All() {
		id := AttrValue(e, "Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > max {
			max = n
		}
	}
	for n := max + 1; ; n++ {
		id := "rId" + strconv.Itoa(n)
		if r.FindByID(id) == nil {
			return id
		}
	}
}

// NewRelationship builds a detached <Relationship> element.
func (r *Relationships) NewRelationship(id, typ, target string) *etree.Element {
	return NewChild(r.root, "Relationship",
		Attr{"Id", id}, Attr{"Type", typ}, Attr{"Target", target})
}

// Add appends a new relationship and returns it with its undo.
func (r *Relationships) Add(id, typ, target string) (*etree.Element, func()) {
	e := r.NewRelationship(id, typ, target)
	return e, Attach(r.root, e, nil)
}
