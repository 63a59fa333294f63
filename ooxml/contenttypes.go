// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ooxml

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ContentTypes is a view of [Content_Types].xml.
type ContentTypes struct {
	doc  *etree.Document
	root *etree.Element
}

// LoadContentTypes parses [Content_Types].xml of pkg.
func LoadContentTypes(pkg *Package) (*ContentTypes, error) {
	doc, err := pkg.Document(PathContentTypes)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "Types" {
		return nil, fmt.Errorf("ooxml: %s: root is <%s>, not <Types>", PathContentTypes, root.Tag)
	}
	return &ContentTypes{doc: doc, root: root}, nil
}

// Root is the <Types> element.
func (c *ContentTypes) Root() *etree.Element { return c.root }

// PartName returns the PartName attribute form of a part: /xl/workbook.xml.
func PartName(part string) string { return "/" + CleanName(part) }

// FindOverride returns the <Override> declared for part, or nil.
// Part names compare case-insensitively.
func (c *ContentTypes) FindOverride(part string) *etree.Element {
	want := PartName(part)
	for _, e := range ChildElements(c.root, "Override") {
		if strings.EqualFold(AttrValue(e, "PartName"), want) {
			return e
		}
	}
	return nil
}

// Overrides returns every <Override> element.
func (c *ContentTypes) Overrides() []*etree.Element { return ChildElements(c.root, "Override") }

// ContentType returns the content type of part: its override, or the default
// of its extension.
func (c *ContentTypes) ContentType(part string) string {
	if e := c.FindOverride(part); e != nil {
		return AttrValue(e, "ContentType")
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, e := range ChildElements(c.root, "Default") {
		if strings.EqualFold(AttrValue(e, "Extension"), ext) {
			return AttrValue(e, "ContentType")
		}
	}
	return ""
}

// HasDefault reports whether a <Default> exists for the extension of part
// with the given content type.
func (c *ContentTypes) HasDefault(part, contentType string) bool {
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, e := range ChildElements(c.root, "Default") {
		if strings.EqualFold(AttrValue(e, "Extension"), ext) {
			return AttrValue(e, "ContentType") == contentType
		}
	}
	return false
}

// NewOverride builds a detached <Override> for part.
func (c *ContentTypes) NewOverride(part, contentType string) *etree.Element {
	return NewChild(c.root, "Override",
		Attr{"PartName", PartName(part)}, Attr{"ContentType", contentType})
}

// AddOverride appends an <Override> for part and returns it with its undo.
func (c *ContentTypes) AddOverride(part, contentType string) (*etree.Element, func()) {
	e := c.NewOverride(part, contentType)
	return e, Attach(c.root, e, nil)
}
