// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ooxml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/xuri/excelize/v2"
)

// Namespaces the r:id attribute of a <sheet> may live in.
const (
	NamespaceOfficeRelationships       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceStrictOfficeRelationships = "http://purl.oclc.org/ooxml/officeDocument/relationships"
)

// Manifest is a view of the workbook part: the <sheets> list, defined names
// and workbook views.
type Manifest struct {
	doc       *etree.Document
	root      *etree.Element
	sheets    *etree.Element
	relPrefix string
	relNS     string
}

// LoadManifest parses the workbook part of pkg. A missing <sheets> element
// is created.
func LoadManifest(pkg *Package, part string) (*Manifest, error) {
	doc, err := pkg.Document(part)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "workbook" {
		return nil, fmt.Errorf("ooxml: %s: root is <%s>, not <workbook>", part, root.Tag)
	}
	m := &Manifest{doc: doc, root: root}
	for _, a := range root.Attr {
		if a.Space == "xmlns" && (a.Value == NamespaceOfficeRelationships || a.Value == NamespaceStrictOfficeRelationships) {
			m.relPrefix, m.relNS = a.Key, a.Value
			break
		}
	}
	if m.relPrefix == "" {
		m.relPrefix, m.relNS = "r", NamespaceOfficeRelationships
		root.CreateAttr("xmlns:r", excelize.SourceRelationship.Value)
	}
	if m.sheets = FirstChild(root, "sheets"); m.sheets == nil {
		m.sheets = NewChild(root, "sheets")
		root.InsertChildAt(sheetsInsertIndex(root), m.sheets)
	}
	return m, nil
}

// sheetsInsertIndex returns where <sheets> belongs: after the elements that
// precede it in CT_Workbook.
func sheetsInsertIndex(root *etree.Element) int {
	idx := 0
	for _, e := range root.ChildElements() {
		switch e.Tag {
		case "fileVersion", "fileSharing", "workbookPr", "workbookProtection", "bookViews":
			idx = e.Index() + 1
		}
	}
	return idx
}

// Root is the <workbook> element.
func (m *Manifest) Root() *etree.Element { return m.root }

// SheetsElement is the <sheets> element.
func (m *Manifest) SheetsElement() *etree.Element { return m.sheets }

// Sheets returns the <sheet> elements in display order.
func (m *Manifest) Sheets() []*etree.Element { return ChildElements(m.sheets, "sheet") }

// FindByName returns the <sheet> named name, or nil.
func (m *Manifest) FindByName(name string) *etree.Element {
	return FindChild(m.sheets, "sheet", "name", name)
}

// FindByRelID returns the <sheet> linked by relationship id, or nil.
func (m *Manifest) FindByRelID(id string) *etree.Element {
	for _, e := range m.Sheets() {
		if m.RelID(e) == id {
			return e
		}
	}
	return nil
}

// RelIDKey is the qualified name of the relationship id attribute.
func (m *Manifest) RelIDKey() string { return m.relPrefix + ":id" }

// RelID returns the relationship id of an element of the workbook part.
func (m *Manifest) RelID(e *etree.Element) string {
	if v, ok := AttrNS(e, m.relNS, "id"); ok {
		return v
	}
	return AttrValue(e, m.RelIDKey())
}

// SheetID returns the sheetId attribute of a <sheet>.
func SheetID(e *etree.Element) (uint, error) {
	v := AttrValue(e, "sheetId")
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("sheetId %q: %w", v, err)
	}
	return uint(n), nil
}

// MaxSheetID returns the largest sheetId in use.
func (m *Manifest) MaxSheetID() uint {
	var max uint
	for _, e := range m.Sheets() {
		if n, err := SheetID(e); err == nil && n > max {
			max = n
		}
	}
	return max
}

// NewSheet builds a detached <sheet>. The state attribute is written only
// when state is not empty.
func (m *Manifest) NewSheet(name string, sheetID uint, relID, state string) *etree.Element {
	attrs := []Attr{{"name", name}, {"sheetId", strconv.FormatUint(uint64(sheetID), 10)}}
	if state != "" {
		attrs = append(attrs, Attr{"state", state})
	}
	attrs = append(attrs, Attr{m.RelIDKey(), relID})
	return NewChild(m.sheets, "sheet", attrs...)
}

// CountRelIDRefs counts the elements of the workbook part, other than
// except, that refer to relationship id.
func (m *Manifest) CountRelIDRefs(id string, except *etree.Element) int {
	var n int
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if c != except {
				for _, a := range c.Attr {
					if a.Value == id && a.Space != "" && a.Space != "xmlns" && a.NamespaceURI() == m.relNS {
						n++
					}
				}
			}
			walk(c)
		}
	}
	walk(m.root)
	return n
}

// DefinedNames returns the <definedName> elements.
func (m *Manifest) DefinedNames() []*etree.Element {
	return ChildElements(FirstChild(m.root, "definedNames"), "definedName")
}

// DefinedNamesElement returns <definedNames>, or nil.
func (m *Manifest) DefinedNamesElement() *etree.Element { return FirstChild(m.root, "definedNames") }

// WorkbookViews returns the <workbookView> elements.
func (m *Manifest) WorkbookViews() []*etree.Element {
	return ChildElements(FirstChild(m.root, "bookViews"), "workbookView")
}
