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

// Titles is a view of the extended properties part (docProps/app.xml):
// the TitlesOfParts vector and the HeadingPairs that count its groups.
type Titles struct {
	doc      *etree.Document
	root     *etree.Element
	vtPrefix string
}

// LoadTitles parses the extended properties part of pkg.
func LoadTitles(pkg *Package, part string) (*Titles, error) {
	doc, err := pkg.Document(part)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "Properties" {
		return nil, fmt.Errorf("ooxml: %s: root is <%s>, not <Properties>", part, root.Tag)
	}
	t := &Titles{doc: doc, root: root}
	vtNS := excelize.NameSpaceDocumentPropertiesVariantTypes.Value
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == vtNS {
			t.vtPrefix = a.Key
			break
		}
	}
	if t.vtPrefix == "" {
		t.vtPrefix = "vt"
		root.CreateAttr("xmlns:vt", vtNS)
	}
	return t, nil
}

// Root is the <Properties> element.
func (t *Titles) Root() *etree.Element { return t.root }

func (t *Titles) vt(tag string) string { return t.vtPrefix + ":" + tag }

func (t *Titles) vector(container string) *etree.Element {
	return FirstChild(FirstChild(t.root, container), "vector")
}

// Vector returns TitlesOfParts/vt:vector, or nil.
func (t *Titles) Vector() *etree.Element { return t.vector("TitlesOfParts") }

// EnsureVector creates the TitlesOfParts and HeadingPairs vectors when missing.
func (t *Titles) EnsureVector() (undo func()) {
	var undos undoList
	if FirstChild(t.root, "HeadingPairs") == nil {
		hp := NewChild(t.root, "HeadingPairs")
		v := hp.CreateElement(t.vt("vector"))
		v.CreateAttr("size", "0")
		v.CreateAttr("baseType", "variant")
		undos.add(Attach(t.root, hp, FirstChild(t.root, "TitlesOfParts")))
	}
	if t.Vector() == nil {
		if old := FirstChild(t.root, "TitlesOfParts"); old != nil {
			undos.add(Detach(old))
		}
		tp := NewChild(t.root, "TitlesOfParts")
		v := tp.CreateElement(t.vt("vector"))
		v.CreateAttr("size", "0")
		v.CreateAttr("baseType", "lpstr")
		undos.add(Attach(t.root, tp, nil))
	}
	return undos.undo
}

// Entries returns the vt:lpstr elements of the title vector.
func (t *Titles) Entries() []*etree.Element { return ChildElements(t.Vector(), "lpstr") }

// Find returns the title entry whose text is name, or nil.
func (t *Titles) Find(name string) *etree.Element {
	for _, e := range t.Entries() {
		if e.Text() == name {
			return e
		}
	}
	return nil
}

// Title returns the text of a title entry.
func Title(e *etree.Element) string { return e.Text() }

// NewTitle builds a detached title entry.
func (t *Titles) NewTitle(name string) *etree.Element {
	e := etree.NewElement(t.vt("lpstr"))
	e.SetText(name)
	return e
}

// Insert attaches e to the title vector before the entry before (or at the
// end) and updates the vector size.
func (t *Titles) Insert(e, before *etree.Element) (undo func()) {
	v := t.Vector()
	var undos undoList
	undos.add(Attach(v, e, before))
	undos.add(t.resize(v, 1))
	return undos.undo
}

// Remove detaches e from the title vector and updates the vector size.
// Removing a detached entry is a no-op.
func (t *Titles) Remove(e *etree.Element) (undo func()) {
	v := e.Parent()
	if v == nil {
		return func() {}
	}
	var undos undoList
	undos.add(Detach(e))
	undos.add(t.resize(v, -1))
	return undos.undo
}

// Rename replaces the text of a title entry.
func (t *Titles) Rename(e *etree.Element, name string) (undo func()) { return SetText(e, name) }

func (t *Titles) resize(v *etree.Element, delta int) func() {
	n, _ := strconv.Atoi(AttrValue(v, "size"))
	if n += delta; n < 0 {
		n = 0
	}
	return SetAttr(v, "size", strconv.Itoa(n))
}

// AdjustHeading adds delta to the count of the heading pair named category,
// creating the pair when it is missing and dropping it when the count reaches zero.
func (t *Titles) AdjustHeading(category string, delta int) (undo func()) {
	v := t.vector("HeadingPairs")
	if v == nil || delta == 0 {
		return func() {}
	}
	variants := ChildElements(v, "variant")
	for i := 0; i+1 < len(variants); i += 2 {
		name := FirstChild(variants[i], "lpstr")
		count := FirstChild(variants[i+1], "i4")
		if name == nil || count == nil || name.Text() != category {
			continue
		}
		n, _ := strconv.Atoi(count.Text())
		if n += delta; n > 0 {
			return SetText(count, strconv.Itoa(n))
		}
		var undos undoList
		undos.add(Detach(variants[i+1]))
		undos.add(Detach(variants[i]))
		undos.add(t.resize(v, -2))
		return undos.undo
	}
	if delta < 0 {
		return func() {}
	}
	nameVariant := etree.NewElement(t.vt("variant"))
	nameVariant.CreateElement(t.vt("lpstr")).SetText(category)
	countVariant := etree.NewElement(t.vt("variant"))
	countVariant.CreateElement(t.vt("i4")).SetText(strconv.Itoa(delta))
	var undos undoList
	undos.add(Attach(v, nameVariant, nil))
	undos.add(Attach(v, countVariant, nil))
	undos.add(t.resize(v, 2))
	return undos.undo
}

// undoList collects undo closures and runs them in reverse.
type undoList []func()

func (u *undoList) add(f func()) { *u = append(*u, f) }

func (u undoList) undo() {
	for i := len(u) - 1; i >= 0; i-- {
		u[i]()
	}
}
