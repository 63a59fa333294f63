// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// What to do with a related part when its sheet is cloned.
type relAction uint8

const (
	// relShare points the copy at the same part.
	relShare relAction = iota
	// relCopy gives the copy its own duplicate of the part.
	relCopy
	// relDrop leaves the relationship, and the body elements that use it, out of the copy.
	relDrop
)

const (
	relThreadedComment = "http://schemas.microsoft.com/office/2017/10/relationships/threadedComment"
	relChartStyle      = "http://schemas.microsoft.com/office/2011/relationships/chartStyle"
	relChartColorStyle = "http://schemas.microsoft.com/office/2011/relationships/chartColorStyle"
	relChartUserShapes = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chartUserShapes"
)

// kind is the capability set of one sheet type: its empty body, its heading
// in the title list and how its body is cloned.
type kind struct {
	typ     sheetmeta.SheetType
	heading string
	body    func() string
	// related maps relationship types to clone actions; unlisted types are shared.
	related map[string]relAction
	// prepare adjusts a cloned body; may be nil.
	prepare func(doc *etree.Document)
}

// drawingParts are copied wherever a drawing is copied: a chart can belong
// to one drawing only.
var drawingParts = map[string]relAction{
	excelize.SourceRelationshipDrawingML: relCopy,
	excelize.SourceRelationshipChart:     relCopy,
	relChartStyle:                        relCopy,
	relChartColorStyle:                   relCopy,
	relChartUserShapes:                   relCopy,
}

func withDrawings(m map[string]relAction) map[string]relAction {
	for k, v := range drawingParts {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return m
}

var kinds = [...]kind{
	sheetmeta.WorkSheet: {
		typ: sheetmeta.WorkSheet, heading: "Worksheets", body: ooxml.WorksheetBody,
		related: withDrawings(map[string]relAction{
			excelize.SourceRelationshipTable:      relDrop,
			excelize.SourceRelationshipComments:   relDrop,
			excelize.SourceRelationshipDrawingVML: relDrop,
			excelize.SourceRelationshipPivotTable: relDrop,
			excelize.SourceRelationshipSlicer:     relDrop,
			relThreadedComment:                    relDrop,
		}),
		prepare: unselectTabs,
	},
	sheetmeta.ChartSheet: {
		typ: sheetmeta.ChartSheet, heading: "Charts", body: ooxml.ChartsheetBody,
		related: withDrawings(map[string]relAction{}),
		prepare: unselectTabs,
	},
	sheetmeta.DialogSheet: {
		typ: sheetmeta.DialogSheet, heading: "Dialog Sheets", body: ooxml.DialogsheetBody,
		related: withDrawings(map[string]relAction{
			excelize.SourceRelationshipDrawingVML: relCopy,
		}),
		prepare: unselectTabs,
	},
	sheetmeta.MacroSheet: {
		typ: sheetmeta.MacroSheet, heading: "Excel 4.0 Macros", body: ooxml.MacrosheetBody,
		related: withDrawings(map[string]relAction{
			excelize.SourceRelationshipComments:   relDrop,
			excelize.SourceRelationshipDrawingVML: relDrop,
			relThreadedComment:                    relDrop,
		}),
		prepare: unselectTabs,
	},
}

func kindOf(t sheetmeta.SheetType) (*kind, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown sheet type %d", uint8(t))
	}
	return &kinds[t], nil
}

func (k *kind) action(relType string) relAction {
	if a, ok := k.related[relType]; ok {
		return a
	}
	return relShare
}

// cloneBody returns a copy of the body of the part src to be stored as dst.
// Related parts are copied, shared or dropped as the kind dictates; the
// copies and dst's relationships part are staged in tx. dst itself is not
// stored.
func (k *kind) cloneBody(wb *Workbook, tx *txn, src, dst string) ([]byte, error) {
	doc, err := wb.pkg.Document(src)
	if err != nil {
		return nil, err
	}
	body := doc.Copy()

	dropped := make(map[string]bool)
	srcRels, err := ooxml.LoadRelationships(wb.pkg, src)
	switch {
	case errors.Is(err, ooxml.ErrNoPart):
	case err != nil:
		return nil, err
	default:
		relsDoc := srcRels.Root().Copy()
		copyRels, err := ooxml.NewRelationships(etree.NewDocumentWithRoot(relsDoc), dst)
		if err != nil {
			return nil, err
		}
		memo := make(map[string]string)
		for _, e := range copyRels.All() {
			if ooxml.IsExternal(e) {
				continue
			}
			switch k.action(ooxml.AttrValue(e, "Type")) {
			case relDrop:
				dropped[ooxml.AttrValue(e, "Id")] = true
				ooxml.Detach(e)
			case relCopy:
				target := srcRels.Resolve(ooxml.AttrValue(e, "Target"))
				copied, err := k.copyPart(wb, tx, target, memo)
				if err != nil {
					return nil, err
				}
				e.CreateAttr("Target", copyRels.TargetFor(copied))
			}
		}
		b, err := writeDocument(copyRels.Root())
		if err != nil {
			return nil, err
		}
		tx.stage(wb.pkg.AddPart(ooxml.RelsPathFor(dst), b))
	}

	if len(dropped) != 0 {
		stripRelRefs(body.Root(), dropped)
	}
	if k.prepare != nil {
		k.prepare(body)
	}
	return body.WriteToBytes()
}

// copyPart duplicates part, and recursively the parts it relates to that the
// kind copies, under fresh names. memo maps already copied parts to their copies.
func (k *kind) copyPart(wb *Workbook, tx *txn, part string, memo map[string]string) (string, error) {
	if dst, ok := memo[part]; ok {
		return dst, nil
	}
	data, err := wb.pkg.Part(part)
	if err != nil {
		return "", err
	}
	dst := wb.allocatePartName(part)
	memo[part] = dst
	tx.stage(wb.pkg.AddPart(dst, data))
	if ct := wb.types.FindOverride(part); ct != nil {
		_, undo := wb.types.AddOverride(dst, ooxml.AttrValue(ct, "ContentType"))
		tx.stage(undo)
	}

	srcRels, err := ooxml.LoadRelationships(wb.pkg, part)
	if errors.Is(err, ooxml.ErrNoPart) {
		return dst, nil
	} else if err != nil {
		return "", err
	}
	copyRels, err := ooxml.NewRelationships(etree.NewDocumentWithRoot(srcRels.Root().Copy()), dst)
	if err != nil {
		return "", err
	}
	for _, e := range copyRels.All() {
		if ooxml.IsExternal(e) || k.action(ooxml.AttrValue(e, "Type")) != relCopy {
			continue
		}
		copied, err := k.copyPart(wb, tx, srcRels.Resolve(ooxml.AttrValue(e, "Target")), memo)
		if err != nil {
			return "", err
		}
		e.CreateAttr("Target", copyRels.TargetFor(copied))
	}
	b, err := writeDocument(copyRels.Root())
	if err != nil {
		return "", err
	}
	tx.stage(wb.pkg.AddPart(ooxml.RelsPathFor(dst), b))
	return dst, nil
}

// allocatePartName returns an unused part name in the directory of like,
// numbered like it: xl/drawings/drawing1.xml -> xl/drawings/drawing2.xml.
func (wb *Workbook) allocatePartName(like string) string {
	dir, file := path.Split(like)
	ext := path.Ext(file)
	stem := strings.TrimRight(strings.TrimSuffix(file, ext), "0123456789")
	for n := 1; ; n++ {
		name := dir + stem + strconv.Itoa(n) + ext
		if wb.pathFree(name) {
			return name
		}
	}
}

func writeDocument(root *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	doc.AddChild(root)
	return doc.WriteToBytes()
}

// stripRelRefs removes the elements below root that refer to one of the
// relationship ids, fixing up the count attribute of their containers.
func stripRelRefs(root *etree.Element, ids map[string]bool) {
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if refersTo(c, ids) {
				e.RemoveChild(c)
				if e.SelectAttr("count") != nil {
					e.CreateAttr("count", strconv.Itoa(len(e.ChildElements())))
				}
				if len(e.ChildElements()) == 0 && e.Tag == "tableParts" && e.Parent() != nil {
					e.Parent().RemoveChild(e)
					return
				}
				continue
			}
			walk(c)
		}
	}
	walk(root)
}

func refersTo(e *etree.Element, ids map[string]bool) bool {
	for _, a := range e.Attr {
		if a.Key != "id" || a.Space == "" || !ids[a.Value] {
			continue
		}
		switch a.NamespaceURI() {
		case ooxml.NamespaceOfficeRelationships, ooxml.NamespaceStrictOfficeRelationships:
			return true
		}
	}
	return false
}

// unselectTabs clears tabSelected: the copy must not be selected together
// with its source.
func unselectTabs(doc *etree.Document) {
	for _, v := range ooxml.ChildElements(ooxml.FirstChild(doc.Root(), "sheetViews"), "sheetView") {
		v.RemoveAttr("tabSelected")
	}
}
