// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

const reportBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
	`<sheetViews><sheetView tabSelected="1" workbookViewId="0"/></sheetViews>` +
	`<sheetData><row r="1"><c r="A1" t="inlineStr"><is><t>total</t></is></c></row></sheetData>` +
	`<hyperlinks><hyperlink ref="A1" r:id="rId6"/></hyperlinks>` +
	`<pageSetup r:id="rId5"/>` +
	`<drawing r:id="rId1"/><legacyDrawing r:id="rId3"/>` +
	`<tableParts count="1"><tablePart r:id="rId2"/></tableParts>` +
	`</worksheet>`

func relsDoc(rels ...[3]string) []byte {
	var buf strings.Builder
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<Relationships xmlns="` + ooxml.NamespaceRelationships + `">`)
	for _, r := range rels {
		buf.WriteString(`<Relationship Id="` + r[0] + `" Type="` + r[1] + `" Target="` + r[2] + `"`)
		if strings.HasPrefix(r[2], "http") {
			buf.WriteString(` TargetMode="External"`)
		}
		buf.WriteString(`/>`)
	}
	buf.WriteString(`</Relationships>`)
	return []byte(buf.String())
}

// newReportWorkbook returns a workbook whose "Report" worksheet has a drawing
// with a chart and an image, a table, comments, printer settings and an
// external hyperlink.
func newReportWorkbook(t *testing.T) (*Workbook, *Sheet) {
	t.Helper()
	wb := newTestWorkbook(t)
	src, err := wb.CreateSheet("Report", sheetmeta.WorkSheet, "", []byte(reportBody))
	require.NoError(t, err)
	require.Equal(t, "xl/worksheets/sheet2.xml", src.Path())

	pkg := wb.pkg
	pkg.SetPart("xl/worksheets/_rels/sheet2.xml.rels", relsDoc(
		[3]string{"rId1", excelize.SourceRelationshipDrawingML, "../drawings/drawing1.xml"},
		[3]string{"rId2", excelize.SourceRelationshipTable, "../tables/table1.xml"},
		[3]string{"rId3", excelize.SourceRelationshipDrawingVML, "../drawings/vmlDrawing1.vml"},
		[3]string{"rId4", excelize.SourceRelationshipComments, "../comments1.xml"},
		[3]string{"rId5", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/printerSettings", "../printerSettings/printerSettings1.bin"},
		[3]string{"rId6", excelize.SourceRelationshipHyperLink, "https://example.com/"},
	))
	pkg.SetPart("xl/drawings/drawing1.xml", []byte(`<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"/>`))
	pkg.SetPart("xl/drawings/_rels/drawing1.xml.rels", relsDoc(
		[3]string{"rId1", excelize.SourceRelationshipChart, "../charts/chart1.xml"},
		[3]string{"rId2", excelize.SourceRelationshipImage, "../media/image1.png"},
	))
	pkg.SetPart("xl/charts/chart1.xml", []byte(`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"/>`))
	pkg.SetPart("xl/media/image1.png", []byte("\x89PNG"))
	pkg.SetPart("xl/tables/table1.xml", []byte(`<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="1" name="T1" ref="A1:A2"/>`))
	pkg.SetPart("xl/drawings/vmlDrawing1.vml", []byte(`<xml/>`))
	pkg.SetPart("xl/comments1.xml", []byte(`<comments xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"/>`))
	pkg.SetPart("xl/printerSettings/printerSettings1.bin", []byte{0, 1, 2})
	for part, ct := range map[string]string{
		"xl/drawings/drawing1.xml": excelize.ContentTypeDrawing,
		"xl/charts/chart1.xml":     excelize.ContentTypeDrawingML,
		"xl/tables/table1.xml":     excelize.ContentTypeSpreadSheetMLTable,
		"xl/comments1.xml":         excelize.ContentTypeSpreadSheetMLComments,
	} {
		wb.types.AddOverride(part, ct)
	}
	return wb, src
}

func TestClone(t *testing.T) {
	t.Run("worksheet", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		_, err := wb.pkg.Document(src.Path())
		require.NoError(t, err)
		srcBody, err := src.Body()
		require.NoError(t, err)

		clone, err := src.Clone("Report (2)")
		require.NoError(t, err)
		require.NoError(t, wb.Verify())

		assert.Equal(t, "Report (2)", clone.Name())
		assert.Equal(t, sheetmeta.WorkSheet, clone.Type())
		assert.Equal(t, uint(3), clone.Index())
		assert.Equal(t, "xl/worksheets/sheet3.xml", clone.Path())
		assert.NotEqual(t, src.RelID(), clone.RelID())
		assert.NotEqual(t, src.SheetID(), clone.SheetID())
		assert.NotSame(t, src.ManifestEntry(), clone.ManifestEntry())
		assert.NotSame(t, src.TitleEntry(), clone.TitleEntry())
		assert.Equal(t, []string{"Sheet1", "Report", "Report (2)"}, titleNames(wb))

		body, err := clone.Body()
		require.NoError(t, err)
		assert.Contains(t, string(body), "total")
		assert.Contains(t, string(body), `<drawing r:id="rId1"/>`)
		assert.NotContains(t, string(body), "tablePart")
		assert.NotContains(t, string(body), "legacyDrawing")
		assert.NotContains(t, string(body), "tabSelected")

		rels, err := ooxml.LoadRelationships(wb.pkg, clone.Path())
		require.NoError(t, err)
		assert.Len(t, rels.All(), 3)
		drawing := rels.FindByID("rId1")
		require.NotNil(t, drawing)
		assert.Equal(t, "../drawings/drawing2.xml", ooxml.AttrValue(drawing, "Target"))
		assert.Nil(t, rels.FindByID("rId2"), "table")
		assert.Nil(t, rels.FindByID("rId3"), "vml")
		assert.Nil(t, rels.FindByID("rId4"), "comments")
		assert.Equal(t, "../printerSettings/printerSettings1.bin", ooxml.AttrValue(rels.FindByID("rId5"), "Target"))
		assert.Equal(t, "https://example.com/", ooxml.AttrValue(rels.FindByID("rId6"), "Target"))

		assert.True(t, wb.pkg.HasPart("xl/drawings/drawing2.xml"))
		assert.True(t, wb.pkg.HasPart("xl/charts/chart2.xml"))
		assert.Equal(t, excelize.ContentTypeDrawing, wb.types.ContentType("xl/drawings/drawing2.xml"))
		assert.Equal(t, excelize.ContentTypeDrawingML, wb.types.ContentType("xl/charts/chart2.xml"))
		assert.False(t, wb.pkg.HasPart("xl/tables/table2.xml"))
		assert.False(t, wb.pkg.HasPart("xl/media/image2.png"))

		drawingRels, err := ooxml.LoadRelationships(wb.pkg, "xl/drawings/drawing2.xml")
		require.NoError(t, err)
		assert.Equal(t, "../charts/chart2.xml", ooxml.AttrValue(drawingRels.FindByID("rId1"), "Target"))
		assert.Equal(t, "../media/image1.png", ooxml.AttrValue(drawingRels.FindByID("rId2"), "Target"))

		after, err := src.Body()
		require.NoError(t, err)
		assert.Equal(t, srcBody, after, "the source is not touched")
		srcRels, err := ooxml.LoadRelationships(wb.pkg, src.Path())
		require.NoError(t, err)
		assert.Len(t, srcRels.All(), 6)
	})

	t.Run("copy is independent of the source", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		clone, err := wb.Clone(src, "Copy")
		require.NoError(t, err)

		srcDoc, err := wb.pkg.Document(src.Path())
		require.NoError(t, err)
		cloneDoc, err := wb.pkg.Document(clone.Path())
		require.NoError(t, err)
		require.NotSame(t, srcDoc.Root(), cloneDoc.Root())

		ooxml.CreateChild(cloneDoc.Root(), "extra")
		assert.Nil(t, ooxml.FirstChild(srcDoc.Root(), "extra"))
		require.NoError(t, clone.Rename("Renamed"))
		assert.Equal(t, "Report", src.Name())
		assert.Equal(t, "Report", ooxml.AttrValue(src.ManifestEntry(), "name"))
	})

	t.Run("duplicate name", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		before := snapshot(t, wb)
		_, err := src.Clone("report")
		assert.ErrorIs(t, err, sheetmeta.ErrDuplicateIdentifier)
		assert.Equal(t, before, snapshot(t, wb))
	})

	t.Run("hidden source gives a visible copy", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		require.NoError(t, src.SetState(sheetmeta.Hidden))
		clone, err := src.Clone("Copy")
		require.NoError(t, err)
		assert.Equal(t, sheetmeta.Visible, clone.State())
		assert.NoError(t, wb.Verify())
	})

	t.Run("other sheet types", func(t *testing.T) {
		wb := newTestWorkbook(t)
		for _, typ := range []sheetmeta.SheetType{sheetmeta.ChartSheet, sheetmeta.DialogSheet, sheetmeta.MacroSheet} {
			src, err := wb.AddSheet(typ.String(), typ)
			require.NoError(t, err)
			clone, err := src.Clone(typ.String() + " copy")
			require.NoError(t, err)
			assert.Equal(t, typ, clone.Type())
			assert.Equal(t, typ.ContentType(), ooxml.AttrValue(clone.ContentTypeEntry(), "ContentType"))
			assert.False(t, wb.pkg.HasPart(ooxml.RelsPathFor(clone.Path())), "no relationships to copy")
		}
		assert.NoError(t, wb.Verify())
	})

	t.Run("excelize reads the result", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		_, err := src.Clone("Copy")
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = wb.WriteTo(&buf)
		require.NoError(t, err)

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Sheet1", "Report", "Copy"}, f.GetSheetList())
		v, err := f.GetCellValue("Copy", "A1")
		require.NoError(t, err)
		assert.Equal(t, "total", v)
	})
}

func TestDeleteRelatedParts(t *testing.T) {
	t.Run("parts only the sheet used go with it", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		require.NoError(t, wb.Delete(src))
		for _, part := range []string{
			"xl/drawings/drawing1.xml", "xl/drawings/_rels/drawing1.xml.rels",
			"xl/charts/chart1.xml", "xl/media/image1.png",
			"xl/tables/table1.xml", "xl/drawings/vmlDrawing1.vml", "xl/comments1.xml",
			"xl/printerSettings/printerSettings1.bin",
		} {
			assert.False(t, wb.pkg.HasPart(part), part)
			assert.Nil(t, wb.types.FindOverride(part), part)
		}
		assert.NoError(t, wb.Verify())
	})

	t.Run("shared parts stay", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		clone, err := src.Clone("Copy")
		require.NoError(t, err)
		require.NoError(t, wb.Delete(src))

		assert.False(t, wb.pkg.HasPart("xl/drawings/drawing1.xml"))
		assert.False(t, wb.pkg.HasPart("xl/charts/chart1.xml"))
		assert.False(t, wb.pkg.HasPart("xl/tables/table1.xml"))
		assert.Nil(t, wb.types.FindOverride("xl/tables/table1.xml"))
		for _, part := range []string{
			"xl/media/image1.png", "xl/printerSettings/printerSettings1.bin",
			"xl/drawings/drawing2.xml", "xl/charts/chart2.xml",
		} {
			assert.True(t, wb.pkg.HasPart(part), part)
		}
		assert.NoError(t, wb.Verify())

		require.NoError(t, wb.Delete(clone))
		assert.False(t, wb.pkg.HasPart("xl/media/image1.png"))
		assert.False(t, wb.pkg.HasPart("xl/drawings/drawing2.xml"))
	})

	t.Run("rollback restores them", func(t *testing.T) {
		wb, src := newReportWorkbook(t)
		before := snapshot(t, wb)
		err := atomically(func(tx *txn) error {
			if err := src.remove(tx); err != nil {
				return err
			}
			return errors.New("later step failed")
		})
		require.Error(t, err)
		assert.Equal(t, before, snapshot(t, wb))
	})
}

func TestAllocatePartName(t *testing.T) {
	wb := newTestWorkbook(t)
	wb.pkg.SetPart("xl/drawings/drawing1.xml", []byte("<x/>"))
	wb.pkg.SetPart("xl/drawings/drawing3.xml", []byte("<x/>"))
	assert.Equal(t, "xl/drawings/drawing2.xml", wb.allocatePartName("xl/drawings/drawing3.xml"))
	assert.Equal(t, "xl/media/image1.png", wb.allocatePartName("xl/media/image.png"))
}

func TestStripRelRefs(t *testing.T) {
	doc, err := parseRoot(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<tableParts count="2"><tablePart r:id="rId1"/><tablePart r:id="rId2"/></tableParts><drawing r:id="rId3"/></worksheet>`)
	require.NoError(t, err)
	stripRelRefs(doc, map[string]bool{"rId1": true})
	parts := ooxml.FirstChild(doc, "tableParts")
	require.NotNil(t, parts)
	assert.Equal(t, "1", ooxml.AttrValue(parts, "count"))

	stripRelRefs(doc, map[string]bool{"rId2": true, "rId3": true})
	assert.Nil(t, ooxml.FirstChild(doc, "tableParts"))
	assert.Nil(t, ooxml.FirstChild(doc, "drawing"))
}

func parseRoot(s string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, err
	}
	return doc.Root(), nil
}
