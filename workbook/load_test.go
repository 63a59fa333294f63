// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// excelizeFixture returns a package written by excelize: Sheet1, a hidden
// Data sheet and a defined name scoped to Data.
func excelizeFixture(t *testing.T) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Data", "A1", 42))
	require.NoError(t, f.SetSheetVisible("Data", false))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "Answer", RefersTo: "Data!$A$1", Scope: "Data"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestLoadExcelize(t *testing.T) {
	t.Run("missing titles are added", func(t *testing.T) {
		r := excelizeFixture(t)
		wb, err := Open(r, r.Size())
		require.NoError(t, err)
		require.NoError(t, wb.Verify())

		assert.Equal(t, []string{"Sheet1", "Data"}, sheetNames(wb))
		assert.Equal(t, []string{"Sheet1", "Data"}, titleNames(wb))
		assert.Equal(t, []uint{1, 2}, indices(wb))
		data, err := wb.Sheet("Data")
		require.NoError(t, err)
		assert.Equal(t, sheetmeta.Hidden, data.State())
		assert.Equal(t, "xl/worksheets/sheet2.xml", data.Path())
	})

	t.Run("strict titles", func(t *testing.T) {
		r := excelizeFixture(t)
		_, err := Open(r, r.Size(), WithStrictTitles())
		assert.ErrorIs(t, err, sheetmeta.ErrNotFound)
	})

	t.Run("changes are visible to excelize", func(t *testing.T) {
		r := excelizeFixture(t)
		wb, err := Open(r, r.Size())
		require.NoError(t, err)
		data, err := wb.Sheet("Data")
		require.NoError(t, err)
		require.NoError(t, data.Rename("Raw"))
		_, err = wb.AddSheet("Notes", sheetmeta.WorkSheet)
		require.NoError(t, err)
		require.NoError(t, wb.Move(data, 1))

		var buf bytes.Buffer
		_, err = wb.WriteTo(&buf)
		require.NoError(t, err)
		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Raw", "Sheet1", "Notes"}, f.GetSheetList())
		visible, err := f.GetSheetVisible("Raw")
		require.NoError(t, err)
		assert.False(t, visible)
		v, err := f.GetCellValue("Raw", "A1")
		require.NoError(t, err)
		assert.Equal(t, "42", v)
		names := f.GetDefinedName()
		require.Len(t, names, 1)
		assert.Equal(t, "Raw!$A$1", names[0].RefersTo)
		assert.Equal(t, "Raw", names[0].Scope)
	})
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		corrupt func(t *testing.T, wb *Workbook)
		opts    []Option
		want    error
	}{
		{"missing relationship", func(t *testing.T, wb *Workbook) {
			ooxml.Detach(wb.Sheets()[1].RelationshipEntry())
		}, nil, sheetmeta.ErrNotFound},
		{"missing content type", func(t *testing.T, wb *Workbook) {
			ooxml.Detach(wb.Sheets()[1].ContentTypeEntry())
		}, nil, sheetmeta.ErrNotFound},
		{"missing part", func(t *testing.T, wb *Workbook) {
			wb.pkg.RemovePart(wb.Sheets()[1].Path())
		}, nil, sheetmeta.ErrNotFound},
		{"duplicate name", func(t *testing.T, wb *Workbook) {
			wb.Sheets()[1].ManifestEntry().CreateAttr("name", "SHEET1")
		}, nil, sheetmeta.ErrDuplicateIdentifier},
		{"duplicate relationship", func(t *testing.T, wb *Workbook) {
			ss := wb.Sheets()
			ss[1].ManifestEntry().CreateAttr(wb.manifest.RelIDKey(), ss[0].RelID())
		}, nil, sheetmeta.ErrDuplicateIdentifier},
		{"missing title", func(t *testing.T, wb *Workbook) {
			wb.titles.Remove(wb.Sheets()[1].TitleEntry())
		}, []Option{WithStrictTitles()}, sheetmeta.ErrNotFound},
		{"missing properties", func(t *testing.T, wb *Workbook) {
			wb.pkg.RemovePart(ooxml.PathApp)
		}, []Option{WithStrictTitles()}, sheetmeta.ErrNotFound},
		{"missing workbook", func(t *testing.T, wb *Workbook) {
			wb.pkg.RemovePart(wb.Part())
		}, nil, sheetmeta.ErrNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			wb := newTestWorkbook(t, "Data", "More")
			tc.corrupt(t, wb)
			before := snapshot(t, wb)
			_, err := Load(wb.pkg, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, snapshot(t, wb), "a failed load changes nothing")
		})
	}

	t.Run("every broken sheet is reported", func(t *testing.T) {
		wb := newTestWorkbook(t, "Data", "More")
		ss := wb.Sheets()
		ooxml.Detach(ss[1].ContentTypeEntry())
		wb.pkg.RemovePart(ss[2].Path())
		_, err := Load(wb.pkg)
		require.Error(t, err)
		assert.ErrorIs(t, err, sheetmeta.ErrNotFound)
		assert.Contains(t, err.Error(), `"Data"`)
		assert.Contains(t, err.Error(), `"More"`)
	})
}

func TestLoadRepairs(t *testing.T) {
	t.Run("missing title goes to its display position", func(t *testing.T) {
		wb := newTestWorkbook(t, "Data", "More")
		wb.titles.Remove(wb.Sheets()[1].TitleEntry())
		wb.titles.AdjustHeading(kinds[sheetmeta.WorkSheet].heading, -1)

		got, err := Load(wb.pkg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sheet1", "Data", "More"}, titleNames(got))
		assert.NoError(t, got.Verify())
	})

	t.Run("titles grouped by heading are put in display order", func(t *testing.T) {
		for _, opts := range [][]Option{nil, {WithStrictTitles()}} {
			wb := newTestWorkbook(t, "Data")
			chart, err := wb.InsertSheet("Chart1", sheetmeta.ChartSheet, 1)
			require.NoError(t, err)
			// worksheets first, then charts
			ooxml.Detach(chart.TitleEntry())
			ooxml.Attach(wb.titles.Vector(), chart.TitleEntry(), nil)
			require.Equal(t, []string{"Sheet1", "Data", "Chart1"}, titleNames(wb))

			got, err := Load(wb.pkg, opts...)
			require.NoError(t, err)
			assert.Equal(t, []string{"Chart1", "Sheet1", "Data"}, sheetNames(got))
			assert.Equal(t, []string{"Chart1", "Sheet1", "Data"}, titleNames(got))
			assert.Equal(t, "3", ooxml.AttrValue(got.titles.Vector(), "size"))
			assert.NoError(t, got.Verify())
		}
	})

	t.Run("missing properties part is created", func(t *testing.T) {
		wb := newTestWorkbook(t, "Data")
		wb.pkg.RemovePart(ooxml.PathApp)

		got, err := Load(wb.pkg)
		require.NoError(t, err)
		assert.True(t, got.pkg.HasPart(ooxml.PathApp))
		assert.Equal(t, []string{"Sheet1", "Data"}, titleNames(got))
		assert.NoError(t, got.Verify())
	})

	t.Run("loaded workbook keeps allocating fresh ids", func(t *testing.T) {
		wb := newTestWorkbook(t, "Data")
		got, err := Load(wb.pkg)
		require.NoError(t, err)
		s, err := got.AddSheet("New", sheetmeta.WorkSheet)
		require.NoError(t, err)
		assert.Equal(t, uint(3), s.SheetID())
		assert.Equal(t, "xl/worksheets/sheet3.xml", s.Path())
		assert.NoError(t, got.Verify())
	})
}
