// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
	"github.com/UNO-SOFT/sheetmeta/workbook"
)

func newWorkbook(t *testing.T, names ...string) *workbook.Workbook {
	t.Helper()
	wb, err := workbook.New()
	require.NoError(t, err)
	for _, name := range names {
		_, err = wb.AddSheet(name, sheetmeta.WorkSheet)
		require.NoError(t, err)
	}
	return wb
}

func TestFiles(t *testing.T) {
	t.Run("save and open", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/books", 0o755))
		wb := newWorkbook(t, "Data")
		data, err := wb.Sheet("Data")
		require.NoError(t, err)
		require.NoError(t, data.SetState(sheetmeta.Hidden))
		require.NoError(t, SaveFile(fsys, "/books/a.xlsx", wb))

		got, err := OpenFile(fsys, "/books/a.xlsx", workbook.WithStrictTitles())
		require.NoError(t, err)
		require.Len(t, got.Sheets(), 2)
		s := got.Sheets()[1]
		assert.Equal(t, "Data", s.Name())
		assert.Equal(t, sheetmeta.Hidden, s.State())
		assert.Equal(t, uint(2), s.Index())

		entries, err := afero.ReadDir(fsys, "/books")
		require.NoError(t, err)
		require.Len(t, entries, 1, "no temporary file is left behind")
	})

	t.Run("save replaces", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, SaveFile(fsys, "b.xlsx", newWorkbook(t, "One")))
		require.NoError(t, SaveFile(fsys, "b.xlsx", newWorkbook(t, "Two", "Three")))
		got, err := OpenFile(fsys, "b.xlsx")
		require.NoError(t, err)
		assert.Len(t, got.Sheets(), 3)
		_, err = got.Sheet("Three")
		assert.NoError(t, err)
	})

	t.Run("inconsistent workbook is not saved", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		wb := newWorkbook(t, "Data")
		ooxml.Detach(wb.Sheets()[1].ContentTypeEntry())
		assert.ErrorIs(t, SaveFile(fsys, "c.xlsx", wb), sheetmeta.ErrNotFound)
		ok, err := afero.Exists(fsys, "c.xlsx")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := OpenFile(afero.NewMemMapFs(), "nope.xlsx")
		assert.Error(t, err)
	})

	t.Run("not a package", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "d.xlsx", []byte("name,state\n"), 0o644))
		_, err := OpenFile(fsys, "d.xlsx")
		assert.Error(t, err)
	})
}

func TestVerify(t *testing.T) {
	wb := newWorkbook(t, "Data", "Secret")
	secret, err := wb.Sheet("Secret")
	require.NoError(t, err)
	require.NoError(t, secret.SetState(sheetmeta.VeryHidden))
	data, err := wb.Sheet("Data")
	require.NoError(t, err)
	require.NoError(t, data.Rename("Facts"))
	require.NoError(t, wb.Move(secret, 1))
	_, err = data.Clone("Facts (2)")
	require.NoError(t, err)
	assert.NoError(t, Verify(wb))

	t.Run("mismatch", func(t *testing.T) {
		// a name changed behind the workbook's back
		wb.Sheets()[0].ManifestEntry().CreateAttr("name", "Other")
		err := Verify(wb)
		require.Error(t, err)
	})
}

func TestWriteReport(t *testing.T) {
	wb := newWorkbook(t, "Data")
	data, err := wb.Sheet("Data")
	require.NoError(t, err)
	require.NoError(t, data.SetState(sheetmeta.Hidden))

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, wb))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ReportSheet}, f.GetSheetList())
	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Index", "Name", "Type", "State", "Path", "SheetId", "RelId"}, rows[0])
	assert.Equal(t, []string{"2", "Data", "worksheet", "hidden", "xl/worksheets/sheet2.xml", "2", data.RelID()}, rows[2])
}
