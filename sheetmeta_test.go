// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetType(t *testing.T) {
	for _, typ := range []SheetType{WorkSheet, ChartSheet, DialogSheet, MacroSheet} {
		t.Run(typ.String(), func(t *testing.T) {
			require.True(t, typ.Valid())
			got, err := ParseSheetType(typ.String())
			require.NoError(t, err)
			assert.Equal(t, typ, got)

			got, ok := SheetTypeForContentType(ContentTypeFor(typ))
			require.True(t, ok)
			assert.Equal(t, typ, got)

			got, ok = SheetTypeForRelationship(typ.RelationshipType())
			require.True(t, ok)
			assert.Equal(t, typ, got)

			assert.Equal(t, typ.String()+"s", typ.Dir())
			assert.Equal(t, typ.String(), typ.RootTag())
		})
	}

	assert.Equal(t, excelize.ContentTypeSpreadSheetMLWorksheet, WorkSheet.ContentType())
	assert.Equal(t, excelize.SourceRelationshipChartsheet, ChartSheet.RelationshipType())

	typ, ok := SheetTypeForContentType(ContentTypeIntlMacrosheet)
	assert.True(t, ok)
	assert.Equal(t, MacroSheet, typ)
	_, ok = SheetTypeForContentType("application/xml")
	assert.False(t, ok)
	_, ok = SheetTypeForRelationship(excelize.SourceRelationshipDrawingML)
	assert.False(t, ok)

	_, err := ParseSheetType("spreadsheet")
	assert.Error(t, err)
	assert.False(t, SheetType(9).Valid())
	assert.Equal(t, "SheetType(9)", SheetType(9).String())
}

func TestSheetState(t *testing.T) {
	for in, want := range map[string]SheetState{
		"":           Visible,
		"visible":    Visible,
		"hidden":     Hidden,
		"veryHidden": VeryHidden,
	} {
		got, err := ParseSheetState(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSheetState("invisible")
	assert.Error(t, err)
	assert.Equal(t, "veryHidden", VeryHidden.String())
	assert.False(t, SheetState(3).Valid())
}
