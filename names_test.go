// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetmeta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestValidateName(t *testing.T) {
	for _, tc := range []struct {
		name string
		want error
	}{
		{"Sheet1", nil},
		{"Über Blatt", nil},
		{strings.Repeat("x", 31), nil},
		{"", excelize.ErrSheetNameBlank},
		{strings.Repeat("x", 32), excelize.ErrSheetNameLength},
		{strings.Repeat("😀", 16), excelize.ErrSheetNameLength},
		{"'quoted", excelize.ErrSheetNameSingleQuote},
		{"quoted'", excelize.ErrSheetNameSingleQuote},
		{"a/b", excelize.ErrSheetNameInvalid},
		{"Q1:Q2", excelize.ErrSheetNameInvalid},
		{"[x]", excelize.ErrSheetNameInvalid},
		{"history", ErrInvalidName},
	} {
		err := ValidateName(tc.name)
		if tc.want == nil {
			assert.NoError(t, err, tc.name)
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidName, tc.name)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Data", "DATA"))
	assert.True(t, SameName("ärger", "ÄRGER"))
	assert.False(t, SameName("Data", "Data2"))
	assert.Equal(t, FoldName("ABC"), FoldName("abc"))
}

func TestQuoteName(t *testing.T) {
	for _, tc := range [][2]string{
		{"Data", "Data"},
		{"Q1_2026", "Q1_2026"},
		{"Data1", "Data1"},
		{"Report", "Report"},
		{"My Sheet", "'My Sheet'"},
		{"1st", "'1st'"},
		{"It's", "'It''s'"},
		{"a-b", "'a-b'"},
		{"A1", "'A1'"},
		{"xfd1048576", "'xfd1048576'"},
		{"R1C1", "'R1C1'"},
		{"rc", "'rc'"},
		{"C3", "'C3'"},
	} {
		assert.Equal(t, tc[1], QuoteName(tc[0]), tc[0])
	}
}

func TestRenameRefs(t *testing.T) {
	for _, tc := range []struct {
		formula, old, new, want string
	}{
		{"Old!A1+1", "Old", "New", "New!A1+1"},
		{"old!A1", "Old", "New", "New!A1"},
		{"'Old'!A1", "Old", "New", "New!A1"},
		{"SUM(Old!A1:B2,Other!C1)", "Old", "New", "SUM(New!A1:B2,Other!C1)"},
		{"OldX!A1+XOld!A1", "Old", "New", "OldX!A1+XOld!A1"},
		{`"Old!A1"&Old!A1`, "Old", "New", `"Old!A1"&New!A1`},
		{"Old!A1", "Old", "My Sheet", "'My Sheet'!A1"},
		{"'It''s'!A1*2", "It's", "Its", "Its!A1*2"},
		{"'My Data'!$B$2", "My Data", "It's", "'It''s'!$B$2"},
		{"'Other Old'!A1", "Old", "New", "'Other Old'!A1"},
		{"A1+B2", "Old", "New", "A1+B2"},
		{"SUM(Data!$A$1:$A$3)", "Data", "A1", "SUM('A1'!$A$1:$A$3)"},
		{"Data!B2", "Data", "R2C2", "'R2C2'!B2"},
	} {
		assert.Equal(t, tc.want, RenameRefs(tc.formula, tc.old, tc.new), tc.formula)
	}
}
