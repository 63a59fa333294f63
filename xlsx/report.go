// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta/workbook"
)

// ReportSheet is the name of the single sheet WriteReport produces.
const ReportSheet = "Sheets"

var reportColumns = []struct {
	Name  string
	Width float64
}{
	{"Index", 7}, {"Name", 32}, {"Type", 12}, {"State", 12},
	{"Path", 32}, {"SheetId", 9}, {"RelId", 9},
}

// WriteReport writes a new spreadsheet listing the sheets of wb,
// one row each, under a bold header.
func WriteReport(w io.Writer, wb *workbook.Workbook) error {
	xl := excelize.NewFile()
	defer xl.Close()
	if err := xl.SetSheetName("Sheet1", ReportSheet); err != nil {
		return err
	}
	bold, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := make([]any, len(reportColumns))
	for i, c := range reportColumns {
		header[i] = c.Name
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err = xl.SetColWidth(ReportSheet, col, col, c.Width); err != nil {
			return err
		}
	}
	if err = xl.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(reportColumns), 1)
	if err != nil {
		return err
	}
	if err = xl.SetCellStyle(ReportSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, s := range wb.Sheets() {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Index(), s.Name(), s.Type().String(), s.State().String(), s.Path(), s.SheetID(), s.RelID()}
		if err = xl.SetSheetRow(ReportSheet, axis, &row); err != nil {
			return fmt.Errorf("%s[%s]: %w", ReportSheet, axis, err)
		}
	}
	_, err = xl.WriteTo(w)
	return err
}
