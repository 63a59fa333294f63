// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package sheetmeta describes the sheets of an OOXML spreadsheet package.
//
// A sheet is recorded in four places: the workbook manifest (xl/workbook.xml),
// the package title list (docProps/app.xml), the content type registry
// ([Content_Types].xml) and the workbook relationships
// (xl/_rels/workbook.xml.rels). The workbook subpackage keeps these in sync;
// this package holds the shared vocabulary.
package sheetmeta

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrDuplicateIdentifier is returned when a name or a part path is already taken.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	// ErrNotFound is returned when an expected cross-reference is missing.
	ErrNotFound = errors.New("not found")
	// ErrDanglingReference is returned when a removal would leave another
	// document pointing at the removed entry.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrLastVisibleSheet is returned when an operation would leave the
	// workbook without a visible sheet.
	ErrLastVisibleSheet = errors.New("workbook must keep at least one visible sheet")
	// ErrInvalidName wraps the sheet name rule violations.
	ErrInvalidName = errors.New("invalid sheet name")
	// ErrOutOfRange is returned for positions outside 1..N.
	ErrOutOfRange = errors.New("position out of range")
)

// SheetType is the kind of a sheet. It is fixed when the sheet is created.
type SheetType uint8

const (
	WorkSheet SheetType = iota
	ChartSheet
	DialogSheet
	MacroSheet
)

// Content and relationship types that excelize does not define.
const (
	ContentTypeDialogsheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.dialogsheet+xml"
	ContentTypeMacrosheet      = "application/vnd.ms-excel.macrosheet+xml"
	ContentTypeIntlMacrosheet  = "application/vnd.ms-excel.intlmacrosheet+xml"
	RelationshipMacrosheet     = "http://schemas.microsoft.com/office/2006/relationships/xlMacrosheet"
	RelationshipIntlMacrosheet = "http://schemas.microsoft.com/office/2006/relationships/xlIntlMacrosheet"
)

type sheetTypeInfo struct {
	name, contentType, relType, dir, rootTag string
}

var sheetTypes = [...]sheetTypeInfo{
	WorkSheet: {
		name: "worksheet", dir: "worksheets", rootTag: "worksheet",
		contentType: excelize.ContentTypeSpreadSheetMLWorksheet,
		relType:     excelize.SourceRelationshipWorkSheet,
	},
	ChartSheet: {
		name: "chartsheet", dir: "chartsheets", rootTag: "chartsheet",
		contentType: excelize.ContentTypeSpreadSheetMLChartsheet,
		relType:     excelize.SourceRelationshipChartsheet,
	},
	DialogSheet: {
		name: "dialogsheet", dir: "dialogsheets", rootTag: "dialogsheet",
		contentType: ContentTypeDialogsheet,
		relType:     excelize.SourceRelationshipDialogsheet,
	},
	MacroSheet: {
		name: "macrosheet", dir: "macrosheets", rootTag: "macrosheet",
		contentType: ContentTypeMacrosheet,
		relType:     RelationshipMacrosheet,
	},
}

func (t SheetType) info() sheetTypeInfo {
	if int(t) < len(sheetTypes) {
		return sheetTypes[t]
	}
	return sheetTypeInfo{name: fmt.Sprintf("SheetType(%d)", uint8(t))}
}

func (t SheetType) String() string { return t.info().name }

// Valid reports whether t is one of the four known kinds.
func (t SheetType) Valid() bool { return int(t) < len(sheetTypes) }

// ContentType is the content type declared for parts of this kind.
func (t SheetType) ContentType() string { return t.info().contentType }

// RelationshipType is the workbook relationship type that links parts of this kind.
func (t SheetType) RelationshipType() string { return t.info().relType }

// Dir is the directory under xl/ that holds parts of this kind.
func (t SheetType) Dir() string { return t.info().dir }

// RootTag is the local name of the part's root element.
func (t SheetType) RootTag() string { return t.info().rootTag }

// ContentTypeFor returns the content type string for t.
func ContentTypeFor(t SheetType) string { return t.ContentType() }

// SheetTypeForContentType maps a declared content type back to its kind.
func SheetTypeForContentType(ct string) (SheetType, bool) {
	if ct == ContentTypeIntlMacrosheet {
		return MacroSheet, true
	}
	for i, info := range sheetTypes {
		if info.contentType == ct {
			return SheetType(i), true
		}
	}
	return 0, false
}

// SheetTypeForRelationship maps a workbook relationship type to its kind.
func SheetTypeForRelationship(rt string) (SheetType, bool) {
	if rt == RelationshipIntlMacrosheet {
		return MacroSheet, true
	}
	for i, info := range sheetTypes {
		if info.relType == rt {
			return SheetType(i), true
		}
	}
	return 0, false
}

// ParseSheetType parses the String form of a SheetType.
func ParseSheetType(s string) (SheetType, error) {
	for i, info := range sheetTypes {
		if info.name == s {
			return SheetType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sheet type %q", s)
}

// SheetState is the visibility of a sheet tab.
type SheetState uint8

const (
	Visible SheetState = iota
	Hidden
	VeryHidden
)

var sheetStates = [...]string{Visible: "visible", Hidden: "hidden", VeryHidden: "veryHidden"}

// String returns the value used by the state attribute of the manifest.
func (s SheetState) String() string {
	if int(s) < len(sheetStates) {
		return sheetStates[s]
	}
	return fmt.Sprintf("SheetState(%d)", uint8(s))
}

// Valid reports whether s is a known state.
func (s SheetState) Valid() bool { return int(s) < len(sheetStates) }

// ParseSheetState parses a manifest state attribute. The empty string is Visible.
func ParseSheetState(s string) (SheetState, error) {
	if s == "" {
		return Visible, nil
	}
	for i, v := range sheetStates {
		if v == s {
			return SheetState(i), nil
		}
	}
	return Visible, fmt.Errorf("unknown sheet state %q", s)
}
