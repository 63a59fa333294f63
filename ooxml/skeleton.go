// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ooxml

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Relationship types of the package-level parts.
const (
	RelationshipOfficeDocument       = excelize.SourceRelationshipOfficeDocument
	RelationshipExtendedProperties   = excelize.SourceRelationshipExtendProperties
	RelationshipCoreProperties       = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	ContentTypeExtendedProperties    = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	defaultWorkbookPart              = "xl/workbook.xml"
	defaultApplication               = "Microsoft Excel"
	defaultCreator                   = "sheetmeta"
	relationshipStrictOfficeDocument = "http://purl.oclc.org/ooxml/officeDocument/relationships/officeDocument"
)

// NewSkeleton returns a package holding the minimal parts of a workbook
// without any sheet.
func NewSkeleton(created time.Time) *Package {
	p := NewPackage()
	p.SetPart(PathContentTypes, []byte(ContentTypesDoc()))
	p.SetPart(PathRootRels, []byte(RootRelsDoc()))
	p.SetPart(PathApp, []byte(AppDoc(defaultApplication)))
	p.SetPart(PathCore, []byte(CoreDoc(defaultCreator, created.UTC().Format(time.RFC3339))))
	p.SetPart(defaultWorkbookPart, []byte(WorkbookDoc()))
	p.SetPart(RelsPathFor(defaultWorkbookPart), []byte(WorkbookRelsDoc()))
	p.SetPart("xl/styles.xml", []byte(StylesDoc()))
	return p
}

// WorkbookPart returns the name of the main workbook part, the target of
// the package's officeDocument relationship.
func WorkbookPart(pkg *Package) (string, error) {
	rels, err := LoadRelationships(pkg, "")
	if err != nil {
		return "", fmt.Errorf("ooxml: package relationships: %w", err)
	}
	for _, e := range rels.All() {
		switch AttrValue(e, "Type") {
		case RelationshipOfficeDocument, relationshipStrictOfficeDocument:
			return rels.Resolve(AttrValue(e, "Target")), nil
		}
	}
	return "", fmt.Errorf("ooxml: no officeDocument relationship in %s: %w", PathRootRels, ErrNoPart)
}

// PropertiesPart returns the name of the extended properties part, if the
// package has one.
func PropertiesPart(pkg *Package) (string, bool) {
	rels, err := LoadRelationships(pkg, "")
	if err != nil {
		return "", false
	}
	for _, e := range rels.All() {
		if AttrValue(e, "Type") == RelationshipExtendedProperties {
			name := rels.Resolve(AttrValue(e, "Target"))
			return name, pkg.HasPart(name)
		}
	}
	return "", false
}

// AddProperties adds an empty extended properties part to pkg, registering
// it in the content types and the package relationships.
func AddProperties(pkg *Package, types *ContentTypes) (part string, undo func(), err error) {
	rels, err := LoadRelationships(pkg, "")
	if err != nil {
		return "", nil, fmt.Errorf("ooxml: package relationships: %w", err)
	}
	var undos undoList
	undos.add(pkg.AddPart(PathApp, []byte(AppDoc(defaultApplication))))
	if types.FindOverride(PathApp) == nil {
		_, u := types.AddOverride(PathApp, ContentTypeExtendedProperties)
		undos.add(u)
	}
	if rels.FindByTarget(PathApp, nil) == nil {
		_, u := rels.Add(rels.NextID(), RelationshipExtendedProperties, rels.TargetFor(PathApp))
		undos.add(u)
	}
	return PathApp, undos.undo, nil
}
