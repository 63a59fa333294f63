// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// Sheet is one sheet of a Workbook. It holds the four entries that record
// the sheet in the package, so that renaming, hiding or deleting it touches
// exactly those nodes.
//
// A Sheet is owned by its Workbook and is not safe for concurrent use.
type Sheet struct {
	wb *Workbook

	name    string
	typ     sheetmeta.SheetType
	state   sheetmeta.SheetState
	index   uint
	path    string
	sheetID uint
	relID   string

	manifestEntry     *etree.Element
	titleEntry        *etree.Element
	contentTypeEntry  *etree.Element
	relationshipEntry *etree.Element

	deleted bool
}

// Name of the sheet, as shown on its tab.
func (s *Sheet) Name() string { return s.name }

// Type of the sheet.
func (s *Sheet) Type() sheetmeta.SheetType { return s.typ }

// State is the visibility of the sheet.
func (s *Sheet) State() sheetmeta.SheetState { return s.state }

// Index is the 1-based display position of the sheet.
func (s *Sheet) Index() uint { return s.index }

// Path is the part name of the sheet body, such as xl/worksheets/sheet1.xml.
func (s *Sheet) Path() string { return s.path }

// SheetID is the sheetId attribute of the manifest entry. It is assigned
// once and does not follow the display position.
func (s *Sheet) SheetID() uint { return s.sheetID }

// RelID is the id of the workbook relationship pointing at the sheet body.
func (s *Sheet) RelID() string { return s.relID }

// Deleted reports whether the sheet has been removed from its workbook.
func (s *Sheet) Deleted() bool { return s.deleted }

// Workbook returns the container of the sheet.
func (s *Sheet) Workbook() *Workbook { return s.wb }

// ManifestEntry returns the <sheet> element of the workbook part.
func (s *Sheet) ManifestEntry() *etree.Element { return s.manifestEntry }

// TitleEntry returns the vt:lpstr element of the title list.
func (s *Sheet) TitleEntry() *etree.Element { return s.titleEntry }

// ContentTypeEntry returns the <Override> element of the content types.
func (s *Sheet) ContentTypeEntry() *etree.Element { return s.contentTypeEntry }

// RelationshipEntry returns the <Relationship> element of the workbook relationships.
func (s *Sheet) RelationshipEntry() *etree.Element { return s.relationshipEntry }

// Body returns the XML body of the sheet.
func (s *Sheet) Body() ([]byte, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	return s.wb.pkg.Part(s.path)
}

func (s *Sheet) String() string {
	return fmt.Sprintf("%s %q (#%d, %s)", s.typ, s.name, s.index, s.path)
}

// LogValue implements slog.LogValuer.
func (s *Sheet) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.name),
		slog.String("type", s.typ.String()),
		slog.Uint64("index", uint64(s.index)),
		slog.String("path", s.path),
	)
}

func (s *Sheet) usable() error {
	if s == nil {
		return fmt.Errorf("nil sheet: %w", sheetmeta.ErrNotFound)
	}
	if s.deleted {
		return fmt.Errorf("sheet %q has been deleted: %w", s.name, sheetmeta.ErrNotFound)
	}
	return nil
}

// Rename changes the name of the sheet in the manifest and the title list
// together, and rewrites the defined names that refer to it. The new name
// must be valid and must not be used by another sheet of the workbook;
// names compare case-insensitively. Renaming to the current name is a no-op.
// On error nothing changes.
func (s *Sheet) Rename(newName string) error {
	if err := s.usable(); err != nil {
		return err
	}
	if newName == s.name {
		return nil
	}
	if err := sheetmeta.ValidateName(newName); err != nil {
		return fmt.Errorf("rename %q: %w", s.name, err)
	}
	if other := s.wb.lookup(newName); other != nil && other != s {
		return fmt.Errorf("rename %q to %q: %w", s.name, newName, sheetmeta.ErrDuplicateIdentifier)
	}
	if !ooxml.Attached(s.manifestEntry) || !ooxml.Attached(s.titleEntry) {
		return fmt.Errorf("rename %q: manifest or title entry: %w", s.name, sheetmeta.ErrNotFound)
	}
	oldName := s.name
	err := atomically(func(tx *txn) error {
		tx.stage(ooxml.SetAttr(s.manifestEntry, "name", newName))
		tx.stage(s.wb.titles.Rename(s.titleEntry, newName))
		s.wb.renameRefs(tx, oldName, newName)
		tx.onCommit(func() { s.name = newName })
		return nil
	})
	if err == nil {
		s.wb.logger.Debug("renamed", "from", oldName, "to", newName)
	}
	return err
}

// SetState changes the visibility of the sheet. The workbook refuses to
// hide its last visible sheet; see Workbook.SetState.
func (s *Sheet) SetState(state sheetmeta.SheetState) error {
	if err := s.usable(); err != nil {
		return err
	}
	return s.wb.SetState(s, state)
}

// Clone copies the sheet under newName to the end of the workbook.
// See Workbook.Clone.
func (s *Sheet) Clone(newName string) (*Sheet, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	return s.wb.Clone(s, newName)
}

// applyState writes state to the manifest entry. Visible is written as the
// absence of the attribute.
func (s *Sheet) applyState(tx *txn, state sheetmeta.SheetState) error {
	if !ooxml.Attached(s.manifestEntry) {
		return fmt.Errorf("state of %q: manifest entry: %w", s.name, sheetmeta.ErrNotFound)
	}
	if state == sheetmeta.Visible {
		tx.stage(ooxml.RemoveAttr(s.manifestEntry, "state"))
	} else {
		tx.stage(ooxml.SetAttr(s.manifestEntry, "state", state.String()))
	}
	tx.onCommit(func() { s.state = state })
	return nil
}

// remove detaches the four entries and drops the sheet part with its
// relationships, along with the related parts no other part refers to. Entries already gone are skipped, so a removal can be
// repeated. Removing the workbook relationship fails with
// ErrDanglingReference while anything else still refers to the sheet.
func (s *Sheet) remove(tx *txn) error {
	wb := s.wb
	if ooxml.Attached(s.manifestEntry) {
		tx.stage(ooxml.Detach(s.manifestEntry))
	}
	if ooxml.Attached(s.titleEntry) {
		tx.stage(wb.titles.Remove(s.titleEntry))
		tx.stage(wb.titles.AdjustHeading(kinds[s.typ].heading, -1))
	}
	if ooxml.Attached(s.contentTypeEntry) {
		tx.stage(ooxml.Detach(s.contentTypeEntry))
	}
	if ooxml.Attached(s.relationshipEntry) {
		if err := wb.checkDangling(s); err != nil {
			return err
		}
		tx.stage(ooxml.Detach(s.relationshipEntry))
	}
	wb.dropUnreferenced(tx, s.path, map[string]bool{strings.ToLower(s.path): true})
	tx.stage(wb.pkg.RemovePart(s.path))
	tx.stage(wb.pkg.RemovePart(ooxml.RelsPathFor(s.path)))
	return nil
}
