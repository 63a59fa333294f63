// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// renameRefs rewrites the sheet references of the defined names.
func (wb *Workbook) renameRefs(tx *txn, oldName, newName string) {
	for _, dn := range wb.manifest.DefinedNames() {
		text := dn.Text()
		if renamed := sheetmeta.RenameRefs(text, oldName, newName); renamed != text {
			tx.stage(ooxml.SetText(dn, renamed))
		}
	}
}

// remapSheetIndexes rewrites the 0-based sheet positions stored in the
// workbook part after the sheets were reordered: localSheetId of the defined
// names and the active tab of the workbook views. remap returns the
// new position of an old one, or false when that sheet is gone; count is the
// number of sheets afterwards.
//
// Positions that point at no sheet are left to the reader: remap only sees
// positions in 0..len(wb.sheets)-1.
func (wb *Workbook) remapSheetIndexes(tx *txn, count int, remap func(int) (int, bool)) {
	n := len(wb.sheets)
	for _, dn := range wb.manifest.DefinedNames() {
		v := ooxml.AttrValue(dn, "localSheetId")
		if v == "" {
			continue
		}
		old, err := strconv.Atoi(v)
		if err != nil || old < 0 || old >= n {
			continue
		}
		if i, ok := remap(old); !ok {
			tx.stage(ooxml.Detach(dn))
		} else if i != old {
			tx.stage(ooxml.SetAttr(dn, "localSheetId", strconv.Itoa(i)))
		}
	}
	if dns := wb.manifest.DefinedNamesElement(); dns != nil && len(dns.ChildElements()) == 0 {
		tx.stage(ooxml.Detach(dns))
	}

	for _, view := range wb.manifest.WorkbookViews() {
		active, _ := strconv.Atoi(ooxml.AttrValue(view, "activeTab"))
		var i int
		if active < 0 || active >= n {
			i = min(max(active, 0), count-1)
		} else if j, ok := remap(active); ok {
			i = j
		} else {
			i = min(active, count-1)
		}
		if i != active {
			tx.stage(ooxml.SetAttr(view, "activeTab", strconv.Itoa(i)))
		}
		// firstSheet only scrolls the tab bar: it stays put unless it runs off the end.
		if first, err := strconv.Atoi(ooxml.AttrValue(view, "firstSheet")); err == nil && first >= count {
			tx.stage(ooxml.SetAttr(view, "firstSheet", strconv.Itoa(max(count-1, 0))))
		}
	}
}

// moveActiveTab makes the first visible sheet other than hidden the active
// tab of the views that show hidden.
func (wb *Workbook) moveActiveTab(tx *txn, hidden *Sheet) {
	target := -1
	for i, s := range wb.sheets {
		if s != hidden && s.state == sheetmeta.Visible {
			target = i
			break
		}
	}
	if target < 0 {
		return
	}
	for _, view := range wb.manifest.WorkbookViews() {
		active, _ := strconv.Atoi(ooxml.AttrValue(view, "activeTab"))
		if active == int(hidden.index-1) {
			tx.stage(ooxml.SetAttr(view, "activeTab", strconv.Itoa(target)))
		}
	}
}

// activateVisible points the views whose active tab is not a visible sheet
// of order at the first visible one.
func (wb *Workbook) activateVisible(tx *txn, order []*Sheet) {
	target := slices.IndexFunc(order, func(s *Sheet) bool { return s.state == sheetmeta.Visible })
	if target < 0 {
		return
	}
	for _, view := range wb.manifest.WorkbookViews() {
		active, _ := strconv.Atoi(ooxml.AttrValue(view, "activeTab"))
		if active >= 0 && active < len(order) && order[active].state == sheetmeta.Visible {
			continue
		}
		tx.stage(ooxml.SetAttr(view, "activeTab", strconv.Itoa(target)))
	}
}

// checkDangling reports ErrDanglingReference when anything besides the
// sheet's own entries still refers to its relationship id or its part.
func (wb *Workbook) checkDangling(s *Sheet) error {
	if n := wb.manifest.CountRelIDRefs(s.relID, s.manifestEntry); n != 0 {
		return fmt.Errorf("relationship %q is used %d more times in %s: %w",
			s.relID, n, wb.part, sheetmeta.ErrDanglingReference)
	}
	if other := wb.rels.FindByTarget(s.path, s.relationshipEntry); other != nil {
		return fmt.Errorf("%s is also the target of relationship %q: %w",
			s.path, ooxml.AttrValue(other, "Id"), sheetmeta.ErrDanglingReference)
	}
	own := []string{ooxml.RelsPathFor(wb.part), ooxml.RelsPathFor(s.path)}
	for _, part := range wb.pkg.Parts() {
		source, ok := relsSource(part)
		if !ok || strings.EqualFold(part, own[0]) || strings.EqualFold(part, own[1]) {
			continue
		}
		rels, err := ooxml.LoadRelationships(wb.pkg, source)
		if err != nil {
			wb.logger.Warn("skip unreadable relationships", "part", part, "error", err)
			continue
		}
		if e := rels.FindByTarget(s.path, nil); e != nil {
			return fmt.Errorf("%s is the target of relationship %q of %s: %w",
				s.path, ooxml.AttrValue(e, "Id"), source, sheetmeta.ErrDanglingReference)
		}
	}
	return nil
}

// dropUnreferenced removes the parts the relationships of source point at
// when no other relationships part refers to them, following their own
// relationships. gone holds the lower-cased names of the parts removed so
// far, source included; their relationships do not count as references.
func (wb *Workbook) dropUnreferenced(tx *txn, source string, gone map[string]bool) {
	rels, err := ooxml.LoadRelationships(wb.pkg, source)
	if err != nil {
		if !errors.Is(err, ooxml.ErrNoPart) {
			wb.logger.Warn("keep related parts", "part", source, "error", err)
		}
		return
	}
	for _, e := range rels.All() {
		if ooxml.IsExternal(e) {
			continue
		}
		target := rels.Resolve(ooxml.AttrValue(e, "Target"))
		if gone[strings.ToLower(target)] || !wb.pkg.HasPart(target) || wb.referenced(target, gone) {
			continue
		}
		gone[strings.ToLower(target)] = true
		wb.dropUnreferenced(tx, target, gone)
		if o := wb.types.FindOverride(target); o != nil {
			tx.stage(ooxml.Detach(o))
		}
		tx.stage(wb.pkg.RemovePart(ooxml.RelsPathFor(target)))
		tx.stage(wb.pkg.RemovePart(target))
		wb.logger.Debug("removed unreferenced part", "part", target, "from", source)
	}
}

// referenced reports whether a relationships part of a source not in gone
// points at part.
func (wb *Workbook) referenced(part string, gone map[string]bool) bool {
	for _, name := range wb.pkg.Parts() {
		source, ok := relsSource(name)
		if !ok || gone[strings.ToLower(source)] {
			continue
		}
		rels, err := ooxml.LoadRelationships(wb.pkg, source)
		if err != nil {
			// unreadable: assume it may point at part
			return true
		}
		if rels.FindByTarget(part, nil) != nil {
			return true
		}
	}
	return false
}

// relsSource returns the source part of a relationships part:
// xl/_rels/workbook.xml.rels -> xl/workbook.xml, _rels/.rels -> "".
func relsSource(part string) (string, bool) {
	dir, file, ok := strings.Cut(part, "_rels/")
	if !ok || strings.Contains(file, "/") || !strings.HasSuffix(file, ".rels") {
		return "", false
	}
	return dir + strings.TrimSuffix(file, ".rels"), true
}
