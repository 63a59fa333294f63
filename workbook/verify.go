// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// Verify checks that every sheet is recorded consistently in all four
// documents and that the sheets are numbered densely in manifest order.
// It returns every problem found, or nil.
func (wb *Workbook) Verify() error {
	var errs *multierror.Error
	add := func(s *Sheet, format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf("sheet %q: "+format, append([]any{s.name}, args...)...))
	}

	entries := wb.manifest.Sheets()
	if len(entries) != len(wb.sheets) {
		errs = multierror.Append(errs, fmt.Errorf("manifest lists %d sheets, workbook has %d: %w",
			len(entries), len(wb.sheets), sheetmeta.ErrNotFound))
	}
	seen := make(map[string]*Sheet, len(wb.sheets))
	lastTitle := -1
	for i, s := range wb.sheets {
		if s.index != uint(i+1) {
			add(s, "index %d at position %d", s.index, i+1)
		}
		if folded := sheetmeta.FoldName(s.name); seen[folded] != nil {
			add(s, "name also used by sheet #%d: %w", seen[folded].index, sheetmeta.ErrDuplicateIdentifier)
		} else {
			seen[folded] = s
		}

		switch {
		case !ooxml.Attached(s.manifestEntry):
			add(s, "manifest entry: %w", sheetmeta.ErrNotFound)
		case i >= len(entries) || entries[i] != s.manifestEntry:
			add(s, "manifest entry is not at position %d", i+1)
		default:
			if got := ooxml.AttrValue(s.manifestEntry, "name"); got != s.name {
				add(s, "manifest name is %q", got)
			}
			if got, _ := sheetmeta.ParseSheetState(ooxml.AttrValue(s.manifestEntry, "state")); got != s.state {
				add(s, "manifest state is %s, not %s", got, s.state)
			}
			if got := wb.manifest.RelID(s.manifestEntry); got != s.relID {
				add(s, "manifest relationship id is %q, not %q", got, s.relID)
			}
			if got := ooxml.AttrValue(s.manifestEntry, "sheetId"); got != strconv.FormatUint(uint64(s.sheetID), 10) {
				add(s, "manifest sheetId is %q, not %d", got, s.sheetID)
			}
		}

		if !ooxml.Attached(s.titleEntry) || s.titleEntry.Parent() != wb.titles.Vector() {
			add(s, "title entry: %w", sheetmeta.ErrNotFound)
		} else {
			if got := ooxml.Title(s.titleEntry); got != s.name {
				add(s, "title is %q", got)
			}
			if idx := s.titleEntry.Index(); idx < lastTitle {
				add(s, "title is out of display order")
			} else {
				lastTitle = idx
			}
		}

		if !ooxml.Attached(s.contentTypeEntry) {
			add(s, "content type: %w", sheetmeta.ErrNotFound)
		} else {
			if got := ooxml.AttrValue(s.contentTypeEntry, "PartName"); !strings.EqualFold(got, ooxml.PartName(s.path)) {
				add(s, "content type is declared for %s", got)
			}
			if got := ooxml.AttrValue(s.contentTypeEntry, "ContentType"); got != s.typ.ContentType() {
				if t, ok := sheetmeta.SheetTypeForContentType(got); !ok || t != s.typ {
					add(s, "content type is %q", got)
				}
			}
		}

		if !ooxml.Attached(s.relationshipEntry) {
			add(s, "relationship: %w", sheetmeta.ErrNotFound)
		} else {
			if got := ooxml.AttrValue(s.relationshipEntry, "Id"); got != s.relID {
				add(s, "relationship id is %q", got)
			}
			if got := wb.rels.Resolve(ooxml.AttrValue(s.relationshipEntry, "Target")); !strings.EqualFold(got, s.path) {
				add(s, "relationship points to %s", got)
			}
		}

		if !wb.pkg.HasPart(s.path) {
			add(s, "part %s: %w", s.path, sheetmeta.ErrNotFound)
		}
	}

	if len(wb.sheets) != 0 && wb.visibleCount() == 0 {
		errs = multierror.Append(errs, sheetmeta.ErrLastVisibleSheet)
	}
	if v := wb.titles.Vector(); v != nil {
		if got, want := ooxml.AttrValue(v, "size"), strconv.Itoa(len(wb.titles.Entries())); got != want {
			errs = multierror.Append(errs, fmt.Errorf("title vector size is %s, has %s entries", got, want))
		}
	}
	return errs.ErrorOrNil()
}
