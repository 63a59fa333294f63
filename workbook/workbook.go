// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package workbook keeps the sheets of an OOXML spreadsheet package
// consistent: every sheet is listed in the workbook manifest, the title
// list, the content types and the workbook relationships, and every
// operation here changes all of them or none.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/hashicorp/go-multierror"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/ooxml"
)

// Workbook is the container of the sheets of one package. It owns the
// parsed manifest, title list, content types and relationships, and the
// ordered list of its sheets.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	pkg      *ooxml.Package
	part     string
	manifest *ooxml.Manifest
	titles   *ooxml.Titles
	types    *ooxml.ContentTypes
	rels     *ooxml.Relationships

	sheets      []*Sheet
	nextSheetID uint

	logger       *slog.Logger
	strictTitles bool
}

// Option configures New and Load.
type Option func(*Workbook)

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(wb *Workbook) {
		if logger != nil {
			wb.logger = logger
		}
	}
}

// WithStrictTitles makes Load fail with ErrNotFound when a sheet has no
// title entry, instead of adding the missing entry.
func WithStrictTitles() Option {
	return func(wb *Workbook) { wb.strictTitles = true }
}

// New returns a workbook in a fresh package with one empty worksheet named Sheet1.
func New(opts ...Option) (*Workbook, error) {
	wb, err := Load(ooxml.NewSkeleton(time.Now()), opts...)
	if err != nil {
		return nil, err
	}
	if _, err := wb.AddSheet("Sheet1", sheetmeta.WorkSheet); err != nil {
		return nil, err
	}
	return wb, nil
}

// Open reads a package and loads its workbook.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Workbook, error) {
	pkg, err := ooxml.ReadPackage(r, size)
	if err != nil {
		return nil, err
	}
	return Load(pkg, opts...)
}

// Load binds a Sheet to every manifest entry of pkg, resolving its
// relationship, content type, part and title entry.
//
// Load fails as a whole, reporting every broken sheet, when an entry cannot
// be resolved: the errors wrap ErrNotFound for a missing cross-reference and
// ErrDuplicateIdentifier for a name, relationship or part used twice.
// A sheet without a title entry gets one, unless WithStrictTitles is given.
// A package without an extended properties part gets an empty one the same way.
func Load(pkg *ooxml.Package, opts ...Option) (*Workbook, error) {
	wb := &Workbook{pkg: pkg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(wb)
	}
	var err error
	if wb.part, err = ooxml.WorkbookPart(pkg); err != nil {
		return nil, fmt.Errorf("workbook: %w: %w", sheetmeta.ErrNotFound, err)
	}
	if wb.manifest, err = ooxml.LoadManifest(pkg, wb.part); err != nil {
		return nil, fmt.Errorf("workbook: manifest: %w", notFound(err))
	}
	if wb.rels, err = ooxml.LoadRelationships(pkg, wb.part); err != nil {
		return nil, fmt.Errorf("workbook: relationships: %w", notFound(err))
	}
	if wb.types, err = ooxml.LoadContentTypes(pkg); err != nil {
		return nil, fmt.Errorf("workbook: content types: %w", notFound(err))
	}

	var errs *multierror.Error
	byName := make(map[string]*Sheet)
	byPath := make(map[string]*Sheet)
	byRel := make(map[string]*Sheet)
	for _, e := range wb.manifest.Sheets() {
		s, err := wb.resolve(e)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		for _, u := range []struct {
			seen map[string]*Sheet
			key  string
		}{
			{byName, sheetmeta.FoldName(s.name)},
			{byPath, sheetmeta.FoldName(s.path)},
			{byRel, s.relID},
		} {
			if other := u.seen[u.key]; other != nil {
				errs = multierror.Append(errs, fmt.Errorf("sheets %q and %q share %q: %w",
					other.name, s.name, u.key, sheetmeta.ErrDuplicateIdentifier))
			}
			u.seen[u.key] = s
		}
		wb.sheets = append(wb.sheets, s)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("workbook: load %s: %w", wb.part, err)
	}
	wb.ReindexAll()
	wb.nextSheetID = wb.manifest.MaxSheetID() + 1

	if err := wb.loadTitles(); err != nil {
		return nil, fmt.Errorf("workbook: titles: %w", err)
	}
	wb.logger.Debug("loaded", "part", wb.part, "sheets", len(wb.sheets))
	return wb, nil
}

func notFound(err error) error {
	if errors.Is(err, ooxml.ErrNoPart) {
		return fmt.Errorf("%w: %w", sheetmeta.ErrNotFound, err)
	}
	return err
}

// resolve builds the Sheet of a manifest entry without changing anything.
func (wb *Workbook) resolve(e *etree.Element) (*Sheet, error) {
	s := &Sheet{wb: wb, manifestEntry: e, name: ooxml.AttrValue(e, "name"), relID: wb.manifest.RelID(e)}
	if s.name == "" {
		return nil, fmt.Errorf("sheet without name: %w", sheetmeta.ErrNotFound)
	}
	var err error
	if s.state, err = sheetmeta.ParseSheetState(ooxml.AttrValue(e, "state")); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", s.name, err)
	}
	if s.sheetID, err = ooxml.SheetID(e); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", s.name, err)
	}
	if s.relationshipEntry = wb.rels.FindByID(s.relID); s.relationshipEntry == nil {
		return nil, fmt.Errorf("sheet %q: relationship %q: %w", s.name, s.relID, sheetmeta.ErrNotFound)
	}
	if ooxml.IsExternal(s.relationshipEntry) {
		return nil, fmt.Errorf("sheet %q: relationship %q is external: %w", s.name, s.relID, sheetmeta.ErrNotFound)
	}
	s.path = wb.rels.Resolve(ooxml.AttrValue(s.relationshipEntry, "Target"))
	if s.contentTypeEntry = wb.types.FindOverride(s.path); s.contentTypeEntry == nil {
		return nil, fmt.Errorf("sheet %q: content type of %s: %w", s.name, s.path, sheetmeta.ErrNotFound)
	}
	var ok bool
	if s.typ, ok = sheetmeta.SheetTypeForContentType(ooxml.AttrValue(s.contentTypeEntry, "ContentType")); !ok {
		if s.typ, ok = sheetmeta.SheetTypeForRelationship(ooxml.AttrValue(s.relationshipEntry, "Type")); !ok {
			return nil, fmt.Errorf("sheet %q: unknown sheet type %q", s.name, ooxml.AttrValue(s.contentTypeEntry, "ContentType"))
		}
	}
	if !wb.pkg.HasPart(s.path) {
		return nil, fmt.Errorf("sheet %q: part %s: %w", s.name, s.path, sheetmeta.ErrNotFound)
	}
	return s, nil
}

// loadTitles binds the title entries, adding the missing ones in display order.
func (wb *Workbook) loadTitles() error {
	part, ok := ooxml.PropertiesPart(wb.pkg)
	if !ok {
		if wb.strictTitles {
			return fmt.Errorf("extended properties: %w", sheetmeta.ErrNotFound)
		}
		var err error
		if part, _, err = ooxml.AddProperties(wb.pkg, wb.types); err != nil {
			return err
		}
		wb.logger.Info("added missing extended properties", "part", part)
	}
	var err error
	if wb.titles, err = ooxml.LoadTitles(wb.pkg, part); err != nil {
		return notFound(err)
	}

	var missing []string
	for _, s := range wb.sheets {
		if s.titleEntry = wb.titles.Find(s.name); s.titleEntry == nil {
			missing = append(missing, s.name)
		}
	}
	if len(missing) != 0 && wb.strictTitles {
		return fmt.Errorf("title of %q: %w", missing, sheetmeta.ErrNotFound)
	}
	wb.sortTitles()
	if len(missing) == 0 {
		return nil
	}
	wb.titles.EnsureVector()
	for i, s := range wb.sheets {
		if s.titleEntry != nil {
			continue
		}
		s.titleEntry = wb.titles.NewTitle(s.name)
		var before *etree.Element
		if i > 0 {
			before = wb.sheets[i-1].titleEntry.NextSibling()
		} else if entries := wb.titles.Entries(); len(entries) != 0 {
			before = entries[0]
		}
		wb.titles.Insert(s.titleEntry, before)
		wb.titles.AdjustHeading(kinds[s.typ].heading, 1)
		wb.logger.Info("added missing title", "sheet", s.name)
	}
	return nil
}

// sortTitles puts the bound sheet titles into display order. Applications
// group the titles by heading (worksheets first, then charts), which need
// not match the tab order. The sorted titles take the place of the last one,
// so non-sheet titles after them stay after them.
func (wb *Workbook) sortTitles() {
	var last *etree.Element
	sorted := true
	for _, s := range wb.sheets {
		if s.titleEntry == nil {
			continue
		}
		if last != nil && s.titleEntry.Index() < last.Index() {
			sorted = false
			continue
		}
		last = s.titleEntry
	}
	if sorted {
		return
	}
	v := wb.titles.Vector()
	anchor := last.NextSibling()
	for _, s := range wb.sheets {
		if s.titleEntry != nil {
			ooxml.Detach(s.titleEntry)
			ooxml.Attach(v, s.titleEntry, anchor)
		}
	}
	wb.logger.Info("sorted titles into display order")
}

// Package returns the underlying package.
func (wb *Workbook) Package() *ooxml.Package { return wb.pkg }

// Part returns the name of the workbook part.
func (wb *Workbook) Part() string { return wb.part }

// WriteTo writes the package as a zip archive.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) { return wb.pkg.WriteTo(w) }

// Sheets returns the sheets in display order.
func (wb *Workbook) Sheets() []*Sheet { return slices.Clone(wb.sheets) }

// Sheet returns the sheet called name, compared case-insensitively.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	if s := wb.lookup(name); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("sheet %q: %w", name, sheetmeta.ErrNotFound)
}

// SheetAt returns the sheet at the 1-based position pos.
func (wb *Workbook) SheetAt(pos uint) (*Sheet, error) {
	if pos < 1 || pos > uint(len(wb.sheets)) {
		return nil, fmt.Errorf("sheet #%d of %d: %w", pos, len(wb.sheets), sheetmeta.ErrOutOfRange)
	}
	return wb.sheets[pos-1], nil
}

func (wb *Workbook) lookup(name string) *Sheet {
	folded := sheetmeta.FoldName(name)
	for _, s := range wb.sheets {
		if sheetmeta.FoldName(s.name) == folded {
			return s
		}
	}
	return nil
}

// IsNameUnique reports whether no sheet is called candidate.
func (wb *Workbook) IsNameUnique(candidate string) bool { return wb.lookup(candidate) == nil }

// SiblingCount returns the number of sheets.
func (wb *Workbook) SiblingCount() uint { return uint(len(wb.sheets)) }

// ReindexAll renumbers the sheets 1..N in display order.
func (wb *Workbook) ReindexAll() {
	for i, s := range wb.sheets {
		s.index = uint(i + 1)
	}
}

// AllocateStoragePath returns a part name for a new sheet of type t that no
// part, content type override or workbook relationship uses yet.
func (wb *Workbook) AllocateStoragePath(t sheetmeta.SheetType) string {
	dir := path.Join(path.Dir(wb.part), t.Dir())
	for n := 1; ; n++ {
		name := path.Join(dir, "sheet"+strconv.Itoa(n)+".xml")
		if wb.pathFree(name) {
			return name
		}
	}
}

// partTaken reports whether name is a part, has a content type override or
// is the target of a workbook relationship.
func (wb *Workbook) partTaken(name string) bool {
	return wb.pkg.HasPart(name) ||
		wb.types.FindOverride(name) != nil ||
		wb.rels.FindByTarget(name, nil) != nil
}

// pathFree reports whether name and its relationships part are both unused.
func (wb *Workbook) pathFree(name string) bool {
	return !wb.partTaken(name) && !wb.pkg.HasPart(ooxml.RelsPathFor(name))
}

// AddSheet appends an empty sheet of type t.
func (wb *Workbook) AddSheet(name string, t sheetmeta.SheetType) (*Sheet, error) {
	return wb.CreateSheet(name, t, "", nil)
}

// InsertSheet creates an empty sheet of type t at the 1-based position pos;
// pos may be one past the last sheet.
func (wb *Workbook) InsertSheet(name string, t sheetmeta.SheetType, pos uint) (*Sheet, error) {
	if pos < 1 || pos > uint(len(wb.sheets))+1 {
		return nil, fmt.Errorf("insert %q at %d: %w", name, pos, sheetmeta.ErrOutOfRange)
	}
	return wb.create(name, t, "", nil, int(pos-1))
}

// CreateSheet appends a sheet of type t stored at storagePath with body as
// its XML. An empty storagePath is allocated with AllocateStoragePath and a
// nil body is replaced by the empty body of the type.
//
// The name must be valid and unused (ErrInvalidName, ErrDuplicateIdentifier)
// and storagePath must not be taken (ErrDuplicateIdentifier).
func (wb *Workbook) CreateSheet(name string, t sheetmeta.SheetType, storagePath string, body []byte) (*Sheet, error) {
	return wb.create(name, t, storagePath, body, len(wb.sheets))
}

func (wb *Workbook) create(name string, t sheetmeta.SheetType, storagePath string, body []byte, pos int) (*Sheet, error) {
	if err := wb.checkNewName(name); err != nil {
		return nil, err
	}
	var s *Sheet
	err := atomically(func(tx *txn) error {
		var err error
		s, err = wb.newSheet(tx, name, t, storagePath, body, pos)
		return err
	})
	if err != nil {
		return nil, err
	}
	wb.logger.Info("created", "sheet", s)
	return s, nil
}

func (wb *Workbook) checkNewName(name string) error {
	if err := sheetmeta.ValidateName(name); err != nil {
		return err
	}
	if !wb.IsNameUnique(name) {
		return fmt.Errorf("sheet %q: %w", name, sheetmeta.ErrDuplicateIdentifier)
	}
	return nil
}

// newSheet registers a new sheet at the 0-based position pos in all four
// documents and stores its body.
func (wb *Workbook) newSheet(tx *txn, name string, t sheetmeta.SheetType, storagePath string, body []byte, pos int) (*Sheet, error) {
	k, err := kindOf(t)
	if err != nil {
		return nil, err
	}
	if err := wb.checkNewName(name); err != nil {
		return nil, err
	}
	if storagePath == "" {
		storagePath = wb.AllocateStoragePath(t)
	} else if storagePath = ooxml.CleanName(storagePath); wb.partTaken(storagePath) {
		return nil, fmt.Errorf("sheet %q: part %s: %w", name, storagePath, sheetmeta.ErrDuplicateIdentifier)
	}
	if body == nil {
		body = []byte(k.body())
	}
	if wb.titles.Vector() == nil {
		tx.stage(wb.titles.EnsureVector())
	}

	s := &Sheet{
		wb: wb, name: name, typ: t, state: sheetmeta.Visible, path: storagePath,
		sheetID: wb.nextSheetID, relID: wb.rels.NextID(),
	}
	tx.stage(wb.pkg.AddPart(storagePath, body))

	var undo func()
	s.contentTypeEntry, undo = wb.types.AddOverride(storagePath, t.ContentType())
	tx.stage(undo)
	s.relationshipEntry, undo = wb.rels.Add(s.relID, t.RelationshipType(), wb.rels.TargetFor(storagePath))
	tx.stage(undo)

	var manifestBefore *etree.Element
	if pos < len(wb.sheets) {
		manifestBefore = wb.sheets[pos].manifestEntry
	}
	s.manifestEntry = wb.manifest.NewSheet(name, s.sheetID, s.relID, "")
	tx.stage(ooxml.Attach(wb.manifest.SheetsElement(), s.manifestEntry, manifestBefore))

	s.titleEntry = wb.titles.NewTitle(name)
	tx.stage(wb.titles.Insert(s.titleEntry, wb.titleAnchor(pos)))
	tx.stage(wb.titles.AdjustHeading(k.heading, 1))

	if pos < len(wb.sheets) {
		wb.remapSheetIndexes(tx, len(wb.sheets)+1, func(i int) (int, bool) {
			if i >= pos {
				return i + 1, true
			}
			return i, true
		})
	}
	tx.onCommit(func() {
		wb.nextSheetID++
		wb.sheets = slices.Insert(wb.sheets, pos, s)
		wb.ReindexAll()
	})
	return s, nil
}

// titleAnchor returns the title entry a sheet inserted at the 0-based
// position pos goes before; nil appends. Titles that do not belong to
// sheets, such as named ranges, stay after the sheet titles.
func (wb *Workbook) titleAnchor(pos int) *etree.Element {
	if pos < len(wb.sheets) {
		return wb.sheets[pos].titleEntry
	}
	if n := len(wb.sheets); n != 0 {
		return wb.sheets[n-1].titleEntry.NextSibling()
	}
	if entries := wb.titles.Entries(); len(entries) != 0 {
		return entries[0]
	}
	return nil
}

func (wb *Workbook) owns(s *Sheet) error {
	if err := s.usable(); err != nil {
		return err
	}
	if s.wb != wb {
		return fmt.Errorf("sheet %q belongs to another workbook: %w", s.name, sheetmeta.ErrNotFound)
	}
	return nil
}

func (wb *Workbook) visibleCount() int {
	var n int
	for _, s := range wb.sheets {
		if s.state == sheetmeta.Visible {
			n++
		}
	}
	return n
}

// SetState changes the visibility of s. Hiding the only visible sheet fails
// with ErrLastVisibleSheet. A sheet that gets hidden stops being the active tab.
func (wb *Workbook) SetState(s *Sheet, state sheetmeta.SheetState) error {
	if err := wb.owns(s); err != nil {
		return err
	}
	if !state.Valid() {
		return fmt.Errorf("state of %q: invalid state %v", s.name, state)
	}
	if state == s.state {
		return nil
	}
	if s.state == sheetmeta.Visible && wb.visibleCount() == 1 {
		return fmt.Errorf("hide %q: %w", s.name, sheetmeta.ErrLastVisibleSheet)
	}
	old := s.state
	err := atomically(func(tx *txn) error {
		if err := s.applyState(tx, state); err != nil {
			return err
		}
		if state != sheetmeta.Visible {
			wb.moveActiveTab(tx, s)
		}
		return nil
	})
	if err == nil {
		wb.logger.Debug("state changed", "sheet", s.name, "from", old, "to", state)
	}
	return err
}

// Move puts s at the 1-based position pos, shifting the sheets in between.
func (wb *Workbook) Move(s *Sheet, pos uint) error {
	if err := wb.owns(s); err != nil {
		return err
	}
	n := len(wb.sheets)
	if pos < 1 || pos > uint(n) {
		return fmt.Errorf("move %q to %d of %d: %w", s.name, pos, n, sheetmeta.ErrOutOfRange)
	}
	from, to := int(s.index-1), int(pos-1)
	if from == to {
		return nil
	}
	order := slices.Delete(slices.Clone(wb.sheets), from, from+1)
	order = slices.Insert(order, to, s)
	newIndex := make(map[*Sheet]int, n)
	for i, o := range order {
		newIndex[o] = i
	}

	err := atomically(func(tx *txn) error {
		if !ooxml.Attached(s.manifestEntry) || !ooxml.Attached(s.titleEntry) {
			return fmt.Errorf("move %q: manifest or title entry: %w", s.name, sheetmeta.ErrNotFound)
		}
		var next *Sheet
		if to+1 < n {
			next = order[to+1]
		}
		tx.stage(ooxml.Detach(s.manifestEntry))
		tx.stage(ooxml.Detach(s.titleEntry))
		if next != nil {
			tx.stage(ooxml.Attach(wb.manifest.SheetsElement(), s.manifestEntry, next.manifestEntry))
			tx.stage(ooxml.Attach(wb.titles.Vector(), s.titleEntry, next.titleEntry))
		} else {
			tx.stage(ooxml.Attach(wb.manifest.SheetsElement(), s.manifestEntry, nil))
			tx.stage(ooxml.Attach(wb.titles.Vector(), s.titleEntry, order[to-1].titleEntry.NextSibling()))
		}
		wb.remapSheetIndexes(tx, n, func(i int) (int, bool) { return newIndex[wb.sheets[i]], true })
		tx.onCommit(func() {
			wb.sheets = order
			wb.ReindexAll()
		})
		return nil
	})
	if err == nil {
		wb.logger.Debug("moved", "sheet", s.name, "from", from+1, "to", pos)
	}
	return err
}

// Delete removes s from all four documents and drops its part. The last
// visible sheet cannot be deleted (ErrLastVisibleSheet). When something
// other than the sheet's own entries still refers to it, Delete fails with
// ErrDanglingReference and changes nothing. Deleting an already deleted
// sheet is a no-op.
func (wb *Workbook) Delete(s *Sheet) error {
	if s != nil && s.wb == wb && s.deleted {
		return nil
	}
	if err := wb.owns(s); err != nil {
		return err
	}
	if len(wb.sheets) == 1 || (s.state == sheetmeta.Visible && wb.visibleCount() == 1) {
		return fmt.Errorf("delete %q: %w", s.name, sheetmeta.ErrLastVisibleSheet)
	}
	pos := int(s.index - 1)
	err := atomically(func(tx *txn) error {
		if err := s.remove(tx); err != nil {
			return fmt.Errorf("delete %q: %w", s.name, err)
		}
		wb.remapSheetIndexes(tx, len(wb.sheets)-1, func(i int) (int, bool) {
			switch {
			case i == pos:
				return 0, false
			case i > pos:
				return i - 1, true
			}
			return i, true
		})
		wb.activateVisible(tx, slices.Delete(slices.Clone(wb.sheets), pos, pos+1))
		tx.onCommit(func() {
			s.deleted = true
			wb.sheets = slices.Delete(wb.sheets, pos, pos+1)
			wb.ReindexAll()
		})
		return nil
	})
	if err == nil {
		wb.logger.Info("deleted", "sheet", s.name, "path", s.path)
	}
	return err
}

// Clone appends a copy of src named newName. The body is copied deeply;
// related parts are copied, shared or left out depending on the sheet type:
// drawings and charts are copied, tables, comments and pivot tables are left
// out, images and printer settings are shared. The copy is visible and gets
// a fresh storage path, relationship id and sheetId.
func (wb *Workbook) Clone(src *Sheet, newName string) (*Sheet, error) {
	if err := wb.owns(src); err != nil {
		return nil, err
	}
	if err := wb.checkNewName(newName); err != nil {
		return nil, fmt.Errorf("clone %q: %w", src.name, err)
	}
	var clone *Sheet
	err := atomically(func(tx *txn) error {
		dst := wb.AllocateStoragePath(src.typ)
		body, err := kinds[src.typ].cloneBody(wb, tx, src.path, dst)
		if err != nil {
			return fmt.Errorf("clone %q: %w", src.name, err)
		}
		clone, err = wb.newSheet(tx, newName, src.typ, dst, body, len(wb.sheets))
		return err
	})
	if err != nil {
		return nil, err
	}
	wb.logger.Info("cloned", "from", src.name, "sheet", clone)
	return clone, nil
}
