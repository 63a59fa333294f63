// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx reads and writes workbook packages on a file system and
// cross-checks written packages with an independent reader.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/workbook"
)

// OpenFile reads the named package from fsys.
func OpenFile(fsys afero.Fs, name string, opts ...workbook.Option) (*workbook.Workbook, error) {
	fh, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	fi, err := fh.Stat()
	if err != nil {
		return nil, err
	}
	wb, err := workbook.Open(fh, fi.Size(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return wb, nil
}

// SaveFile checks wb and writes it to name.
//
// The package is written to a temporary file next to name first,
// so a failed write leaves the old file intact.
func SaveFile(fsys afero.Fs, name string, wb *workbook.Workbook) error {
	if err := wb.Verify(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fh, err := afero.TempFile(fsys, filepath.Dir(name), "."+filepath.Base(name)+"-*")
	if err != nil {
		return err
	}
	tmp := fh.Name()
	if _, err = wb.WriteTo(fh); err != nil {
		fh.Close()
		_ = fsys.Remove(tmp)
		return fmt.Errorf("%s: %w", name, err)
	}
	if err = fh.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err = fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// ErrMismatch is returned by Verify when the independent reader sees the
// package differently.
var ErrMismatch = errors.New("reader mismatch")

// Verify serializes wb and reads it back with excelize,
// comparing the sheet list and visibility with what wb reports.
func Verify(wb *workbook.Workbook) error {
	if err := wb.Verify(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return err
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return fmt.Errorf("excelize: %w", err)
	}
	defer f.Close()

	var errs *multierror.Error
	sheets := wb.Sheets()
	list := f.GetSheetList()
	if len(list) != len(sheets) {
		errs = multierror.Append(errs, fmt.Errorf("excelize sees %d sheets, not %d: %w", len(list), len(sheets), ErrMismatch))
	}
	for i, s := range sheets {
		if i >= len(list) {
			break
		}
		if list[i] != s.Name() {
			errs = multierror.Append(errs, fmt.Errorf("sheet #%d: excelize sees %q, not %q: %w", s.Index(), list[i], s.Name(), ErrMismatch))
			continue
		}
		visible, err := f.GetSheetVisible(s.Name())
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sheet %q: %w", s.Name(), err))
			continue
		}
		if visible != (s.State() == sheetmeta.Visible) {
			errs = multierror.Append(errs, fmt.Errorf("sheet %q: excelize sees visible=%t, state is %s: %w", s.Name(), visible, s.State(), ErrMismatch))
		}
	}
	return errs.ErrorOrNil()
}
