// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/workbook"
)

// operation is a sheet edit available both as a subcommand and as a script line.
type operation struct {
	name, usage, help string
	min, max          int
	do                func(wb *workbook.Workbook, args []string) error
}

var operations = []operation{
	{"add", "NAME [TYPE [POS]]", "add a sheet; TYPE is worksheet (default), chartsheet, dialogsheet or macrosheet", 1, 3, doAdd},
	{"rename", "NAME NEW", "rename a sheet", 2, 2, doRename},
	{"hide", "NAME [hidden|veryHidden]", "hide a sheet", 1, 2, doHide},
	{"show", "NAME", "make a sheet visible", 1, 1, doShow},
	{"move", "NAME POS", "move a sheet to the 1-based position POS", 2, 2, doMove},
	{"clone", "NAME NEW", "copy a sheet to the end under a new name", 2, 2, doClone},
	{"delete", "NAME", "delete a sheet", 1, 1, doDelete},
}

func lookupOperation(name string) (operation, bool) {
	for _, op := range operations {
		if strings.EqualFold(op.name, name) {
			return op, true
		}
	}
	return operation{}, false
}

func (op operation) run(wb *workbook.Workbook, args []string) error {
	if len(args) < op.min || len(args) > op.max {
		return fmt.Errorf("%s %s: got %d arguments: %w", op.name, op.usage, len(args), sheetmeta.ErrScript)
	}
	if err := op.do(wb, args); err != nil {
		return fmt.Errorf("%s %q: %w", op.name, args, err)
	}
	return nil
}

func parsePos(s string) (uint, error) {
	pos, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", s, sheetmeta.ErrOutOfRange)
	}
	return uint(pos), nil
}

func doAdd(wb *workbook.Workbook, args []string) error {
	typ := sheetmeta.WorkSheet
	if len(args) > 1 && args[1] != "" {
		var err error
		if typ, err = sheetmeta.ParseSheetType(strings.ToLower(args[1])); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		pos, err := parsePos(args[2])
		if err != nil {
			return err
		}
		_, err = wb.InsertSheet(args[0], typ, pos)
		return err
	}
	_, err := wb.AddSheet(args[0], typ)
	return err
}

func doRename(wb *workbook.Workbook, args []string) error {
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	return s.Rename(args[1])
}

func doHide(wb *workbook.Workbook, args []string) error {
	state := sheetmeta.Hidden
	if len(args) > 1 {
		var err error
		if state, err = sheetmeta.ParseSheetState(args[1]); err != nil {
			return err
		}
	}
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	return s.SetState(state)
}

func doShow(wb *workbook.Workbook, args []string) error {
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	return s.SetState(sheetmeta.Visible)
}

func doMove(wb *workbook.Workbook, args []string) error {
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	pos, err := parsePos(args[1])
	if err != nil {
		return err
	}
	return wb.Move(s, pos)
}

func doClone(wb *workbook.Workbook, args []string) error {
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	_, err = s.Clone(args[1])
	return err
}

func doDelete(wb *workbook.Workbook, args []string) error {
	s, err := wb.Sheet(args[0])
	if err != nil {
		return err
	}
	return wb.Delete(s)
}
