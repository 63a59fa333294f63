// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetmeta

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
)

// ValidateName checks the sheet naming rules spreadsheet applications enforce.
// The returned error wraps both ErrInvalidName and the matching excelize error.
func ValidateName(name string) error {
	var err error
	switch {
	case name == "":
		err = excelize.ErrSheetNameBlank
	case len(utf16.Encode([]rune(name))) > excelize.MaxSheetNameLength:
		err = excelize.ErrSheetNameLength
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		err = excelize.ErrSheetNameSingleQuote
	case strings.ContainsAny(name, ":\\/?*[]"):
		err = excelize.ErrSheetNameInvalid
	case SameName(name, "History"):
		err = fmt.Errorf("%q is reserved", name)
	default:
		return nil
	}
	return fmt.Errorf("%q: %w: %w", name, ErrInvalidName, err)
}

// FoldName returns the case-folded form used to compare sheet names.
func FoldName(name string) string {
	// A Caser keeps state, so a fresh one is used for every call.
	return cases.Fold().String(name)
}

// SameName reports whether a and b name the same sheet.
func SameName(a, b string) bool { return FoldName(a) == FoldName(b) }

// QuoteName returns name as it must appear in a formula reference.
func QuoteName(name string) string {
	if !needsQuote(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// cellRefName matches names a formula would read as a cell reference:
// A1 style (XFD1048576) or R1C1 style (R, C2, RC, R1C1).
var cellRefName = regexp.MustCompile(`^(?i:[a-z]{1,3}[0-9]+|r[0-9]*c?[0-9]*|c[0-9]*)$`)

func needsQuote(name string) bool {
	if name == "" || cellRefName.MatchString(name) {
		return true
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return true
		}
		if !(r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return true
		}
	}
	return false
}

// RenameRefs rewrites the sheet references to oldName in formula to newName.
// String literals are left alone.
func RenameRefs(formula, oldName, newName string) string {
	if oldName == "" || !strings.Contains(formula, "!") {
		return formula
	}
	quotedOld := "'" + strings.ReplaceAll(oldName, "'", "''") + "'!"
	plainOld := oldName + "!"
	repl := QuoteName(newName) + "!"

	var buf strings.Builder
	buf.Grow(len(formula))
	for i := 0; i < len(formula); {
		c := formula[i]
		switch {
		case c == '"':
			j := skipQuoted(formula, i, '"')
			buf.WriteString(formula[i:j])
			i = j
		case c == '\'':
			if hasPrefixFold(formula[i:], quotedOld) {
				buf.WriteString(repl)
				i += len(quotedOld)
				continue
			}
			j := skipQuoted(formula, i, '\'')
			buf.WriteString(formula[i:j])
			i = j
		case hasPrefixFold(formula[i:], plainOld) && (i == 0 || !isNameByte(formula[i-1])):
			buf.WriteString(repl)
			i += len(plainOld)
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return buf.String()
}

// skipQuoted returns the index just past the literal starting at s[i],
// treating a doubled quote as an escaped one.
func skipQuoted(s string, i int, q byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || c >= 0x80 ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
