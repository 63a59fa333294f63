// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetmeta

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the charset scripts are assumed to be in, taken from LANG.
var EncName = charsetOfLocale(os.Getenv("LANG"))

// charsetOfLocale returns the codeset of a POSIX locale name
// (language_TERRITORY.codeset@modifier), "utf-8" when it has none.
func charsetOfLocale(locale string) string {
	_, codeset, ok := strings.Cut(locale, ".")
	codeset, _, _ = strings.Cut(codeset, "@")
	if !ok || codeset == "" {
		return "utf-8"
	}
	return strings.ToLower(codeset)
}

// GetEncoding returns the encoding known under name, nil for UTF-8.
func GetEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// Command is one line of a script: an operation name and its arguments.
type Command struct {
	Line int
	Op   string
	Args []string
}

func (c Command) String() string {
	return fmt.Sprintf("%d: %s %q", c.Line, c.Op, c.Args)
}

// ErrScript is returned for lines that cannot be read as a Command.
var ErrScript = errors.New("bad script line")

// ScriptReader reads Commands from delimited text,
// one per record: the operation, then its arguments.
// Lines starting with # and empty lines are skipped.
type ScriptReader struct {
	cr *csv.Reader
	io.Closer
}

// OpenScriptFile opens fn on fsys as a script; "" or "-" means stdin.
func OpenScriptFile(fsys afero.Fs, fn, encName string) (*ScriptReader, error) {
	if fn == "" || fn == "-" {
		return OpenScript(io.NopCloser(os.Stdin), encName)
	}
	fh, err := fsys.Open(fn)
	if err != nil {
		return nil, err
	}
	sr, err := OpenScript(fh, encName)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return sr, nil
}

// OpenScript decodes r from encName and sniffs the field separator.
func OpenScript(r io.ReadCloser, encName string) (*ScriptReader, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return nil, err
		}
	}
	var rd io.Reader = r
	if enc != nil {
		rd = enc.NewDecoder().Reader(r)
	}
	br := bufio.NewReaderSize(rd, 1<<16)
	b, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffSeparator(b)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &ScriptReader{cr: cr, Closer: r}, nil
}

// sniffSeparator returns the first rune after the operation name on the
// first command line, ',' if there is none.
func sniffSeparator(b []byte) rune {
	for len(b) != 0 {
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line, b = b[:i], b[i+1:]
		} else {
			b = nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		for _, r := range string(line) {
			if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
				continue
			}
			return r
		}
		break
	}
	return ','
}

// Next returns the next Command, or io.EOF at the end.
func (sr *ScriptReader) Next() (Command, error) {
	rec, err := sr.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Command{}, io.EOF
		}
		return Command{}, fmt.Errorf("%w: %w", ErrScript, err)
	}
	line, _ := sr.cr.FieldPos(0)
	op := strings.ToLower(strings.TrimSpace(rec[0]))
	if op == "" {
		return Command{}, fmt.Errorf("%d: no operation: %w", line, ErrScript)
	}
	args := make([]string, 0, len(rec)-1)
	for _, a := range rec[1:] {
		args = append(args, strings.TrimSpace(a))
	}
	// a trailing separator gives an empty last field
	for len(args) != 0 && args[len(args)-1] == "" {
		args = args[:len(args)-1]
	}
	return Command{Line: line, Op: op, Args: args}, nil
}

// ReadAll returns every remaining Command.
func (sr *ScriptReader) ReadAll() ([]Command, error) {
	var cmds []Command
	for {
		c, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return cmds, nil
		}
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, c)
	}
}
