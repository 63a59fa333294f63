// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package ooxml holds the parts of an Open Packaging Conventions container
// and typed views of the XML documents that describe its sheets.
package ooxml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
)

// Well-known part names.
const (
	PathContentTypes = "[Content_Types].xml"
	PathRootRels     = "_rels/.rels"
	PathApp          = "docProps/app.xml"
	PathCore         = "docProps/core.xml"
)

// Package is an in-memory OPC package: part name -> content.
//
// Parts that were parsed with Document are serialized from their tree on
// write, so changes made through the tree are kept.
//
// Package is not safe for concurrent use.
type Package struct {
	parts map[string][]byte
	docs  map[string]*etree.Document
	order []string
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{parts: make(map[string][]byte), docs: make(map[string]*etree.Document)}
}

// ReadPackage reads all parts of the ZIP archive in r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("ooxml: open zip: %w", err)
	}
	p := NewPackage()
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("ooxml: open %q: %w", f.Name, err)
		}
		data, readErr := io.ReadAll(rc)
		closeErr := rc.Close()
		if readErr != nil {
			return nil, fmt.Errorf("ooxml: read %q: %w", f.Name, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("ooxml: read %q: %w", f.Name, closeErr)
		}
		p.SetPart(f.Name, data)
	}
	return p, nil
}

// WriteTo writes the package as a ZIP archive, parts in insertion order.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, name := range p.order {
		data, err := p.Part(name)
		if err != nil {
			return cw.n, err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return cw.n, fmt.Errorf("ooxml: create %q: %w", name, err)
		}
		if _, err = fw.Write(data); err != nil {
			return cw.n, fmt.Errorf("ooxml: write %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("ooxml: close zip: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the ZIP archive of the package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CleanName turns a part name or an absolute part URI into the key used by
// Package: no leading slash, cleaned.
func CleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// HasPart reports whether name exists. Part names compare case-insensitively.
func (p *Package) HasPart(name string) bool {
	_, ok := p.lookup(name)
	return ok
}

func (p *Package) lookup(name string) (string, bool) {
	name = CleanName(name)
	if _, ok := p.parts[name]; ok {
		return name, true
	}
	for k := range p.parts {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return name, false
}

// Part returns the content of name.
func (p *Package) Part(name string) ([]byte, error) {
	key, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("ooxml: part %q: %w", name, ErrNoPart)
	}
	if doc := p.docs[key]; doc != nil {
		b, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("ooxml: serialize %q: %w", key, err)
		}
		return b, nil
	}
	return p.parts[key], nil
}

// SetPart stores data under name, replacing any parsed tree of it.
func (p *Package) SetPart(name string, data []byte) {
	key, ok := p.lookup(name)
	if !ok {
		p.order = append(p.order, key)
	}
	p.parts[key] = data
	delete(p.docs, key)
}

// RemovePart removes name and returns a function that restores it.
// Removing a missing part is a no-op.
func (p *Package) RemovePart(name string) (undo func()) {
	key, ok := p.lookup(name)
	if !ok {
		return func() {}
	}
	data, doc := p.parts[key], p.docs[key]
	i := slices.Index(p.order, key)
	delete(p.parts, key)
	delete(p.docs, key)
	p.order = slices.Delete(p.order, i, i+1)
	return func() {
		p.parts[key] = data
		if doc != nil {
			p.docs[key] = doc
		}
		p.order = slices.Insert(p.order, i, key)
	}
}

// AddPart stores a new part and returns a function that removes it again.
func (p *Package) AddPart(name string, data []byte) (undo func()) {
	p.SetPart(name, data)
	return func() { p.RemovePart(name) }
}

// Parts returns the part names in insertion order.
func (p *Package) Parts() []string { return slices.Clone(p.order) }

// Document returns the parsed tree of the XML part name, parsing it on first use.
func (p *Package) Document(name string) (*etree.Document, error) {
	key, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("ooxml: part %q: %w", name, ErrNoPart)
	}
	if doc := p.docs[key]; doc != nil {
		return doc, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(p.parts[key]); err != nil {
		return nil, fmt.Errorf("ooxml: parse %q: %w", key, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("ooxml: parse %q: no root element", key)
	}
	p.docs[key] = doc
	return doc, nil
}

// ErrNoPart is returned for a part name that is not in the package.
var ErrNoPart = errors.New("no such part")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
