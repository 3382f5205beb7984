// Package ooxml implements the WordprocessingML operations behind the
// refit pipeline: opening and rewriting .docx packages, composing one
// document into another, and editing sections, headers/footers, styles,
// and run text.
//
// Parts are treated as opaque bytes; only the parts an operation touches
// are rewritten, so everything else round-trips byte-for-byte.
package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Well-known part names inside a .docx package.
const (
	ContentTypesPart = "[Content_Types].xml"
	DocumentPart     = "word/document.xml"
	DocumentRelsPart = "word/_rels/document.xml.rels"
	StylesPart       = "word/styles.xml"
	NumberingPart    = "word/numbering.xml"
)

// Part is a single file inside the .docx zip archive.
type Part struct {
	Name string
	Data []byte
}

// Package is an ordered collection of parts loaded from a .docx archive.
// Order is preserved on write so untouched packages rewrite identically.
type Package struct {
	parts []*Part
	index map[string]*Part
}

// OpenPackage reads a .docx archive from memory.
// Returns ErrNotDocx if the data is not a zip archive, and
// ErrMissingDocumentPart if word/document.xml is absent.
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	pkg := &Package{index: make(map[string]*Part)}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue // directory entry
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		pkg.add(f.Name, data)
	}

	if !pkg.Has(DocumentPart) {
		return nil, ErrMissingDocumentPart
	}
	return pkg, nil
}

// NewPackage builds a package from parts in the given order.
// Intended for template construction; no document.xml check is applied.
func NewPackage(parts []Part) *Package {
	pkg := &Package{index: make(map[string]*Part)}
	for _, p := range parts {
		pkg.add(p.Name, p.Data)
	}
	return pkg
}

func (p *Package) add(name string, data []byte) {
	if existing, ok := p.index[name]; ok {
		existing.Data = data
		return
	}
	part := &Part{Name: name, Data: data}
	p.parts = append(p.parts, part)
	p.index[name] = part
}

// Has reports whether a part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Part returns the raw bytes of a part.
func (p *Package) Part(name string) ([]byte, bool) {
	part, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return part.Data, true
}

// SetPart adds or replaces a part. New parts are appended after the
// existing ones, keeping the original archive order stable.
func (p *Package) SetPart(name string, data []byte) {
	p.add(name, data)
}

// Names returns all part names in archive order.
func (p *Package) Names() []string {
	names := make([]string, len(p.parts))
	for i, part := range p.parts {
		names[i] = part.Name
	}
	return names
}

// MediaNames returns the names of parts under word/media/, sorted.
func (p *Package) MediaNames() []string {
	var names []string
	for _, part := range p.parts {
		if strings.HasPrefix(part.Name, "word/media/") {
			names = append(names, part.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Bytes serializes the package back into a .docx zip archive.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range p.parts {
		w, err := zw.Create(part.Name)
		if err != nil {
			return nil, fmt.Errorf("creating zip entry %s: %w", part.Name, err)
		}
		if _, err := w.Write(part.Data); err != nil {
			return nil, fmt.Errorf("writing zip entry %s: %w", part.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}
