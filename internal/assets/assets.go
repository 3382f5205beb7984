// Package assets embeds the built-in layout template.
//
// The template is stored as its unzipped OOXML parts so they stay
// reviewable as plain XML; the ooxml layer zips them into a .docx at
// load time.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed all:template
var templateFS embed.FS

// TemplatePart is one file of the built-in template package.
type TemplatePart struct {
	Name string
	Data []byte
}

// partOrder fixes the archive order of the built-in template. Word does
// not require an order, but a stable one keeps output deterministic.
var partOrder = map[string]int{
	"[Content_Types].xml":          0,
	"_rels/.rels":                  1,
	"word/document.xml":            2,
	"word/_rels/document.xml.rels": 3,
	"word/styles.xml":              4,
	"word/header1.xml":             5,
	"word/footer1.xml":             6,
}

// DefaultTemplateParts returns the built-in template's parts in
// archive order.
func DefaultTemplateParts() ([]TemplatePart, error) {
	var parts []TemplatePart
	err := fs.WalkDir(templateFS, "template", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := templateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded part %s: %w", path, err)
		}
		parts = append(parts, TemplatePart{Name: path[len("template/"):], Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(parts, func(i, j int) bool {
		oi, iok := partOrder[parts[i].Name]
		oj, jok := partOrder[parts[j].Name]
		if iok && jok {
			return oi < oj
		}
		if iok != jok {
			return iok
		}
		return parts[i].Name < parts[j].Name
	})
	return parts, nil
}
