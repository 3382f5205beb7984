package docxrefit

import (
	"fmt"

	"github.com/alnah/go-docxrefit/internal/assets"
	"github.com/alnah/go-docxrefit/internal/ooxml"
)

// defaultTemplate returns a fresh copy of the built-in layout template:
// A4 portrait, 20/15/20/25mm margins, Calibri body, "New Layout" header
// and "Confidential" footer.
//
// Each call builds an independent package; mutating the result does not
// affect later calls.
func defaultTemplate() (*ooxml.Package, error) {
	tplParts, err := assets.DefaultTemplateParts()
	if err != nil {
		return nil, fmt.Errorf("loading built-in template: %w", err)
	}
	parts := make([]ooxml.Part, len(tplParts))
	for i, p := range tplParts {
		parts[i] = ooxml.Part{Name: p.Name, Data: p.Data}
	}
	return ooxml.NewPackage(parts), nil
}

// DefaultTemplateBytes returns the built-in template as a complete
// .docx file, usable as a starting point for custom templates.
func DefaultTemplateBytes() ([]byte, error) {
	tpl, err := defaultTemplate()
	if err != nil {
		return nil, err
	}
	return tpl.Bytes()
}
