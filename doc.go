// Package docxrefit composes legacy .docx documents into a layout
// template and applies page setup, header/footer, style mappings and
// regex text replacements.
//
// Basic usage:
//
//	svc := docxrefit.New()
//	out, err := svc.Refit(ctx, docxrefit.Input{Source: data})
//
// The zero Input refits a document into the built-in template without
// further changes. Each option (Page, HeaderFooter, StyleMap,
// Replacements) is independent and optional.
package docxrefit
