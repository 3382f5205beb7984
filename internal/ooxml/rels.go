package ooxml

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Relationship types this package cares about.
const (
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeHyperlink   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeHeader      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeNumbering   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeStyles      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeFontTable   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	relTypeSettings    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relTypeWebSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings"
	relTypeFootnotes   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	relTypeEndnotes    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	relTypeCustomXML   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/customXml"
	relTypeGlossary    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/glossaryDocument"
)

// relationship mirrors a <Relationship> entry in a .rels part.
type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// relationshipsFile mirrors the root of a .rels part.
type relationshipsFile struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// parseRelationships decodes a .rels part. A missing part is treated as
// an empty set, since Word tolerates documents without one.
func parseRelationships(pkg *Package, name string) ([]relationship, error) {
	data, ok := pkg.Part(name)
	if !ok {
		return nil, nil
	}
	var rf relationshipsFile
	if err := xml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRels, name, err)
	}
	return rf.Rels, nil
}

var relIDPattern = regexp.MustCompile(`Id="rId(\d+)"`)

// nextRelID returns the next free rIdN in a .rels part.
func nextRelID(relsXML string) int {
	maxID := 0
	for _, m := range relIDPattern.FindAllStringSubmatch(relsXML, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

const emptyRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// appendRelationships inserts entries before </Relationships>, creating
// the part if the package has none.
func appendRelationships(pkg *Package, name string, entries []relationship) error {
	data, ok := pkg.Part(name)
	if !ok {
		data = []byte(emptyRelsXML)
	}
	relsXML := string(data)
	idx := strings.LastIndex(relsXML, "</Relationships>")
	if idx < 0 {
		return fmt.Errorf("%w: %s: no closing Relationships tag", ErrMalformedRels, name)
	}

	var sb strings.Builder
	sb.WriteString(relsXML[:idx])
	for _, rel := range entries {
		sb.WriteString(`<Relationship Id="`)
		sb.WriteString(escapeAttr(rel.ID))
		sb.WriteString(`" Type="`)
		sb.WriteString(escapeAttr(rel.Type))
		sb.WriteString(`" Target="`)
		sb.WriteString(escapeAttr(rel.Target))
		sb.WriteString(`"`)
		if rel.TargetMode != "" {
			sb.WriteString(` TargetMode="`)
			sb.WriteString(escapeAttr(rel.TargetMode))
			sb.WriteString(`"`)
		}
		sb.WriteString(`/>`)
	}
	sb.WriteString(relsXML[idx:])
	pkg.SetPart(name, []byte(sb.String()))
	return nil
}

// contentTypeDefault mirrors a <Default> entry in [Content_Types].xml.
type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypeOverride mirrors an <Override> entry in [Content_Types].xml.
type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypesFile mirrors the root of [Content_Types].xml.
type contentTypesFile struct {
	XMLName   xml.Name              `xml:"Types"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

// parseContentTypes decodes [Content_Types].xml.
func parseContentTypes(pkg *Package) (*contentTypesFile, error) {
	data, ok := pkg.Part(ContentTypesPart)
	if !ok {
		return &contentTypesFile{}, nil
	}
	var ct contentTypesFile
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", ContentTypesPart, err)
	}
	return &ct, nil
}

// appendContentTypes inserts Default and Override entries before
// </Types>, skipping extensions and part names already declared.
func appendContentTypes(pkg *Package, defaults []contentTypeDefault, overrides []contentTypeOverride) error {
	existing, err := parseContentTypes(pkg)
	if err != nil {
		return err
	}
	haveExt := make(map[string]bool, len(existing.Defaults))
	for _, d := range existing.Defaults {
		haveExt[strings.ToLower(d.Extension)] = true
	}
	havePart := make(map[string]bool, len(existing.Overrides))
	for _, o := range existing.Overrides {
		havePart[o.PartName] = true
	}

	data, ok := pkg.Part(ContentTypesPart)
	if !ok {
		return fmt.Errorf("missing %s part", ContentTypesPart)
	}
	ctXML := string(data)
	idx := strings.LastIndex(ctXML, "</Types>")
	if idx < 0 {
		return fmt.Errorf("malformed %s: no closing Types tag", ContentTypesPart)
	}

	var sb strings.Builder
	sb.WriteString(ctXML[:idx])
	for _, d := range defaults {
		if haveExt[strings.ToLower(d.Extension)] {
			continue
		}
		haveExt[strings.ToLower(d.Extension)] = true
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`,
			escapeAttr(d.Extension), escapeAttr(d.ContentType))
	}
	for _, o := range overrides {
		if havePart[o.PartName] {
			continue
		}
		havePart[o.PartName] = true
		fmt.Fprintf(&sb, `<Override PartName="%s" ContentType="%s"/>`,
			escapeAttr(o.PartName), escapeAttr(o.ContentType))
	}
	sb.WriteString(ctXML[idx:])
	pkg.SetPart(ContentTypesPart, []byte(sb.String()))
	return nil
}
