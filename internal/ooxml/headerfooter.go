package ooxml

import (
	"fmt"
	"regexp"
	"strings"
)

// HeaderFooterSpec describes the header/footer installed on every
// section. An empty HeaderText skips the header part; the footer part
// is created when FooterText is set or PageNumbers is requested.
type HeaderFooterSpec struct {
	HeaderText  string
	FooterText  string
	PageNumbers bool
}

const (
	headerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	footerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

const hdrFtrXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

const wpmlNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

var hdrFtrRefPattern = regexp.MustCompile(`<w:(?:header|footer)Reference[^>]*/>`)

// ApplyHeaderFooter synthesizes header/footer parts, registers their
// relationships and content types, and points every sectPr at them,
// replacing any references the document had before.
func ApplyHeaderFooter(pkg *Package, spec HeaderFooterSpec) error {
	wantHeader := spec.HeaderText != ""
	wantFooter := spec.FooterText != "" || spec.PageNumbers
	if !wantHeader && !wantFooter {
		return nil
	}

	data, ok := pkg.Part(DocumentPart)
	if !ok {
		return ErrMissingDocumentPart
	}

	var rels []relationship
	var overrides []contentTypeOverride
	var refs strings.Builder
	relID := nextRelID(relsString(pkg))

	if wantHeader {
		name := freePartName(pkg, "header")
		pkg.SetPart(name, []byte(headerXML(spec.HeaderText)))
		id := fmt.Sprintf("rId%d", relID)
		relID++
		rels = append(rels, relationship{ID: id, Type: relTypeHeader, Target: strings.TrimPrefix(name, "word/")})
		overrides = append(overrides, contentTypeOverride{PartName: "/" + name, ContentType: headerContentType})
		fmt.Fprintf(&refs, `<w:headerReference w:type="default" r:id="%s"/>`, id)
	}
	if wantFooter {
		name := freePartName(pkg, "footer")
		pkg.SetPart(name, []byte(footerXML(spec.FooterText, spec.PageNumbers)))
		id := fmt.Sprintf("rId%d", relID)
		relID++
		rels = append(rels, relationship{ID: id, Type: relTypeFooter, Target: strings.TrimPrefix(name, "word/")})
		overrides = append(overrides, contentTypeOverride{PartName: "/" + name, ContentType: footerContentType})
		fmt.Fprintf(&refs, `<w:footerReference w:type="default" r:id="%s"/>`, id)
	}

	if err := appendRelationships(pkg, DocumentRelsPart, rels); err != nil {
		return err
	}
	if err := appendContentTypes(pkg, nil, overrides); err != nil {
		return err
	}

	doc := forEachSectPr(string(data), func(sectPr string) string {
		sectPr = hdrFtrRefPattern.ReplaceAllString(sectPr, "")
		gt := strings.Index(sectPr, ">")
		if gt < 0 {
			return sectPr
		}
		return sectPr[:gt+1] + refs.String() + sectPr[gt+1:]
	})
	pkg.SetPart(DocumentPart, []byte(doc))
	return nil
}

func relsString(pkg *Package) string {
	data, _ := pkg.Part(DocumentRelsPart)
	return string(data)
}

// freePartName returns word/<kind>N.xml for the smallest unused N.
func freePartName(pkg *Package, kind string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("word/%s%d.xml", kind, n)
		if !pkg.Has(name) {
			return name
		}
	}
}

// headerXML builds a header part with a single left-aligned paragraph.
func headerXML(text string) string {
	return hdrFtrXMLHeader +
		`<w:hdr ` + wpmlNamespaces + `>` +
		`<w:p><w:pPr><w:pStyle w:val="Header"/><w:jc w:val="left"/></w:pPr>` +
		newTextRun("", text) +
		`</w:p></w:hdr>`
}

// footerXML builds a footer part with a right-aligned paragraph holding
// the footer text and, optionally, a PAGE field that Word updates on
// open or print.
func footerXML(text string, pageNumbers bool) string {
	var runs strings.Builder
	label := text
	if pageNumbers {
		if label != "" {
			label += " — "
		}
		label += "Page "
	}
	if label != "" {
		runs.WriteString(newTextRun("", label))
	}
	if pageNumbers {
		runs.WriteString(pageFieldRuns())
	}
	return hdrFtrXMLHeader +
		`<w:ftr ` + wpmlNamespaces + `>` +
		`<w:p><w:pPr><w:pStyle w:val="Footer"/><w:jc w:val="right"/></w:pPr>` +
		runs.String() +
		`</w:p></w:ftr>`
}

// pageFieldRuns emits the begin/instrText/separate/end run sequence of
// a PAGE field, with "1" as placeholder result text.
func pageFieldRuns() string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">PAGE</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
		`<w:r><w:t>1</w:t></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}
