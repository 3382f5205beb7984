package ooxml

// Shared fixtures for building minimal WordprocessingML packages.

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const testContentTypesXML = xmlDecl +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const testDocumentRelsXML = xmlDecl +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const testStylesXML = xmlDecl +
	`<w:styles ` + wpmlNamespaces + `>` +
	`<w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/></w:style>` +
	`</w:styles>`

// docXML wraps body content in a minimal document part.
func docXML(body string) string {
	return xmlDecl + `<w:document ` + wpmlNamespaces + `><w:body>` + body + `</w:body></w:document>`
}

// para builds a one-run paragraph.
func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// styledPara builds a paragraph with a pStyle reference.
func styledPara(styleID, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + styleID + `"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// testSectPr is a body-level section with A4 portrait geometry.
const testSectPr = `<w:sectPr>` +
	`<w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
	`</w:sectPr>`

// newTestPackage builds a package with document, styles, rels and
// content-type parts around the given body content.
func newTestPackage(body string) *Package {
	return NewPackage([]Part{
		{Name: ContentTypesPart, Data: []byte(testContentTypesXML)},
		{Name: "_rels/.rels", Data: []byte(xmlDecl +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`)},
		{Name: DocumentPart, Data: []byte(docXML(body))},
		{Name: DocumentRelsPart, Data: []byte(testDocumentRelsXML)},
		{Name: StylesPart, Data: []byte(testStylesXML)},
	})
}

// partString returns a part's bytes as string, empty if absent.
func partString(pkg *Package, name string) string {
	data, _ := pkg.Part(name)
	return string(data)
}
