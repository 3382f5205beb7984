package ooxml

import (
	"strings"
	"testing"
)

// newSourcePackage builds a source document with an image, a hyperlink
// and list numbering, exercising everything Compose must carry over.
func newSourcePackage() *Package {
	body := styledPara("Heading1", "Source title") +
		`<w:p><w:r><w:drawing><a:blip r:embed="rId4"/></w:drawing></w:r></w:p>` +
		`<w:p><w:hyperlink r:id="rId5"><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>` +
		testSectPr

	rels := xmlDecl +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>` +
		`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>` +
		`<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/>` +
		`</Relationships>`

	srcStyles := xmlDecl + `<w:styles ` + wpmlNamespaces + `>` +
		`<w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>` +
		`<w:style w:type="paragraph" w:styleId="SourceOnly"><w:name w:val="Source Only"/></w:style>` +
		`</w:styles>`

	numbering := xmlDecl + `<w:numbering ` + wpmlNamespaces + `>` +
		`<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>` +
		`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
		`</w:numbering>`

	ct := xmlDecl +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	return NewPackage([]Part{
		{Name: ContentTypesPart, Data: []byte(ct)},
		{Name: DocumentPart, Data: []byte(docXML(body))},
		{Name: DocumentRelsPart, Data: []byte(rels)},
		{Name: StylesPart, Data: []byte(srcStyles)},
		{Name: NumberingPart, Data: []byte(numbering)},
		{Name: "word/media/image1.png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
}

func TestCompose_AppendsContentBeforeTemplateSectPr(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("Template intro") + testSectPr)
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	doc := partString(tpl, DocumentPart)
	intro := strings.Index(doc, "Template intro")
	title := strings.Index(doc, "Source title")
	sect := strings.Index(doc, "<w:sectPr")
	if intro < 0 || title < 0 || sect < 0 {
		t.Fatalf("composed document incomplete:\n%s", doc)
	}
	if !(intro < title && title < sect) {
		t.Errorf("content order wrong: intro=%d title=%d sectPr=%d", intro, title, sect)
	}

	// The source's body-level sectPr is dropped, only the template's remains
	if got := strings.Count(doc, "<w:sectPr"); got != 1 {
		t.Errorf("sectPr count = %d, want 1:\n%s", got, doc)
	}
}

func TestCompose_CarriesImage(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("t") + testSectPr)
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if !tpl.Has("word/media/image1.png") {
		t.Fatal("media part not copied")
	}

	// The body reference now points at a template-local relationship
	doc := partString(tpl, DocumentPart)
	if strings.Contains(doc, `r:embed="rId4"`) {
		t.Errorf("image reference not remapped:\n%s", doc)
	}
	rels := partString(tpl, DocumentRelsPart)
	if !strings.Contains(rels, `Target="media/image1.png"`) {
		t.Errorf("image relationship missing:\n%s", rels)
	}
	ct := partString(tpl, ContentTypesPart)
	if !strings.Contains(ct, `Extension="png"`) {
		t.Errorf("png content type missing:\n%s", ct)
	}
}

func TestCompose_CarriesExternalHyperlink(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("t") + testSectPr)
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	rels := partString(tpl, DocumentRelsPart)
	if !strings.Contains(rels, `Target="https://example.com/"`) {
		t.Errorf("hyperlink relationship missing:\n%s", rels)
	}
	if !strings.Contains(rels, `TargetMode="External"`) {
		t.Errorf("hyperlink not marked external:\n%s", rels)
	}

	// Remapped reference must resolve in the new rels part
	doc := partString(tpl, DocumentPart)
	hyperlink := doc[strings.Index(doc, "<w:hyperlink"):]
	idStart := strings.Index(hyperlink, `r:id="`) + len(`r:id="`)
	id := hyperlink[idStart : idStart+strings.Index(hyperlink[idStart:], `"`)]
	if !strings.Contains(rels, `Id="`+id+`"`) {
		t.Errorf("hyperlink reference %q unresolved in rels:\n%s", id, rels)
	}
}

func TestCompose_AdoptsNumberingWhenTemplateHasNone(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("t") + testSectPr)
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	num := partString(tpl, NumberingPart)
	if !strings.Contains(num, `<w:num w:numId="1">`) {
		t.Errorf("numbering not adopted:\n%s", num)
	}
	rels := partString(tpl, DocumentRelsPart)
	if !strings.Contains(rels, `Target="numbering.xml"`) {
		t.Errorf("numbering relationship missing:\n%s", rels)
	}
	// References unchanged when adopted wholesale
	doc := partString(tpl, DocumentPart)
	if !strings.Contains(doc, `<w:numId w:val="1"/>`) {
		t.Errorf("numId reference changed:\n%s", doc)
	}
}

func TestCompose_OffsetsNumberingOnCollision(t *testing.T) {
	t.Parallel()

	tplNumbering := xmlDecl + `<w:numbering ` + wpmlNamespaces + `>` +
		`<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>` +
		`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
		`</w:numbering>`

	tpl := newTestPackage(para("t") + testSectPr)
	tpl.SetPart(NumberingPart, []byte(tplNumbering))
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	num := partString(tpl, NumberingPart)
	// Template's definitions survive untouched
	if !strings.Contains(num, `<w:num w:numId="1">`) {
		t.Errorf("template numbering lost:\n%s", num)
	}
	// Source's definitions shifted past the template's max ID
	if !strings.Contains(num, `<w:num w:numId="3">`) {
		t.Errorf("source numbering not offset:\n%s", num)
	}
	if !strings.Contains(num, `w:abstractNumId="2"`) {
		t.Errorf("source abstractNum not offset:\n%s", num)
	}
	// Body references follow the shift
	doc := partString(tpl, DocumentPart)
	if !strings.Contains(doc, `<w:numId w:val="3"/>`) {
		t.Errorf("numId reference not rewritten:\n%s", doc)
	}
}

func TestCompose_StripsEmbeddedHeaderFooterRefs(t *testing.T) {
	t.Parallel()

	// A mid-document section break carrying the source's own header
	// reference. The header part is never copied, so the reference must
	// not survive the compose.
	body := para("First section") +
		`<w:p><w:pPr><w:sectPr>` +
		`<w:headerReference w:type="default" r:id="rId7"/>` +
		`<w:footerReference w:type="default" r:id="rId8"/>` +
		`<w:pgSz w:w="12240" w:h="15840"/>` +
		`</w:sectPr></w:pPr></w:p>` +
		para("Second section") +
		testSectPr

	src := NewPackage([]Part{
		{Name: ContentTypesPart, Data: []byte(testContentTypesXML)},
		{Name: DocumentPart, Data: []byte(docXML(body))},
		{Name: DocumentRelsPart, Data: []byte(testDocumentRelsXML)},
		{Name: StylesPart, Data: []byte(testStylesXML)},
	})
	tpl := newTestPackage(para("t") + testSectPr)

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	doc := partString(tpl, DocumentPart)
	if strings.Contains(doc, "headerReference") || strings.Contains(doc, "footerReference") {
		t.Errorf("carried section break still references header/footer parts:\n%s", doc)
	}
	// The embedded section break itself survives
	if !strings.Contains(doc, `<w:pgSz w:w="12240" w:h="15840"/>`) {
		t.Errorf("embedded section break lost:\n%s", doc)
	}
}

func TestCompose_CarriesMissingStyles(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("t") + testSectPr)
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	styles := partString(tpl, StylesPart)
	if !strings.Contains(styles, `w:styleId="SourceOnly"`) {
		t.Errorf("source-only style not carried:\n%s", styles)
	}
	// Template's own definition wins on collision
	if got := strings.Count(styles, `w:styleId="Heading1"`); got != 1 {
		t.Errorf("Heading1 defined %d times, want 1:\n%s", got, styles)
	}
}

func TestCompose_MediaNameCollision(t *testing.T) {
	t.Parallel()

	tpl := newTestPackage(para("t") + testSectPr)
	tpl.SetPart("word/media/image1.png", []byte("template image"))
	src := newSourcePackage()

	if err := Compose(tpl, src); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got := partString(tpl, "word/media/image1.png"); got != "template image" {
		t.Errorf("template media overwritten: %q", got)
	}
	if !tpl.Has("word/media/image1_1.png") {
		t.Errorf("source media not renamed, media = %v", tpl.MediaNames())
	}
	rels := partString(tpl, DocumentRelsPart)
	if !strings.Contains(rels, `Target="media/image1_1.png"`) {
		t.Errorf("renamed media relationship missing:\n%s", rels)
	}
}

func TestResolvePartTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		want   string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"styles.xml", "word/styles.xml"},
		{"../customXml/item1.xml", "customXml/item1.xml"},
		{"/word/media/image1.png", "word/media/image1.png"},
	}

	for _, tt := range tests {
		if got := resolvePartTarget(tt.target); got != tt.want {
			t.Errorf("resolvePartTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
