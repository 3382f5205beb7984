package docxrefit

import (
	"strings"
	"testing"

	"github.com/alnah/go-docxrefit/internal/ooxml"
)

func TestDefaultTemplateBytes(t *testing.T) {
	t.Parallel()

	data, err := DefaultTemplateBytes()
	if err != nil {
		t.Fatalf("DefaultTemplateBytes() error = %v", err)
	}

	pkg, err := ooxml.OpenPackage(data)
	if err != nil {
		t.Fatalf("built-in template is not a valid docx: %v", err)
	}

	for _, name := range []string{
		ooxml.ContentTypesPart,
		ooxml.DocumentPart,
		ooxml.DocumentRelsPart,
		ooxml.StylesPart,
		"word/header1.xml",
		"word/footer1.xml",
	} {
		if !pkg.Has(name) {
			t.Errorf("template missing part %s", name)
		}
	}

	doc, _ := pkg.Part(ooxml.DocumentPart)
	if !strings.Contains(string(doc), `<w:pgSz w:w="11906" w:h="16838"/>`) {
		t.Error("template is not A4 portrait")
	}
}

func TestDefaultTemplate_IndependentCopies(t *testing.T) {
	t.Parallel()

	first, err := defaultTemplate()
	if err != nil {
		t.Fatalf("defaultTemplate() error = %v", err)
	}
	first.SetPart(ooxml.DocumentPart, []byte("mutated"))

	second, err := defaultTemplate()
	if err != nil {
		t.Fatalf("defaultTemplate() error = %v", err)
	}
	if data, _ := second.Part(ooxml.DocumentPart); string(data) == "mutated" {
		t.Error("template copies share state")
	}
}
