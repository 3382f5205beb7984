package ooxml

import (
	"regexp"
	"strings"
	"testing"
)

func rule(t *testing.T, pattern, replace string) ReplaceRule {
	t.Helper()
	return ReplaceRule{Pattern: regexp.MustCompile(pattern), Replace: replace}
}

func TestReplaceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		rules []ReplaceRule
		want  string
		skip  string // substring that must survive untouched
	}{
		{
			name:  "literal replacement",
			body:  para("ACME Corp annual report"),
			rules: []ReplaceRule{rule(t, "ACME Corp", "Example Ltd")},
			want:  ">Example Ltd annual report</w:t>",
		},
		{
			name:  "regex with groups",
			body:  para("Issued 2023-11-05"),
			rules: []ReplaceRule{rule(t, `(\d{4})-(\d{2})-(\d{2})`, "$3/$2/$1")},
			want:  ">Issued 05/11/2023</w:t>",
		},
		{
			name: "text split across runs",
			body: `<w:p><w:r><w:t>ACME</w:t></w:r><w:r><w:t xml:space="preserve"> Corp</w:t></w:r></w:p>`,
			rules: []ReplaceRule{
				rule(t, "ACME Corp", "Example Ltd"),
			},
			want: ">Example Ltd</w:t>",
		},
		{
			name:  "rules applied in order",
			body:  para("alpha"),
			rules: []ReplaceRule{rule(t, "alpha", "beta"), rule(t, "beta", "gamma")},
			want:  ">gamma</w:t>",
		},
		{
			name:  "escaped text round-trips",
			body:  para("a &amp; b"),
			rules: []ReplaceRule{rule(t, "a & b", "x < y")},
			want:  ">x &lt; y</w:t>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg := newTestPackage(tt.body + testSectPr)
			ReplaceText(pkg, tt.rules)

			doc := partString(pkg, DocumentPart)
			if !strings.Contains(doc, tt.want) {
				t.Errorf("document missing %q:\n%s", tt.want, doc)
			}
		})
	}
}

func TestReplaceText_SkipsNonTextParagraphs(t *testing.T) {
	t.Parallel()

	drawing := `<w:p><w:r><w:t>logo: ACME</w:t></w:r><w:r><w:drawing><wp:inline/></w:drawing></w:r></w:p>`
	pkg := newTestPackage(drawing + para("ACME text") + testSectPr)

	ReplaceText(pkg, []ReplaceRule{rule(t, "ACME", "Example")})

	doc := partString(pkg, DocumentPart)
	if !strings.Contains(doc, "<w:drawing>") {
		t.Fatalf("drawing destroyed:\n%s", doc)
	}
	if !strings.Contains(doc, ">logo: ACME</w:t>") {
		t.Errorf("paragraph with drawing was rewritten:\n%s", doc)
	}
	if !strings.Contains(doc, ">Example text</w:t>") {
		t.Errorf("plain paragraph not rewritten:\n%s", doc)
	}
}

func TestReplaceText_UnchangedParagraphKeptVerbatim(t *testing.T) {
	t.Parallel()

	body := `<w:p><w:pPr><w:pStyle w:val="Normal"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>keep</w:t></w:r></w:p>`
	pkg := newTestPackage(body + testSectPr)
	before := partString(pkg, DocumentPart)

	ReplaceText(pkg, []ReplaceRule{rule(t, "absent", "x")})

	if after := partString(pkg, DocumentPart); after != before {
		t.Errorf("non-matching rule rewrote the document:\n%s", after)
	}
}

func TestReplaceText_KeepsParagraphAndRunProperties(t *testing.T) {
	t.Parallel()

	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>old</w:t></w:r></w:p>`
	pkg := newTestPackage(body + testSectPr)

	ReplaceText(pkg, []ReplaceRule{rule(t, "old", "new")})

	doc := partString(pkg, DocumentPart)
	if !strings.Contains(doc, `<w:pStyle w:val="Heading1"/>`) {
		t.Errorf("paragraph properties lost:\n%s", doc)
	}
	if !strings.Contains(doc, "<w:rPr><w:b/></w:rPr>") {
		t.Errorf("first run properties lost:\n%s", doc)
	}
	if !strings.Contains(doc, ">new</w:t>") {
		t.Errorf("text not replaced:\n%s", doc)
	}
}

func TestReplaceText_HeaderAndFooterParts(t *testing.T) {
	t.Parallel()

	pkg := newTestPackage(para("body ACME") + testSectPr)
	pkg.SetPart("word/header1.xml", []byte(headerXML("ACME header")))
	pkg.SetPart("word/footer1.xml", []byte(footerXML("ACME footer", false)))

	ReplaceText(pkg, []ReplaceRule{rule(t, "ACME", "Example")})

	if header := partString(pkg, "word/header1.xml"); !strings.Contains(header, "Example header") {
		t.Errorf("header not rewritten:\n%s", header)
	}
	if footer := partString(pkg, "word/footer1.xml"); !strings.Contains(footer, "Example footer") {
		t.Errorf("footer not rewritten:\n%s", footer)
	}
}

func TestIsTextPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{DocumentPart, true},
		{"word/header1.xml", true},
		{"word/footer12.xml", true},
		{StylesPart, false},
		{"word/_rels/header1.xml.rels", false},
		{"word/media/image1.png", false},
		{ContentTypesPart, false},
	}

	for _, tt := range tests {
		if got := isTextPart(tt.name); got != tt.want {
			t.Errorf("isTextPart(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
