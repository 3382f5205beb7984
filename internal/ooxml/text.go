package ooxml

import (
	"regexp"
	"strings"
)

var (
	wtPattern  = regexp.MustCompile(`(?s)<w:t(?: [^>]*)?>(.*?)</w:t>`)
	runPattern = regexp.MustCompile(`(?s)<w:r(?: [^>]*)?>.*?</w:r>|<w:r/>`)
	rprPattern = regexp.MustCompile(`(?s)<w:rPr(?: [^>]*)?>.*?</w:rPr>|<w:rPr/>`)
	pprPattern = regexp.MustCompile(`(?s)^<w:pPr(?: [^>]*)?>.*?</w:pPr>|^<w:pPr/>`)
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func escapeText(s string) string { return xmlEscaper.Replace(s) }

func escapeAttr(s string) string { return xmlEscaper.Replace(s) }

func unescapeText(s string) string { return xmlUnescaper.Replace(s) }

// paragraphText concatenates the text of all w:t elements in a
// paragraph, unescaped.
func paragraphText(p string) string {
	matches := wtPattern.FindAllStringSubmatch(p, -1)
	if len(matches) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(unescapeText(m[1]))
	}
	return sb.String()
}

// nonTextMarkers flag paragraph content that a run-flattening rewrite
// would destroy: inline media, fields, hyperlinks, embedded objects.
var nonTextMarkers = []string{
	"<w:drawing",
	"<w:pict",
	"<w:object",
	"<w:fldChar",
	"<w:fldSimple",
	"<w:hyperlink",
	"<mc:AlternateContent",
	"<w:footnoteReference",
	"<w:endnoteReference",
}

// hasNonTextContent reports whether the paragraph carries content that
// must not be flattened into a single text run.
func hasNonTextContent(p string) bool {
	for _, marker := range nonTextMarkers {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

// rewriteParagraphText replaces all runs of a paragraph with a single
// run holding text. The first run's properties are kept so the dominant
// formatting survives; mixed per-run formatting is lost, as in any
// join-then-replace rewrite. Paragraph properties are preserved.
func rewriteParagraphText(p, text string) string {
	gt := strings.Index(p, ">")
	if gt < 0 {
		return p
	}
	openTag := p[:gt+1]
	if strings.HasSuffix(openTag, "/>") {
		openTag = strings.TrimSuffix(openTag, "/>") + ">"
		return openTag + newTextRun("", text) + "</w:p>"
	}
	inner := strings.TrimSuffix(p[gt+1:], "</w:p>")

	pPr := pprPattern.FindString(inner)

	// First run's rPr carries the surviving formatting.
	rPr := ""
	if firstRun := runPattern.FindString(inner); firstRun != "" {
		rPr = rprPattern.FindString(firstRun)
	}

	return openTag + pPr + newTextRun(rPr, text) + "</w:p>"
}

// newTextRun builds a single run with optional properties.
// xml:space="preserve" keeps leading/trailing whitespace significant.
func newTextRun(rPr, text string) string {
	return "<w:r>" + rPr + `<w:t xml:space="preserve">` + escapeText(text) + "</w:t></w:r>"
}
