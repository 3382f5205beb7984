package ooxml

import (
	"regexp"
	"strings"
)

// ReplaceRule pairs a compiled pattern with its replacement text.
// Replacement syntax follows regexp.Regexp.ReplaceAllString ($1 groups).
type ReplaceRule struct {
	Pattern *regexp.Regexp
	Replace string
}

// ReplaceText applies the rules to every paragraph in the document body
// and in all header and footer parts.
//
// A paragraph's run text is joined, rewritten, and flattened back into a
// single run only when a rule actually changed it. Paragraphs holding
// drawings, fields, hyperlinks or embedded objects are skipped: losing
// an image to a text rewrite is worse than missing a replacement.
func ReplaceText(pkg *Package, rules []ReplaceRule) {
	if len(rules) == 0 {
		return
	}
	for _, name := range pkg.Names() {
		if !isTextPart(name) {
			continue
		}
		data, _ := pkg.Part(name)
		rewritten := forEachParagraph(string(data), func(p string) string {
			return replaceInParagraph(p, rules)
		})
		pkg.SetPart(name, []byte(rewritten))
	}
}

// isTextPart reports whether a part holds paragraphs subject to
// find/replace: the body plus header/footer parts.
func isTextPart(name string) bool {
	if name == DocumentPart {
		return true
	}
	base := strings.TrimPrefix(name, "word/")
	return (strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")) &&
		strings.HasSuffix(base, ".xml") && !strings.Contains(base, "/")
}

func replaceInParagraph(p string, rules []ReplaceRule) string {
	if hasNonTextContent(p) {
		return p
	}
	text := paragraphText(p)
	rewritten := text
	for _, rule := range rules {
		rewritten = rule.Pattern.ReplaceAllString(rewritten, rule.Replace)
	}
	if rewritten == text {
		return p
	}
	return rewriteParagraphText(p, rewritten)
}
