package ooxml

import (
	"fmt"
	"strings"
)

// span marks a half-open [start, end) byte range inside a part.
type span struct {
	start int
	end   int
}

// bodySpan locates the inner content of <w:body> in document XML.
func bodySpan(doc string) (span, error) {
	open := strings.Index(doc, "<w:body>")
	if open < 0 {
		// Body tags with attributes are legal, if unusual.
		open = strings.Index(doc, "<w:body ")
		if open < 0 {
			return span{}, fmt.Errorf("%w: no w:body element", ErrMalformedDocument)
		}
		gt := strings.Index(doc[open:], ">")
		if gt < 0 {
			return span{}, fmt.Errorf("%w: unterminated w:body tag", ErrMalformedDocument)
		}
		open += gt + 1
	} else {
		open += len("<w:body>")
	}

	close := strings.LastIndex(doc, "</w:body>")
	if close < 0 || close < open {
		return span{}, fmt.Errorf("%w: no closing w:body", ErrMalformedDocument)
	}
	return span{start: open, end: close}, nil
}

// splitBodySectPr splits body content into everything before the final
// body-level sectPr and the sectPr block itself (empty if absent).
// Paragraph-embedded sectPr blocks (section breaks) are left in content.
func splitBodySectPr(body string) (content, sectPr string) {
	idx := strings.LastIndex(body, "<w:sectPr")
	if idx < 0 {
		return body, ""
	}
	end := sectPrEnd(body, idx)
	if end < 0 {
		return body, ""
	}
	// The body-level sectPr is the last child of w:body: nothing but
	// whitespace may follow it.
	if strings.TrimSpace(body[end:]) != "" {
		return body, ""
	}
	return body[:idx], body[idx:end]
}

// sectPrEnd returns the index just past the sectPr element starting at
// idx, or -1 if it is unterminated. Handles the self-closing form.
func sectPrEnd(s string, idx int) int {
	gt := strings.Index(s[idx:], ">")
	if gt < 0 {
		return -1
	}
	if s[idx+gt-1] == '/' {
		return idx + gt + 1
	}
	close := strings.Index(s[idx:], "</w:sectPr>")
	if close < 0 {
		return -1
	}
	return idx + close + len("</w:sectPr>")
}

// forEachSectPr rewrites every sectPr element (body-level and
// paragraph-embedded) through fn. Self-closing sectPr elements are
// expanded so fn always receives <w:sectPr ...>...</w:sectPr>.
func forEachSectPr(doc string, fn func(sectPr string) string) string {
	var out strings.Builder
	pos := 0
	for {
		idx := strings.Index(doc[pos:], "<w:sectPr")
		if idx < 0 {
			out.WriteString(doc[pos:])
			return out.String()
		}
		idx += pos
		end := sectPrEnd(doc, idx)
		if end < 0 {
			out.WriteString(doc[pos:])
			return out.String()
		}
		out.WriteString(doc[pos:idx])
		out.WriteString(fn(normalizeSectPr(doc[idx:end])))
		pos = end
	}
}

// normalizeSectPr expands <w:sectPr/> into an open/close pair.
func normalizeSectPr(sectPr string) string {
	gt := strings.Index(sectPr, ">")
	if gt > 0 && sectPr[gt-1] == '/' {
		return sectPr[:gt-1] + "></w:sectPr>"
	}
	return sectPr
}

// sectPrContent returns the inner XML of a normalized sectPr element.
func sectPrContent(sectPr string) string {
	gt := strings.Index(sectPr, ">")
	if gt < 0 {
		return ""
	}
	inner := sectPr[gt+1:]
	return strings.TrimSuffix(inner, "</w:sectPr>")
}

// isParagraphOpen reports whether s[idx:] starts a w:p element
// (as opposed to w:pPr, w:pStyle, w:pgSz and friends).
func isParagraphOpen(s string, idx int) (selfClosing bool, ok bool) {
	rest := s[idx+len("<w:p"):]
	if rest == "" {
		return false, false
	}
	switch rest[0] {
	case '>':
		return false, true
	case ' ':
		gt := strings.Index(rest, ">")
		if gt < 0 {
			return false, false
		}
		return rest[gt-1] == '/', true
	case '/':
		return strings.HasPrefix(rest, "/>"), strings.HasPrefix(rest, "/>")
	}
	return false, false
}

// scanParagraphs finds the outermost w:p elements in XML content.
// Paragraphs can nest (text boxes hold their own w:p elements), so a
// depth counter is required; a non-greedy regex would close too early.
func scanParagraphs(s string) []span {
	var spans []span
	pos := 0
	for {
		idx := strings.Index(s[pos:], "<w:p")
		if idx < 0 {
			return spans
		}
		idx += pos

		selfClosing, ok := isParagraphOpen(s, idx)
		if !ok {
			pos = idx + len("<w:p")
			continue
		}
		if selfClosing {
			gt := strings.Index(s[idx:], ">")
			pos = idx + gt + 1
			spans = append(spans, span{start: idx, end: pos})
			continue
		}

		// Walk forward tracking paragraph depth until the matching close.
		depth := 1
		cursor := idx + 1
		for depth > 0 {
			nextOpen := strings.Index(s[cursor:], "<w:p")
			nextClose := strings.Index(s[cursor:], "</w:p>")
			if nextClose < 0 {
				return spans // unterminated; stop scanning
			}
			if nextOpen >= 0 && nextOpen < nextClose {
				abs := cursor + nextOpen
				if self, isP := isParagraphOpen(s, abs); isP && !self {
					depth++
				}
				cursor = abs + len("<w:p")
				continue
			}
			depth--
			cursor += nextClose + len("</w:p>")
		}
		spans = append(spans, span{start: idx, end: cursor})
		pos = cursor
	}
}

// forEachParagraph rewrites every outermost paragraph through fn.
func forEachParagraph(s string, fn func(p string) string) string {
	spans := scanParagraphs(s)
	if len(spans) == 0 {
		return s
	}
	var out strings.Builder
	pos := 0
	for _, sp := range spans {
		out.WriteString(s[pos:sp.start])
		out.WriteString(fn(s[sp.start:sp.end]))
		pos = sp.end
	}
	out.WriteString(s[pos:])
	return out.String()
}
