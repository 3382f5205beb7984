package docxrefit

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"
)

// previewMaxChars bounds preview output to keep terminal dumps usable.
const previewMaxChars = 2000

var (
	paragraphEndPattern = regexp.MustCompile(`</w:p>`)
	runTextPattern      = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
	xmlEntityReplacer   = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
)

// ExtractText returns the plain text of a .docx document, one line per
// paragraph, truncated to a preview-sized excerpt. Empty paragraphs are
// collapsed.
func ExtractText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewExtract, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	var lines []string
	for _, para := range paragraphEndPattern.Split(content, -1) {
		var sb strings.Builder
		for _, m := range runTextPattern.FindAllStringSubmatch(para, -1) {
			sb.WriteString(xmlEntityReplacer.Replace(m[1]))
		}
		line := strings.TrimSpace(sb.String())
		if line != "" {
			lines = append(lines, line)
		}
	}

	text := strings.Join(lines, "\n")
	if len(text) > previewMaxChars {
		text = truncateRunes(text, previewMaxChars) + "\n[...]"
	}
	return text, nil
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimRight(s[:n], "\n")
}
