package ooxml

import (
	"regexp"
	"strings"
)

var (
	stylePattern     = regexp.MustCompile(`(?s)<w:style [^>]*>.*?</w:style>`)
	styleIDPattern   = regexp.MustCompile(`w:styleId="([^"]*)"`)
	styleNamePattern = regexp.MustCompile(`<w:name w:val="([^"]*)"`)
	pStylePattern    = regexp.MustCompile(`(<w:pStyle w:val=")([^"]*)(")`)
)

// styleTable maps style display names to style IDs and back, built from
// a styles.xml part.
type styleTable struct {
	nameToID map[string]string
	ids      map[string]bool
}

// parseStyleTable scans styles.xml. An empty or missing part yields an
// empty table; every lookup then misses and mapping is a no-op.
func parseStyleTable(stylesXML string) *styleTable {
	t := &styleTable{
		nameToID: make(map[string]string),
		ids:      make(map[string]bool),
	}
	for _, block := range stylePattern.FindAllString(stylesXML, -1) {
		idMatch := styleIDPattern.FindStringSubmatch(block)
		if idMatch == nil {
			continue
		}
		id := idMatch[1]
		t.ids[id] = true
		if nameMatch := styleNamePattern.FindStringSubmatch(block); nameMatch != nil {
			t.nameToID[strings.ToLower(unescapeText(nameMatch[1]))] = id
		}
	}
	return t
}

// resolve accepts a style display name or a raw style ID. Name lookup
// is case-insensitive: Word stores built-in heading names lowercased
// ("heading 1") while users write "Heading 1".
func (t *styleTable) resolve(key string) (string, bool) {
	if t.ids[key] {
		return key, true
	}
	id, ok := t.nameToID[strings.ToLower(key)]
	return id, ok
}

// MapStyles remaps paragraph style references in the document body.
// Keys and values may be display names ("Heading 1") or style IDs
// ("Heading1"). Pairs whose source or target style does not exist in
// the document are skipped. The rewrite is a single pass, so a chain
// like "Heading 2" to "Heading 1" plus "Heading 1" to "Title" does
// not cascade.
func MapStyles(pkg *Package, mapping map[string]string) error {
	if len(mapping) == 0 {
		return nil
	}
	data, ok := pkg.Part(DocumentPart)
	if !ok {
		return ErrMissingDocumentPart
	}

	stylesXML := ""
	if styles, ok := pkg.Part(StylesPart); ok {
		stylesXML = string(styles)
	}
	table := parseStyleTable(stylesXML)

	idMap := make(map[string]string, len(mapping))
	for from, to := range mapping {
		fromID, ok := table.resolve(from)
		if !ok {
			continue
		}
		toID, ok := table.resolve(to)
		if !ok {
			continue
		}
		idMap[fromID] = toID
	}
	if len(idMap) == 0 {
		return nil
	}

	doc := pStylePattern.ReplaceAllStringFunc(string(data), func(m string) string {
		parts := pStylePattern.FindStringSubmatch(m)
		if to, ok := idMap[parts[2]]; ok {
			return parts[1] + to + parts[3]
		}
		return m
	})
	pkg.SetPart(DocumentPart, []byte(doc))
	return nil
}

// missingStyleBlocks returns the <w:style> definitions of src whose
// styleId is absent from dst, in source order. Used by Compose to carry
// referenced styles into the template.
func missingStyleBlocks(dstStylesXML, srcStylesXML string) []string {
	dst := parseStyleTable(dstStylesXML)
	var blocks []string
	for _, block := range stylePattern.FindAllString(srcStylesXML, -1) {
		idMatch := styleIDPattern.FindStringSubmatch(block)
		if idMatch == nil || dst.ids[idMatch[1]] {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// appendStyles inserts style blocks before </w:styles>.
func appendStyles(stylesXML string, blocks []string) string {
	idx := strings.LastIndex(stylesXML, "</w:styles>")
	if idx < 0 {
		return stylesXML
	}
	return stylesXML[:idx] + strings.Join(blocks, "") + stylesXML[idx:]
}
