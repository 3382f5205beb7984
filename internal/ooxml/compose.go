package ooxml

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Relationship types owned by the template after a compose. The source
// document's copies are never carried: the template's layout parts win.
var templateOwnedRelTypes = map[string]bool{
	relTypeStyles:      true,
	relTypeNumbering:   true,
	relTypeHeader:      true,
	relTypeFooter:      true,
	relTypeTheme:       true,
	relTypeFontTable:   true,
	relTypeSettings:    true,
	relTypeWebSettings: true,
	relTypeFootnotes:   true,
	relTypeEndnotes:    true,
	relTypeCustomXML:   true,
	relTypeGlossary:    true,
}

// Parts copied wholesale into the template when it has none of its own,
// keyed by part name with the relationship type needed to register them.
var copyIfAbsentParts = []struct {
	name        string
	relType     string
	contentType string
}{
	{
		name:        "word/footnotes.xml",
		relType:     relTypeFootnotes,
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml",
	},
	{
		name:        "word/endnotes.xml",
		relType:     relTypeEndnotes,
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml",
	},
}

// fallbackImageContentTypes covers media extensions when the source's
// [Content_Types].xml lacks a Default for them.
var fallbackImageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
}

// Compose appends the source document's body content to the template,
// carrying over everything the content references: media parts and
// their relationships, hyperlinks, numbering definitions, and style
// definitions the template does not declare. The source's trailing
// section properties are dropped so the template's layout governs the
// whole result.
func Compose(tpl, src *Package) error {
	srcDocData, ok := src.Part(DocumentPart)
	if !ok {
		return ErrMissingDocumentPart
	}
	tplDocData, ok := tpl.Part(DocumentPart)
	if !ok {
		return ErrMissingDocumentPart
	}

	srcDoc := string(srcDocData)
	srcBody, err := bodySpan(srcDoc)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	content, _ := splitBodySectPr(srcDoc[srcBody.start:srcBody.end])
	// Paragraph-embedded section breaks stay, but their header/footer
	// references point at parts that are never carried and would dangle.
	content = hdrFtrRefPattern.ReplaceAllString(content, "")

	remap, err := carryRelationships(tpl, src)
	if err != nil {
		return err
	}
	content = rewriteRelIDs(content, remap)

	content, err = mergeNumbering(tpl, src, content)
	if err != nil {
		return err
	}

	if err := mergeStyles(tpl, src); err != nil {
		return err
	}

	if err := carryAbsentParts(tpl, src); err != nil {
		return err
	}

	tplDoc := string(tplDocData)
	tplBody, err := bodySpan(tplDoc)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	tplContent, tplSectPr := splitBodySectPr(tplDoc[tplBody.start:tplBody.end])

	var out strings.Builder
	out.WriteString(tplDoc[:tplBody.start])
	out.WriteString(tplContent)
	out.WriteString(content)
	out.WriteString(tplSectPr)
	out.WriteString(tplDoc[tplBody.end:])
	tpl.SetPart(DocumentPart, []byte(out.String()))
	return nil
}

// carryRelationships copies the source's body-referenced relationships
// into the template, returning a map from old to new relationship IDs.
// External targets (hyperlinks) keep their target; internal targets get
// their parts copied, renamed on collision.
func carryRelationships(tpl, src *Package) (map[string]string, error) {
	srcRels, err := parseRelationships(src, DocumentRelsPart)
	if err != nil {
		return nil, err
	}
	if len(srcRels) == 0 {
		return nil, nil
	}

	srcCT, err := parseContentTypes(src)
	if err != nil {
		return nil, err
	}
	srcDefaults := make(map[string]string, len(srcCT.Defaults))
	for _, d := range srcCT.Defaults {
		srcDefaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	srcOverrides := make(map[string]string, len(srcCT.Overrides))
	for _, o := range srcCT.Overrides {
		srcOverrides[o.PartName] = o.ContentType
	}

	relID := nextRelID(relsString(tpl))
	remap := make(map[string]string)
	var newRels []relationship
	var defaults []contentTypeDefault
	var overrides []contentTypeOverride

	for _, rel := range srcRels {
		if templateOwnedRelTypes[rel.Type] {
			continue
		}

		newID := fmt.Sprintf("rId%d", relID)

		if strings.EqualFold(rel.TargetMode, "External") {
			newRels = append(newRels, relationship{ID: newID, Type: rel.Type, Target: rel.Target, TargetMode: rel.TargetMode})
			remap[rel.ID] = newID
			relID++
			continue
		}

		srcPartName := resolvePartTarget(rel.Target)
		data, ok := src.Part(srcPartName)
		if !ok {
			continue
		}

		dstPartName := copyPart(tpl, srcPartName, data)
		newRels = append(newRels, relationship{
			ID:     newID,
			Type:   rel.Type,
			Target: strings.TrimPrefix(dstPartName, "word/"),
		})
		remap[rel.ID] = newID
		relID++

		ext := strings.ToLower(strings.TrimPrefix(path.Ext(dstPartName), "."))
		if ct, ok := srcDefaults[ext]; ok {
			defaults = append(defaults, contentTypeDefault{Extension: ext, ContentType: ct})
		} else if ct, ok := fallbackImageContentTypes[ext]; ok {
			defaults = append(defaults, contentTypeDefault{Extension: ext, ContentType: ct})
		} else if ct, ok := srcOverrides["/"+srcPartName]; ok {
			overrides = append(overrides, contentTypeOverride{PartName: "/" + dstPartName, ContentType: ct})
		}
	}

	if len(newRels) == 0 {
		return remap, nil
	}
	if err := appendRelationships(tpl, DocumentRelsPart, newRels); err != nil {
		return nil, err
	}
	if err := appendContentTypes(tpl, defaults, overrides); err != nil {
		return nil, err
	}
	return remap, nil
}

// resolvePartTarget turns a document.xml.rels target into the full part
// name. Targets are relative to word/; "../" climbs back to the root.
func resolvePartTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("word", target))
}

// copyPart stores data in tpl under the source part name, or a renamed
// sibling when the name is taken by different bytes. Returns the name
// used. Identical bytes are shared instead of duplicated.
func copyPart(tpl *Package, name string, data []byte) string {
	if existing, ok := tpl.Part(name); ok {
		if string(existing) == string(data) {
			return name
		}
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
			if existing, ok := tpl.Part(candidate); !ok {
				name = candidate
				break
			} else if string(existing) == string(data) {
				return candidate
			}
		}
	}
	tpl.SetPart(name, data)
	return name
}

var relRefPattern = regexp.MustCompile(`((?:r:id|r:embed|r:link|r:pict|r:dm|r:lo|r:qs|r:cs)=")(rId[0-9]+)(")`)

// rewriteRelIDs maps relationship references in body content through
// remap. References with no mapping are left alone.
func rewriteRelIDs(content string, remap map[string]string) string {
	if len(remap) == 0 {
		return content
	}
	return relRefPattern.ReplaceAllStringFunc(content, func(m string) string {
		parts := relRefPattern.FindStringSubmatch(m)
		if newID, ok := remap[parts[2]]; ok {
			return parts[1] + newID + parts[3]
		}
		return m
	})
}

var (
	abstractNumPattern   = regexp.MustCompile(`(?s)<w:abstractNum [^>]*>.*?</w:abstractNum>`)
	numPattern           = regexp.MustCompile(`(?s)<w:num [^>]*>.*?</w:num>|<w:num [^>]*/>`)
	abstractNumIDAttr    = regexp.MustCompile(`(w:abstractNumId=")([0-9]+)(")`)
	abstractNumIDValAttr = regexp.MustCompile(`(<w:abstractNumId w:val=")([0-9]+)(")`)
	numIDAttr            = regexp.MustCompile(`(<w:num w:numId=")([0-9]+)(")`)
	numIDValAttr         = regexp.MustCompile(`(<w:numId w:val=")([0-9]+)(")`)
	anyNumericID         = regexp.MustCompile(`w:(?:numId|abstractNumId)(?: w:val)?="([0-9]+)"`)
)

// mergeNumbering carries the source's list definitions into the
// template. With no template numbering part the source's is adopted as
// is; otherwise the source's definitions are appended with all IDs
// offset past the template's, and the body content's numId references
// are rewritten to match.
func mergeNumbering(tpl, src *Package, content string) (string, error) {
	srcNumData, ok := src.Part(NumberingPart)
	if !ok {
		return content, nil
	}

	tplNumData, ok := tpl.Part(NumberingPart)
	if !ok {
		tpl.SetPart(NumberingPart, srcNumData)
		if err := registerPart(tpl, NumberingPart, relTypeNumbering,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"); err != nil {
			return "", err
		}
		return content, nil
	}

	offset := maxNumericID(string(tplNumData)) + 1
	shift := func(m []string) string {
		n, _ := strconv.Atoi(m[2])
		return m[1] + strconv.Itoa(n+offset) + m[3]
	}

	srcNum := string(srcNumData)
	srcNum = replaceSubmatch(abstractNumIDAttr, srcNum, shift)
	srcNum = replaceSubmatch(abstractNumIDValAttr, srcNum, shift)
	srcNum = replaceSubmatch(numIDAttr, srcNum, shift)

	abstracts := abstractNumPattern.FindAllString(srcNum, -1)
	nums := numPattern.FindAllString(srcNum, -1)
	if len(abstracts) == 0 && len(nums) == 0 {
		return content, nil
	}

	tplNum := string(tplNumData)
	// Schema order: every abstractNum precedes the first num.
	if idx := strings.Index(tplNum, "<w:num "); idx >= 0 {
		tplNum = tplNum[:idx] + strings.Join(abstracts, "") + tplNum[idx:]
	} else if idx := strings.LastIndex(tplNum, "</w:numbering>"); idx >= 0 {
		tplNum = tplNum[:idx] + strings.Join(abstracts, "") + tplNum[idx:]
	}
	if idx := strings.LastIndex(tplNum, "</w:numbering>"); idx >= 0 {
		tplNum = tplNum[:idx] + strings.Join(nums, "") + tplNum[idx:]
	}
	tpl.SetPart(NumberingPart, []byte(tplNum))

	content = replaceSubmatch(numIDValAttr, content, shift)
	return content, nil
}

// maxNumericID finds the highest numId/abstractNumId in numbering XML.
func maxNumericID(numberingXML string) int {
	maxID := 0
	for _, m := range anyNumericID.FindAllStringSubmatch(numberingXML, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID
}

// replaceSubmatch applies fn to every match's submatch slice.
func replaceSubmatch(re *regexp.Regexp, s string, fn func([]string) string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return fn(re.FindStringSubmatch(m))
	})
}

// mergeStyles copies style definitions the template lacks so composed
// content keeps rendering with its original styles until a style map
// says otherwise.
func mergeStyles(tpl, src *Package) error {
	srcStyles, ok := src.Part(StylesPart)
	if !ok {
		return nil
	}
	tplStyles, ok := tpl.Part(StylesPart)
	if !ok {
		tpl.SetPart(StylesPart, srcStyles)
		return registerPart(tpl, StylesPart, relTypeStyles,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	}
	blocks := missingStyleBlocks(string(tplStyles), string(srcStyles))
	if len(blocks) == 0 {
		return nil
	}
	tpl.SetPart(StylesPart, []byte(appendStyles(string(tplStyles), blocks)))
	return nil
}

// carryAbsentParts copies footnote/endnote parts the template lacks, so
// composed references resolve. Templates with their own notes keep them
// and colliding source notes are dropped.
func carryAbsentParts(tpl, src *Package) error {
	for _, p := range copyIfAbsentParts {
		data, ok := src.Part(p.name)
		if !ok || tpl.Has(p.name) {
			continue
		}
		tpl.SetPart(p.name, data)
		if err := registerPart(tpl, p.name, p.relType, p.contentType); err != nil {
			return err
		}
	}
	return nil
}

// registerPart adds the relationship and content-type override for a
// part copied into the template, unless already registered.
func registerPart(tpl *Package, name, relType, contentType string) error {
	rels, err := parseRelationships(tpl, DocumentRelsPart)
	if err != nil {
		return err
	}
	target := strings.TrimPrefix(name, "word/")
	registered := false
	for _, rel := range rels {
		if rel.Type == relType && rel.Target == target {
			registered = true
			break
		}
	}
	if !registered {
		id := fmt.Sprintf("rId%d", nextRelID(relsString(tpl)))
		if err := appendRelationships(tpl, DocumentRelsPart, []relationship{
			{ID: id, Type: relType, Target: target},
		}); err != nil {
			return err
		}
	}
	return appendContentTypes(tpl, nil, []contentTypeOverride{
		{PartName: "/" + name, ContentType: contentType},
	})
}
