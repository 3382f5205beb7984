package ooxml

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Orientation values accepted by PageGeometry.
const (
	OrientPortrait  = "portrait"
	OrientLandscape = "landscape"
)

// A4 portrait dimensions in twentieths of a point, used when a section
// declares no page size.
const (
	defaultPageWidthTwips  = 11906
	defaultPageHeightTwips = 16838
	defaultMarginTwips     = 1440
	defaultHeaderTwips     = 708
	defaultFooterTwips     = 708
)

// PageGeometry describes the page setup applied to every section.
// Orientation may be empty (keep current). Margin sides of 0 keep the
// section's existing margin; values are millimetres.
type PageGeometry struct {
	Orientation string
	TopMM       float64
	RightMM     float64
	BottomMM    float64
	LeftMM      float64
}

// twipsPerMM converts millimetres to twentieths of a point.
// 1 inch = 1440 twips = 25.4 mm.
func twips(mm float64) int {
	return int(math.Round(mm * 1440.0 / 25.4))
}

var (
	pgSzPattern  = regexp.MustCompile(`<w:pgSz[^>]*/>`)
	pgMarPattern = regexp.MustCompile(`<w:pgMar[^>]*/>`)
)

// ApplyPageGeometry rewrites page size and margins in every sectPr of
// the document part.
func ApplyPageGeometry(pkg *Package, geo PageGeometry) error {
	data, ok := pkg.Part(DocumentPart)
	if !ok {
		return ErrMissingDocumentPart
	}
	doc := forEachSectPr(string(data), func(sectPr string) string {
		return applyToSectPr(sectPr, geo)
	})
	pkg.SetPart(DocumentPart, []byte(doc))
	return nil
}

func applyToSectPr(sectPr string, geo PageGeometry) string {
	sectPr = applyPageSize(sectPr, geo.Orientation)
	sectPr = applyMargins(sectPr, geo)
	return sectPr
}

// applyPageSize sets w:pgSz, swapping width and height only on an
// actual orientation change so re-applying landscape is idempotent.
func applyPageSize(sectPr, orientation string) string {
	if orientation == "" {
		return sectPr
	}

	width, height := defaultPageWidthTwips, defaultPageHeightTwips
	current := OrientPortrait
	if tag := pgSzPattern.FindString(sectPr); tag != "" {
		width = intAttr(tag, "w:w", width)
		height = intAttr(tag, "w:h", height)
		if strings.Contains(tag, `w:orient="landscape"`) {
			current = OrientLandscape
		}
	}

	if orientation != current {
		width, height = height, width
	}

	tag := fmt.Sprintf(`<w:pgSz w:w="%d" w:h="%d"`, width, height)
	if orientation == OrientLandscape {
		tag += ` w:orient="landscape"`
	}
	tag += `/>`
	return setSectPrTag(sectPr, pgSzPattern, tag, "")
}

// applyMargins sets w:pgMar, overriding only the sides the geometry
// specifies and keeping the section's header/footer/gutter distances.
func applyMargins(sectPr string, geo PageGeometry) string {
	top, right := defaultMarginTwips, defaultMarginTwips
	bottom, left := defaultMarginTwips, defaultMarginTwips
	header, footer, gutter := defaultHeaderTwips, defaultFooterTwips, 0

	if tag := pgMarPattern.FindString(sectPr); tag != "" {
		top = intAttr(tag, "w:top", top)
		right = intAttr(tag, "w:right", right)
		bottom = intAttr(tag, "w:bottom", bottom)
		left = intAttr(tag, "w:left", left)
		header = intAttr(tag, "w:header", header)
		footer = intAttr(tag, "w:footer", footer)
		gutter = intAttr(tag, "w:gutter", gutter)
	}

	if geo.TopMM > 0 {
		top = twips(geo.TopMM)
	}
	if geo.RightMM > 0 {
		right = twips(geo.RightMM)
	}
	if geo.BottomMM > 0 {
		bottom = twips(geo.BottomMM)
	}
	if geo.LeftMM > 0 {
		left = twips(geo.LeftMM)
	}
	if geo.TopMM == 0 && geo.RightMM == 0 && geo.BottomMM == 0 && geo.LeftMM == 0 {
		return sectPr
	}

	tag := fmt.Sprintf(
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="%d"/>`,
		top, right, bottom, left, header, footer, gutter)
	return setSectPrTag(sectPr, pgMarPattern, tag, pgSzPattern.FindString(sectPr))
}

// setSectPrTag replaces an existing tag matched by pattern, or inserts
// the tag after the anchor tag (schema order: pgSz before pgMar), or
// prepends it to the sectPr content.
func setSectPrTag(sectPr string, pattern *regexp.Regexp, tag, anchor string) string {
	if pattern.MatchString(sectPr) {
		return pattern.ReplaceAllString(sectPr, tag)
	}
	if anchor != "" {
		if idx := strings.Index(sectPr, anchor); idx >= 0 {
			insert := idx + len(anchor)
			return sectPr[:insert] + tag + sectPr[insert:]
		}
	}
	gt := strings.Index(sectPr, ">")
	if gt < 0 {
		return sectPr
	}
	// Schema order: header/footer references lead the sectPr content.
	insert := gt + 1 + len(leadingHdrFtrRefs(sectPr[gt+1:]))
	return sectPr[:insert] + tag + sectPr[insert:]
}

// leadingHdrFtrRefs returns the prefix of sectPr content made of
// w:headerReference / w:footerReference tags.
func leadingHdrFtrRefs(content string) string {
	end := 0
	for {
		rest := content[end:]
		if !strings.HasPrefix(rest, "<w:headerReference") && !strings.HasPrefix(rest, "<w:footerReference") {
			return content[:end]
		}
		gt := strings.Index(rest, ">")
		if gt < 0 {
			return content[:end]
		}
		end += gt + 1
	}
}

// intAttr extracts an integer attribute value from a tag.
func intAttr(tag, name string, fallback int) int {
	idx := strings.Index(tag, name+`="`)
	if idx < 0 {
		return fallback
	}
	rest := tag[idx+len(name)+2:]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return fallback
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return fallback
	}
	return n
}
