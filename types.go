package docxrefit

import (
	"fmt"
	"regexp"
	"strings"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimetres. A zero margin keeps the template's
// value for that side.
const (
	MinMargin = 0.0
	MaxMargin = 120.0
)

// PageSetup configures page geometry applied to every section of the
// refit document.
type PageSetup struct {
	Orientation string  // "portrait", "landscape", "" = keep template
	Margins     Margins // millimetres, zero side = keep template
}

// Margins holds page margins in millimetres.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means keep the template's geometry).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSetup) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	for _, m := range []struct {
		side  string
		value float64
	}{
		{"top", p.Margins.Top},
		{"right", p.Margins.Right},
		{"bottom", p.Margins.Bottom},
		{"left", p.Margins.Left},
	} {
		if m.value < MinMargin || m.value > MaxMargin {
			return fmt.Errorf("%w: %s %.1fmm (must be between %.0f and %.0f)",
				ErrInvalidMargin, m.side, m.value, MinMargin, MaxMargin)
		}
	}

	return nil
}

// isValidOrientation checks if orientation is valid (case-insensitive).
// Empty means keep the template's orientation.
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case "", OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// HeaderFooter configures the header and footer written into the refit
// document. An empty HeaderText skips the header part; the footer part
// is written when FooterText is set or PageNumbers is requested. With
// neither set the stage is a no-op and the template's header/footer
// stand.
type HeaderFooter struct {
	HeaderText  string
	FooterText  string
	PageNumbers bool // append a "Page N" field to the footer
}

// ReplaceRule is one regex find/replace applied to paragraph text.
type ReplaceRule struct {
	Pattern string // RE2 syntax
	Replace string // may reference groups: $1, ${name}
}

// Validate checks that the pattern compiles.
func (r ReplaceRule) Validate() error {
	if _, err := regexp.Compile(r.Pattern); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, r.Pattern, err)
	}
	return nil
}

// Input contains refit parameters.
type Input struct {
	Source       []byte            // Source .docx content (required)
	Template     []byte            // Template .docx content (optional, nil = built-in)
	Page         *PageSetup        // Page geometry (optional, nil = keep template)
	HeaderFooter *HeaderFooter     // Header/footer (optional, nil = keep template parts)
	StyleMap     map[string]string // Source style name/ID -> template style name/ID
	Replacements []ReplaceRule     // Applied in order, after all layout stages
}
