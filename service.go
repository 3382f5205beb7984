package docxrefit

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-docxrefit/internal/ooxml"
)

// Service orchestrates the docx refit pipeline.
type Service struct {
	composer     composer
	pageSetter   pageSetter
	hdrFtrWriter headerFooterWriter
	styleMapper  styleMapper
	textReplacer textReplacer
}

// Stage interfaces allow tests to substitute individual pipeline steps.
type (
	composer interface {
		Compose(tpl, src *ooxml.Package) error
	}
	pageSetter interface {
		ApplyPageGeometry(pkg *ooxml.Package, geo ooxml.PageGeometry) error
	}
	headerFooterWriter interface {
		ApplyHeaderFooter(pkg *ooxml.Package, spec ooxml.HeaderFooterSpec) error
	}
	styleMapper interface {
		MapStyles(pkg *ooxml.Package, mapping map[string]string) error
	}
	textReplacer interface {
		ReplaceText(pkg *ooxml.Package, rules []ooxml.ReplaceRule)
	}
)

// ooxmlStages implements every stage interface with the ooxml engine.
type ooxmlStages struct{}

func (ooxmlStages) Compose(tpl, src *ooxml.Package) error { return ooxml.Compose(tpl, src) }
func (ooxmlStages) ApplyPageGeometry(pkg *ooxml.Package, geo ooxml.PageGeometry) error {
	return ooxml.ApplyPageGeometry(pkg, geo)
}
func (ooxmlStages) ApplyHeaderFooter(pkg *ooxml.Package, spec ooxml.HeaderFooterSpec) error {
	return ooxml.ApplyHeaderFooter(pkg, spec)
}
func (ooxmlStages) MapStyles(pkg *ooxml.Package, mapping map[string]string) error {
	return ooxml.MapStyles(pkg, mapping)
}
func (ooxmlStages) ReplaceText(pkg *ooxml.Package, rules []ooxml.ReplaceRule) {
	ooxml.ReplaceText(pkg, rules)
}

// New creates a Service with the default pipeline stages.
func New() *Service {
	stages := ooxmlStages{}
	return &Service{
		composer:     stages,
		pageSetter:   stages,
		hdrFtrWriter: stages,
		styleMapper:  stages,
		textReplacer: stages,
	}
}

// Refit runs the full pipeline and returns the refit document as bytes.
// Stage order is fixed: compose, page setup, header/footer, style
// mapping, find/replace. The context is checked between stages.
func (s *Service) Refit(ctx context.Context, input Input) ([]byte, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	src, err := ooxml.OpenPackage(input.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	tpl, err := s.loadTemplate(input.Template)
	if err != nil {
		return nil, err
	}

	// Compose source content into the template
	if err := s.composer.Compose(tpl, src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Page setup
	if input.Page != nil {
		geo := ooxml.PageGeometry{
			Orientation: strings.ToLower(input.Page.Orientation),
			TopMM:       input.Page.Margins.Top,
			RightMM:     input.Page.Margins.Right,
			BottomMM:    input.Page.Margins.Bottom,
			LeftMM:      input.Page.Margins.Left,
		}
		if err := s.pageSetter.ApplyPageGeometry(tpl, geo); err != nil {
			return nil, fmt.Errorf("applying page setup: %w", err)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Header and footer
	if input.HeaderFooter != nil {
		spec := ooxml.HeaderFooterSpec{
			HeaderText:  input.HeaderFooter.HeaderText,
			FooterText:  input.HeaderFooter.FooterText,
			PageNumbers: input.HeaderFooter.PageNumbers,
		}
		if err := s.hdrFtrWriter.ApplyHeaderFooter(tpl, spec); err != nil {
			return nil, fmt.Errorf("applying header/footer: %w", err)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Style mapping
	if len(input.StyleMap) > 0 {
		if err := s.styleMapper.MapStyles(tpl, input.StyleMap); err != nil {
			return nil, fmt.Errorf("mapping styles: %w", err)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Find/replace runs last so it sees the final text
	if len(input.Replacements) > 0 {
		rules, err := compileRules(input.Replacements)
		if err != nil {
			return nil, err
		}
		s.textReplacer.ReplaceText(tpl, rules)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out, err := tpl.Bytes()
	if err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	return out, nil
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if len(input.Source) == 0 {
		return ErrEmptySource
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	for key, value := range input.StyleMap {
		if key == "" || value == "" {
			return ErrEmptyStyleMap
		}
	}
	for _, rule := range input.Replacements {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// loadTemplate opens the provided template bytes, falling back to the
// built-in default template.
func (s *Service) loadTemplate(data []byte) (*ooxml.Package, error) {
	if len(data) == 0 {
		return defaultTemplate()
	}
	tpl, err := ooxml.OpenPackage(data)
	if err != nil {
		if errors.Is(err, ooxml.ErrNotDocx) || errors.Is(err, ooxml.ErrMissingDocumentPart) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		return nil, fmt.Errorf("opening template: %w", err)
	}
	return tpl, nil
}

// compileRules compiles replacement patterns. Validation has already
// checked them, so compile errors here indicate a racy caller mutation.
func compileRules(rules []ReplaceRule) ([]ooxml.ReplaceRule, error) {
	compiled := make([]ooxml.ReplaceRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, r.Pattern, err)
		}
		compiled = append(compiled, ooxml.ReplaceRule{Pattern: re, Replace: r.Replace})
	}
	return compiled, nil
}
