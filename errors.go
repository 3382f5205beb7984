package docxrefit

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource = errors.New("source document cannot be empty")
	ErrNotDocx     = errors.New("not a valid .docx document")
	ErrCompose     = errors.New("document composition failed")

	// Page setup validation errors.
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Find/replace validation errors.
	ErrInvalidPattern = errors.New("invalid replacement pattern")
	ErrEmptyStyleMap  = errors.New("style mapping cannot have empty keys or values")

	// Template loading errors.
	ErrInvalidTemplate = errors.New("template is not a valid .docx document")

	// Preview errors.
	ErrPreviewExtract = errors.New("text extraction failed")
)
