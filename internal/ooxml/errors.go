package ooxml

import "errors"

// Sentinel errors for package and document operations.
var (
	ErrNotDocx             = errors.New("not a docx archive")
	ErrMissingDocumentPart = errors.New("missing word/document.xml part")
	ErrMalformedDocument   = errors.New("malformed document body")
	ErrMalformedRels       = errors.New("malformed relationships part")
)
