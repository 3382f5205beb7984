package main

import (
	"errors"
	"os"

	docxrefit "github.com/alnah/go-docxrefit"
	"github.com/alnah/go-docxrefit/internal/archive"
	"github.com/alnah/go-docxrefit/internal/config"
)

// Exit codes for docxrefit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // All documents refit
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitDocument = 4 // Malformed or unprocessable documents
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Document errors (exit 4)
	if errors.Is(err, docxrefit.ErrNotDocx) ||
		errors.Is(err, docxrefit.ErrCompose) ||
		errors.Is(err, docxrefit.ErrInvalidTemplate) ||
		errors.Is(err, docxrefit.ErrPreviewExtract) ||
		errors.Is(err, archive.ErrNotZip) ||
		errors.Is(err, archive.ErrEmptyZip) {
		return ExitDocument
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrReadTemplate) ||
		errors.Is(err, ErrWriteDocument) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, docxrefit.ErrEmptySource) ||
		errors.Is(err, docxrefit.ErrInvalidOrientation) ||
		errors.Is(err, docxrefit.ErrInvalidMargin) ||
		errors.Is(err, docxrefit.ErrInvalidPattern) ||
		errors.Is(err, docxrefit.ErrEmptyStyleMap) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
