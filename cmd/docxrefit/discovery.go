package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	docxrefit "github.com/alnah/go-docxrefit"
	"github.com/alnah/go-docxrefit/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("input must be a .docx file, a directory, or a .zip archive")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// refitSuffix marks refit output files, e.g. "report_refit.docx".
const refitSuffix = "_refit"

// RefitJob represents a single document to process. Data is preloaded
// for zip entries; file jobs are read by the worker.
type RefitJob struct {
	Name       string // source path or zip entry name
	Data       []byte // nil for file jobs
	OutputPath string // empty in zip mode, results are bundled instead
}

// discoverFiles finds all .docx documents under a file or directory
// input. Lock files and previous refit outputs are skipped.
func discoverFiles(inputPath, output string) ([]RefitJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateDocxExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, output, "")
		return []RefitJob{{Name: inputPath, OutputPath: outPath}}, nil
	}

	var jobs []RefitJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !fileutil.HasExt(name, ".docx") || strings.HasPrefix(name, "~$") {
			return nil
		}
		if strings.HasSuffix(fileutil.Stem(name), refitSuffix) {
			return nil
		}
		outPath := resolveOutputPath(path, output, inputPath)
		jobs = append(jobs, RefitJob{Name: path, OutputPath: outPath})
		return nil
	})

	return jobs, err
}

// resolveOutputPath determines the refit output path for a document.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	base := fileutil.Stem(filepath.Base(inputPath)) + refitSuffix + ".docx"

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if fileutil.HasExt(output, ".docx") {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(output, base)
}

// refitEntryName returns the output entry name for a zip member.
func refitEntryName(entryName string) string {
	return fileutil.Stem(entryName) + refitSuffix + ".docx"
}

// resolveZipOutputPath determines the output archive path for zip input.
func resolveZipOutputPath(inputPath, output string) string {
	if output == "" {
		base := fileutil.Stem(filepath.Base(inputPath)) + refitSuffix + ".zip"
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	if fileutil.HasExt(output, ".zip") {
		return output
	}
	base := fileutil.Stem(filepath.Base(inputPath)) + refitSuffix + ".zip"
	return filepath.Join(output, base)
}

// validateDocxExtension checks that the file has a .docx extension.
func validateDocxExtension(path string) error {
	if !fileutil.HasExt(path, ".docx") {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > docxrefit.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, docxrefit.MaxWorkers)
	}
	return nil
}
