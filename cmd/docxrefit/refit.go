package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	docxrefit "github.com/alnah/go-docxrefit"
	"github.com/alnah/go-docxrefit/internal/archive"
	"github.com/alnah/go-docxrefit/internal/config"
	"github.com/alnah/go-docxrefit/internal/fileutil"
)

// refitParams groups parameters shared across batch/document refits.
type refitParams struct {
	template     []byte
	page         *docxrefit.PageSetup
	headerFooter *docxrefit.HeaderFooter
	styleMap     map[string]string
	replacements []docxrefit.ReplaceRule
}

// runRefit orchestrates the refit process.
func runRefit(ctx context.Context, positionalArgs []string, flags *refitFlags, svc Refitter, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)

	// Resolve input paths
	inputPaths, err := resolveInputPaths(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output destination
	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}

	// Build refit parameters
	params, err := buildRefitParams(cfg)
	if err != nil {
		return err
	}

	// A .zip output, or any .zip input, puts the whole run in bundle
	// mode: every result lands in one archive, failed documents as
	// error markers.
	bundlePath := ""
	if fileutil.HasExt(output, ".zip") {
		bundlePath = output
	} else if zipInput := firstZipInput(inputPaths); zipInput != "" {
		bundlePath = resolveZipOutputPath(zipInput, output)
	}

	jobs, err := collectJobs(inputPaths, output, bundlePath != "")
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no .docx documents found in %s", strings.Join(inputPaths, ", "))
	}

	if flags.preview {
		return runPreview(ctx, svc, params, jobs, flags.common.quiet, env)
	}

	workers := docxrefit.ResolveWorkers(flags.workers)
	results := refitBatch(ctx, svc, workers, jobs, params)

	if bundlePath != "" {
		return writeBundle(results, bundlePath, flags, env)
	}

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d document(s) failed", failedCount)
	}

	return nil
}

// firstZipInput returns the first .zip path among the inputs, if any.
func firstZipInput(inputPaths []string) string {
	for _, p := range inputPaths {
		if fileutil.HasExt(p, ".zip") {
			return p
		}
	}
	return ""
}

// collectJobs gathers refit jobs from every input path in argument
// order. Zip archives are expanded in-memory; files and directories go
// through discovery. In bundle mode no job gets its own output path,
// results are archived after the batch instead.
func collectJobs(inputPaths []string, output string, bundling bool) ([]RefitJob, error) {
	var jobs []RefitJob
	for _, p := range inputPaths {
		if fileutil.HasExt(p, ".zip") {
			data, err := os.ReadFile(p) // #nosec G304 -- user-provided input path
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
			}
			entries, err := archive.ExtractDocx(data)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", p, err)
			}
			for _, e := range entries {
				jobs = append(jobs, RefitJob{Name: e.Name, Data: e.Data})
			}
			continue
		}

		found, err := discoverFiles(p, output)
		if err != nil {
			return nil, fmt.Errorf("discovering documents: %w", err)
		}
		jobs = append(jobs, found...)
	}

	if bundling {
		for i := range jobs {
			jobs[i].OutputPath = ""
		}
	}
	return jobs, nil
}

// writeBundle archives batch results into one zip. Failed documents
// become error markers so the archive accounts for every input.
func writeBundle(results []RefitResult, outPath string, flags *refitFlags, env *Environment) error {
	w := archive.NewWriter()
	for _, r := range results {
		if r.Err != nil {
			if err := w.AddErrorMarker(filepath.Base(r.Name), r.Err); err != nil {
				return fmt.Errorf("bundling error marker for %s: %w", r.Name, err)
			}
			continue
		}
		if err := w.AddDocument(refitEntryName(filepath.Base(r.Name)), r.Output); err != nil {
			return fmt.Errorf("bundling %s: %w", r.Name, err)
		}
	}
	bundle, err := w.Bytes()
	if err != nil {
		return err
	}

	// #nosec G306 -- output archives are meant to be readable
	if err := os.WriteFile(outPath, bundle, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	summary := countResults(results)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%d documents, %d errors)\n", outPath, summary.Succeeded, summary.Failed)
	}
	if failedCount > 0 {
		return fmt.Errorf("%d document(s) failed", failedCount)
	}
	return nil
}

// runPreview refits only the first discovered document, writes the
// result as PREVIEW_<stem>.docx and prints its extracted text.
func runPreview(ctx context.Context, svc Refitter, params *refitParams, jobs []RefitJob, quiet bool, env *Environment) error {
	job := jobs[0]

	data := job.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(job.Name) // #nosec G304 -- discovered path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadDocument, err)
		}
	}

	out, err := svc.Refit(ctx, docxrefit.Input{
		Source:       data,
		Template:     params.template,
		Page:         params.page,
		HeaderFooter: params.headerFooter,
		StyleMap:     params.styleMap,
		Replacements: params.replacements,
	})
	if err != nil {
		return fmt.Errorf("previewing %s: %w", job.Name, err)
	}

	dir := "."
	if job.OutputPath != "" {
		dir = filepath.Dir(job.OutputPath)
	}
	previewPath := filepath.Join(dir, "PREVIEW_"+fileutil.Stem(filepath.Base(job.Name))+".docx")
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	// #nosec G306 -- preview documents are meant to be readable
	if err := os.WriteFile(previewPath, out, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}

	text, err := docxrefit.ExtractText(out)
	if err != nil {
		return fmt.Errorf("previewing %s: %w", job.Name, err)
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n\n", previewPath)
	}
	fmt.Fprintln(env.Stdout, text)
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *refitFlags, cfg *config.Config) {
	if flags.template != "" {
		cfg.Template = flags.template
	}

	// Page flags; any explicit value enables the stage
	if flags.page.orientation != "" {
		cfg.PageSetup.Orientation = flags.page.orientation
		cfg.PageSetup.Enabled = true
	}
	if flags.page.marginTop > 0 {
		cfg.PageSetup.Margins.Top = flags.page.marginTop
		cfg.PageSetup.Enabled = true
	}
	if flags.page.marginRight > 0 {
		cfg.PageSetup.Margins.Right = flags.page.marginRight
		cfg.PageSetup.Enabled = true
	}
	if flags.page.marginBottom > 0 {
		cfg.PageSetup.Margins.Bottom = flags.page.marginBottom
		cfg.PageSetup.Enabled = true
	}
	if flags.page.marginLeft > 0 {
		cfg.PageSetup.Margins.Left = flags.page.marginLeft
		cfg.PageSetup.Enabled = true
	}
	if flags.page.disabled {
		cfg.PageSetup.Enabled = false
	}

	// Header/footer flags
	if flags.headerFooter.headerText != "" {
		cfg.HeaderFooter.HeaderText = flags.headerFooter.headerText
		cfg.HeaderFooter.Enabled = true
	}
	if flags.headerFooter.footerText != "" {
		cfg.HeaderFooter.FooterText = flags.headerFooter.footerText
		cfg.HeaderFooter.Enabled = true
	}
	if flags.headerFooter.pageNumbers {
		cfg.HeaderFooter.PageNumbers = true
		cfg.HeaderFooter.Enabled = true
	}
	if flags.headerFooter.disabled {
		cfg.HeaderFooter.Enabled = false
	}
}

// resolveInputPaths determines the inputs from positional args or
// config. Argument order is processing order.
func resolveInputPaths(positionalArgs []string, cfg *config.Config) ([]string, error) {
	if len(positionalArgs) > 0 {
		return positionalArgs, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// buildRefitParams converts config to library input parameters.
func buildRefitParams(cfg *config.Config) (*refitParams, error) {
	params := &refitParams{}

	if cfg.Template != "" {
		data, err := os.ReadFile(cfg.Template) // #nosec G304 -- user-provided template path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadTemplate, err)
		}
		params.template = data
	}

	if cfg.PageSetup.Enabled {
		params.page = &docxrefit.PageSetup{
			Orientation: strings.ToLower(cfg.PageSetup.Orientation),
			Margins: docxrefit.Margins{
				Top:    cfg.PageSetup.Margins.Top,
				Right:  cfg.PageSetup.Margins.Right,
				Bottom: cfg.PageSetup.Margins.Bottom,
				Left:   cfg.PageSetup.Margins.Left,
			},
		}
		if err := params.page.Validate(); err != nil {
			return nil, err
		}
	}

	if cfg.HeaderFooter.Enabled {
		params.headerFooter = &docxrefit.HeaderFooter{
			HeaderText:  cfg.HeaderFooter.HeaderText,
			FooterText:  cfg.HeaderFooter.FooterText,
			PageNumbers: cfg.HeaderFooter.PageNumbers,
		}
	}

	if len(cfg.StyleMap) > 0 {
		params.styleMap = cfg.StyleMap
	}

	for _, rule := range cfg.FindReplace {
		r := docxrefit.ReplaceRule{Pattern: rule.Pattern, Replace: rule.Replace}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		params.replacements = append(params.replacements, r)
	}

	return params, nil
}
