package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	docxrefit "github.com/alnah/go-docxrefit"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadDocument  = errors.New("failed to read document")
	ErrReadTemplate  = errors.New("failed to read template")
	ErrWriteDocument = errors.New("failed to write document")
)

// Refitter is the interface for the refit service.
type Refitter interface {
	Refit(ctx context.Context, input docxrefit.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Refitter = (*docxrefit.Service)(nil)

// RefitResult holds the outcome of a single refit.
type RefitResult struct {
	Name       string
	OutputPath string
	Output     []byte // retained in zip mode for bundling
	Err        error
	Duration   time.Duration
}

// refitBatch processes jobs concurrently. The service is stateless, so
// workers share one instance. Results keep job order.
func refitBatch(ctx context.Context, svc Refitter, workers int, jobs []RefitJob, params *refitParams) []RefitResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]RefitResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = RefitResult{Name: jobs[idx].Name, Err: ctx.Err()}
					continue
				}
				results[idx] = refitOne(ctx, svc, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// refitOne processes a single job and returns the result.
func refitOne(ctx context.Context, svc Refitter, job RefitJob, params *refitParams) RefitResult {
	start := time.Now()
	result := RefitResult{
		Name:       job.Name,
		OutputPath: job.OutputPath,
	}

	data := job.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(job.Name) // #nosec G304 -- discovered path
		if err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrReadDocument, err)
			result.Duration = time.Since(start)
			return result
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
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// Zip mode bundles results after the batch
	if job.OutputPath == "" {
		result.Output = out
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	// #nosec G306 -- refit documents are meant to be readable
	if err := os.WriteFile(job.OutputPath, out, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteDocument, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed refits.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed refits.
func countResults(results []RefitResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs refit results using the environment writers.
func printResults(results []RefitResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Name, r.Err)
			continue
		}

		if quiet || r.OutputPath == "" {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Name, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
