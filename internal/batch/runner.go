package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

func (r *implRunner) Run(ctx context.Context, paths []string, opts processor.Options) ([]Result, error) {
	inputs, err := Discover(paths)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		r.logger.Warn(ctx, "No supported inputs found")
		return nil, nil
	}

	r.logger.Info(ctx, "Processing %d documents (max concurrent: %d)", len(inputs), r.maxConcurrent)

	results := make([]Result, len(inputs))
	var g errgroup.Group
	g.SetLimit(r.maxConcurrent)

	for i, path := range inputs {
		results[i].Path = path
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			dctx := logger.WithFields(ctx, "input", filepath.Base(path))
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			report, err := r.proc.Process(dctx, path, opts)
			results[i].Report = report
			results[i].Err = err
			if err != nil {
				r.logger.Error(dctx, "Failed to process %s: %v", path, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

// Discover expands paths into the sorted, de-duplicated list of inputs to process.
// Directories contribute their supported files; files are kept even when unsupported
// so that the caller sees them fail.
func Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			full := filepath.Join(p, e.Name())
			if processor.IsSupported(full) {
				found = append(found, full)
			}
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	return out, nil
}

// Summarize counts the results of a batch.
func Summarize(results []Result, elapsed time.Duration) Summary {
	s := Summary{Elapsed: elapsed}
	for _, res := range results {
		switch {
		case res.Err != nil && !errors.Is(res.Err, context.Canceled):
			s.Failed++
		case res.Err != nil:
		case res.Report.Skipped:
			s.Skipped++
		default:
			s.Processed++
		}
	}
	return s
}
