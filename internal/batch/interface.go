package batch

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

// Result is the outcome of one document.
type Result struct {
	Path   string
	Report processor.Report
	Err    error
}

// Runner processes many documents with bounded concurrency.
type Runner interface {
	// Run processes every supported input found under paths. Folders are expanded one level,
	// files are taken as given. A failed document does not stop the others; the returned error
	// is only set when discovery fails or ctx is cancelled.
	Run(ctx context.Context, paths []string, opts processor.Options) ([]Result, error)
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}
