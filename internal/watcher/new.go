package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

// Options tune the watcher.
type Options struct {
	MaxConcurrent int
	// Settle is how long to wait after a CREATE event so the file can finish being written.
	Settle time.Duration
}

// New watches inputDir. At most opts.MaxConcurrent handlers run at once.
func New(inputDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		fsw:      fsw,
		opts:     opts,
		slots:    make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
