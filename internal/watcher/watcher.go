package watcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
)

var errClosed = errors.New("fsnotify channel closed")

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	fsw      *fsnotify.Watcher
	opts     Options
	slots    chan struct{}
	inflight sync.WaitGroup
}

// Start dispatches every new supported input to the handler until ctx is cancelled,
// then waits for in-flight documents to finish.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s (max concurrent: %d)", w.inputDir, w.opts.MaxConcurrent)
	defer w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errClosed
			}
			if ev.Has(fsnotify.Create) {
				w.dispatch(ctx, ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errClosed
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// dispatch waits for the file to settle and a free slot, then hands it off.
// It returns early when ctx is cancelled.
func (w *implWatcher) dispatch(ctx context.Context, path string) {
	if !processor.IsSupported(path) {
		w.logger.Debug(ctx, "Ignoring unsupported file: %s", path)
		return
	}
	w.logger.Info(ctx, "New input detected: %s", path)

	settle := time.NewTimer(w.opts.Settle)
	defer settle.Stop()
	select {
	case <-settle.C:
	case <-ctx.Done():
		return
	}

	select {
	case w.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		defer func() { <-w.slots }()

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
}

func (w *implWatcher) drain(ctx context.Context) {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.inflight.Wait()
	w.logger.Info(ctx, "File watcher stopped")
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.fsw.Close()
}
