package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "journal.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestBeginFinish(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Begin(ctx, "show", "segmentation")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	run, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if run.Status != StatusRunning || run.FinishedAt != nil || run.StartStage != "segmentation" {
		t.Errorf("run = %+v", run)
	}

	if err := s.Finish(ctx, id, Outcome{Status: StatusSucceeded, Chunks: 2, Segments: 14}); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	run, err = s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if run.Status != StatusSucceeded || run.Chunks != 2 || run.Segments != 14 {
		t.Errorf("run = %+v", run)
	}
	if run.FinishedAt == nil || !run.FinishedAt.After(run.StartedAt) {
		t.Errorf("FinishedAt = %v, StartedAt = %v", run.FinishedAt, run.StartedAt)
	}
}

func TestFinishUnknown(t *testing.T) {
	s := openTestStore(t)
	if err := s.Finish(context.Background(), "nope", Outcome{Status: StatusFailed}); err == nil {
		t.Error("Finish() on unknown run should fail")
	}
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _ := s.Begin(ctx, "show", "audio")
	if err := s.Finish(ctx, first, Outcome{Status: StatusFailed, FailedStage: "segmentation", Reason: "chunk cannot be processed"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Begin(ctx, "other", "audio"); err != nil {
		t.Fatal(err)
	}
	second, _ := s.Begin(ctx, "show", "segmentation")

	runs, err := s.Recent(ctx, "show", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}
	if runs[1].FailedStage != "segmentation" || runs[1].Reason == "" {
		t.Errorf("failed run = %+v", runs[1])
	}

	all, err := s.Recent(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want limit 2", len(all))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Begin(context.Background(), "show", "audio")
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Get(context.Background(), id); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}
