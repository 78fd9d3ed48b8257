package chunker

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/boundary"
	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/retry"
	"github.com/nguyentantai21042004/segment-flow/internal/segmenter"
)

var errBudget = &retry.Error{Kind: retry.KindBudgetExceeded, Label: "segmentation", Attempts: 1, Err: errors.New("request too large")}

// closestFinder snaps to the sentence whose end time is nearest the target.
type closestFinder struct{}

func (closestFinder) FindBoundary(ctx context.Context, sentences []domain.Sentence, target float64) int {
	best, diff := -1, math.Inf(1)
	for _, s := range sentences {
		if d := math.Abs(s.EndTime - target); d < diff {
			best, diff = s.Index, d
		}
	}
	return best
}

// fakeProcessor fails with a budget error for chunks longer than maxDuration and
// otherwise returns one segment per five sentences with chunk-local ids.
type fakeProcessor struct {
	maxDuration float64
	err         error
	chunks      []domain.Chunk
}

func (f *fakeProcessor) ProcessChunk(ctx context.Context, chunk domain.Chunk, full []domain.Sentence) (domain.ChunkResult, error) {
	f.chunks = append(f.chunks, chunk)
	if f.err != nil {
		return domain.ChunkResult{}, f.err
	}
	if f.maxDuration > 0 && chunk.Duration() > f.maxDuration {
		return domain.ChunkResult{}, errBudget
	}

	var segs []domain.Segment
	for i := 0; i < len(chunk.Sentences); i += 5 {
		end := i + 5
		if end > len(chunk.Sentences) {
			end = len(chunk.Sentences)
		}
		var idx []int
		for _, s := range chunk.Sentences[i:end] {
			idx = append(idx, s.Index)
		}
		segs = append(segs, domain.Segment{SegmentID: len(segs) + 1, SentenceIndexes: idx})
	}
	return domain.ChunkResult{Segments: segs, Summary: "chunk summary"}, nil
}

// showSentences returns 40 sentences of 15s spanning 0-600s, with sentence 19 ending at 297.4s.
func showSentences() []domain.Sentence {
	out := make([]domain.Sentence, 40)
	for i := range out {
		start := float64(i) * 15
		out[i] = domain.Sentence{Index: i, Text: "line", StartTime: start, EndTime: start + 15}
	}
	out[19].EndTime = 297.4
	return out
}

func newTestPlanner(proc ChunkProcessor, finder boundary.Finder, opts Options) (*implPlanner, *[]time.Duration) {
	p := New(proc, finder, logger.Nop(), opts).(*implPlanner)
	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return p, &slept
}

func defaultOptions() Options {
	return Options{MinChunkDuration: 60, SizeReductionFactor: 0.2, MaxShrinkAttempts: 10, DelayBetweenChunks: 10 * time.Second}
}

func coverage(t *testing.T, results []domain.ChunkResult, n int) {
	t.Helper()
	seen := make(map[int]int)
	for _, r := range results {
		for _, seg := range r.Segments {
			for _, idx := range seg.SentenceIndexes {
				seen[idx]++
			}
		}
	}
	for i := 0; i < n; i++ {
		if seen[i] != 1 {
			t.Errorf("sentence %d covered %d times, want 1", i, seen[i])
		}
	}
	if len(seen) != n {
		t.Errorf("covered %d distinct sentences, want %d", len(seen), n)
	}
}

func TestPlanAndRunTwoChunks(t *testing.T) {
	sentences := showSentences()
	proc := &fakeProcessor{}
	finder := boundary.New(llm.NewMock(), retry.New(retry.Config{MaxAttempts: 1}, logger.Nop()), logger.Nop(), boundary.Options{Window: 60})
	p, slept := newTestPlanner(proc, finder, defaultOptions())

	results, err := p.PlanAndRun(context.Background(), sentences, 600)
	if err != nil {
		t.Fatalf("PlanAndRun() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	first, second := results[0].Chunk, results[1].Chunk
	if first.ChunkID != 1 || first.StartTime != 0 || first.EndTime != 297.4 || first.EndSentenceIdx != 19 {
		t.Errorf("first chunk = %+v, want [0, 297.4) ending at sentence 19", first)
	}
	if second.ChunkID != 2 || second.StartTime != 297.4 || second.EndTime != 600 || second.StartSentenceIdx != 20 {
		t.Errorf("second chunk = %+v, want [297.4, 600) starting at sentence 20", second)
	}
	coverage(t, results, len(sentences))

	if len(*slept) != 1 || (*slept)[0] != 10*time.Second {
		t.Errorf("slept %v, want one 10s pause between chunks", *slept)
	}
}

func TestPlanAndRunShrinksThenAdvances(t *testing.T) {
	sentences := showSentences()
	proc := &fakeProcessor{maxDuration: 200}
	p, _ := newTestPlanner(proc, closestFinder{}, defaultOptions())

	results, err := p.PlanAndRun(context.Background(), sentences, 600)
	if err != nil {
		t.Fatalf("PlanAndRun() error = %v", err)
	}
	coverage(t, results, len(sentences))

	for i, r := range results {
		if r.Chunk.ChunkID != i+1 {
			t.Errorf("results[%d].ChunkID = %d, want %d", i, r.Chunk.ChunkID, i+1)
		}
		if r.Chunk.Duration() > 200 {
			t.Errorf("chunk %d duration %.1f exceeds the budget", r.Chunk.ChunkID, r.Chunk.Duration())
		}
		if i > 0 && r.Chunk.StartTime != results[i-1].Chunk.EndTime {
			t.Errorf("chunk %d starts at %.1f, previous ended at %.1f", r.Chunk.ChunkID, r.Chunk.StartTime, results[i-1].Chunk.EndTime)
		}
	}
}

func TestPlanAndRunBoundaryLegality(t *testing.T) {
	sentences := showSentences()
	ends := make(map[float64]bool)
	for _, s := range sentences {
		ends[s.EndTime] = true
	}
	proc := &fakeProcessor{maxDuration: 130}
	p, _ := newTestPlanner(proc, closestFinder{}, defaultOptions())

	results, err := p.PlanAndRun(context.Background(), sentences, 600)
	if err != nil {
		t.Fatalf("PlanAndRun() error = %v", err)
	}
	for _, c := range proc.chunks {
		if !ends[c.EndTime] {
			t.Errorf("chunk %d ends at %.1f, not a sentence end", c.ChunkID, c.EndTime)
		}
		last := c.Sentences[len(c.Sentences)-1]
		if last.Index != c.EndSentenceIdx {
			t.Errorf("chunk %d last sentence %d, EndSentenceIdx %d", c.ChunkID, last.Index, c.EndSentenceIdx)
		}
	}
	coverage(t, results, len(sentences))
}

func TestPlanAndRunUnserviceable(t *testing.T) {
	sentences := showSentences()
	proc := &fakeProcessor{err: errBudget}
	p, _ := newTestPlanner(proc, closestFinder{}, defaultOptions())

	results, err := p.PlanAndRun(context.Background(), sentences, 600)
	if !errors.Is(err, ErrChunkUnserviceable) {
		t.Fatalf("PlanAndRun() error = %v, want ErrChunkUnserviceable", err)
	}
	if results != nil {
		t.Errorf("results = %v, want none", results)
	}

	// Targets 300, 240, 192, ... until one below 60s has also failed.
	if len(proc.chunks) != 9 {
		t.Errorf("attempts = %d, want 9", len(proc.chunks))
	}
	for i := 1; i < len(proc.chunks); i++ {
		prev, cur := proc.chunks[i-1], proc.chunks[i]
		if cur.StartTime != 0 || cur.ChunkID != 1 {
			t.Errorf("attempt %d moved the cursor: %+v", i+1, cur)
		}
		if cur.EndTime >= prev.EndTime {
			t.Errorf("attempt %d ends at %.1f, not before %.1f", i+1, cur.EndTime, prev.EndTime)
		}
	}
	if got := proc.chunks[0].EndTime; got != 297.4 {
		t.Errorf("first attempt ends at %.1f, want the sentence end nearest 300s", got)
	}
}

func TestPlanAndRunMaxShrinkAttempts(t *testing.T) {
	opts := defaultOptions()
	opts.MaxShrinkAttempts = 3
	proc := &fakeProcessor{err: errBudget}
	p, _ := newTestPlanner(proc, closestFinder{}, opts)

	_, err := p.PlanAndRun(context.Background(), showSentences(), 600)
	if !errors.Is(err, ErrChunkUnserviceable) {
		t.Fatalf("PlanAndRun() error = %v, want ErrChunkUnserviceable", err)
	}
	if len(proc.chunks) != 4 {
		t.Errorf("attempts = %d, want 4", len(proc.chunks))
	}
}

func TestPlanAndRunOtherErrorsAbort(t *testing.T) {
	orig := &retry.Error{Kind: retry.KindNonRetryable, Label: "segmentation", Attempts: 1, Err: errors.New("401 unauthorized")}
	proc := &fakeProcessor{err: orig}
	p, _ := newTestPlanner(proc, closestFinder{}, defaultOptions())

	_, err := p.PlanAndRun(context.Background(), showSentences(), 600)
	if !errors.Is(err, orig) {
		t.Fatalf("PlanAndRun() error = %v, want the processor error", err)
	}
	if len(proc.chunks) != 1 {
		t.Errorf("attempts = %d, want 1", len(proc.chunks))
	}
}

func TestPlanAndRunNeverResendsFailedSpan(t *testing.T) {
	type span struct{ start, end float64 }

	tests := []struct {
		name        string
		maxDuration float64
		min         float64
		shrinks     int
		wantErr     error
		wantEnds    []float64
	}{
		{
			name:        "short tail after a shrink becomes its own chunk",
			maxDuration: 280,
			min:         100,
			shrinks:     3,
			wantEnds:    []float64{240, 465, 600},
		},
		{
			name:        "minimum above the budget",
			maxDuration: 280,
			min:         300,
			shrinks:     3,
			wantErr:     ErrChunkUnserviceable,
		},
		{
			name:     "first attempt raised to the minimum",
			min:      400,
			shrinks:  3,
			wantEnds: []float64{405, 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences := showSentences()
			proc := &fakeProcessor{maxDuration: tt.maxDuration}
			opts := defaultOptions()
			opts.MinChunkDuration = tt.min
			opts.MaxShrinkAttempts = tt.shrinks
			p, _ := newTestPlanner(proc, closestFinder{}, opts)

			results, err := p.PlanAndRun(context.Background(), sentences, 600)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PlanAndRun() error = %v, want %v", err, tt.wantErr)
			}

			sent := make(map[span]int)
			for _, c := range proc.chunks {
				sent[span{c.StartTime, c.EndTime}]++
			}
			for s, n := range sent {
				if n > 1 {
					t.Errorf("span [%.1f, %.1f) sent %d times", s.start, s.end, n)
				}
			}

			if tt.wantErr != nil {
				return
			}
			if len(results) != len(tt.wantEnds) {
				t.Fatalf("len(results) = %d, want %d", len(results), len(tt.wantEnds))
			}
			for i, r := range results {
				if r.Chunk.EndTime != tt.wantEnds[i] {
					t.Errorf("chunk %d ends at %.1f, want %.1f", r.Chunk.ChunkID, r.Chunk.EndTime, tt.wantEnds[i])
				}
			}
			coverage(t, results, len(sentences))
		})
	}
}

func TestPlanAndRunSkipsSnappedFailure(t *testing.T) {
	// Sentences of 100s: targets 192s and 153.6s snap back to the 200s end that already failed.
	sentences := make([]domain.Sentence, 6)
	for i := range sentences {
		start := float64(i) * 100
		sentences[i] = domain.Sentence{Index: i, Text: "line", StartTime: start, EndTime: start + 100}
	}
	proc := &fakeProcessor{maxDuration: 150}
	opts := defaultOptions()
	opts.MinChunkDuration = 50
	p, _ := newTestPlanner(proc, closestFinder{}, opts)

	results, err := p.PlanAndRun(context.Background(), sentences, 600)
	if err != nil {
		t.Fatalf("PlanAndRun() error = %v", err)
	}

	type span struct{ start, end float64 }
	sent := make(map[span]bool)
	var first []float64
	for _, c := range proc.chunks {
		s := span{c.StartTime, c.EndTime}
		if sent[s] {
			t.Errorf("span [%.1f, %.1f) sent twice", s.start, s.end)
		}
		sent[s] = true
		if c.ChunkID == 1 {
			first = append(first, c.EndTime)
		}
	}
	if len(first) != 3 || first[0] != 300 || first[1] != 200 || first[2] != 100 {
		t.Errorf("chunk 1 tried ends %v, want [300 200 100]", first)
	}
	coverage(t, results, len(sentences))
}

func TestPlanAndRunCancelledBetweenChunks(t *testing.T) {
	proc := &fakeProcessor{}
	p, _ := newTestPlanner(proc, closestFinder{}, defaultOptions())
	p.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	_, err := p.PlanAndRun(context.Background(), showSentences(), 600)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PlanAndRun() error = %v, want context.Canceled", err)
	}
}

type fakeSummarizer struct {
	err error
}

func (f fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + text, nil
}

func TestSegmentingProcessor(t *testing.T) {
	sentences := showSentences()
	chunk := domain.Chunk{ChunkID: 2, StartTime: 297.4, EndTime: 600, Sentences: sentences[20:]}
	policy := retry.New(retry.Config{MaxAttempts: 1}, logger.Nop())
	seg := segmenter.New(llm.NewMock(), policy, logger.Nop(), segmenter.DefaultPrompts, segmenter.Options{EditorPass: true})

	tests := []struct {
		name        string
		sum         Summarizer
		wantSummary bool
	}{
		{name: "with summary", sum: fakeSummarizer{}, wantSummary: true},
		{name: "summary failure is soft", sum: fakeSummarizer{err: errors.New("503 service unavailable")}},
		{name: "no summarizer", sum: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := NewSegmentingProcessor(seg, tt.sum, logger.Nop())

			res, err := proc.ProcessChunk(context.Background(), chunk, sentences)
			if err != nil {
				t.Fatalf("ProcessChunk() error = %v", err)
			}
			if (res.Summary != "") != tt.wantSummary {
				t.Errorf("Summary = %q, wantSummary %v", res.Summary, tt.wantSummary)
			}
			coverageFrom := map[int]bool{}
			for _, s := range res.Segments {
				for _, idx := range s.SentenceIndexes {
					coverageFrom[idx] = true
				}
			}
			if len(coverageFrom) != 20 || !coverageFrom[20] || !coverageFrom[39] {
				t.Errorf("segments cover %d sentences, want 20..39", len(coverageFrom))
			}
		})
	}
}
