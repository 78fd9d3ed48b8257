package boundary

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/nguyentantai21042004/segment-flow/internal/llm"
)

var integerRe = regexp.MustCompile(`\b\d+\b`)

type candidate struct {
	Index   int     `json:"index"`
	EndTime float64 `json:"end_time"`
	Text    string  `json:"text"`
}

func (f *implFinder) FindBoundary(ctx context.Context, sentences []domain.Sentence, target float64) int {
	if len(sentences) == 0 {
		return -1
	}

	candidates := f.candidates(sentences, target)
	if len(candidates) == 0 {
		idx := closest(sentences, target)
		f.logger.Warn(ctx, "No sentence ends within %.0fs of %.1fs, using closest sentence %d", f.opts.Window/2, target, idx)
		return idx
	}
	if len(candidates) == 1 {
		return candidates[0].Index
	}

	middle := candidates[len(candidates)/2].Index
	f.logger.Debug(ctx, "Choosing boundary near %.1fs among %d candidates", target, len(candidates))

	payload, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return middle
	}

	req := llm.Request{
		Task:        llm.TaskBoundary,
		System:      f.opts.System,
		Messages:    []string{f.opts.Instruction + "\n\n" + string(payload)},
		Temperature: 0,
		MaxTokens:   f.opts.MaxTokens,
	}
	resp, err := f.policy.Call(ctx, string(llm.TaskBoundary), func(ctx context.Context) (string, error) {
		return f.client.Complete(ctx, req)
	})
	if err != nil {
		f.logger.Warn(ctx, "Boundary selection failed, using middle candidate %d: %v", middle, err)
		return middle
	}

	if idx, ok := pick(resp, candidates); ok {
		f.logger.Info(ctx, "Selected boundary at sentence %d", idx)
		return idx
	}

	f.logger.Warn(ctx, "Boundary response %q names no candidate, using middle candidate %d", strings.TrimSpace(resp), middle)
	return middle
}

// candidates returns the sentences whose end time lies within the window centered on target.
func (f *implFinder) candidates(sentences []domain.Sentence, target float64) []candidate {
	lo, hi := target-f.opts.Window/2, target+f.opts.Window/2

	var out []candidate
	for _, s := range sentences {
		if s.EndTime >= lo && s.EndTime <= hi {
			out = append(out, candidate{Index: s.Index, EndTime: s.EndTime, Text: strings.TrimSpace(s.Text)})
		}
	}
	return out
}

// closest returns the Index of the sentence whose end time is nearest target; ties keep the earlier one.
func closest(sentences []domain.Sentence, target float64) int {
	best := sentences[0].Index
	bestDiff := math.Inf(1)
	for _, s := range sentences {
		if d := math.Abs(s.EndTime - target); d < bestDiff {
			best, bestDiff = s.Index, d
		}
	}
	return best
}

// pick returns the first integer in resp that names a candidate.
func pick(resp string, candidates []candidate) (int, bool) {
	valid := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		valid[c.Index] = true
	}

	for _, m := range integerRe.FindAllString(resp, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if valid[n] {
			return n, true
		}
	}
	return 0, false
}
