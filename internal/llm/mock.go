package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockAPIKey selects the mock client regardless of the configured provider.
const MockAPIKey = "test-key"

const mockGroupSize = 5

var indexFieldRe = regexp.MustCompile(`"index"\s*:\s*(\d+)`)

type mockClient struct{}

// NewMock returns a deterministic offline Client for dry runs and tests.
func NewMock() Client {
	return &mockClient{}
}

func (m *mockClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	joined := strings.Join(req.Messages, "\n")

	switch req.Task {
	case TaskSegment, TaskEdit:
		return mockSegments(indexesIn(joined))
	case TaskBoundary:
		idx := indexesIn(joined)
		if len(idx) == 0 {
			return "", fmt.Errorf("mock: no candidates in request")
		}
		return strconv.Itoa(idx[len(idx)/2]), nil
	case TaskSummary:
		return fmt.Sprintf("Mock summary covering %d characters of transcript.", len(joined)), nil
	case TaskMergeSummaries:
		return fmt.Sprintf("Mock merged summary combining %d chunk summaries.", strings.Count(joined, "CHUNK ")), nil
	default:
		return "", fmt.Errorf("mock: unsupported task %q", req.Task)
	}
}

// indexesIn returns the distinct "index" values of the JSON objects in s, in order.
func indexesIn(s string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, m := range indexFieldRe.FindAllStringSubmatch(s, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func mockSegments(indexes []int) (string, error) {
	type seg struct {
		SegmentID       int   `json:"segment_id"`
		SentenceIndexes []int `json:"sentence_indexes"`
	}

	segs := make([]seg, 0, len(indexes)/mockGroupSize+1)
	for i := 0; i < len(indexes); i += mockGroupSize {
		end := min(i+mockGroupSize, len(indexes))
		segs = append(segs, seg{SegmentID: len(segs) + 1, SentenceIndexes: indexes[i:end]})
	}

	b, err := json.Marshal(segs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
