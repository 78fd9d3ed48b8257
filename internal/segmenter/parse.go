package segmenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is returned when a response cannot be read as a segment list.
var ErrMalformedResponse = errors.New("malformed segmentation response")

type rawSegment struct {
	SegmentID       int   `json:"segment_id"`
	SentenceIndexes []int `json:"sentence_indexes"`
}

// parseSegments accepts a bare JSON array, an object with a "segments" field,
// or either of those wrapped in prose or a code fence.
func parseSegments(raw string) ([]rawSegment, error) {
	text := stripCodeFence(raw)

	var segs []rawSegment
	if err := json.Unmarshal([]byte(text), &segs); err == nil && len(segs) > 0 {
		return segs, nil
	}

	var wrapped struct {
		Segments []rawSegment `json:"segments"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && len(wrapped.Segments) > 0 {
		return wrapped.Segments, nil
	}

	if arr := extractJSONArray(text); arr != "" {
		if err := json.Unmarshal([]byte(arr), &segs); err == nil && len(segs) > 0 {
			return segs, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, truncate(text, 200))
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONArray returns the outermost [...] span of s, or "".
func extractJSONArray(s string) string {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
