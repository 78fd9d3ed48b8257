package domain

import (
	"math"
	"strings"
)

// Sentence is one time-stamped unit of the transcript.
// Index is the position in the full transcript and never changes after transcription.
type Sentence struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	GapToNext float64 `json:"gap_to_next"`
}

// Duration returns the document duration covered by the transcript (the largest end time).
func Duration(sentences []Sentence) float64 {
	var d float64
	for _, s := range sentences {
		if s.EndTime > d {
			d = s.EndTime
		}
	}
	return d
}

// TranscriptText joins the sentence texts with single spaces.
func TranscriptText(sentences []Sentence) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// IndexOf maps sentence indexes to sentences.
func IndexOf(sentences []Sentence) map[int]Sentence {
	m := make(map[int]Sentence, len(sentences))
	for _, s := range sentences {
		m[s.Index] = s
	}
	return m
}

// Round2 rounds to two decimals, the precision used for all stored timings.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
