package transcriber

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

const (
	// gapExtendThreshold is the shortest gap folded into the preceding sentence's end time.
	gapExtendThreshold = 0.1
	// maxSentenceSeconds caps how long unpunctuated speech is joined into one sentence.
	maxSentenceSeconds = 30.0
)

type span struct {
	start, end float64
	text       string
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(data []byte) ([]span, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	spans := make([]span, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" || isNonSpeech(text) {
			continue
		}
		spans = append(spans, span{
			start: float64(seg.Offsets.From) / 1000,
			end:   float64(seg.Offsets.To) / 1000,
			text:  text,
		})
	}
	return spans, nil
}

// isNonSpeech matches whisper markers such as [BLANK_AUDIO] or (applause).
func isNonSpeech(text string) bool {
	return (strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")) ||
		(strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")"))
}

// joinSentences merges consecutive spans until one ends a sentence.
func joinSentences(spans []span) []span {
	var (
		out []span
		cur *span
	)
	for _, s := range spans {
		if cur == nil {
			c := s
			cur = &c
		} else {
			cur.end = s.end
			cur.text += " " + s.text
		}
		if endsSentence(cur.text) || cur.end-cur.start >= maxSentenceSeconds {
			out = append(out, *cur)
			cur = nil
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func endsSentence(text string) bool {
	text = strings.TrimRight(text, `"')]”’ `)
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?") || strings.HasSuffix(text, "…")
}

// buildSentences indexes the spans and records the silence after each one. A gap longer than
// gapExtendThreshold is folded into the sentence's end time so audience reactions stay with
// the line that caused them; the last sentence measures its gap to audioDuration when known.
func buildSentences(spans []span, audioDuration float64) []domain.Sentence {
	sentences := make([]domain.Sentence, len(spans))
	for i, s := range spans {
		sent := domain.Sentence{
			Index:     i,
			Text:      s.text,
			StartTime: s.start,
			EndTime:   s.end,
		}

		var gap float64
		switch {
		case i < len(spans)-1:
			gap = spans[i+1].start - s.end
			if gap > gapExtendThreshold {
				sent.EndTime = spans[i+1].start
			}
		case audioDuration > 0:
			gap = audioDuration - s.end
			if gap > gapExtendThreshold {
				sent.EndTime = audioDuration
			}
		}
		sent.GapToNext = domain.Round2(gap)
		sentences[i] = sent
	}
	return sentences
}
