package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// transcribe produces the transcript artifact, either by importing a transcript input
// or by running speech recognition on the audio artifact.
func (p *implProcessor) transcribe(ctx context.Context, state *runState) error {
	var (
		sentences []domain.Sentence
		err       error
	)

	if IsTranscript(state.input) {
		p.logger.Info(ctx, "Importing transcript: %s", state.input)
		sentences, err = readTranscript(state.input)
	} else {
		sentences, err = p.deps.Transcriber.Transcribe(ctx, state.store.Path(domain.StageAudio))
	}
	if err != nil {
		return err
	}

	if err := validateTranscript(sentences); err != nil {
		return err
	}
	if err := state.store.SaveSentences(sentences); err != nil {
		return err
	}

	state.sentences = sentences
	return nil
}

// sentences returns the transcript, loading the artifact when this run did not produce it.
func (p *implProcessor) sentences(state *runState) ([]domain.Sentence, error) {
	if state.sentences != nil {
		return state.sentences, nil
	}
	sentences, err := state.store.LoadSentences()
	if err != nil {
		return nil, err
	}
	if err := validateTranscript(sentences); err != nil {
		return nil, err
	}
	state.sentences = sentences
	return sentences, nil
}

func readTranscript(path string) ([]domain.Sentence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var sentences []domain.Sentence
	if err := json.Unmarshal(data, &sentences); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTranscript, path, err)
	}
	return sentences, nil
}

// validateTranscript requires a non-empty list whose indexes are 0..N-1 in order
// and whose timings are not inverted.
func validateTranscript(sentences []domain.Sentence) error {
	if len(sentences) == 0 {
		return fmt.Errorf("%w: no sentences", ErrInvalidTranscript)
	}
	for i, s := range sentences {
		if s.Index != i {
			return fmt.Errorf("%w: sentence at position %d has index %d", ErrInvalidTranscript, i, s.Index)
		}
		if s.EndTime < s.StartTime {
			return fmt.Errorf("%w: sentence %d ends before it starts", ErrInvalidTranscript, i)
		}
	}
	return nil
}
