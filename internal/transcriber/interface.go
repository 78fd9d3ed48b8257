package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Transcriber turns an audio file into timestamped sentences.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]domain.Sentence, error)
	// Duration returns the media duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}
