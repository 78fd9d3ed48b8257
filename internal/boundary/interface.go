package boundary

import (
	"context"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Finder picks the sentence at which a chunk should end.
type Finder interface {
	// FindBoundary returns the Index of the sentence closest to a natural break near target.
	// It never fails: service errors and unusable answers fall back to a deterministic choice.
	// It returns -1 only when sentences is empty.
	FindBoundary(ctx context.Context, sentences []domain.Sentence, target float64) int
}
