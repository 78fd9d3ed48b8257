package processor

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

var (
	ErrUnsupportedInput  = errors.New("unsupported input file")
	ErrTranscriptMissing = errors.New("transcript artifact missing")
	ErrInvalidTranscript = errors.New("invalid transcript")
)

// StageError reports the stage a document run failed in.
type StageError struct {
	Stage domain.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
