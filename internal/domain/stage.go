package domain

import "fmt"

// Stage is a step of the document pipeline. The order of the constants is the dependency order.
type Stage int

const (
	StageAudio Stage = iota
	StageTranscript
	StageSegmentation
	StageSummary
)

// Stages lists every stage in dependency order.
var Stages = []Stage{StageAudio, StageTranscript, StageSegmentation, StageSummary}

func (s Stage) String() string {
	switch s {
	case StageAudio:
		return "audio"
	case StageTranscript:
		return "transcript"
	case StageSegmentation:
		return "segmentation"
	case StageSummary:
		return "summary"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ParseStage is the inverse of Stage.String.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}
