package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// Dirs are the folders holding each stage's artifacts.
type Dirs struct {
	Audio         string
	Transcripts   string
	Segmentations string
	Summaries     string
}

// Store locates and persists one document's artifacts. Paths derive only from the document name.
type Store struct {
	dirs Dirs
	name string
}

// New creates a Store for the document called name.
func New(dirs Dirs, name string) *Store {
	return &Store{dirs: dirs, name: name}
}

// Name of the document.
func (s *Store) Name() string {
	return s.name
}

// Path returns the artifact path for stage.
func (s *Store) Path(stage domain.Stage) string {
	switch stage {
	case domain.StageAudio:
		return filepath.Join(s.dirs.Audio, s.name+".wav")
	case domain.StageTranscript:
		return filepath.Join(s.dirs.Transcripts, s.name+"_sentences.json")
	case domain.StageSegmentation:
		return filepath.Join(s.dirs.Segmentations, s.name+"_segments.json")
	case domain.StageSummary:
		return filepath.Join(s.dirs.Summaries, s.name+"_summary.txt")
	default:
		return ""
	}
}

// Exists reports whether the stage's artifact is present as a non-empty regular file.
func (s *Store) Exists(stage domain.Stage) bool {
	info, err := os.Stat(s.Path(stage))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// FirstMissing returns the first stage, starting at from, whose artifact is absent.
// ok is false when every stage from there on is present.
func (s *Store) FirstMissing(from domain.Stage) (domain.Stage, bool) {
	for _, st := range domain.Stages {
		if st < from {
			continue
		}
		if !s.Exists(st) {
			return st, true
		}
	}
	return 0, false
}

// Remove deletes the stage's artifact. A missing artifact is not an error.
func (s *Store) Remove(stage domain.Stage) error {
	err := os.Remove(s.Path(stage))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s artifact: %w", stage, err)
	}
	return nil
}

// RemoveFrom deletes the artifacts of stage and every later stage.
func (s *Store) RemoveFrom(stage domain.Stage) error {
	for _, st := range domain.Stages {
		if st < stage {
			continue
		}
		if err := s.Remove(st); err != nil {
			return err
		}
	}
	return nil
}

// SaveSentences writes the transcript artifact.
func (s *Store) SaveSentences(sentences []domain.Sentence) error {
	return s.saveJSON(domain.StageTranscript, sentences)
}

// LoadSentences reads the transcript artifact.
func (s *Store) LoadSentences() ([]domain.Sentence, error) {
	var out []domain.Sentence
	if err := s.loadJSON(domain.StageTranscript, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSegments writes the segmentation artifact.
func (s *Store) SaveSegments(segments []domain.Segment) error {
	return s.saveJSON(domain.StageSegmentation, segments)
}

// LoadSegments reads the segmentation artifact.
func (s *Store) LoadSegments() ([]domain.Segment, error) {
	var out []domain.Segment
	if err := s.loadJSON(domain.StageSegmentation, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSummary writes the summary artifact.
func (s *Store) SaveSummary(summary string) error {
	return writeAtomic(s.Path(domain.StageSummary), []byte(summary))
}

// LoadSummary reads the summary artifact.
func (s *Store) LoadSummary() (string, error) {
	data, err := os.ReadFile(s.Path(domain.StageSummary))
	if err != nil {
		return "", fmt.Errorf("read summary: %w", err)
	}
	return string(data), nil
}

func (s *Store) saveJSON(stage domain.Stage, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", stage, err)
	}
	return writeAtomic(s.Path(stage), data)
}

func (s *Store) loadJSON(stage domain.Stage, v interface{}) error {
	data, err := os.ReadFile(s.Path(stage))
	if err != nil {
		return fmt.Errorf("read %s: %w", stage, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", stage, s.Path(stage), err)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it into place,
// so a crash never leaves a partial artifact that would count as present.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
