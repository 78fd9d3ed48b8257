package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return New(Dirs{
		Audio:         filepath.Join(root, "audio"),
		Transcripts:   filepath.Join(root, "transcripts"),
		Segmentations: filepath.Join(root, "segmentations"),
		Summaries:     filepath.Join(root, "summaries"),
	}, "show")
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPath(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		stage domain.Stage
		want  string
	}{
		{domain.StageAudio, "show.wav"},
		{domain.StageTranscript, "show_sentences.json"},
		{domain.StageSegmentation, "show_segments.json"},
		{domain.StageSummary, "show_summary.txt"},
	}
	for _, tt := range tests {
		if got := filepath.Base(s.Path(tt.stage)); got != tt.want {
			t.Errorf("Path(%s) = %s, want %s", tt.stage, got, tt.want)
		}
	}
}

func TestFirstMissing(t *testing.T) {
	s := newTestStore(t)

	if st, ok := s.FirstMissing(domain.StageAudio); !ok || st != domain.StageAudio {
		t.Errorf("FirstMissing() = %s, %v, want audio", st, ok)
	}

	touch(t, s.Path(domain.StageAudio))
	touch(t, s.Path(domain.StageTranscript))
	if st, ok := s.FirstMissing(domain.StageAudio); !ok || st != domain.StageSegmentation {
		t.Errorf("FirstMissing() = %s, %v, want segmentation", st, ok)
	}

	touch(t, s.Path(domain.StageSegmentation))
	touch(t, s.Path(domain.StageSummary))
	if _, ok := s.FirstMissing(domain.StageAudio); ok {
		t.Error("FirstMissing() reported a missing stage with every artifact present")
	}

	if err := s.Remove(domain.StageAudio); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.FirstMissing(domain.StageTranscript); ok {
		t.Error("FirstMissing(transcript) should ignore the audio slot")
	}
}

func TestExistsIgnoresEmptyFiles(t *testing.T) {
	s := newTestStore(t)
	path := s.Path(domain.StageSummary)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if s.Exists(domain.StageSummary) {
		t.Error("empty artifact counted as present")
	}
}

func TestRemoveFrom(t *testing.T) {
	s := newTestStore(t)
	for _, st := range domain.Stages {
		touch(t, s.Path(st))
	}

	if err := s.RemoveFrom(domain.StageSegmentation); err != nil {
		t.Fatalf("RemoveFrom() error = %v", err)
	}

	want := map[domain.Stage]bool{
		domain.StageAudio:        true,
		domain.StageTranscript:   true,
		domain.StageSegmentation: false,
		domain.StageSummary:      false,
	}
	for st, exists := range want {
		if s.Exists(st) != exists {
			t.Errorf("Exists(%s) = %v, want %v", st, !exists, exists)
		}
	}

	if err := s.RemoveFrom(domain.StageSegmentation); err != nil {
		t.Errorf("RemoveFrom() on missing artifacts error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	sentences := []domain.Sentence{{Index: 0, Text: "Hi.", StartTime: 0, EndTime: 1.5, GapToNext: 0.25}}
	if err := s.SaveSentences(sentences); err != nil {
		t.Fatalf("SaveSentences() error = %v", err)
	}
	gotSentences, err := s.LoadSentences()
	if err != nil || !reflect.DeepEqual(gotSentences, sentences) {
		t.Errorf("LoadSentences() = %+v, %v", gotSentences, err)
	}

	segments := []domain.Segment{{SegmentID: 1, SentenceIndexes: []int{0}, EndTime: 1.5, Duration: 1.5, Text: "Hi.", SourceChunk: 2}}
	if err := s.SaveSegments(segments); err != nil {
		t.Fatalf("SaveSegments() error = %v", err)
	}
	gotSegments, err := s.LoadSegments()
	if err != nil || !reflect.DeepEqual(gotSegments, segments) {
		t.Errorf("LoadSegments() = %+v, %v", gotSegments, err)
	}

	if err := s.SaveSummary("A short show."); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if got, err := s.LoadSummary(); err != nil || got != "A short show." {
		t.Errorf("LoadSummary() = %q, %v", got, err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path(domain.StageSummary)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("summaries dir has %d entries, want only the artifact", len(entries))
	}
}

func TestLoadSentencesInvalid(t *testing.T) {
	s := newTestStore(t)
	path := s.Path(domain.StageTranscript)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadSentences(); err == nil {
		t.Error("LoadSentences() should fail on malformed JSON")
	}
}
