package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) ([]domain.Sentence, error) {
	if t.opts.TempDir != "" {
		if err := os.MkdirAll(t.opts.TempDir, 0755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(t.opts.TempDir, "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, err
	}
	prefix := filepath.Join(workDir, "transcript")

	// -oj writes <prefix>.json with per-segment millisecond offsets.
	args := []string{
		"-m", t.opts.ModelPath,
		"-f", absAudio,
		"-oj",
		"-l", t.opts.Language,
		"-t", strconv.Itoa(t.opts.Threads),
		"-of", prefix,
	}
	if t.opts.Prompt != "" {
		args = append(args, "--prompt", t.opts.Prompt)
	}

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.opts.Threads, audioPath)
	if _, err := t.exec.ExecuteInDir(ctx, workDir, t.opts.Binary, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	spans, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	duration, err := t.Duration(ctx, audioPath)
	if err != nil {
		t.logger.Warn(ctx, "Could not determine audio duration, last sentence gets no trailing gap: %v", err)
		duration = 0
	}

	sentences := buildSentences(joinSentences(spans), duration)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("whisper produced no speech for %s", audioPath)
	}

	t.logger.Info(ctx, "Transcription completed: %d sentences, %.1fs", len(sentences), domain.Duration(sentences))
	return sentences, nil
}

func (t *implTranscriber) Duration(ctx context.Context, path string) (float64, error) {
	out, err := t.exec.Execute(ctx, t.opts.ProbeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return d, nil
}
