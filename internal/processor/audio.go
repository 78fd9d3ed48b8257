package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// extractAudio converts the media file to 16kHz mono PCM WAV, the input whisper expects,
// and moves it into dest once ffmpeg has finished.
func (p *implProcessor) extractAudio(ctx context.Context, mediaPath, dest string) error {
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}

	tmpPath := filepath.Join(p.cfg.Paths.Temp, DocumentName(mediaPath)+"_temp.wav")

	p.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		tmpPath,
	}

	if _, err := p.deps.Executor.Execute(ctx, p.cfg.FFmpeg.Binary, args...); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	if err := moveFile(tmpPath, dest); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return fmt.Errorf("move audio into place: %w", err)
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", dest)
	return nil
}

// moveFile renames src to dst, copying across filesystems when rename is not possible.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
