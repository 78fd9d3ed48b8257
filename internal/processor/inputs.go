package processor

import (
	"path/filepath"
	"strings"
)

const transcriptSuffix = "_sentences"

var mediaExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".m4v": true, ".flv": true,
	".wav": true, ".mp3": true, ".m4a": true,
}

// IsMedia reports whether path is an audio or video file the pipeline can extract audio from.
func IsMedia(path string) bool {
	return mediaExts[strings.ToLower(filepath.Ext(path))]
}

// IsTranscript reports whether path is a sentence-list JSON file.
func IsTranscript(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// IsSupported reports whether path can be processed.
func IsSupported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return IsMedia(path) || IsTranscript(path)
}

// DocumentName derives the artifact name from an input path: the file stem, without
// the "_sentences" suffix that transcript artifacts carry.
func DocumentName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if IsTranscript(path) {
		name = strings.TrimSuffix(name, transcriptSuffix)
	}
	return name
}
