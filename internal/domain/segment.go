package domain

// Segment is a group of sentences judged to belong together.
// SentenceIndexes refer to the full transcript and are sorted.
// SourceChunk is 0 when the document was segmented in one call.
type Segment struct {
	SegmentID       int     `json:"segment_id"`
	SentenceIndexes []int   `json:"sentence_indexes"`
	StartTime       float64 `json:"start_time"`
	EndTime         float64 `json:"end_time"`
	Duration        float64 `json:"duration"`
	Text            string  `json:"text"`
	TotalGap        float64 `json:"total_gap"`
	SourceChunk     int     `json:"source_chunk,omitempty"`
}

// Chunk is a contiguous, time-bounded slice of the transcript processed as one request.
// The window is half-open: [StartTime, EndTime).
type Chunk struct {
	ChunkID          int        `json:"chunk_id"`
	StartTime        float64    `json:"start_time"`
	EndTime          float64    `json:"end_time"`
	StartSentenceIdx int        `json:"start_sentence_idx"`
	EndSentenceIdx   int        `json:"end_sentence_idx"`
	Sentences        []Sentence `json:"-"`
}

// Duration of the chunk window in seconds.
func (c Chunk) Duration() float64 {
	return c.EndTime - c.StartTime
}

// ChunkResult is the output of one successfully processed chunk.
type ChunkResult struct {
	Chunk    Chunk
	Segments []Segment
	Summary  string
}

// Result is a document-level segmentation with its summary.
type Result struct {
	Segments []Segment
	Summary  string
	Chunks   int
}
