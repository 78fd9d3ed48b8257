package segmenter

// Prompts holds the instructions sent with each pass.
type Prompts struct {
	System     string
	User       string
	EditorSys  string
	EditorUser string
}

// DefaultPrompts are used when no prompt files are configured.
var DefaultPrompts = Prompts{
	System: `You segment transcripts of spoken performances into "bits": contiguous runs of sentences that
develop one idea, story or joke from setup to its final payoff. You reason only about structure.`,

	User: `Below is a JSON array of sentences. Each has an index, text, start_time, end_time and gap_to_next
(seconds of silence or audience reaction after the sentence; long gaps often close a bit).

Group every sentence into exactly one segment. Segments must be contiguous and in order.
Return ONLY a JSON array, no prose:
[{"segment_id": 1, "sentence_indexes": [0, 1, 2]}, ...]`,

	EditorSys: `You review a proposed segmentation of a spoken performance and fix mistakes: bits split in
the middle, unrelated material merged, callbacks separated from the bit they close.`,

	EditorUser: `You receive the original sentences and a proposed segmentation. Return the corrected
segmentation in the same format. Keep every sentence index exactly once. Return ONLY the JSON array.`,
}
