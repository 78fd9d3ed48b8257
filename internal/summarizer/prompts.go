package summarizer

// Prompts are the instructions sent with summary requests.
type Prompts struct {
	System      string
	User        string
	MergeSystem string
	MergeUser   string
}

// DefaultPrompts are used for any prompt left empty.
var DefaultPrompts = Prompts{
	System: `You are an analyst of recorded spoken performances. You write faithful, specific summaries
and never invent material that is not in the transcript.`,

	User: `Summarize the transcript that follows. Start with a one-sentence overview, then describe the
main topics, stories and recurring themes in the order they appear. Use markdown headings and bullet
points, and bold the key names and ideas.`,

	MergeSystem: `You combine partial summaries of one long performance into a single coherent summary.`,

	MergeUser: `The summaries below each cover one consecutive part of the same performance, labeled with
their time range. Write one summary of the whole performance: keep the order of events, connect
callbacks and recurring themes across parts, and drop repetition. Do not mention the parts or labels.`,
}

func (p Prompts) withDefaults() Prompts {
	if p.System == "" {
		p.System = DefaultPrompts.System
	}
	if p.User == "" {
		p.User = DefaultPrompts.User
	}
	if p.MergeSystem == "" {
		p.MergeSystem = DefaultPrompts.MergeSystem
	}
	if p.MergeUser == "" {
		p.MergeUser = DefaultPrompts.MergeUser
	}
	return p
}
