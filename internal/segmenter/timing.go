package segmenter

import (
	"sort"
	"strings"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

// reconcile turns the service's grouping into sorted index groups that cover every
// requested sentence exactly once. Indexes outside the request and repeats are dropped;
// missing indexes join the group holding the closest preceding index (or the first group).
// It returns the groups ordered by first index and the number of indexes it had to fix.
func reconcile(raw []rawSegment, sentences []domain.Sentence) ([][]int, int) {
	allowed := make(map[int]bool, len(sentences))
	for _, s := range sentences {
		allowed[s.Index] = true
	}

	claimed := make(map[int]bool, len(sentences))
	repaired := 0
	var groups [][]int

	for _, r := range raw {
		var g []int
		for _, idx := range r.SentenceIndexes {
			if !allowed[idx] || claimed[idx] {
				repaired++
				continue
			}
			claimed[idx] = true
			g = append(g, idx)
		}
		if len(g) > 0 {
			sort.Ints(g)
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return nil, repaired
	}

	sortGroups(groups)

	for _, s := range sentences {
		if claimed[s.Index] {
			continue
		}
		claimed[s.Index] = true
		repaired++

		target := 0
		for i, g := range groups {
			if g[0] < s.Index {
				target = i
			}
		}
		groups[target] = append(groups[target], s.Index)
		sort.Ints(groups[target])
	}

	sortGroups(groups)
	return groups, repaired
}

func sortGroups(groups [][]int) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
}

// enrich resolves timing, text and gaps for each group from the full transcript.
// Segment ids are assigned 1..n in order.
func enrich(groups [][]int, full []domain.Sentence) []domain.Segment {
	byIdx := domain.IndexOf(full)
	segments := make([]domain.Segment, 0, len(groups))

	for _, g := range groups {
		var (
			texts    []string
			totalGap float64
			members  []int
		)
		for _, idx := range g {
			s, ok := byIdx[idx]
			if !ok {
				continue
			}
			members = append(members, idx)
			if t := strings.TrimSpace(s.Text); t != "" {
				texts = append(texts, t)
			}
			totalGap += s.GapToNext
		}
		if len(members) == 0 {
			continue
		}

		first := byIdx[members[0]]
		last := byIdx[members[len(members)-1]]
		segments = append(segments, domain.Segment{
			SegmentID:       len(segments) + 1,
			SentenceIndexes: members,
			StartTime:       domain.Round2(first.StartTime),
			EndTime:         domain.Round2(last.EndTime),
			Duration:        domain.Round2(last.EndTime - first.StartTime),
			Text:            strings.Join(texts, " "),
			TotalGap:        domain.Round2(totalGap),
		})
	}

	return segments
}
