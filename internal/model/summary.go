package model

import (
	"sort"
	"strings"
)

// PoetSummary holds per-poet statistics.
type PoetSummary struct {
	Name       string `json:"name"`
	PoemCount  int    `json:"poem_count"`
	Classical  int    `json:"classical"`
	WithMeter  int    `json:"with_meter"`
	TotalLines int    `json:"total_lines"`
}

// Count is a label with an occurrence count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary aggregates statistics over a mapping for reports.
type Summary struct {
	// Source describes where the mapping was loaded from.
	Source string `json:"source"`

	PoetCount int `json:"poet_count"`
	PoemCount int `json:"poem_count"`

	// DuplicateTexts counts poems whose text digest was already seen
	// under another title or poet.
	DuplicateTexts int `json:"duplicate_texts"`

	Poets  []PoetSummary `json:"poets"`
	Genres []Count       `json:"genres,omitempty"`
	Meters []Count       `json:"meters,omitempty"`
}

// NewSummary computes the summary of m.
// Poets are sorted by poem count (descending) then name; label counts are
// sorted the same way.
func NewSummary(source string, m Mapping) *Summary {
	s := &Summary{
		Source:    source,
		PoetCount: len(m),
		Poets:     make([]PoetSummary, 0, len(m)),
	}

	genres := make(map[string]int)
	meters := make(map[string]int)
	seen := make(map[string]struct{})

	for _, name := range m.Names() {
		poet := m[name]
		ps := PoetSummary{Name: name, PoemCount: len(poet.Poems)}
		for _, poem := range poet.Poems {
			s.PoemCount++
			if poem.Genre != "" {
				genres[poem.Genre]++
			}
			if poem.Meter != "" {
				meters[poem.Meter]++
				ps.WithMeter++
			}
			if isClassical(poem.Text) {
				ps.Classical++
			}
			ps.TotalLines += lineCount(poem.Text)
			if d := poem.Digest(); d != "" {
				if _, dup := seen[d]; dup {
					s.DuplicateTexts++
				}
				seen[d] = struct{}{}
			}
		}
		s.Poets = append(s.Poets, ps)
	}

	sort.SliceStable(s.Poets, func(i, j int) bool {
		if s.Poets[i].PoemCount == s.Poets[j].PoemCount {
			return s.Poets[i].Name < s.Poets[j].Name
		}
		return s.Poets[i].PoemCount > s.Poets[j].PoemCount
	})
	s.Genres = sortedCounts(genres)
	s.Meters = sortedCounts(meters)
	return s
}

// HasPoems reports whether the summary covers at least one poem.
func (s *Summary) HasPoems() bool {
	return s.PoemCount > 0
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Label < out[j].Label
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// isClassical reports whether text looks like tab separated couplets.
func isClassical(text string) bool {
	return strings.Contains(text, "\t")
}

func lineCount(text string) int {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
