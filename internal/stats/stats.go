// Package stats derives reporting figures from reconciled skills and raw text:
// category summaries, per-skill frequencies and the sentences a skill is
// mentioned in.
package stats

import (
	"sort"
	"strings"

	"github.com/spigell/skillgap/internal/extraction"
	"github.com/spigell/skillgap/internal/skills"
	"github.com/spigell/skillgap/internal/taxonomy"
)

// Summary counts skills per category. Percentages are shares of Total and are
// zero when there are no skills.
type Summary struct {
	Total            int     `json:"total"`
	Technical        int     `json:"technical"`
	Soft             int     `json:"soft"`
	Unknown          int     `json:"unknown"`
	TechnicalPercent float64 `json:"technical_percent"`
	SoftPercent      float64 `json:"soft_percent"`
	UnknownPercent   float64 `json:"unknown_percent"`
}

// Count is the number of times a skill is mentioned.
type Count struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// GroupShare is the share of a document's known skills that fall into a
// taxonomy group.
type GroupShare struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

func Summarize(list []skills.Skill) Summary {
	s := Summary{Total: len(list)}
	for _, sk := range list {
		switch sk.Category {
		case skills.Technical:
			s.Technical++
		case skills.Soft:
			s.Soft++
		default:
			s.Unknown++
		}
	}

	s.TechnicalPercent = percent(s.Technical, s.Total)
	s.SoftPercent = percent(s.Soft, s.Total)
	s.UnknownPercent = percent(s.Unknown, s.Total)
	return s
}

// Frequency counts whole-word mentions of every taxonomy entry in text. An
// entry's aliases count towards it. Entries that are never mentioned are
// omitted. The result is ordered by count, highest first, then by name.
func Frequency(text string, tax *taxonomy.Taxonomy) []Count {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return []Count{}
	}

	totals := make(map[string]int)
	for _, term := range tax.Terms() {
		if n := extraction.Occurrences(text, strings.ToLower(term.Text)); n > 0 {
			totals[term.Entry] += n
		}
	}

	out := make([]Count, 0, len(totals))
	for name, n := range totals {
		out = append(out, Count{Skill: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Skill) < strings.ToLower(out[j].Skill)
	})
	return out
}

// Top returns at most n leading counts. A non-positive n returns them all.
func Top(counts []Count, n int) []Count {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// Contexts returns the trimmed sentences that mention skill as a whole word,
// in their original order.
func Contexts(sentences []string, skill string) []string {
	term := strings.ToLower(strings.TrimSpace(skill))
	out := []string{}
	if term == "" {
		return out
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if extraction.Occurrences(strings.ToLower(sentence), term) > 0 {
			out = append(out, sentence)
		}
	}
	return out
}

// Distribution groups the skills that are taxonomy entries by the entry's
// group. Skills outside the taxonomy are not counted. Groups are ordered by
// name.
func Distribution(list []skills.Skill, tax *taxonomy.Taxonomy) []GroupShare {
	counts := make(map[string]int)
	known := 0
	for _, sk := range list {
		entry, ok := tax.Lookup(sk.Name)
		if !ok || entry.Group == "" {
			continue
		}
		counts[entry.Group]++
		known++
	}

	out := make([]GroupShare, 0, len(counts))
	for group, n := range counts {
		out = append(out, GroupShare{Group: group, Count: n, Percent: percent(n, known)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v := float64(part) / float64(total) * 100
	return float64(int(v*10+0.5)) / 10
}
