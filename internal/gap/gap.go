// Package gap compares the skill sets of a resume and a job description.
package gap

import (
	"sort"
	"strings"
)

// Report partitions the union of both skill sets. Every list is sorted
// ignoring case and the three lists never share a name.
type Report struct {
	// Matched are skills present in both documents, spelled as in the job description.
	Matched []string `json:"matched"`
	// Needed are job description skills missing from the resume.
	Needed []string `json:"needed"`
	// Extra are resume skills the job description does not ask for.
	Extra []string `json:"extra"`
}

// Compare matches names case-insensitively. Duplicates within a list are
// ignored and the result does not depend on input order.
func Compare(resume, jd []string) Report {
	resumeSet := index(resume)
	jdSet := index(jd)

	report := Report{
		Matched: []string{},
		Needed:  []string{},
		Extra:   []string{},
	}

	for key, name := range jdSet {
		if _, ok := resumeSet[key]; ok {
			report.Matched = append(report.Matched, name)
			continue
		}
		report.Needed = append(report.Needed, name)
	}
	for key, name := range resumeSet {
		if _, ok := jdSet[key]; !ok {
			report.Extra = append(report.Extra, name)
		}
	}

	sortNames(report.Matched)
	sortNames(report.Needed)
	sortNames(report.Extra)
	return report
}

// MatchScore is the Jaccard overlap of both sets as a percentage rounded to
// one decimal. Two empty sets score 0.
func (r Report) MatchScore() float64 {
	union := len(r.Matched) + len(r.Needed) + len(r.Extra)
	if union == 0 {
		return 0
	}
	return round1(float64(len(r.Matched)) / float64(union) * 100)
}

// Coverage is the share of job description skills found on the resume, as a
// percentage rounded to one decimal. A job description without skills is
// fully covered.
func (r Report) Coverage() float64 {
	required := len(r.Matched) + len(r.Needed)
	if required == 0 {
		return 100
	}
	return round1(float64(len(r.Matched)) / float64(required) * 100)
}

// Total is the size of the union.
func (r Report) Total() int {
	return len(r.Matched) + len(r.Needed) + len(r.Extra)
}

// index maps every case-insensitive name to a single spelling. Among
// spellings of the same name the smallest in byte order is kept.
func index(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; !ok || n < existing {
			out[key] = n
		}
	}
	return out
}

func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
