// Package reconcile merges raw extraction candidates into the canonical,
// classified and de-duplicated skill set of a document.
package reconcile

import (
	"sort"
	"strings"

	"github.com/spigell/skillgap/internal/extraction"
	"github.com/spigell/skillgap/internal/skills"
	"github.com/spigell/skillgap/internal/taxonomy"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// ClassifiedOnly drops skills that match neither an entry nor a keyword rule.
func ClassifiedOnly() Option {
	return func(r *Reconciler) {
		r.classifiedOnly = true
	}
}

type Reconciler struct {
	tax            *taxonomy.Taxonomy
	classifiedOnly bool
}

func New(tax *taxonomy.Taxonomy, opts ...Option) *Reconciler {
	r := &Reconciler{tax: tax}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile folds candidates into unique skills. Abbreviations are expanded
// before folding, so "ML" and "Machine Learning" become one skill. When two
// candidates share a key, the first one keeps its casing. The result is
// sorted by name, ignoring case.
func (r *Reconciler) Reconcile(source skills.Source, candidates []extraction.Candidate) []skills.Skill {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]skills.Skill, 0, len(candidates))

	for _, c := range candidates {
		name := strings.Join(strings.Fields(r.tax.Canonicalize(c.Text)), " ")
		key := skills.Key(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		category := r.tax.CategoryOf(name)
		if r.classifiedOnly && category == skills.Unknown {
			continue
		}

		out = append(out, skills.Skill{
			Name:     name,
			Category: category,
			Source:   source,
		})
	}

	Sort(out)
	return out
}

// Sort orders skills by name ignoring case, falling back to byte order so the
// result is deterministic.
func Sort(list []skills.Skill) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].Name < list[j].Name
	})
}
