// Package taxonomy holds the static table of recognised skills, the ordered
// keyword rules used to classify unrecognised terms, and the abbreviation map.
//
// A Taxonomy is built once at startup and never mutated afterwards, so it can
// be shared by concurrent analyses without locking.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/skillgap/internal/skills"
)

// Entry is a recognised skill.
type Entry struct {
	Name     string
	Category skills.Category
	Group    string
	Aliases  []string
}

// Rules are the ordered keyword lists used for substring classification.
// Technical rules are always evaluated before Soft rules.
type Rules struct {
	Technical []string
	Soft      []string
}

// Term is a searchable surface form of an entry: its name or one of its aliases.
type Term struct {
	Text  string
	Entry string
}

type Taxonomy struct {
	entries       []Entry
	index         map[string]int
	technical     []string
	soft          []string
	abbreviations map[string]string
}

// New validates and indexes the provided tables.
func New(entries []Entry, rules Rules, abbreviations map[string]string) (*Taxonomy, error) {
	t := &Taxonomy{
		entries:       make([]Entry, 0, len(entries)),
		index:         make(map[string]int, len(entries)),
		technical:     lowerAll(rules.Technical),
		soft:          lowerAll(rules.Soft),
		abbreviations: make(map[string]string, len(abbreviations)),
	}

	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, errors.New("taxonomy entry with empty name")
		}

		pos := len(t.entries)
		for _, term := range append([]string{e.Name}, e.Aliases...) {
			key := skills.Key(term)
			if key == "" {
				continue
			}
			if existing, ok := t.index[key]; ok && existing != pos {
				return nil, fmt.Errorf("term %q of %q is already defined by %q", term, e.Name, t.entries[existing].Name)
			}
			t.index[key] = pos
		}

		e.Aliases = append([]string(nil), e.Aliases...)
		t.entries = append(t.entries, e)
	}

	for abbr, full := range abbreviations {
		key := skills.Key(abbr)
		full = strings.TrimSpace(full)
		if key == "" || full == "" {
			return nil, fmt.Errorf("invalid abbreviation %q: %q", abbr, full)
		}
		t.abbreviations[key] = full
	}

	return t, nil
}

// Len returns the number of entries.
func (t *Taxonomy) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in definition order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the canonical entry names in definition order.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		names = append(names, e.Name)
	}
	return names
}

// Terms returns every name and alias with the entry it resolves to, in
// definition order.
func (t *Taxonomy) Terms() []Term {
	terms := make([]Term, 0, len(t.index))
	for _, e := range t.entries {
		terms = append(terms, Term{Text: e.Name, Entry: e.Name})
		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) == "" {
				continue
			}
			terms = append(terms, Term{Text: strings.TrimSpace(alias), Entry: e.Name})
		}
	}
	return terms
}

// Lookup finds the entry whose name or alias equals term, ignoring case.
func (t *Taxonomy) Lookup(term string) (Entry, bool) {
	pos, ok := t.index[skills.Key(term)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[pos], true
}

// CategoryOf classifies term. A known entry keeps its declared category;
// otherwise the first technical keyword contained in term wins, then the
// first soft keyword, and Unknown is returned when nothing matches.
func (t *Taxonomy) CategoryOf(term string) skills.Category {
	if e, ok := t.Lookup(term); ok && e.Category != skills.Unknown {
		return e.Category
	}

	lower := skills.Key(term)
	if lower == "" {
		return skills.Unknown
	}
	if containsAny(lower, t.technical) {
		return skills.Technical
	}
	if containsAny(lower, t.soft) {
		return skills.Soft
	}
	return skills.Unknown
}

// Canonicalize expands a known abbreviation to its full form. Any other term
// is returned trimmed but otherwise unchanged.
func (t *Taxonomy) Canonicalize(term string) string {
	if full, ok := t.abbreviations[skills.Key(term)]; ok {
		return full
	}
	return strings.TrimSpace(term)
}

// Abbreviations returns a copy of the abbreviation map keyed by lowercase abbreviation.
func (t *Taxonomy) Abbreviations() map[string]string {
	out := make(map[string]string, len(t.abbreviations))
	for k, v := range t.abbreviations {
		out[k] = v
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = skills.Key(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
