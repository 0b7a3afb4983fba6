package extraction

import (
	"sort"
	"strings"

	"github.com/spigell/skillgap/internal/annotation"
)

// EntityName is the name of the named-entity strategy.
const EntityName = "named_entity"

// DefaultEntityLabels are the entity labels most likely to name tools and technologies.
var DefaultEntityLabels = []string{"ORG", "PRODUCT", "WORK_OF_ART"}

type entityStrategy struct {
	toggle
	labels map[string]struct{}
}

// NewEntityFilter creates a strategy that keeps entities whose label is in
// the allow-list. With no labels the defaults are used.
func NewEntityFilter(labels ...string) Strategy {
	if len(labels) == 0 {
		labels = DefaultEntityLabels
	}

	allowed := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l = strings.ToUpper(strings.TrimSpace(l)); l != "" {
			allowed[l] = struct{}{}
		}
	}
	return &entityStrategy{labels: allowed}
}

func (s *entityStrategy) Name() string { return EntityName }

func (s *entityStrategy) Method() Method { return NamedEntity }

func (s *entityStrategy) Extract(doc *annotation.Document) []Candidate {
	if doc == nil {
		return nil
	}

	var out []Candidate
	for _, ent := range doc.Entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		if _, ok := s.labels[strings.ToUpper(strings.TrimSpace(ent.Label))]; !ok {
			continue
		}
		out = append(out, Candidate{Text: text, Method: NamedEntity})
	}
	return out
}

func (s *entityStrategy) Status() Status {
	labels := make([]string, 0, len(s.labels))
	for l := range s.labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"labels": strings.Join(labels, ",")},
	}
}
