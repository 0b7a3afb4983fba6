// Package extraction proposes candidate skills from an annotated document using
// independent strategies: taxonomy dictionary matching, part-of-speech
// adjacency patterns and named-entity filtering.
package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillgap/internal/annotation"
	"github.com/spigell/skillgap/internal/taxonomy"
)

// Method tags a candidate with the strategy that proposed it.
type Method int

const (
	Dictionary Method = iota
	PatternMatch
	NamedEntity
)

func (m Method) String() string {
	switch m {
	case Dictionary:
		return "dictionary"
	case PatternMatch:
		return "pattern_match"
	case NamedEntity:
		return "named_entity"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Candidate is an unreconciled skill proposal.
type Candidate struct {
	Text   string
	Method Method
}

// Strategy represents a single extraction method applied to an annotated document.
type Strategy interface {
	Name() string
	Method() Method
	Disable(reason string)
	IsEnabled() bool

	// Extract never fails: empty or malformed input yields no candidates.
	Extract(doc *annotation.Document) []Candidate
}

// Step describes the result of executing a strategy.
type Step struct {
	Name       string
	Method     Method
	Candidates int
}

// Status represents runtime information about a strategy.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by strategies that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Options control how strategies are executed.
type Options struct {
	// Parallel runs the enabled strategies concurrently. Output order does not change.
	Parallel bool
	Logger   *zap.Logger
}

// toggle carries the enable/disable state shared by all strategies.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// DisableByName marks a strategy with the provided name as disabled while keeping it in the list.
func DisableByName(strategies []Strategy, name, reason string) bool {
	found := false
	for _, s := range strategies {
		if s.Name() == name {
			s.Disable(reason)
			found = true
		}
	}
	return found
}

// Run executes the enabled strategies and returns their candidates concatenated
// in registration order, regardless of which strategy finishes first.
func Run(ctx context.Context, doc *annotation.Document, strategies []Strategy, opts Options) ([]Candidate, []Step, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([][]Candidate, len(strategies))

	if opts.Parallel {
		g, gCtx := errgroup.WithContext(ctx)
		for i, s := range strategies {
			if !s.IsEnabled() {
				continue
			}
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				results[i] = s.Extract(doc)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, fmt.Errorf("running strategies: %w", err)
		}
	} else {
		for i, s := range strategies {
			if !s.IsEnabled() {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", s.Name(), err)
			}
			results[i] = s.Extract(doc)
		}
	}

	var candidates []Candidate
	steps := make([]Step, 0, len(strategies))
	for i, s := range strategies {
		if !s.IsEnabled() {
			logger.Debug("strategy disabled", zap.String("name", s.Name()))
			continue
		}

		step := Step{Name: s.Name(), Method: s.Method(), Candidates: len(results[i])}
		steps = append(steps, step)
		candidates = append(candidates, results[i]...)

		logger.Debug("extraction step",
			zap.String("name", step.Name),
			zap.Stringer("method", step.Method),
			zap.Int("candidates", step.Candidates),
		)
	}

	return candidates, steps, nil
}

// Describe returns status entries for the provided strategies.
func Describe(strategies []Strategy) []Status {
	statuses := make([]Status, 0, len(strategies))
	for _, s := range strategies {
		if reporter, ok := s.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    s.Name(),
			Enabled: s.IsEnabled(),
		})
	}
	return statuses
}

// NewSet returns the three strategies in their canonical order: dictionary,
// pattern, named entity. The order decides casing ties during reconciliation.
func NewSet(tax *taxonomy.Taxonomy, variant Variant, entityLabels ...string) []Strategy {
	return []Strategy{
		NewDictionary(tax),
		NewPattern(variant),
		NewEntityFilter(entityLabels...),
	}
}
