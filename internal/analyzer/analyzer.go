// Package analyzer runs the skill extraction pipeline over a resume and a job
// description and compares the results.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillgap/internal/annotation"
	"github.com/spigell/skillgap/internal/extraction"
	"github.com/spigell/skillgap/internal/gap"
	"github.com/spigell/skillgap/internal/logger"
	"github.com/spigell/skillgap/internal/normalize"
	"github.com/spigell/skillgap/internal/reconcile"
	"github.com/spigell/skillgap/internal/similarity"
	"github.com/spigell/skillgap/internal/skills"
	"github.com/spigell/skillgap/internal/stats"
	"github.com/spigell/skillgap/internal/taxonomy"
)

const (
	dependencyAnnotator = "annotator"
	dependencyEmbedder  = "embedder"
)

// Deps are the shared collaborators of an Engine.
type Deps struct {
	Taxonomy  *taxonomy.Taxonomy
	Annotator annotation.Annotator
	Embedder  similarity.Embedder
	Logger    *zap.Logger
}

// Options tune extraction and reconciliation.
type Options struct {
	Parallel       bool
	PatternVariant extraction.Variant
	EntityLabels   []string
	// Disabled lists strategy names that are skipped.
	Disabled       []string
	ClassifiedOnly bool
}

// Document is a single processed input.
type Document struct {
	Source         skills.Source        `json:"source"`
	RawText        string               `json:"-"`
	NormalizedText string               `json:"normalized_text"`
	Skills         []skills.Skill       `json:"skills"`
	Annotation     *annotation.Document `json:"-"`
	Steps          []extraction.Step    `json:"-"`
}

// Result is the outcome of comparing a resume with a job description.
type Result struct {
	Resume        *Document          `json:"resume"`
	JD            *Document          `json:"jd"`
	Gap           gap.Report         `json:"gap"`
	Similarity    *similarity.Matrix `json:"similarity"`
	MatchScore    float64            `json:"match_score"`
	Coverage      float64            `json:"coverage"`
	ResumeSummary stats.Summary      `json:"resume_summary"`
	JDSummary     stats.Summary      `json:"jd_summary"`
}

type Engine struct {
	tax        *taxonomy.Taxonomy
	annotator  annotation.Annotator
	scorer     *similarity.Scorer
	strategies []extraction.Strategy
	reconciler *reconcile.Reconciler
	parallel   bool
	logger     *zap.Logger
}

func New(deps Deps, opts Options) (*Engine, error) {
	if deps.Taxonomy == nil {
		return nil, errors.New("taxonomy is required")
	}
	if deps.Annotator == nil {
		return nil, errors.New("annotator is required")
	}
	if deps.Embedder == nil {
		return nil, errors.New("embedder is required")
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	strategies := extraction.NewSet(deps.Taxonomy, opts.PatternVariant, opts.EntityLabels...)
	for _, name := range opts.Disabled {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !extraction.DisableByName(strategies, name, "disabled by configuration") {
			return nil, fmt.Errorf("unknown extraction strategy %q", name)
		}
	}

	var reconcileOpts []reconcile.Option
	if opts.ClassifiedOnly {
		reconcileOpts = append(reconcileOpts, reconcile.ClassifiedOnly())
	}

	return &Engine{
		tax:        deps.Taxonomy,
		annotator:  deps.Annotator,
		scorer:     similarity.NewScorer(deps.Embedder, log),
		strategies: strategies,
		reconciler: reconcile.New(deps.Taxonomy, reconcileOpts...),
		parallel:   opts.Parallel,
		logger:     log,
	}, nil
}

// Strategies reports the configured extraction strategies.
func (e *Engine) Strategies() []extraction.Status {
	return extraction.Describe(e.strategies)
}

// Process normalizes, annotates and extracts the skills of a single document.
// Text that is empty after normalization yields no skills and is never sent to
// the annotator.
func (e *Engine) Process(ctx context.Context, source skills.Source, raw string) (*Document, error) {
	log := logger.WithDocument(e.logger, source)

	doc := &Document{
		Source:         source,
		RawText:        raw,
		NormalizedText: normalize.Text(raw),
		Skills:         []skills.Skill{},
	}
	if doc.NormalizedText == "" {
		log.Info("document is empty after normalization")
		return doc, nil
	}

	ann, err := e.annotator.Annotate(ctx, doc.NormalizedText)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &DependencyError{Dependency: dependencyAnnotator, Err: err}
	}
	if ann == nil {
		ann = &annotation.Document{}
	}
	ann.Normalize()
	if strings.TrimSpace(ann.Text) == "" {
		ann.Text = doc.NormalizedText
	}
	doc.Annotation = ann

	log.Debug("document annotated",
		zap.Int("tokens", len(ann.Tokens)),
		zap.Int("entities", len(ann.Entities)),
		zap.Int("sentences", len(ann.Sentences)),
	)

	candidates, steps, err := extraction.Run(ctx, ann, e.strategies, extraction.Options{
		Parallel: e.parallel,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting %s skills: %w", source, err)
	}
	doc.Steps = steps
	doc.Skills = e.reconciler.Reconcile(source, candidates)

	log.Info("document processed",
		zap.Int("candidates", len(candidates)),
		zap.Int("skills", len(doc.Skills)),
	)
	return doc, nil
}

// Analyze processes both documents concurrently, then compares their skills.
func (e *Engine) Analyze(ctx context.Context, resumeRaw, jdRaw string) (*Result, error) {
	var resume, jd *Document

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resume, err = e.Process(gCtx, skills.Resume, resumeRaw)
		return err
	})
	g.Go(func() error {
		var err error
		jd, err = e.Process(gCtx, skills.JD, jdRaw)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resumeNames := skills.Names(resume.Skills)
	jdNames := skills.Names(jd.Skills)

	report := gap.Compare(resumeNames, jdNames)

	matrix, err := e.scorer.Similarity(ctx, resumeNames, jdNames)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &DependencyError{Dependency: dependencyEmbedder, Err: err}
	}

	result := &Result{
		Resume:        resume,
		JD:            jd,
		Gap:           report,
		Similarity:    matrix,
		MatchScore:    report.MatchScore(),
		Coverage:      report.Coverage(),
		ResumeSummary: stats.Summarize(resume.Skills),
		JDSummary:     stats.Summarize(jd.Skills),
	}

	e.logger.Info("analysis completed",
		zap.Int("matched", len(report.Matched)),
		zap.Int("needed", len(report.Needed)),
		zap.Int("extra", len(report.Extra)),
		zap.Float64("match_score", result.MatchScore),
	)
	return result, nil
}

// Frequency counts taxonomy skill mentions in the normalized text of doc.
func (e *Engine) Frequency(doc *Document) []stats.Count {
	return stats.Frequency(doc.NormalizedText, e.tax)
}

// Distribution groups the skills of doc by taxonomy group.
func (e *Engine) Distribution(doc *Document) []stats.GroupShare {
	return stats.Distribution(doc.Skills, e.tax)
}

// Contexts returns the sentences of doc that mention skill.
func (e *Engine) Contexts(doc *Document, skill string) []string {
	if doc.Annotation == nil {
		return []string{}
	}
	return stats.Contexts(doc.Annotation.Sentences, skill)
}
