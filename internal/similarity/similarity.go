// Package similarity scores every resume skill against every job description
// skill by the cosine similarity of their embeddings.
package similarity

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Embedder turns texts into dense vectors, one per text and in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Matrix holds raw cosine values in [-1, 1]. Values[i][j] compares Rows[i]
// (a resume skill) with Cols[j] (a job description skill).
type Matrix struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Values [][]float64 `json:"values"`
}

// Match is the closest resume skill for a job description skill.
type Match struct {
	Skill  string  `json:"skill"`
	Best   string  `json:"best"`
	Score  float64 `json:"score"`
	Exists bool    `json:"exists"`
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return m == nil || len(m.Rows) == 0 || len(m.Cols) == 0
}

// At returns the similarity of resume skill i and job description skill j.
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// BestMatches returns, for every job description skill, the resume skill with
// the highest similarity. Exists is false when the resume has no skills.
func (m *Matrix) BestMatches() []Match {
	if m == nil {
		return nil
	}

	out := make([]Match, 0, len(m.Cols))
	for j, col := range m.Cols {
		match := Match{Skill: col}
		for i, row := range m.Rows {
			v := m.Values[i][j]
			if !match.Exists || v > match.Score {
				match.Best, match.Score, match.Exists = row, v, true
			}
		}
		out = append(out, match)
	}
	return out
}

type Scorer struct {
	embedder Embedder
	logger   *zap.Logger
}

func NewScorer(embedder Embedder, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{embedder: embedder, logger: logger}
}

// Similarity embeds each list with a single call and compares every pair.
// When either list is empty the embedder is not called and a matrix without
// cells is returned.
func (s *Scorer) Similarity(ctx context.Context, resume, jd []string) (*Matrix, error) {
	m := &Matrix{
		Rows:   append([]string{}, resume...),
		Cols:   append([]string{}, jd...),
		Values: make([][]float64, len(resume)),
	}

	if len(resume) == 0 || len(jd) == 0 {
		for i := range m.Values {
			m.Values[i] = []float64{}
		}
		return m, nil
	}

	var resumeVecs, jdVecs [][]float32
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resumeVecs, err = s.embed(gCtx, "resume", resume)
		return err
	})
	g.Go(func() error {
		var err error
		jdVecs, err = s.embed(gCtx, "jd", jd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := len(resumeVecs[0])
	for _, vecs := range [][][]float32{resumeVecs, jdVecs} {
		for i, v := range vecs {
			if len(v) != dim {
				return nil, fmt.Errorf("embedding dimension mismatch: vector %d has %d values, expected %d", i, len(v), dim)
			}
		}
	}

	for i := range resume {
		row := make([]float64, len(jd))
		for j := range jd {
			row[j] = Cosine(resumeVecs[i], jdVecs[j])
		}
		m.Values[i] = row
	}

	s.logger.Debug("similarity matrix computed",
		zap.Int("rows", len(resume)),
		zap.Int("cols", len(jd)),
		zap.Int("dimensions", dim),
	)

	return m, nil
}

func (s *Scorer) embed(ctx context.Context, side string, texts []string) ([][]float32, error) {
	vecs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s skills: %w", side, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed %s skills: got %d vectors for %d texts", side, len(vecs), len(texts))
	}
	return vecs, nil
}

// Cosine returns the cosine similarity of a and b. It is 0 when either vector
// has zero length or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	v := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, v))
}
