package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillgap/internal/analyzer"
	"github.com/spigell/skillgap/internal/extraction"
	"github.com/spigell/skillgap/internal/gap"
	"github.com/spigell/skillgap/internal/similarity"
)

func TestEngineOptions(t *testing.T) {
	opts, err := engineOptions(&ExtractionConfig{
		Parallel:       true,
		PatternVariant: "broad",
		Disabled:       []string{"named_entity"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.Parallel || opts.PatternVariant != extraction.VariantBroad || len(opts.Disabled) != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	if _, err := engineOptions(&ExtractionConfig{PatternVariant: "loose"}); err == nil {
		t.Fatal("expected error for unknown pattern variant")
	}
}

func TestLoadTaxonomy(t *testing.T) {
	tax, err := loadTaxonomy("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tax.Len() == 0 {
		t.Fatal("expected built-in taxonomy to have entries")
	}

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := "skills:\n  - {name: Go, category: technical}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write taxonomy: %v", err)
	}

	tax, err = loadTaxonomy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tax.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", tax.Len())
	}
}

func TestHandleAction(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	result := &analyzer.Result{
		Resume:     &analyzer.Document{},
		JD:         &analyzer.Document{},
		Gap:        gap.Compare(nil, nil),
		Similarity: &similarity.Matrix{},
	}

	if err := handleAction(PromptGapReport, nil, result, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := handleAction(PromptSimilarity, nil, result, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if observed.FilterMessage("similarity matrix is empty").Len() != 1 {
		t.Fatal("expected empty matrix to be reported")
	}

	if err := handleAction(PromptExit, nil, result, log); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleAction("unknown", nil, result, log); err == nil {
		t.Fatal("expected error for invalid action")
	}
}
