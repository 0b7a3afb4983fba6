package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnnotatorAnnotate(t *testing.T) {
	stub := &stubGenerator{response: `{
		"tokens": [{"text": "Senior", "pos": "adj"}, {"text": "Go", "pos": "PROPN"}, ["developer", "NOUN"]],
		"entities": [{"text": "Google Cloud", "label": "org", "start": "3", "end": 5}],
		"sentences": ["Senior Go developer.", "", "Knows Google Cloud."]
	}`}
	core, observed := observer.New(zapcore.DebugLevel)
	annotator := NewAnnotator(stub, zap.New(core), 0)

	doc, err := annotator.Annotate(context.Background(), "  senior go developer. knows google cloud. ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Text != "senior go developer. knows google cloud." {
		t.Fatalf("unexpected text: %q", doc.Text)
	}

	if len(doc.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(doc.Tokens))
	}
	if doc.Tokens[0].POS != "ADJ" || doc.Tokens[2].Text != "developer" || doc.Tokens[2].POS != "NOUN" {
		t.Fatalf("unexpected tokens: %+v", doc.Tokens)
	}

	if len(doc.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(doc.Entities))
	}
	ent := doc.Entities[0]
	if ent.Label != "ORG" || ent.Start != 3 || ent.End != 5 {
		t.Fatalf("unexpected entity: %+v", ent)
	}

	if len(doc.Sentences) != 2 {
		t.Fatalf("expected empty sentences to be dropped, got %q", doc.Sentences)
	}

	if !strings.Contains(stub.lastPrompt, "<text>\nsenior go developer. knows google cloud.\n</text>") {
		t.Fatalf("expected text to be embedded in prompt: %s", stub.lastPrompt)
	}
	if stub.lastSystem == "" {
		t.Fatalf("expected system instruction to be sent")
	}

	if observed.FilterMessage("gemini annotate request").Len() != 1 {
		t.Fatalf("expected request to be logged")
	}
	if observed.FilterMessage("gemini annotate response").Len() != 1 {
		t.Fatalf("expected response to be logged")
	}
}

func TestAnnotatorEmptyText(t *testing.T) {
	stub := &stubGenerator{}
	doc, err := NewAnnotator(stub, nil, 0).Annotate(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Empty() {
		t.Fatalf("expected empty document, got %+v", doc)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generator call, got %d", stub.calls)
	}
}

func TestAnnotatorPropagatesErrors(t *testing.T) {
	boom := errors.New("quota")
	_, err := NewAnnotator(&stubGenerator{err: boom}, nil, 0).Annotate(context.Background(), "text")
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}

	_, err = NewAnnotator(&stubGenerator{response: "not json"}, nil, 0).Annotate(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "parse gemini response") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"tokens\": [{\"text\": \"python\", \"tag\": \"propn\"}], \"entities\": [], \"sentences\": [\"python\"]}\n```"
	doc, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Tokens) != 1 || doc.Tokens[0].POS != "PROPN" {
		t.Fatalf("unexpected tokens: %+v", doc.Tokens)
	}
	if len(doc.Entities) != 0 {
		t.Fatalf("expected no entities, got %+v", doc.Entities)
	}
}

func TestParseResponseRejectsEmptyPayload(t *testing.T) {
	if _, err := parseResponse("```json\n```"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestCoerceString(t *testing.T) {
	cases := map[string]any{
		"go":   "  go ",
		"42":   float64(42),
		"":     nil,
		"true": true,
	}
	for expect, input := range cases {
		if got := coerceString(input); got != expect {
			t.Fatalf("coerceString(%v) = %q, expected %q", input, got, expect)
		}
	}
}
