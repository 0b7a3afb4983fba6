package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type embedCall struct {
	model    string
	contents []*genai.Content
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu            sync.Mutex
	generateCalls []generateCall
	embedCalls    []embedCall
	queue         []fakeResponse
	embedErrs     []error
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls = append(f.generateCalls, generateCall{model: model, contents: contents, config: config})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls = append(f.embedCalls, embedCall{model: model, contents: contents})
	if len(f.embedErrs) > 0 {
		err := f.embedErrs[0]
		f.embedErrs = f.embedErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	resp := &genai.EmbedContentResponse{}
	for _, c := range contents {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{
			Values: []float32{float32(len(c.Parts[0].Text)), 1},
		})
	}
	return resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noWait(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { wait = original })
	return &delays
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(textResponse(`{"ok": true}`), nil)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	output, err := g.GenerateJSON(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.generateCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.generateCalls))
	}

	if len(*delays) != 1 || (*delays)[0] != time.Second {
		t.Fatalf("expected a single 1s backoff, got %v", *delays)
	}

	for _, call := range models.generateCalls {
		if call.model != "gemini-pro" {
			t.Fatalf("unexpected model: %q", call.model)
		}
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != "application/json" {
			t.Fatalf("expected json response type, got %q", call.config.ResponseMIMEType)
		}
		if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "message" {
			t.Fatalf("unexpected contents: %+v", call.contents)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	_, err := g.GenerateJSON(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(models.generateCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.generateCalls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	models.enqueue(nil, quotaErr)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 3}, zap.NewNop())

	_, err := g.GenerateJSON(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(models.generateCalls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.generateCalls))
	}
}

func TestGeneratorRetriesOnShortQuotaDelay(t *testing.T) {
	delays := noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "Please retry in 2.5s.",
	})
	models.enqueue(textResponse("{}"), nil)

	g := newGenerator(models, Config{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateJSON(context.Background(), "", "msg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*delays) != 1 || (*delays)[0] != 2500*time.Millisecond {
		t.Fatalf("expected server-provided delay, got %v", *delays)
	}

	if models.generateCalls[0].model != defaultModel {
		t.Fatalf("expected default model, got %q", models.generateCalls[0].model)
	}
	if models.generateCalls[0].config.SystemInstruction != nil {
		t.Fatalf("expected no system instruction for empty system prompt")
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})
	models.enqueue(nil, errors.New("dial tcp: connection refused"))

	g := newGenerator(models, Config{MaxRetries: 3}, zap.NewNop())

	if _, err := g.GenerateJSON(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error for bad request")
	}
	if _, err := g.GenerateJSON(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected error for transport failure")
	}
	if len(models.generateCalls) != 2 {
		t.Fatalf("expected one call per request, got %d", len(models.generateCalls))
	}
}

func TestGeneratorRejectsEmptyInput(t *testing.T) {
	models := &fakeModels{}
	g := newGenerator(models, Config{}, nil)

	if _, err := g.GenerateJSON(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	models.enqueue(&genai.GenerateContentResponse{}, nil)
	if _, err := g.GenerateJSON(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGeneratorEmbed(t *testing.T) {
	noWait(t)

	models := &fakeModels{embedErrs: []error{genai.APIError{Code: http.StatusServiceUnavailable}}}
	g := newGenerator(models, Config{EmbeddingModel: "embed-v1"}, zap.NewNop())

	texts := make([]string, embedBatchSize+5)
	for i := range texts {
		texts[i] = "skill"
	}
	texts[0] = "Go"

	vectors, err := g.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	if vectors[0][0] != 2 || vectors[1][0] != 5 {
		t.Fatalf("vectors out of order: %v %v", vectors[0], vectors[1])
	}

	// One retried request for the first batch, then the second batch.
	if len(models.embedCalls) != 3 {
		t.Fatalf("expected 3 embed calls, got %d", len(models.embedCalls))
	}
	if len(models.embedCalls[2].contents) != 5 {
		t.Fatalf("expected second batch of 5, got %d", len(models.embedCalls[2].contents))
	}
	if models.embedCalls[0].model != "embed-v1" {
		t.Fatalf("unexpected embedding model %q", models.embedCalls[0].model)
	}
}

func TestGeneratorEmbedEmpty(t *testing.T) {
	models := &fakeModels{}
	g := newGenerator(models, Config{}, nil)

	vectors, err := g.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 0 || len(models.embedCalls) != 0 {
		t.Fatalf("expected no vectors and no calls, got %d vectors and %d calls", len(vectors), len(models.embedCalls))
	}
	if g.EmbeddingModel() != defaultEmbeddingModel {
		t.Fatalf("expected default embedding model, got %q", g.EmbeddingModel())
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{APIKey: "  "}, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
