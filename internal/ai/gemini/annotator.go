package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/annotation"
	"github.com/spigell/skillgap/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Annotator asks Gemini to tokenize, tag and segment text.
type Annotator struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	systemInstruction   = "You annotate text for an information extraction pipeline. Answer with JSON only."
)

func NewAnnotator(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Annotator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Annotator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Annotator) Annotate(ctx context.Context, text string) (*annotation.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &annotation.Document{}, nil
	}

	prompt := buildPrompt(text)

	a.logger.Debug("gemini annotate request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini annotate response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	doc, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	doc.Text = text
	return doc, nil
}

func buildPrompt(text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Annotate the text with tokens, pos tags, entities and sentences as JSON.\n\n{{TEXT}}"
	}
	return strings.ReplaceAll(template, "{{TEXT}}", text)
}

func parseResponse(raw string) (*annotation.Document, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("parse gemini response: empty payload")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	payload := map[string]any{
		"tokens":    normalizeTokens(data["tokens"]),
		"entities":  data["entities"],
		"sentences": normalizeSentences(data["sentences"]),
	}

	var doc annotation.Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decode gemini annotation: %w", err)
	}

	doc.Normalize()
	return &doc, nil
}

// normalizeTokens accepts tokens either as objects or as [text, pos] pairs.
func normalizeTokens(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case map[string]any:
			out = append(out, map[string]any{
				"text": coerceString(val["text"]),
				"pos":  coerceString(firstPresent(val, "pos", "tag", "upos")),
			})
		case []any:
			if len(val) < 2 {
				continue
			}
			out = append(out, map[string]any{
				"text": coerceString(val[0]),
				"pos":  coerceString(val[1]),
			})
		}
	}
	return out
}

func normalizeSentences(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
