// Package annotation describes the output of the external linguistic
// annotation service. The engine consumes these structures; it never
// tokenizes or tags text itself.
package annotation

import (
	"context"
	"strings"
)

// Universal part-of-speech tags used by the pattern strategy.
const (
	POSAdjective  = "ADJ"
	POSNoun       = "NOUN"
	POSProperNoun = "PROPN"
)

// Token is a single annotated token.
type Token struct {
	Text string `json:"text" mapstructure:"text"`
	POS  string `json:"pos" mapstructure:"pos"`
}

// Entity is a named-entity span. Start and End are token offsets, End exclusive.
type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
	Start int    `json:"start" mapstructure:"start"`
	End   int    `json:"end" mapstructure:"end"`
}

// Document is the annotated form of a text.
type Document struct {
	Text      string   `json:"text" mapstructure:"text"`
	Tokens    []Token  `json:"tokens" mapstructure:"tokens"`
	Entities  []Entity `json:"entities" mapstructure:"entities"`
	Sentences []string `json:"sentences" mapstructure:"sentences"`
}

// Annotator turns text into tokens with part-of-speech tags, named entities
// and sentence boundaries.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Document, error)
}

// Empty reports whether the document carries no usable content.
func (d *Document) Empty() bool {
	return d == nil || (strings.TrimSpace(d.Text) == "" && len(d.Tokens) == 0 && len(d.Entities) == 0)
}

// Normalize upper-cases tags and labels and trims token text so that
// strategies can compare them directly.
func (d *Document) Normalize() {
	if d == nil {
		return
	}
	for i := range d.Tokens {
		d.Tokens[i].Text = strings.TrimSpace(d.Tokens[i].Text)
		d.Tokens[i].POS = strings.ToUpper(strings.TrimSpace(d.Tokens[i].POS))
	}
	for i := range d.Entities {
		d.Entities[i].Text = strings.TrimSpace(d.Entities[i].Text)
		d.Entities[i].Label = strings.ToUpper(strings.TrimSpace(d.Entities[i].Label))
	}
}
