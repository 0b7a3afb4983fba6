package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentNormalize(t *testing.T) {
	doc := &Document{
		Tokens:   []Token{{Text: " Go ", POS: "propn "}},
		Entities: []Entity{{Text: " Google ", Label: "org"}},
	}

	doc.Normalize()

	assert.Equal(t, Token{Text: "Go", POS: POSProperNoun}, doc.Tokens[0])
	assert.Equal(t, "Google", doc.Entities[0].Text)
	assert.Equal(t, "ORG", doc.Entities[0].Label)

	var nilDoc *Document
	nilDoc.Normalize()
}

func TestDocumentEmpty(t *testing.T) {
	var nilDoc *Document
	assert.True(t, nilDoc.Empty())
	assert.True(t, (&Document{Text: "  "}).Empty())
	assert.False(t, (&Document{Text: "go"}).Empty())
	assert.False(t, (&Document{Tokens: []Token{{Text: "go"}}}).Empty())
}
