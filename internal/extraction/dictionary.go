package extraction

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/skillgap/internal/annotation"
	"github.com/spigell/skillgap/internal/taxonomy"
)

// DictionaryName is the name of the dictionary strategy.
const DictionaryName = "dictionary"

type dictionaryStrategy struct {
	toggle
	terms []taxonomy.Term
}

// NewDictionary creates a strategy that finds every taxonomy name and alias
// appearing as a whole word or phrase in the document, ignoring case.
func NewDictionary(tax *taxonomy.Taxonomy) Strategy {
	return &dictionaryStrategy{terms: tax.Terms()}
}

func (s *dictionaryStrategy) Name() string { return DictionaryName }

func (s *dictionaryStrategy) Method() Method { return Dictionary }

func (s *dictionaryStrategy) Extract(doc *annotation.Document) []Candidate {
	text := strings.ToLower(documentText(doc))
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Candidate
	for _, term := range s.terms {
		if _, ok := seen[term.Entry]; ok {
			continue
		}
		if Occurrences(text, strings.ToLower(term.Text)) == 0 {
			continue
		}
		seen[term.Entry] = struct{}{}
		out = append(out, Candidate{Text: term.Entry, Method: Dictionary})
	}
	return out
}

func (s *dictionaryStrategy) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"terms": strconv.Itoa(len(s.terms))},
	}
}

// Occurrences counts non-overlapping whole-word occurrences of term in text.
// Both arguments must already be lowercased. '+' and '#' count as word
// characters, so "c" is not found inside "c++" or "c#".
func Occurrences(text, term string) int {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return 0
	}

	count := 0
	offset := 0
	for offset < len(text) {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(term)

		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			offset = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return count
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// documentText returns the annotated text, rebuilding it from tokens when the
// annotator did not echo the text back.
func documentText(doc *annotation.Document) string {
	if doc == nil {
		return ""
	}
	if text := strings.TrimSpace(doc.Text); text != "" {
		return text
	}
	parts := make([]string, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		if tok.Text != "" {
			parts = append(parts, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}
