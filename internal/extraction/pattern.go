package extraction

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/skillgap/internal/annotation"
)

// PatternName is the name of the part-of-speech pattern strategy.
const PatternName = "pattern"

// Variant selects the part-of-speech pair rules.
type Variant int

const (
	// VariantStrict accepts {ADJ, PROPN} followed by {NOUN, PROPN}.
	VariantStrict Variant = iota
	// VariantBroad accepts ADJ+NOUN and NOUN+NOUN.
	VariantBroad
)

func (v Variant) String() string {
	if v == VariantBroad {
		return "broad"
	}
	return "strict"
}

// ParseVariant converts a configuration value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return VariantStrict, nil
	case "broad":
		return VariantBroad, nil
	default:
		return VariantStrict, fmt.Errorf("unknown pattern variant %q", s)
	}
}

type pair struct {
	first  string
	second string
}

var variantRules = map[Variant][]pair{
	VariantStrict: {
		{annotation.POSAdjective, annotation.POSNoun},
		{annotation.POSAdjective, annotation.POSProperNoun},
		{annotation.POSProperNoun, annotation.POSNoun},
		{annotation.POSProperNoun, annotation.POSProperNoun},
	},
	VariantBroad: {
		{annotation.POSAdjective, annotation.POSNoun},
		{annotation.POSNoun, annotation.POSNoun},
	},
}

type patternStrategy struct {
	toggle
	variant Variant
	rules   []pair
}

// NewPattern creates a strategy that proposes two-token phrases whose
// part-of-speech tags match the variant's rules. Proposals are not checked
// against the taxonomy; the reconciler classifies them.
func NewPattern(variant Variant) Strategy {
	rules, ok := variantRules[variant]
	if !ok {
		variant = VariantStrict
		rules = variantRules[VariantStrict]
	}
	return &patternStrategy{variant: variant, rules: rules}
}

func (s *patternStrategy) Name() string { return PatternName }

func (s *patternStrategy) Method() Method { return PatternMatch }

func (s *patternStrategy) Extract(doc *annotation.Document) []Candidate {
	if doc == nil || len(doc.Tokens) < 2 {
		return nil
	}

	// Casers keep state and must not be shared between goroutines.
	caser := cases.Title(language.English)

	var out []Candidate
	for i := 0; i+1 < len(doc.Tokens); i++ {
		first, second := doc.Tokens[i], doc.Tokens[i+1]
		if !s.matches(first.POS, second.POS) {
			continue
		}
		if !hasLetter(first.Text) || !hasLetter(second.Text) {
			continue
		}
		text := caser.String(strings.TrimSpace(first.Text)) + " " + caser.String(strings.TrimSpace(second.Text))
		out = append(out, Candidate{Text: text, Method: PatternMatch})
	}
	return out
}

func (s *patternStrategy) matches(first, second string) bool {
	first = strings.ToUpper(first)
	second = strings.ToUpper(second)
	for _, r := range s.rules {
		if r.first == first && r.second == second {
			return true
		}
	}
	return false
}

func (s *patternStrategy) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"variant": s.variant.String()},
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
