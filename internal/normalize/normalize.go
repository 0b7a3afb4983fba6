// Package normalize strips contact details and noise from raw document text
// before it is annotated.
package normalize

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`\S+@\S+`)
	// At least nine characters, so short numerics such as version numbers survive.
	rePhone      = regexp.MustCompile(`\+?\d[\d\-\(\)\s]{7,}\d`)
	reURL        = regexp.MustCompile(`http\S+|www\.\S+`)
	reDisallowed = regexp.MustCompile(`[^a-zA-Z0-9\s+#\-.,]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// Text returns the cleaned, lowercased form of raw.
//
// The passes run in a fixed order: e-mails, phone numbers and URLs are
// removed before the character whitelist is applied, otherwise '@' and '/'
// would be gone before those patterns could match.
//
// Passes repeat until the text is stable so that a removal can never expose
// a new match, which keeps Text idempotent.
func Text(raw string) string {
	text := clean(raw)
	for {
		next := clean(text)
		if next == text {
			return text
		}
		text = next
	}
}

func clean(raw string) string {
	if raw == "" {
		return ""
	}

	text := reEmail.ReplaceAllString(raw, " ")
	text = rePhone.ReplaceAllString(text, " ")
	text = reURL.ReplaceAllString(text, " ")
	text = reDisallowed.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	text = reSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
