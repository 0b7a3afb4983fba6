package analyzer

import (
	"encoding/json"
	"os"

	"github.com/spigell/skillgap/internal/skills"
)

// ReportByStatus groups the gap report with the category of every skill as
// detected in the document it came from.
func (r *Result) ReportByStatus() map[string][]map[string]string {
	report := map[string][]map[string]string{
		"matched": {},
		"needed":  {},
		"extra":   {},
	}
	add := func(key string, names []string, from *Document) {
		for _, name := range names {
			report[key] = append(report[key], map[string]string{
				"skill":    name,
				"category": skills.CategoryOf(from.Skills, name).String(),
			})
		}
	}

	add("matched", r.Gap.Matched, r.JD)
	add("needed", r.Gap.Needed, r.JD)
	add("extra", r.Gap.Extra, r.Resume)
	return report
}

// DumpToTmpFile writes the result as indented JSON to a new temporary file and
// returns its name.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "skillgap_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
