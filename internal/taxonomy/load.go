package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/spigell/skillgap/internal/skills"
)

//go:embed default.yaml
var defaultYAML []byte

type fileEntry struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Group    string   `yaml:"group"`
	Aliases  []string `yaml:"aliases"`
}

type fileFormat struct {
	Skills   []fileEntry `yaml:"skills"`
	Keywords struct {
		Technical []string `yaml:"technical"`
		Soft      []string `yaml:"soft"`
	} `yaml:"keywords"`
	Abbreviations map[string]string `yaml:"abbreviations"`
}

var loadDefault = sync.OnceValues(func() (*Taxonomy, error) {
	return Parse(defaultYAML)
})

// Default returns the built-in taxonomy. It is parsed on first use and the
// same instance is returned afterwards.
func Default() (*Taxonomy, error) {
	return loadDefault()
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("taxonomy path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file %q: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %q: %w", path, err)
	}
	return t, nil
}

// Parse builds a taxonomy from its YAML representation.
func Parse(data []byte) (*Taxonomy, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taxonomy: %w", err)
	}

	if len(f.Skills) == 0 {
		return nil, fmt.Errorf("taxonomy defines no skills")
	}

	entries := make([]Entry, 0, len(f.Skills))
	for i, s := range f.Skills {
		category, err := skills.ParseCategory(s.Category)
		if err != nil {
			return nil, fmt.Errorf("skill #%d (%s): %w", i+1, s.Name, err)
		}
		entries = append(entries, Entry{
			Name:     s.Name,
			Category: category,
			Group:    strings.TrimSpace(s.Group),
			Aliases:  s.Aliases,
		})
	}

	return New(entries, Rules{
		Technical: f.Keywords.Technical,
		Soft:      f.Keywords.Soft,
	}, f.Abbreviations)
}
