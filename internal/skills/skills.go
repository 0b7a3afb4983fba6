// Package skills holds the reconciled skill types shared by the analysis stages.
package skills

import (
	"fmt"
	"strings"
)

// Category classifies a skill as technical, soft or unknown.
type Category int

const (
	Unknown Category = iota
	Technical
	Soft
)

func (c Category) String() string {
	switch c {
	case Technical:
		return "Technical"
	case Soft:
		return "Soft"
	default:
		return "Unknown"
	}
}

// MarshalText keeps the category readable in JSON reports.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory converts a textual category into a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "technical", "tech":
		return Technical, nil
	case "soft":
		return Soft, nil
	case "", "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown skill category %q", s)
	}
}

// Source identifies the document a skill was extracted from.
type Source int

const (
	Resume Source = iota
	JD
)

func (s Source) String() string {
	if s == JD {
		return "jd"
	}
	return "resume"
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Skill is a reconciled, canonical skill of a single document.
type Skill struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Source   Source   `json:"source"`
}

// Key returns the identity of a skill name: case-insensitive and trimmed.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names returns the skill names in order.
func Names(list []Skill) []string {
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	return names
}

// ByCategory returns the skills of the given category, preserving order.
func ByCategory(list []Skill, category Category) []Skill {
	out := make([]Skill, 0, len(list))
	for _, s := range list {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// CategoryOf returns the category of a named skill in list, or Unknown when absent.
func CategoryOf(list []Skill, name string) Category {
	key := Key(name)
	for _, s := range list {
		if Key(s.Name) == key {
			return s.Category
		}
	}
	return Unknown
}
