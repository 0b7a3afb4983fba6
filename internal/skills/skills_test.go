package skills

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"technical": Technical,
		" Tech ":    Technical,
		"SOFT":      Soft,
		"":          Unknown,
		"unknown":   Unknown,
	}
	for input, expect := range tests {
		got, err := ParseCategory(input)
		require.NoError(t, err, input)
		assert.Equal(t, expect, got, input)
	}

	_, err := ParseCategory("hard")
	require.Error(t, err)
}

func TestSkillJSON(t *testing.T) {
	data, err := json.Marshal(Skill{Name: "Go", Category: Technical, Source: JD})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Go","category":"Technical","source":"jd"}`, string(data))
}

func TestHelpers(t *testing.T) {
	list := []Skill{
		{Name: "Go", Category: Technical},
		{Name: "Leadership", Category: Soft},
		{Name: "Blue Sky"},
	}

	assert.Equal(t, []string{"Go", "Leadership", "Blue Sky"}, Names(list))
	assert.Equal(t, []Skill{{Name: "Leadership", Category: Soft}}, ByCategory(list, Soft))
	assert.Equal(t, Technical, CategoryOf(list, " go "))
	assert.Equal(t, Unknown, CategoryOf(list, "Rust"))
	assert.Equal(t, "machine learning", Key("  Machine Learning "))
}
