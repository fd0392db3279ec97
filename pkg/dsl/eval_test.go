package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/scentkit/core"
)

func TestExpr_Match(t *testing.T) {
	item := &core.Item{
		ID:          7,
		Name:        "Light Blue",
		Gender:      "for women",
		RatingValue: 4.2,
		RatingCount: 1500,
		MainAccords: []string{"Citrus", "Fresh"},
	}
	prefs := &core.UserPreferences{Level: core.TierAdvanced, Gender: "for women", MinRating: 4.0}

	tests := []struct {
		name  string
		expr  string
		prefs *core.UserPreferences
		want  bool
	}{
		{name: "rating count", expr: `item.rating_count >= 100`, want: true},
		{name: "accord membership is lowercased", expr: `"citrus" in item.main_accords`, want: true},
		{name: "negated accord", expr: `!("oud" in item.main_accords)`, want: true},
		{name: "prefs min rating", expr: `item.rating_value >= prefs.min_rating`, prefs: prefs, want: true},
		{name: "tier gate", expr: `prefs.experience_level == "Beginner"`, prefs: prefs, want: false},
		{name: "nil prefs default", expr: `prefs.min_rating == 3.5`, want: true},
		{name: "gender match", expr: `item.gender == prefs.gender`, prefs: prefs, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := e.Match(item, tt.prefs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`item.rating_value >>> 3`)
	assert.Error(t, err)

	e, err := Compile(`item.name`)
	require.NoError(t, err)
	_, err = e.Match(&core.Item{Name: "x"}, nil)
	assert.Error(t, err)
}
