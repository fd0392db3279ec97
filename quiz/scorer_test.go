package quiz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/filter"
)

func prefsOf(t *testing.T, raw map[string]any) *core.UserPreferences {
	t.Helper()
	p, err := core.PreferencesFromAnswers("u1", raw)
	require.NoError(t, err)
	return p
}

func candidateIDs(cs []*core.Candidate) []int64 {
	out := make([]int64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Item.ID)
	}
	return out
}

func testCatalog() *core.Catalog {
	return core.NewCatalog([]*core.Item{
		{ID: 1, Name: "Aqua", Gender: "for men", RatingValue: 4.0, MainAccords: []string{"fresh", "AQUATIC", "Green", "Woody"}},
		{ID: 2, Name: "Vanille", Gender: "for women", RatingValue: 4.2, MainAccords: []string{"Vanilla", "Amber"}},
		{ID: 3, Name: "Berga", Gender: "for women and men", RatingValue: 3.8, MainAccords: []string{"Citrus", "Bergamot", "Musk"}},
		{ID: 4, Name: "Oudh", Gender: "for men", RatingValue: 4.6, MainAccords: []string{"Oud", "Leather", "Bergamot"}},
		{ID: 5, Name: "Cheap Fresh", Gender: "for men", RatingValue: 3.1, MainAccords: []string{"Fresh"}},
		{ID: 6, Name: "Green Tea", Gender: "for women", RatingValue: 4.0, MainAccords: []string{"Green"}},
	})
}

func TestScorer_ConcreteBeginnerScenario(t *testing.T) {
	catalog := core.NewCatalog([]*core.Item{
		{ID: 1, Name: "A", RatingValue: 4.5, MainAccords: []string{"Fresh", "Citrus"}},
		{ID: 2, Name: "B", RatingValue: 3.0, MainAccords: []string{"Woody"}},
	})
	s := NewScorer(catalog)

	got := s.ScoreAll(context.Background(), prefsOf(t, map[string]any{
		"experience_level": "Beginner",
		"vibe":             "Fresh and clean",
	}))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Item.ID)
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, core.SourceQuiz, got[0].Source)
}

func TestScorer_Tiers(t *testing.T) {
	s := NewScorer(testCatalog())
	ctx := context.Background()

	tests := []struct {
		name       string
		raw        map[string]any
		wantIDs    []int64
		wantScores []float64
	}{
		{
			name:       "beginner counts overlap case-insensitively",
			raw:        map[string]any{"experience_level": "Beginner", "vibe": "Fresh and clean"},
			wantIDs:    []int64{1, 6},
			wantScores: []float64{3, 1},
		},
		{
			name:       "beginner with gender",
			raw:        map[string]any{"experience_level": "Beginner", "vibe": "Fresh and clean", "gender": "for women"},
			wantIDs:    []int64{6},
			wantScores: []float64{1},
		},
		{
			name:       "intermediate note",
			raw:        map[string]any{"experience_level": "Intermediate", "note": "bergamot"},
			wantIDs:    []int64{3, 4},
			wantScores: []float64{1, 1},
		},
		{
			name:       "advanced top and base",
			raw:        map[string]any{"experience_level": "Advanced", "top_notes": "Bergamot", "base_notes": "Oud"},
			wantIDs:    []int64{4, 3},
			wantScores: []float64{2, 1},
		},
		{
			name:       "advanced base only",
			raw:        map[string]any{"experience_level": "Advanced", "base_notes": "Musk"},
			wantIDs:    []int64{3},
			wantScores: []float64{1},
		},
		{
			name:       "explicit min rating",
			raw:        map[string]any{"experience_level": "Beginner", "vibe": "Fresh and clean", "min_rating": "3.0"},
			wantIDs:    []int64{1, 5, 6},
			wantScores: []float64{3, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreAll(ctx, prefsOf(t, tt.raw))
			assert.Equal(t, tt.wantIDs, candidateIDs(got))
			scores := make([]float64, 0, len(got))
			for _, c := range got {
				scores = append(scores, c.Score)
			}
			assert.Equal(t, tt.wantScores, scores)
		})
	}
}

func TestScorer_Fallback(t *testing.T) {
	s := NewScorer(testCatalog())
	ctx := context.Background()

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "no relevant answers", raw: map[string]any{"experience_level": "Intermediate"}},
		{name: "no match", raw: map[string]any{"experience_level": "Intermediate", "note": "Lavender"}},
		{name: "unknown vibe", raw: map[string]any{"experience_level": "Beginner", "vibe": "Sleepy"}},
		{name: "gender filters everything", raw: map[string]any{"vibe": "Warm and cosy", "gender": "unisex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreAll(ctx, prefsOf(t, tt.raw))
			// 评分降序，同分按 id 升序
			assert.Equal(t, []int64{4, 2, 1, 6, 3}, candidateIDs(got))
			for _, c := range got {
				assert.Equal(t, 0.0, c.Score)
				_, ok := c.Labels["quiz_fallback"]
				assert.True(t, ok)
			}
		})
	}
}

func TestScorer_NilPreferences(t *testing.T) {
	s := NewScorer(testCatalog())
	assert.Nil(t, s.ScoreAll(context.Background(), nil))
}

func TestScorer_Options(t *testing.T) {
	table, err := LoadVibeTable(strings.NewReader("Earthy: [Woody, Oud]\n"))
	require.NoError(t, err)

	expr, err := filter.NewExprFilter(`item.rating_value >= 4.5`)
	require.NoError(t, err)

	s := NewScorer(testCatalog(),
		WithVibeTable(table),
		WithFilters(expr),
		WithFallbackSize(2),
	)
	ctx := context.Background()

	got := s.ScoreAll(ctx, prefsOf(t, map[string]any{"vibe": "earthy"}))
	assert.Equal(t, []int64{4}, candidateIDs(got))

	got = s.ScoreAll(ctx, prefsOf(t, map[string]any{"vibe": "Fresh and clean"}))
	assert.Equal(t, []int64{4, 2}, candidateIDs(got))
}

func TestScorer_DefaultMinRating(t *testing.T) {
	s := NewScorer(testCatalog(), WithDefaultMinRating(4.1))
	got := s.ScoreAll(context.Background(), prefsOf(t, map[string]any{"note": "bergamot", "experience_level": "Intermediate"}))
	assert.Equal(t, []int64{4}, candidateIDs(got))

	// min_rating 为 null 时仍使用配置的下限
	got = s.ScoreAll(context.Background(), prefsOf(t, map[string]any{"note": "bergamot", "experience_level": "Intermediate", "min_rating": nil}))
	assert.Equal(t, []int64{4}, candidateIDs(got))

	got = s.ScoreAll(context.Background(), prefsOf(t, map[string]any{"note": "bergamot", "experience_level": "Intermediate", "min_rating": 3.0}))
	assert.Equal(t, []int64{3, 4}, candidateIDs(got))
}

func TestLoadVibeTable_Errors(t *testing.T) {
	_, err := LoadVibeTable(strings.NewReader("[not, a, map]"))
	assert.Error(t, err)

	_, err = LoadVibeTable(strings.NewReader("{}"))
	assert.True(t, core.IsInvalidInput(err))
}

func TestQuestions(t *testing.T) {
	for _, tier := range []core.Tier{core.TierBeginner, core.TierIntermediate, core.TierAdvanced} {
		qs := Questions(tier)
		assert.Len(t, qs, 5, tier)
	}
	assert.Equal(t, core.KeyVibe, Questions(core.TierBeginner)[0].ID)
	assert.Nil(t, Questions(core.Tier("Expert")))

	qs := Questions(core.TierBeginner)
	qs[0].Options[0] = "changed"
	assert.Equal(t, "Fresh and clean", Questions(core.TierBeginner)[0].Options[0])
}
