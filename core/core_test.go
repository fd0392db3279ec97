package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccords(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`["Fresh", "Citrus"]`, []string{"Fresh", "Citrus"}},
		{`['Woody', 'Amber', 'woody']`, []string{"Woody", "Amber"}},
		{`Fresh, Citrus ,, Green`, []string{"Fresh", "Citrus", "Green"}},
		{`[]`, []string{}},
		{`   `, []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAccords(tt.raw), tt.raw)
	}
}

func TestItem_HasAccord(t *testing.T) {
	it := &Item{MainAccords: []string{"Fresh", "Citrus"}}
	assert.True(t, it.HasAccord(" fresh"))
	assert.True(t, it.HasAccord("CITRUS"))
	assert.False(t, it.HasAccord("woody"))
	assert.False(t, it.HasAccord(""))
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]*Item{
		{ID: 3, RatingValue: 4.0},
		{ID: 1, RatingValue: 4.5},
		nil,
		{ID: 2, RatingValue: 4.0},
		{ID: 1, RatingValue: 1.0},
	})
	require.Equal(t, 3, c.Len())

	it, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 4.5, it.RatingValue)
	assert.Equal(t, []string{}, it.MainAccords)

	pos, ok := c.Position(2)
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Nil(t, c.At(9))

	ids := func(items []*Item) []int64 {
		out := make([]int64, 0, len(items))
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}
	assert.Equal(t, []int64{1, 2, 3}, ids(c.TopRated(10)))
	assert.Equal(t, []int64{1}, ids(c.TopRated(1)))
	assert.Empty(t, c.TopRated(0))

	var empty *Catalog
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.TopRated(5))
}

func TestPreferencesFromAnswers(t *testing.T) {
	p, err := PreferencesFromAnswers("u1", map[string]any{
		"experience_level": "Advanced",
		"gender":           " for men ",
		"min_rating":       "4.2",
		"top_notes":        "Bergamot",
	})
	require.NoError(t, err)
	assert.Equal(t, TierAdvanced, p.Level)
	assert.Equal(t, "for men", p.Gender)
	assert.Equal(t, 4.2, p.MinRating)
	adv, ok := p.Answers.(*AdvancedAnswers)
	require.True(t, ok)
	assert.Equal(t, "Bergamot", adv.TopNotes)
	assert.Empty(t, adv.BaseNotes)

	p, err = PreferencesFromAnswers("u1", map[string]any{"vibe": "Warm and cosy"})
	require.NoError(t, err)
	assert.Equal(t, TierBeginner, p.Level)
	assert.Equal(t, DefaultMinRating, p.MinRating)
	assert.Equal(t, "Warm and cosy", p.Answers.(*BeginnerAnswers).Vibe)

	_, err = PreferencesFromAnswers("u1", map[string]any{"experience_level": "Guru"})
	assert.ErrorIs(t, err, ErrMalformedPreferences)

	_, err = PreferencesFromAnswers("u1", map[string]any{"min_rating": []any{1}})
	assert.ErrorIs(t, err, ErrMalformedPreferences)
}

func TestParsePreferences(t *testing.T) {
	blob, err := EncodePreferences(map[string]any{"experience_level": "Intermediate", "note": "Vanilla", "min_rating": 4})
	require.NoError(t, err)

	p, err := ParsePreferences("u1", blob)
	require.NoError(t, err)
	assert.Equal(t, TierIntermediate, p.Level)
	assert.Equal(t, 4.0, p.MinRating)
	assert.Equal(t, "Vanilla", p.Answers.(*IntermediateAnswers).Note)

	for _, bad := range []string{`{not json`, `null`} {
		_, err := ParsePreferences("u1", []byte(bad))
		assert.ErrorIs(t, err, ErrMalformedPreferences, bad)
		assert.True(t, IsInvalidInput(err))
	}
}

func TestDomainError(t *testing.T) {
	wrapped := fmt.Errorf("similar: %w", ErrItemNotFound)
	assert.ErrorIs(t, wrapped, ErrItemNotFound)
	assert.False(t, errors.Is(wrapped, ErrFavoriteNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsInvalidInput(wrapped))
	assert.Equal(t, ModuleIndex, GetDomainError(wrapped).Module)

	assert.False(t, IsDomainError(errors.New("plain")))
	assert.Nil(t, GetDomainError(nil))
}

func TestRankConfig(t *testing.T) {
	cfg := RankConfig{ContentWeight: 0.9}.WithDefaults()
	assert.Equal(t, 0.9, cfg.ContentWeight)
	assert.Equal(t, 0.7, cfg.FavoriteWeight)
	assert.Equal(t, 20, cfg.MaxPerPage)
	assert.InDelta(t, 0.9, cfg.QuizWeight(2), 1e-9)
	assert.InDelta(t, 0.5, cfg.QuizWeight(0), 1e-9)
}

func TestSourcePrecedence(t *testing.T) {
	assert.Less(t, SourceContent.Precedence(), SourceFavorite.Precedence())
	assert.Less(t, SourceFavorite.Precedence(), SourceQuiz.Precedence())
	assert.Less(t, SourceQuiz.Precedence(), SourceFallback.Precedence())
}
