package quiz

import "github.com/rushteam/scentkit/core"

// Question 是问卷中的一道题，ID 即偏好中的答案 key。
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

var questionBank = map[core.Tier][]Question{
	core.TierBeginner: {
		{ID: core.KeyVibe, Question: "What kind of vibe are you going for?", Options: []string{"Fresh and clean", "Warm and cosy", "Bold and attention-grabbing", "Light and subtle"}},
		{ID: core.KeyOccasion, Question: "Where will you wear this fragrance?", Options: []string{"Daily wear", "Special occasions", "Outdoors", "At home"}},
		{ID: core.KeySeason, Question: "Preferred season for your scent?", Options: []string{"Spring", "Summer", "Autumn", "Winter"}},
		{ID: core.KeyScentType, Question: "Sweet or fresh scents?", Options: []string{"Sweet", "Fresh", "Not sure"}},
		{ID: core.KeyLongevity, Question: "How long should it last?", Options: []string{"Few hours", "All day", "Doesn't matter"}},
	},
	core.TierIntermediate: {
		{ID: core.KeyCollection, Question: "Describe your current collection", Options: []string{"Few designer scents", "Mostly fresh/clean", "Some warm/spicy", "Bit of everything"}},
		{ID: core.KeyAppeal, Question: "Most appealing scent type?", Options: []string{"Fruity/floral", "Spicy/woody", "Aquatic/fresh", "Sweet/gourmand"}},
		{ID: core.KeyNote, Question: "Favorite note you know?", Options: []string{"Vanilla", "Bergamot", "Leather", "Lavender"}},
		{ID: core.KeyStrength, Question: "How strong?", Options: []string{"Subtle", "Noticeable", "Strong"}},
		{ID: core.KeyBrands, Question: "Brands you've tried?", Options: []string{"Dior/Chanel/Versace", "Maison Margiela/Le Labo", "Mont Blanc/YSL/Paco Rabanne", "Still figuring out"}},
	},
	core.TierAdvanced: {
		{ID: core.KeyTopNotes, Question: "Favorite top notes?", Options: []string{"Bergamot", "Cardamom", "Pink Pepper", "Grapefruit"}},
		{ID: core.KeyBaseNotes, Question: "Favorite base notes?", Options: []string{"Amber", "Musk", "Oud", "Vetiver"}},
		{ID: core.KeyAvoid, Question: "What makes you skip a fragrance?", Options: []string{"Too sweet", "Poor projection", "Too powdery/soapy"}},
		{ID: core.KeyLayering, Question: "Do you layer fragrances?", Options: []string{"Yes, I experiment", "Sometimes", "No, I prefer one"}},
		{ID: core.KeyNiche, Question: "Your stance on niche brands?", Options: []string{"Obsessed", "Interested but exploring", "Not interested"}},
	},
}

// Questions 返回某个等级的题目副本，未知等级返回 nil。
func Questions(tier core.Tier) []Question {
	qs, ok := questionBank[tier]
	if !ok {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
