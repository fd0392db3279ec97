package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/scentkit/pkg/conv"
)

// Tier 是用户声明的经验等级，决定问卷打分规则。
type Tier string

const (
	TierBeginner     Tier = "Beginner"
	TierIntermediate Tier = "Intermediate"
	TierAdvanced     Tier = "Advanced"
)

// ParseTier 解析经验等级，只接受三个固定值。
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.TrimSpace(s)) {
	case TierBeginner:
		return TierBeginner, nil
	case TierIntermediate:
		return TierIntermediate, nil
	case TierAdvanced:
		return TierAdvanced, nil
	}
	return "", ErrInvalidTier
}

// 偏好中各字段的 key（与问卷问题 id 一致）。
const (
	KeyExperienceLevel = "experience_level"
	KeyGender          = "gender"
	KeyMinRating       = "min_rating"

	KeyVibe      = "vibe"
	KeyOccasion  = "occasion"
	KeySeason    = "season"
	KeyScentType = "scent_type"
	KeyLongevity = "longevity"

	KeyCollection = "collection"
	KeyAppeal     = "appeal"
	KeyNote       = "note"
	KeyStrength   = "strength"
	KeyBrands     = "brands"

	KeyTopNotes  = "top_notes"
	KeyBaseNotes = "base_notes"
	KeyAvoid     = "avoid"
	KeyLayering  = "layering"
	KeyNiche     = "niche"
)

// DefaultMinRating 是未设置 min_rating 时的评分下限。
const DefaultMinRating = 3.5

// TierAnswers 是按经验等级区分的问卷答案（tagged union）。
// 实现：*BeginnerAnswers / *IntermediateAnswers / *AdvancedAnswers。
type TierAnswers interface {
	Tier() Tier
}

type BeginnerAnswers struct {
	Vibe      string
	Occasion  string
	Season    string
	ScentType string
	Longevity string
}

func (*BeginnerAnswers) Tier() Tier { return TierBeginner }

type IntermediateAnswers struct {
	Collection string
	Appeal     string
	Note       string
	Strength   string
	Brands     string
}

func (*IntermediateAnswers) Tier() Tier { return TierIntermediate }

type AdvancedAnswers struct {
	TopNotes  string
	BaseNotes string
	Avoid     string
	Layering  string
	Niche     string
}

func (*AdvancedAnswers) Tier() Tier { return TierAdvanced }

// UserPreferences 是用户的问卷偏好，每个用户至多一条，重新开始问卷时整体覆盖。
type UserPreferences struct {
	UserID    string
	Level     Tier
	Gender    string
	MinRating float64
	Answers   TierAnswers

	// Raw 保留扁平的原始答案，问卷分步提交时在此基础上累积
	Raw       map[string]any
	UpdatedAt time.Time
}

// ParsePreferences 从存储的 JSON blob 解析偏好。
// 解析失败时返回包装了 ErrMalformedPreferences 的错误。
func ParsePreferences(userID string, blob []byte) (*UserPreferences, error) {
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPreferences, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedPreferences)
	}
	return PreferencesFromAnswers(userID, raw)
}

// PreferencesFromAnswers 把扁平答案映射为强类型偏好。
// experience_level 缺失时按 Beginner 处理。
func PreferencesFromAnswers(userID string, raw map[string]any) (*UserPreferences, error) {
	level := TierBeginner
	if v, ok := raw[KeyExperienceLevel]; ok {
		s, _ := conv.ToString(v)
		t, err := ParseTier(s)
		if err != nil {
			return nil, fmt.Errorf("%w: experience_level %v", ErrMalformedPreferences, v)
		}
		level = t
	}

	p := &UserPreferences{
		UserID:    userID,
		Level:     level,
		Gender:    answer(raw, KeyGender),
		MinRating: DefaultMinRating,
		Raw:       raw,
	}

	if v, ok := raw[KeyMinRating]; ok && v != nil {
		f, err := toRating(v)
		if err != nil {
			return nil, fmt.Errorf("%w: min_rating %v", ErrMalformedPreferences, v)
		}
		p.MinRating = f
	}

	switch level {
	case TierBeginner:
		p.Answers = &BeginnerAnswers{
			Vibe:      answer(raw, KeyVibe),
			Occasion:  answer(raw, KeyOccasion),
			Season:    answer(raw, KeySeason),
			ScentType: answer(raw, KeyScentType),
			Longevity: answer(raw, KeyLongevity),
		}
	case TierIntermediate:
		p.Answers = &IntermediateAnswers{
			Collection: answer(raw, KeyCollection),
			Appeal:     answer(raw, KeyAppeal),
			Note:       answer(raw, KeyNote),
			Strength:   answer(raw, KeyStrength),
			Brands:     answer(raw, KeyBrands),
		}
	case TierAdvanced:
		p.Answers = &AdvancedAnswers{
			TopNotes:  answer(raw, KeyTopNotes),
			BaseNotes: answer(raw, KeyBaseNotes),
			Avoid:     answer(raw, KeyAvoid),
			Layering:  answer(raw, KeyLayering),
			Niche:     answer(raw, KeyNiche),
		}
	}
	return p, nil
}

// EncodePreferences 将扁平答案序列化为存储用的 JSON blob。
func EncodePreferences(raw map[string]any) ([]byte, error) {
	return json.Marshal(raw)
}

func answer(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := conv.ToString(v); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func toRating(v any) (float64, error) {
	if f, ok := conv.ToFloat64(v); ok {
		return f, nil
	}
	if s, ok := conv.ToString(v); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
