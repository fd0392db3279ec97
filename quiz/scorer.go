package quiz

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/filter"
	"github.com/rushteam/scentkit/pkg/utils"
)

// DefaultFallbackSize 是偏好没有命中任何物品时兜底返回的高分物品数。
const DefaultFallbackSize = 5

// Scorer 根据用户问卷偏好给目录中的物品打分（按经验等级区分规则）。
//
// 流程：
//  1. 硬过滤：gender（设置时）、min_rating、可选的 CEL 表达式
//  2. 按等级打分，0 分的物品剔除
//  3. 结果为空或没有相关答案时，返回评分最高的 FallbackSize 个物品，分数为 0
type Scorer struct {
	catalog *core.Catalog
	vibes   VibeTable
	filters []filter.Filter

	fallbackSize     int
	defaultMinRating float64
}

type ScorerOption func(*Scorer)

// WithVibeTable 替换内置 vibe 映射。
func WithVibeTable(t VibeTable) ScorerOption {
	return func(s *Scorer) {
		if len(t) > 0 {
			s.vibes = t
		}
	}
}

// WithFilters 追加额外的硬过滤（例如运营配置的 CEL 表达式）。
func WithFilters(filters ...filter.Filter) ScorerOption {
	return func(s *Scorer) {
		s.filters = append(s.filters, filters...)
	}
}

// WithFallbackSize 设置兜底物品数。
func WithFallbackSize(n int) ScorerOption {
	return func(s *Scorer) {
		if n > 0 {
			s.fallbackSize = n
		}
	}
}

// WithDefaultMinRating 设置偏好未包含 min_rating 时使用的评分下限。
func WithDefaultMinRating(v float64) ScorerOption {
	return func(s *Scorer) {
		s.defaultMinRating = v
	}
}

func NewScorer(catalog *core.Catalog, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		catalog:          catalog,
		vibes:            DefaultVibeTable(),
		fallbackSize:     DefaultFallbackSize,
		defaultMinRating: core.DefaultMinRating,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreAll 返回 source=quiz 的候选，按分数降序，同分保持目录顺序。
// prefs 为 nil 表示用户没有偏好记录，返回 nil。
func (s *Scorer) ScoreAll(ctx context.Context, prefs *core.UserPreferences) []*core.Candidate {
	if prefs == nil {
		return nil
	}

	hard := append(filter.ForPreferences(prefs, s.defaultMinRating), s.filters...)
	pool := filter.Apply(ctx, prefs, s.catalog.Items(), hard...)

	rule := s.rule(prefs)
	var out []*core.Candidate
	if rule != nil {
		for _, it := range pool {
			score := rule(it)
			if score <= 0 {
				continue
			}
			c := core.NewCandidate(it, score, core.SourceQuiz)
			c.PutLabel("quiz_score", utils.Label{
				Value:  strconv.FormatFloat(score, 'f', -1, 64),
				Source: string(prefs.Level),
			})
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		return s.fallback()
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// rule 按等级选择打分函数；没有任何相关答案时返回 nil
func (s *Scorer) rule(prefs *core.UserPreferences) func(*core.Item) float64 {
	switch a := prefs.Answers.(type) {
	case *core.BeginnerAnswers:
		if a.Vibe == "" {
			return nil
		}
		desired := s.vibes.Accords(a.Vibe)
		return func(it *core.Item) float64 {
			var n float64
			for _, accord := range it.MainAccords {
				if _, ok := desired[core.NormalizeName(accord)]; ok {
					n++
				}
			}
			return n
		}

	case *core.IntermediateAnswers:
		if a.Note == "" {
			return nil
		}
		return func(it *core.Item) float64 {
			return indicator(it.HasAccord(a.Note))
		}

	case *core.AdvancedAnswers:
		if a.TopNotes == "" && a.BaseNotes == "" {
			return nil
		}
		return func(it *core.Item) float64 {
			return indicator(a.TopNotes != "" && it.HasAccord(a.TopNotes)) +
				indicator(a.BaseNotes != "" && it.HasAccord(a.BaseNotes))
		}
	}
	return nil
}

// fallback 取全目录评分最高的物品，不受硬过滤影响
func (s *Scorer) fallback() []*core.Candidate {
	top := s.catalog.TopRated(s.fallbackSize)
	out := make([]*core.Candidate, 0, len(top))
	for _, it := range top {
		c := core.NewCandidate(it, 0, core.SourceQuiz)
		c.PutLabel("quiz_fallback", utils.Label{Value: "top_rated", Source: "quiz"})
		out = append(out, c)
	}
	return out
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
