package core

import "github.com/rushteam/scentkit/pkg/utils"

// Item 是目录中的一条香水记录，启动时加载一次，进程内只读共享。
// ID 同时是相似度矩阵的行/列定位依据（见 index 包）。
type Item struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Gender      string   `json:"gender"`
	RatingValue float64  `json:"rating_value"`
	RatingCount int      `json:"rating_count"`
	MainAccords []string `json:"main_accords"`
	Perfumers   []string `json:"perfumers"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
}

// HasAccord 判断物品是否带有某个 accord（大小写不敏感）。
func (it *Item) HasAccord(accord string) bool {
	want := NormalizeName(accord)
	if want == "" {
		return false
	}
	for _, a := range it.MainAccords {
		if NormalizeName(a) == want {
			return true
		}
	}
	return false
}

// Source 标记候选来自哪一路信号。
type Source string

const (
	SourceContent  Source = "content"
	SourceFavorite Source = "favorite"
	SourceQuiz     Source = "quiz"
	SourceFallback Source = "fallback"
)

// Precedence 返回来源的合并优先级，值越小越优先。
// 权重相同的重复物品保留优先级更高的来源。
func (s Source) Precedence() int {
	switch s {
	case SourceContent:
		return 0
	case SourceFavorite:
		return 1
	case SourceQuiz:
		return 2
	case SourceFallback:
		return 3
	default:
		return 99
	}
}

// Candidate 是推荐链路中的统一承载结构：物品、分数、来源、标签。
// 只在一次排序调用内存活，不会被持久化。
type Candidate struct {
	Item   *Item
	Score  float64
	Source Source
	Labels map[string]utils.Label
}

func NewCandidate(item *Item, score float64, source Source) *Candidate {
	return &Candidate{
		Item:   item,
		Score:  score,
		Source: source,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// RankRequest 是一次混合推荐请求。
type RankRequest struct {
	UserID  string
	Title   string
	Page    int
	PerPage int
}

// RankedPage 是排序后分页的输出。
type RankedPage struct {
	Items   []*Item
	Total   int // 分页前的候选总数
	Page    int
	PerPage int

	// Sources 统计本页物品的来源分布，仅用于观测
	Sources map[Source]int
}
