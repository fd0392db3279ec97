package core

// RankConfig 是混合排序的参数，缺省值见 DefaultRankConfig。
// 权重来自线上观测到的行为，作为默认值保留，可通过配置覆盖。
type RankConfig struct {
	ContentWeight  float64 `yaml:"content_weight"`
	FavoriteWeight float64 `yaml:"favorite_weight"`
	QuizBaseWeight float64 `yaml:"quiz_base_weight"`
	QuizStepWeight float64 `yaml:"quiz_step_weight"` // 每命中一分增加的权重
	FallbackWeight float64 `yaml:"fallback_weight"`

	ContentTopN    int `yaml:"content_top_n"`    // 标题相似召回个数
	FavoriteLimit  int `yaml:"favorite_limit"`   // 参与召回的收藏数上限
	FavoriteTopN   int `yaml:"favorite_top_n"`   // 每个收藏的相似召回个数
	FallbackTopN   int `yaml:"fallback_top_n"`   // 兜底热门个数
	SimilarTopN    int `yaml:"similar_top_n"`    // 纯相似接口返回个数
	DefaultPerPage int `yaml:"default_per_page"` // 未指定 per_page 时的分页大小
	MaxPerPage     int `yaml:"max_per_page"`
}

func DefaultRankConfig() RankConfig {
	return RankConfig{
		ContentWeight:  0.8,
		FavoriteWeight: 0.7,
		QuizBaseWeight: 0.5,
		QuizStepWeight: 0.2,
		FallbackWeight: 0.3,

		ContentTopN:    10,
		FavoriteLimit:  3,
		FavoriteTopN:   3,
		FallbackTopN:   20,
		SimilarTopN:    5,
		DefaultPerPage: 5,
		MaxPerPage:     20,
	}
}

// QuizWeight 将问卷分数映射为排序权重：base + step × score。
func (c RankConfig) QuizWeight(score float64) float64 {
	return c.QuizBaseWeight + c.QuizStepWeight*score
}

// WithDefaults 用缺省值补齐未设置（零值）的字段。
func (c RankConfig) WithDefaults() RankConfig {
	d := DefaultRankConfig()
	if c.ContentWeight == 0 {
		c.ContentWeight = d.ContentWeight
	}
	if c.FavoriteWeight == 0 {
		c.FavoriteWeight = d.FavoriteWeight
	}
	if c.QuizBaseWeight == 0 {
		c.QuizBaseWeight = d.QuizBaseWeight
	}
	if c.QuizStepWeight == 0 {
		c.QuizStepWeight = d.QuizStepWeight
	}
	if c.FallbackWeight == 0 {
		c.FallbackWeight = d.FallbackWeight
	}
	if c.ContentTopN <= 0 {
		c.ContentTopN = d.ContentTopN
	}
	if c.FavoriteLimit <= 0 {
		c.FavoriteLimit = d.FavoriteLimit
	}
	if c.FavoriteTopN <= 0 {
		c.FavoriteTopN = d.FavoriteTopN
	}
	if c.FallbackTopN <= 0 {
		c.FallbackTopN = d.FallbackTopN
	}
	if c.SimilarTopN <= 0 {
		c.SimilarTopN = d.SimilarTopN
	}
	if c.DefaultPerPage <= 0 {
		c.DefaultPerPage = d.DefaultPerPage
	}
	if c.MaxPerPage <= 0 {
		c.MaxPerPage = d.MaxPerPage
	}
	return c
}
